// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

// Package styles defines consistent visual styling for TUI components.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/stryk91/phishri-installer/internal/domain"
)

// Styles contains all the styles used in the TUI.
type Styles struct {
	// Color palette
	Primary   lipgloss.TerminalColor
	Secondary lipgloss.TerminalColor
	Success   lipgloss.TerminalColor
	Warning   lipgloss.TerminalColor
	Error     lipgloss.TerminalColor
	Info      lipgloss.TerminalColor
	Muted     lipgloss.TerminalColor

	// Component styles
	Header     lipgloss.Style
	Footer     lipgloss.Style
	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Card       lipgloss.Style
	Selected   lipgloss.Style
	Unselected lipgloss.Style
	Border     lipgloss.Style

	// Text styles (cached for performance)
	MutedText   lipgloss.Style
	PrimaryText lipgloss.Style
	SuccessText lipgloss.Style
	ErrorText   lipgloss.Style
	WarningText lipgloss.Style
	InfoText    lipgloss.Style

	Container lipgloss.Style
}

type palette struct {
	primary, secondary, success, warning, errorColor, info, muted lipgloss.TerminalColor
	background, foreground                                          lipgloss.TerminalColor
}

// New creates a Styles instance with the Tokyo Night palette.
func New() *Styles {
	return build(palette{
		primary:    lipgloss.Color("#7aa2f7"), // Blue
		secondary:  lipgloss.Color("#bb9af7"), // Purple
		success:    lipgloss.Color("#9ece6a"), // Green
		warning:    lipgloss.Color("#e0af68"), // Yellow
		errorColor: lipgloss.Color("#f7768e"), // Red
		info:       lipgloss.Color("#7dcfff"), // Cyan
		muted:      lipgloss.Color("#565f89"), // Gray
		background: lipgloss.Color("#1a1b26"),
		foreground: lipgloss.Color("#c0caf5"),
	})
}

// NewMonochrome creates a Styles instance without colors, for --color never.
func NewMonochrome() *Styles {
	none := lipgloss.NoColor{}

	s := build(palette{
		primary: none, secondary: none, success: none, warning: none,
		errorColor: none, info: none, muted: none, background: none, foreground: none,
	})
	s.Selected = s.Selected.Reverse(true)

	return s
}

func build(p palette) *Styles {
	return &Styles{
		Primary:   p.primary,
		Secondary: p.secondary,
		Success:   p.success,
		Warning:   p.warning,
		Error:     p.errorColor,
		Info:      p.info,
		Muted:     p.muted,

		Header: lipgloss.NewStyle().
			Background(p.primary).
			Foreground(p.background).
			Bold(true).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(p.muted).
			MarginTop(1),

		Title: lipgloss.NewStyle().
			Foreground(p.primary).
			Bold(true),

		Subtitle: lipgloss.NewStyle().
			Foreground(p.secondary).
			Italic(true),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.muted).
			Padding(0, 1),

		Selected: lipgloss.NewStyle().
			Background(p.primary).
			Foreground(p.background).
			Padding(0, 1),

		Unselected: lipgloss.NewStyle().
			Foreground(p.foreground).
			Padding(0, 1),

		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.primary),

		MutedText:   lipgloss.NewStyle().Foreground(p.muted),
		PrimaryText: lipgloss.NewStyle().Foreground(p.primary),
		SuccessText: lipgloss.NewStyle().Foreground(p.success),
		ErrorText:   lipgloss.NewStyle().Foreground(p.errorColor),
		WarningText: lipgloss.NewStyle().Foreground(p.warning),
		InfoText:    lipgloss.NewStyle().Foreground(p.info),

		Container: lipgloss.NewStyle().
			Padding(1, 2),
	}
}

// Logo returns the styled title bar.
func (s *Styles) Logo() string {
	return s.Header.Render("Φ PhiSHRI Installer")
}

// SeverityText returns the text style for a progress severity.
func (s *Styles) SeverityText(severity domain.Severity) lipgloss.Style {
	switch severity {
	case domain.SeverityOK:
		return s.SuccessText
	case domain.SeverityWarn:
		return s.WarningText
	case domain.SeverityError:
		return s.ErrorText
	case domain.SeverityInfo:
		return s.InfoText
	default:
		return s.Unselected
	}
}

// SeverityIcon returns the unstyled marker for a progress severity.
func SeverityIcon(severity domain.Severity) string {
	switch severity {
	case domain.SeverityOK:
		return "✓"
	case domain.SeverityWarn:
		return "!"
	case domain.SeverityError:
		return "✗"
	case domain.SeverityInfo:
		return "•"
	default:
		return "•"
	}
}

// Keybinding returns styled keybinding text.
func (s *Styles) Keybinding(key, desc string) string {
	keyStyle := lipgloss.NewStyle().
		Foreground(s.Primary).
		Bold(true)

	return keyStyle.Render("["+key+"]") + " " + s.MutedText.Render(desc)
}
