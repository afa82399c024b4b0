// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stryk91/phishri-installer/internal/tui/styles"
)

// Confirm asks a yes/no question. No is the default answer.
type Confirm struct {
	styles   *styles.Styles
	question string
	detail   string
	yes      bool
}

// NewConfirm creates a confirmation dialog.
func NewConfirm(styleConfig *styles.Styles, question, detail string) *Confirm {
	return &Confirm{styles: styleConfig, question: question, detail: detail}
}

// Init implements tea.Model.
func (m *Confirm) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m *Confirm) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "left", "right", "h", "l", "tab":
		m.yes = !m.yes
	case "y", "Y":
		return m, emit(ConfirmMsg{Confirmed: true})
	case "n", "N", KeyEsc:
		return m, emit(ConfirmMsg{Confirmed: false})
	case KeyEnter, " ":
		return m, emit(ConfirmMsg{Confirmed: m.yes})
	}

	return m, nil
}

// View implements tea.Model.
func (m *Confirm) View() string {
	yes, no := m.styles.Unselected, m.styles.Selected
	if m.yes {
		yes, no = m.styles.Selected, m.styles.Unselected
	}

	var b strings.Builder

	b.WriteString(m.styles.WarningText.Bold(true).Render(m.question))
	b.WriteString("\n")

	if m.detail != "" {
		b.WriteString(m.styles.MutedText.Render(m.detail))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, yes.Render("Uninstall"), "  ", no.Render("Keep")))
	b.WriteString("\n")

	return m.styles.Card.Render(b.String())
}
