// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/stryk91/phishri-installer/internal/domain"
	"github.com/stryk91/phishri-installer/internal/tui/styles"
)

// UI layout constants.
const (
	defaultWidth     = 80
	minContentWidth  = 20
	maxProgressWidth = 100
	logHeight        = 10
	maxLogLines      = 500
	borderPadding    = 4
)

type logLine struct {
	severity domain.Severity
	text     string
}

// Progress shows one run: step label, progress bar and the worker's lines.
type Progress struct {
	styles   *styles.Styles
	op       domain.Operation
	bar      progress.Model
	spinner  spinner.Model
	viewport viewport.Model
	lines    []logLine
	width    int

	step    string
	percent int
	done    bool
	outcome domain.RunOutcome
}

// NewProgress creates the progress screen for op.
func NewProgress(styleConfig *styles.Styles, op domain.Operation, width int) *Progress {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = styleConfig.PrimaryText

	m := &Progress{
		styles:   styleConfig,
		op:       op,
		bar:      progress.New(progress.WithDefaultGradient()),
		spinner:  spin,
		viewport: viewport.New(defaultWidth, logHeight),
		step:     domain.StepStarting,
	}
	m.SetWidth(width)

	return m
}

// Init implements tea.Model.
func (m *Progress) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m *Progress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}

		var cmd tea.Cmd

		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case tea.WindowSizeMsg:
		m.SetWidth(msg.Width)
	case tea.KeyMsg:
		var cmd tea.Cmd

		m.viewport, cmd = m.viewport.Update(msg)

		return m, cmd
	}

	return m, nil
}

// SetWidth resizes the bar and the log view.
func (m *Progress) SetWidth(width int) {
	if width <= 0 {
		width = defaultWidth
	}

	m.width = max(width-borderPadding, minContentWidth)
	m.bar.Width = min(m.width, maxProgressWidth)
	m.viewport.Width = m.width
	m.refreshLog()
}

// Apply records one progress event. Percent never decreases, and once
// Finish has run only the log line is kept.
func (m *Progress) Apply(event domain.ProgressEvent) {
	if !m.done {
		m.step = event.Step
		m.percent = max(m.percent, event.Percent)
	}

	m.lines = append(m.lines, logLine{severity: event.Severity, text: event.Message})
	if len(m.lines) > maxLogLines {
		m.lines = m.lines[len(m.lines)-maxLogLines:]
	}

	m.refreshLog()
}

// Finish records the run's outcome. Runs that failed to start never emit a
// terminal event, so the step is set here as well.
func (m *Progress) Finish(outcome domain.RunOutcome) {
	m.done = true
	m.outcome = outcome
	m.percent = domain.PercentComplete

	if outcome.Success {
		m.step = domain.StepComplete
		return
	}

	m.step = domain.StepFailed
}

// Done reports whether the run has returned.
func (m *Progress) Done() bool { return m.done }

// Percent returns the last reported percent.
func (m *Progress) Percent() int { return m.percent }

// Step returns the current step label.
func (m *Progress) Step() string { return m.step }

// Lines returns the log lines as displayed, without styling.
func (m *Progress) Lines() []string {
	out := make([]string, len(m.lines))
	for i, line := range m.lines {
		out[i] = m.format(line)
	}

	return out
}

func (m *Progress) format(line logLine) string {
	text := styles.SeverityIcon(line.severity) + " " + line.text

	return runewidth.Truncate(text, m.width, "…")
}

func (m *Progress) refreshLog() {
	rendered := make([]string, len(m.lines))
	for i, line := range m.lines {
		rendered[i] = m.styles.SeverityText(line.severity).Render(m.format(line))
	}

	m.viewport.SetContent(strings.Join(rendered, "\n"))
	m.viewport.GotoBottom()
}

func (m *Progress) title() string {
	switch {
	case !m.done && m.op == domain.OperationUninstall:
		return "Removing PhiSHRI"
	case !m.done:
		return "Installing PhiSHRI"
	case m.outcome.Success:
		return m.outcome.Message
	case m.op == domain.OperationUninstall:
		return "Uninstall failed"
	default:
		return "Installation failed"
	}
}

// View implements tea.Model.
func (m *Progress) View() string {
	var b strings.Builder

	switch {
	case !m.done:
		b.WriteString(m.spinner.View() + " " + m.styles.Title.Render(m.title()))
	case m.outcome.Success:
		b.WriteString(m.styles.SuccessText.Bold(true).Render("✓ " + m.title()))
	default:
		b.WriteString(m.styles.ErrorText.Bold(true).Render("✗ " + m.title()))
	}

	b.WriteString("\n\n")
	b.WriteString(m.styles.Subtitle.Render(m.step))
	b.WriteString("\n")
	b.WriteString(m.bar.ViewAs(float64(m.percent) / float64(domain.PercentComplete)))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Card.Render(m.viewport.View()))

	if m.done && !m.outcome.Success && m.outcome.Err != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.ErrorText.Render(runewidth.Truncate(m.outcome.Reason(), m.width, "…")))
	}

	return b.String()
}
