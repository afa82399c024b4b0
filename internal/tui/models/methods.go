// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stryk91/phishri-installer/internal/domain"
	"github.com/stryk91/phishri-installer/internal/tui/styles"
)

var methodHints = map[domain.InstallMethod]string{ //nolint:gochecknoglobals
	domain.MethodAuto:   "Let the installer pick the best option",
	domain.MethodMcpb:   "Claude Desktop bundle (.mcpb)",
	domain.MethodDxt:    "Desktop extension package (.dxt)",
	domain.MethodManual: "Edit claude_desktop_config.json directly",
}

// MethodPicker selects the install method.
type MethodPicker struct {
	styles  *styles.Styles
	methods []domain.InstallMethod
	cursor  int
}

// NewMethodPicker creates a picker with MethodAuto highlighted.
func NewMethodPicker(styleConfig *styles.Styles) *MethodPicker {
	return &MethodPicker{styles: styleConfig, methods: domain.InstallMethods()}
}

// Init implements tea.Model.
func (m *MethodPicker) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m *MethodPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch s := key.String(); s {
	case KeyUp, "k":
		m.cursor = (m.cursor - 1 + len(m.methods)) % len(m.methods)
	case KeyDown, "j", "tab":
		m.cursor = (m.cursor + 1) % len(m.methods)
	case KeyEnter, " ":
		return m, emit(MethodChosenMsg{Method: m.methods[m.cursor]})
	case KeyEsc, "backspace":
		return m, emit(BackMsg{})
	default:
		var n int
		if _, err := fmt.Sscanf(s, "%d", &n); err == nil && n >= 1 && n <= len(m.methods) {
			m.cursor = n - 1
			return m, emit(MethodChosenMsg{Method: m.methods[m.cursor]})
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m *MethodPicker) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Choose an install method"))
	b.WriteString("\n\n")

	for i, method := range m.methods {
		label := fmt.Sprintf("%d. %-7s", i+1, method)
		if i == m.cursor {
			b.WriteString(m.styles.Selected.Render("▸ " + label))
		} else {
			b.WriteString(m.styles.Unselected.Render("  " + label))
		}

		b.WriteString("  ")
		b.WriteString(m.styles.MutedText.Render(methodHints[method]))
		b.WriteString("\n")
	}

	return b.String()
}
