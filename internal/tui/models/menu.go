// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stryk91/phishri-installer/internal/tui/styles"
)

type menuItem struct {
	action   MenuAction
	shortcut string
	title    string
	desc     string
}

// Menu is the main menu.
type Menu struct {
	styles *styles.Styles
	items  []menuItem
	cursor int
}

// NewMenu creates the main menu.
func NewMenu(styleConfig *styles.Styles) *Menu {
	return &Menu{
		styles: styleConfig,
		items: []menuItem{
			{ActionInstall, "i", "Install PhiSHRI", "Download and run the installer"},
			{ActionUninstall, "u", "Uninstall PhiSHRI", "Remove the binary, knowledge base and Claude entry"},
			{ActionRefresh, "r", "Refresh status", "Check the installation again"},
			{ActionQuit, "q", "Quit", ""},
		},
	}
}

// Init implements tea.Model.
func (m *Menu) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case KeyUp, "k":
		m.cursor = (m.cursor - 1 + len(m.items)) % len(m.items)
	case KeyDown, "j", "tab":
		m.cursor = (m.cursor + 1) % len(m.items)
	case KeyEnter, " ":
		return m, emit(MenuSelectedMsg{Action: m.items[m.cursor].action})
	default:
		for i, item := range m.items {
			if key.String() == item.shortcut {
				m.cursor = i
				return m, emit(MenuSelectedMsg{Action: item.action})
			}
		}
	}

	return m, nil
}

// Selected returns the highlighted action.
func (m *Menu) Selected() MenuAction {
	return m.items[m.cursor].action
}

// View implements tea.Model.
func (m *Menu) View() string {
	var b strings.Builder

	for i, item := range m.items {
		label := item.title
		if i == m.cursor {
			b.WriteString(m.styles.Selected.Render("▸ " + label))
		} else {
			b.WriteString(m.styles.Unselected.Render("  " + label))
		}

		if item.desc != "" {
			b.WriteString("  ")
			b.WriteString(m.styles.MutedText.Render(item.desc))
		}

		b.WriteString("\n")
	}

	return b.String()
}
