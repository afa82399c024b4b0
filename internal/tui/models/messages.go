// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

// Package models implements the screens of the installer TUI.
package models

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stryk91/phishri-installer/internal/domain"
)

// Key constants for navigation.
const (
	KeyEnter = "enter"
	KeyEsc   = "esc"
	KeyUp    = "up"
	KeyDown  = "down"
)

// MenuAction is a main menu entry.
type MenuAction int

// Main menu entries.
const (
	ActionInstall MenuAction = iota
	ActionUninstall
	ActionRefresh
	ActionQuit
)

// MenuSelectedMsg is sent when a menu entry is chosen.
type MenuSelectedMsg struct {
	Action MenuAction
}

// MethodChosenMsg is sent when an install method is picked.
type MethodChosenMsg struct {
	Method domain.InstallMethod
}

// ConfirmMsg carries the answer to the uninstall question.
type ConfirmMsg struct {
	Confirmed bool
}

// BackMsg returns to the main menu.
type BackMsg struct{}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
