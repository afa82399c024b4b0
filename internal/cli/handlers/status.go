// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/stryk91/phishri-installer/internal/domain"
)

// StatusHandler reports the installed state. It never takes the run lock.
type StatusHandler struct {
	*BaseHandler

	installer   Installer
	shell       string
	shellExists func(string) bool
	now         func() time.Time
}

// NewStatusHandler creates a status handler. shellExists reports whether
// the worker shell can be found.
func NewStatusHandler(base *BaseHandler, installer Installer, shell string, shellExists func(string) bool) *StatusHandler {
	return &StatusHandler{
		BaseHandler: base,
		installer:   installer,
		shell:       shell,
		shellExists: shellExists,
		now:         time.Now,
	}
}

// Collect inspects the installation.
func (h *StatusHandler) Collect() *domain.StatusResult {
	return &domain.StatusResult{
		InstallationState:    h.installer.RequestStatus(),
		WorkerShell:          h.shell,
		WorkerShellAvailable: h.shellExists(h.shell),
		Timestamp:            h.now(),
	}
}

// Status inspects and renders the result for the output mode.
func (h *StatusHandler) Status(_ context.Context) error {
	result := h.Collect()

	var err error

	switch {
	case h.JSON:
		err = h.Output.Success("", result)
	case h.Plain:
		h.renderPlain(result)
	case h.Quiet:
	case h.Console.Interactive():
		err = h.renderMarkdown(result)
	default:
		err = h.Output.Table([]string{"FIELD", "VALUE"}, statusRows(result))
	}

	if err != nil {
		return domain.NewExitError(domain.ExitGeneralError, "✗ Failed to render status", err)
	}

	return nil
}

func (h *StatusHandler) renderPlain(result *domain.StatusResult) {
	h.Console.PlainKeyValue("installed", strconv.FormatBool(result.Installed))
	h.Console.PlainKeyValue("binary", strconv.FormatBool(result.BinaryExists))
	h.Console.PlainKeyValue("knowledge", strconv.FormatBool(result.KnowledgeExists))
	h.Console.PlainKeyValue("doors", strconv.Itoa(result.DoorCount))
	h.Console.PlainKeyValue("root", result.Paths.Root)
	h.Console.PlainKeyValue("shell", result.WorkerShell)
	h.Console.PlainKeyValue("shell_available", strconv.FormatBool(result.WorkerShellAvailable))
}

func (h *StatusHandler) renderMarkdown(result *domain.StatusResult) error {
	style := glamour.WithAutoStyle()
	if h.NoColor {
		style = glamour.WithStandardStyle("notty")
	}

	renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(80))
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	rendered, err := renderer.Render(StatusMarkdown(result))
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}

	_, _ = fmt.Fprint(h.Console.Out, rendered)

	return nil
}

// StatusMarkdown renders the status report as markdown.
func StatusMarkdown(result *domain.StatusResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", result.Summary())
	b.WriteString("| Check | Result |\n|---|---|\n")

	for _, row := range statusRows(result) {
		fmt.Fprintf(&b, "| %s | %s |\n", row[0], "`"+row[1]+"`")
	}

	if !result.Installed {
		b.WriteString("\nRun `phishri-installer install` to install PhiSHRI.\n")
	}

	if !result.WorkerShellAvailable {
		fmt.Fprintf(&b, "\n> Worker shell `%s` was not found on PATH.\n", result.WorkerShell)
	}

	return b.String()
}

func statusRows(result *domain.StatusResult) [][]string {
	return [][]string{
		{"Installed", yesNo(result.Installed)},
		{"Binary", yesNo(result.BinaryExists)},
		{"Knowledge", yesNo(result.KnowledgeExists)},
		{"Doors", strconv.Itoa(result.DoorCount)},
		{"Root", result.Paths.Root},
		{"Worker shell", result.WorkerShell + " (" + availability(result.WorkerShellAvailable) + ")"},
	}
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}

	return "no"
}

func availability(v bool) string {
	if v {
		return "available"
	}

	return "missing"
}
