// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/stryk91/phishri-installer/internal/domain"
	"github.com/stryk91/phishri-installer/internal/platform"
)

const uninstallPrompt = "Remove PhiSHRI from this machine?"

func getTitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205")).
		MarginBottom(1)
}

// methodDescriptions are shown next to each method in the picker.
var methodDescriptions = map[domain.InstallMethod]string{ //nolint:gochecknoglobals
	domain.MethodAuto:   "Let the installer pick the best option",
	domain.MethodMcpb:   "Claude Desktop bundle (.mcpb)",
	domain.MethodDxt:    "Desktop extension package (.dxt)",
	domain.MethodManual: "Edit claude_desktop_config.json directly",
}

func methodOptions() []huh.Option[domain.InstallMethod] {
	methods := domain.InstallMethods()
	options := make([]huh.Option[domain.InstallMethod], 0, len(methods))

	for _, method := range methods {
		label := fmt.Sprintf("%-7s %s", method, methodDescriptions[method])
		options = append(options, huh.NewOption(label, method))
	}

	return options
}

// formPrompter asks through huh forms on a terminal.
type formPrompter struct {
	out io.Writer
}

func (p formPrompter) SelectMethod(ctx context.Context) (domain.InstallMethod, error) {
	_, _ = fmt.Fprintln(p.out, getTitleStyle().Render("◈ Install PhiSHRI ◈"))

	method := domain.MethodAuto

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[domain.InstallMethod]().
				Title("▸ Choose an install method").
				Description("Auto works for most setups").
				Options(methodOptions()...).
				Value(&method),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return "", err
	}

	return method, nil
}

func (p formPrompter) ConfirmUninstall(ctx context.Context) (bool, error) {
	confirmed := false

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("▸ " + uninstallPrompt).
				Description("The binary, knowledge base and Claude Desktop entry are removed.").
				Affirmative("Uninstall").
				Negative("Keep").
				Value(&confirmed),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return false, err
	}

	return confirmed, nil
}

// linePrompter answers from a plain reader when no terminal is attached.
// Install always uses MethodAuto.
type linePrompter struct {
	in  io.Reader
	out io.Writer
}

func (p linePrompter) SelectMethod(context.Context) (domain.InstallMethod, error) {
	return domain.MethodAuto, nil
}

func (p linePrompter) ConfirmUninstall(context.Context) (bool, error) {
	return platform.PromptConsentWithReader(uninstallPrompt, false, p.in, p.out)
}
