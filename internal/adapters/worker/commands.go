// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

// Package worker renders the worker command lines from mustache templates.
package worker

import (
	"fmt"

	"github.com/cbroglie/mustache"

	"github.com/stryk91/phishri-installer/internal/config"
	"github.com/stryk91/phishri-installer/internal/domain"
)

// Commands implements the CommandBuilder port. The rendered script text is
// appended as the last shell argument.
type Commands struct {
	shell        string
	shellArgs    []string
	env          []string
	installURL   string
	uninstallURL string
	install      *mustache.Template
	uninstall    *mustache.Template
}

// NewCommands parses the worker templates from cfg.
func NewCommands(cfg config.WorkerConfig) (*Commands, error) {
	install, err := mustache.ParseString(cfg.InstallTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse install template: %w", err)
	}

	uninstall, err := mustache.ParseString(cfg.UninstallTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse uninstall template: %w", err)
	}

	return &Commands{
		shell:        cfg.Shell,
		shellArgs:    append([]string(nil), cfg.ShellArgs...),
		env:          append([]string(nil), cfg.Env...),
		installURL:   cfg.InstallScriptURL,
		uninstallURL: cfg.UninstallScriptURL,
		install:      install,
		uninstall:    uninstall,
	}, nil
}

// InstallCommand renders the install command with method as the worker's
// -Method parameter.
func (c *Commands) InstallCommand(method domain.InstallMethod) (domain.CommandSpec, error) {
	if !method.IsValid() {
		return domain.CommandSpec{}, fmt.Errorf("%w: %q", domain.ErrInvalidMethod, string(method))
	}

	script, err := c.install.Render(map[string]string{
		"script_url": c.installURL,
		"method":     method.String(),
	})
	if err != nil {
		return domain.CommandSpec{}, fmt.Errorf("failed to render install command: %w", err)
	}

	return c.spec(script), nil
}

// UninstallCommand renders the uninstall command.
func (c *Commands) UninstallCommand() (domain.CommandSpec, error) {
	script, err := c.uninstall.Render(map[string]string{
		"script_url": c.uninstallURL,
	})
	if err != nil {
		return domain.CommandSpec{}, fmt.Errorf("failed to render uninstall command: %w", err)
	}

	return c.spec(script), nil
}

// Shell returns the worker executable name.
func (c *Commands) Shell() string {
	return c.shell
}

func (c *Commands) spec(script string) domain.CommandSpec {
	args := make([]string, 0, len(c.shellArgs)+1)
	args = append(args, c.shellArgs...)
	args = append(args, script)

	return domain.CommandSpec{
		Name: c.shell,
		Args: args,
		Env:  append([]string(nil), c.env...),
	}
}
