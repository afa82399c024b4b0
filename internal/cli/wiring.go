// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"fmt"

	"github.com/go-logr/logr"

	platformAdapter "github.com/stryk91/phishri-installer/internal/adapters/platform"
	"github.com/stryk91/phishri-installer/internal/adapters/worker"
	"github.com/stryk91/phishri-installer/internal/application"
	"github.com/stryk91/phishri-installer/internal/config"
	"github.com/stryk91/phishri-installer/internal/observability"
)

// services is the composed installer and the adapters the commands query
// directly.
type services struct {
	installer *application.Installer
	launcher  *platformAdapter.ProcessLauncher
	shell     string
}

func buildServices(cfg *config.Config, log logr.Logger, getenv func(string) string) (*services, error) {
	commands, err := worker.NewCommands(cfg.Worker)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}

	launcher := platformAdapter.NewProcessLauncher(log.WithName("launcher"))
	opts := []application.Option{application.WithTracer(observability.Tracer())}

	install := application.NewInstallService(launcher, commands, log.WithName("install"), opts...)
	uninstall := application.NewUninstallService(launcher, commands, log.WithName("uninstall"), opts...)
	status := application.NewStatusService(platformAdapter.NewFileManager(), cfg.Layout, log.WithName("status"))

	return &services{
		installer: application.NewInstaller(install, uninstall, status, getenv),
		launcher:  launcher,
		shell:     commands.Shell(),
	}, nil
}
