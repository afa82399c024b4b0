// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

package application

import (
	"context"

	"github.com/stryk91/phishri-installer/internal/domain"
)

// Installer is the trigger surface: install, uninstall and status requests
// that may overlap in time. It adds no locking; callers that need one run at
// a time must serialise requests themselves.
type Installer struct {
	install   *InstallService
	uninstall *UninstallService
	status    *StatusService
	getenv    func(string) string
}

// NewInstaller composes the three services. getenv resolves the base
// directory for status checks, usually os.Getenv.
func NewInstaller(install *InstallService, uninstall *UninstallService, status *StatusService, getenv func(string) string) *Installer {
	return &Installer{
		install:   install,
		uninstall: uninstall,
		status:    status,
		getenv:    getenv,
	}
}

// RequestInstall runs the install workflow with method.
func (i *Installer) RequestInstall(ctx context.Context, method domain.InstallMethod, sink domain.EventSink) domain.RunOutcome {
	return i.install.Install(ctx, method, sink)
}

// RequestUninstall runs the uninstall workflow.
func (i *Installer) RequestUninstall(ctx context.Context, sink domain.EventSink) domain.RunOutcome {
	return i.uninstall.Uninstall(ctx, sink)
}

// RequestStatus inspects the installation. The base directory is read from the
// environment once per call.
func (i *Installer) RequestStatus() domain.InstallationState {
	return i.status.Inspect(i.BaseDir())
}

// BaseDir returns the current value of the layout's base directory variable.
func (i *Installer) BaseDir() string {
	return i.getenv(i.status.Layout().BaseDirEnv)
}
