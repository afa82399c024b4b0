// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

package application

import (
	"context"
	"strings"

	"github.com/go-logr/logr"

	"github.com/stryk91/phishri-installer/internal/domain"
)

// Uninstall messages shown to the listener and returned to the caller.
const (
	UninstallStartingMessage = "Removing PhiSHRI..."
	UninstallCompleteMessage = "PhiSHRI has been uninstalled"
	UninstallFailedMessage   = "Uninstall failed."
	UninstallSuccessResult   = "Uninstall completed"
	UninstallFailedSummary   = "Uninstall failed"

	// UninstallPercent is the fixed progress shown while the worker runs.
	UninstallPercent = 50
)

// UninstallService runs the blocking uninstall workflow. Worker output is
// captured but not relayed as events.
type UninstallService struct {
	runner

	launcher domain.ProcessLauncher
	commands domain.CommandBuilder
}

// NewUninstallService creates an uninstall service.
func NewUninstallService(launcher domain.ProcessLauncher, commands domain.CommandBuilder, log logr.Logger, opts ...Option) *UninstallService {
	return &UninstallService{
		runner:   newRunner(log, opts),
		launcher: launcher,
		commands: commands,
	}
}

// Uninstall runs the uninstall worker to completion.
func (s *UninstallService) Uninstall(ctx context.Context, sink domain.EventSink) domain.RunOutcome {
	ctx, scope := s.begin(ctx, domain.OperationUninstall)

	return s.end(scope, s.run(ctx, scope, sink))
}

func (s *UninstallService) run(ctx context.Context, scope *runScope, sink domain.EventSink) domain.RunOutcome {
	scope.publish(sink, domain.NewProgressEvent(domain.StepUninstalling, domain.SeverityInfo,
		UninstallStartingMessage, UninstallPercent))

	spec, err := s.commands.UninstallCommand()
	if err != nil {
		return domain.Failed(domain.OperationUninstall, err)
	}

	captured, err := s.launcher.Run(ctx, spec)
	if err != nil {
		scope.log.Info("Worker could not be run", "error", err.Error())
		return domain.Failed(domain.OperationUninstall, err)
	}

	stderr := strings.TrimSpace(string(captured.Stderr))
	if stderr != "" {
		scope.log.V(1).Info("Worker stderr", "stderr", stderr)
	}

	output := splitLines(captured.Stdout)

	if captured.Status.Success() {
		scope.publish(sink, domain.NewProgressEvent(domain.StepComplete, domain.SeverityOK,
			UninstallCompleteMessage, domain.PercentComplete))

		outcome := domain.Succeeded(domain.OperationUninstall, UninstallSuccessResult)
		outcome.Output = output

		return outcome
	}

	scope.log.V(1).Info("Worker exited", "code", captured.Status.Code, "known", captured.Status.Known)
	scope.publish(sink, domain.NewProgressEvent(domain.StepFailed, domain.SeverityError,
		UninstallFailedMessage, domain.PercentComplete))

	outcome := domain.Failed(domain.OperationUninstall,
		&domain.WorkerExitError{Summary: UninstallFailedSummary, Status: captured.Status, Stderr: stderr})
	outcome.Output = output

	return outcome
}

func splitLines(data []byte) []string {
	text := strings.TrimRight(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	if text == "" {
		return nil
	}

	return strings.Split(text, "\n")
}
