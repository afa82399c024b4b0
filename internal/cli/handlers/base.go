// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

// Package handlers implements CLI command execution logic.
package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/go-logr/logr"

	cliAdapter "github.com/stryk91/phishri-installer/internal/adapters/cli"
	"github.com/stryk91/phishri-installer/internal/console"
	"github.com/stryk91/phishri-installer/internal/domain"
)

// Installer is the trigger surface the handlers drive.
type Installer interface {
	RequestInstall(ctx context.Context, method domain.InstallMethod, sink domain.EventSink) domain.RunOutcome
	RequestUninstall(ctx context.Context, sink domain.EventSink) domain.RunOutcome
	RequestStatus() domain.InstallationState
}

// Options carries the global flags.
type Options struct {
	Verbose bool
	JSON    bool
	Quiet   bool
	Plain   bool
	NoColor bool
	Yes     bool
	Timeout time.Duration
}

// BaseHandler provides common functionality for all command handlers.
type BaseHandler struct {
	Options

	Console *console.OutputState
	Output  *cliAdapter.OutputAdapter
	Log     logr.Logger
}

// NewBaseHandler creates a base handler writing through out.
func NewBaseHandler(opts Options, out *console.OutputState, log logr.Logger) *BaseHandler {
	return &BaseHandler{
		Options: opts,
		Console: out,
		Output:  cliAdapter.NewOutputForMode(out.Out, opts.JSON, opts.Plain, opts.Quiet),
		Log:     log,
	}
}

// WithTimeout applies timeout to context if configured.
func (h *BaseHandler) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.Timeout > 0 {
		return context.WithTimeout(ctx, h.Timeout)
	}

	return context.WithCancel(ctx)
}

// Fail wraps err in an ExitError whose message is ready for the user.
func (h *BaseHandler) Fail(op domain.Operation, code int, err error) error {
	return domain.NewExitError(code, domain.FormatErrorMessage(err, op, h.Verbose), err)
}

// ExitCodeFor maps a failed run to a process exit code. ctxErr is the run
// context's error after the run returned.
func ExitCodeFor(outcome domain.RunOutcome, ctxErr error) int {
	if outcome.Success {
		return domain.ExitSuccess
	}

	switch {
	case errors.Is(ctxErr, context.DeadlineExceeded):
		return domain.ExitTimeoutError
	case errors.Is(ctxErr, context.Canceled):
		return domain.ExitInterruptError
	case errors.Is(outcome.Err, domain.ErrRunInProgress):
		return domain.ExitBusyError
	case errors.Is(outcome.Err, domain.ErrInvalidMethod):
		return domain.ExitUsageError
	case errors.Is(outcome.Err, domain.ErrLaunch):
		return domain.ExitDependencyError
	case errors.Is(outcome.Err, domain.ErrStreamRead):
		return domain.ExitSystemError
	case errors.Is(outcome.Err, domain.ErrWorkerExit):
		code := domain.ExitInstallError
		if outcome.Operation == domain.OperationUninstall {
			code = domain.ExitUninstallError
		}

		var exitErr *domain.WorkerExitError
		if errors.As(outcome.Err, &exitErr) {
			code = domain.DetailExitCode(exitErr.Stderr, code)
		}

		return code
	default:
		return domain.ExitGeneralError
	}
}
