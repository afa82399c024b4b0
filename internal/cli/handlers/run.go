// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stryk91/phishri-installer/internal/domain"
	"github.com/stryk91/phishri-installer/internal/platform"
)

// ErrConfirmationRequired is returned when uninstall cannot ask and --yes
// was not given.
var ErrConfirmationRequired = errors.New("confirmation required, pass --yes")

// Prompter asks the user what the flags left open.
type Prompter interface {
	SelectMethod(ctx context.Context) (domain.InstallMethod, error)
	ConfirmUninstall(ctx context.Context) (bool, error)
}

// RunHandler executes install and uninstall runs under the run lock.
type RunHandler struct {
	*BaseHandler

	installer Installer
	prompter  Prompter
	lockPath  string
	now       func() time.Time
}

// NewRunHandler creates a run handler. prompter may be nil, in which case
// install defaults to MethodAuto and uninstall requires --yes.
func NewRunHandler(base *BaseHandler, installer Installer, prompter Prompter, lockPath string) *RunHandler {
	return &RunHandler{
		BaseHandler: base,
		installer:   installer,
		prompter:    prompter,
		lockPath:    lockPath,
		now:         time.Now,
	}
}

// Install runs the install workflow with the named method.
func (h *RunHandler) Install(ctx context.Context, methodName string) error {
	method, err := h.resolveMethod(ctx, methodName)
	if err != nil {
		return usageError(err)
	}

	unlock, err := platform.AcquireRunLock(h.lockPath)
	if err != nil {
		return h.lockFailure(domain.OperationInstall, err)
	}
	defer unlock()

	ctx, cancel := h.WithTimeout(ctx)
	defer cancel()

	h.Console.Progressf("Installing PhiSHRI with method %s", method)

	started := h.now()
	outcome := h.installer.RequestInstall(ctx, method, h.ProgressSink())

	return h.finish(ctx, outcome, method, started)
}

// Uninstall asks for confirmation unless --yes was given, then runs the
// uninstall workflow.
func (h *RunHandler) Uninstall(ctx context.Context) error {
	confirmed, err := h.confirmUninstall(ctx)
	if err != nil {
		return usageError(err)
	}

	if !confirmed {
		h.Console.Warningf("Uninstall cancelled")
		return nil
	}

	unlock, err := platform.AcquireRunLock(h.lockPath)
	if err != nil {
		return h.lockFailure(domain.OperationUninstall, err)
	}
	defer unlock()

	ctx, cancel := h.WithTimeout(ctx)
	defer cancel()

	sink, spin := h.uninstallSink(h.Console.Interactive())

	started := h.now()
	outcome := h.installer.RequestUninstall(ctx, sink)

	if spin != nil {
		spin.Stop()

		if outcome.Success {
			h.Console.Successf("%s", outcome.Message)
		}
	}

	return h.finish(ctx, outcome, "", started)
}

// uninstallSink shows a spinner when interactive. Events reach the debug log
// in both cases.
func (h *RunHandler) uninstallSink(interactive bool) (domain.EventSink, *SpinnerSink) {
	if !interactive {
		return h.ProgressSink(), nil
	}

	spin := h.NewSpinnerSink("Removing PhiSHRI...")

	return h.withLog(spin), spin
}

func (h *RunHandler) resolveMethod(ctx context.Context, name string) (domain.InstallMethod, error) {
	if strings.TrimSpace(name) != "" || h.prompter == nil {
		return domain.ParseInstallMethod(name)
	}

	method, err := h.prompter.SelectMethod(ctx)
	if err != nil {
		return "", fmt.Errorf("method selection: %w", err)
	}

	return method, nil
}

func (h *RunHandler) confirmUninstall(ctx context.Context) (bool, error) {
	if h.Yes {
		return true, nil
	}

	if h.prompter == nil {
		return false, ErrConfirmationRequired
	}

	confirmed, err := h.prompter.ConfirmUninstall(ctx)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrConfirmationRequired, err)
	}

	return confirmed, nil
}

func (h *RunHandler) lockFailure(op domain.Operation, err error) error {
	code := domain.ExitSystemError
	if errors.Is(err, domain.ErrRunInProgress) {
		code = domain.ExitBusyError
	}

	return domain.NewExitError(code, fmt.Sprintf("✗ %s not started: %v", op, err), err)
}

func (h *RunHandler) finish(ctx context.Context, outcome domain.RunOutcome, method domain.InstallMethod, started time.Time) error {
	if h.JSON {
		if err := h.Output.Success("", domain.NewRunResult(outcome, method, started)); err != nil {
			h.Log.Error(err, "failed to write run result")
		}
	}

	h.Console.Progressf("Run %s finished in %s", outcome.RunID, outcome.Duration.Round(time.Millisecond))

	if outcome.Success {
		return nil
	}

	if h.Verbose && !h.JSON {
		for _, line := range outcome.Output {
			_, _ = fmt.Fprintf(h.Console.Err, "  %s\n", line)
		}
	}

	return h.Fail(outcome.Operation, ExitCodeFor(outcome, ctx.Err()), outcome.Err)
}

func usageError(err error) error {
	return domain.NewExitError(domain.ExitUsageError, "✗ "+err.Error(), err)
}
