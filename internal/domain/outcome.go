// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import (
	"errors"
	"time"
)

// Operation names the workflow a run executed.
type Operation string

// Workflows driven by the installer.
const (
	OperationInstall   Operation = "install"
	OperationUninstall Operation = "uninstall"
)

// RunOutcome is the terminal result of one run.
type RunOutcome struct {
	RunID     string        `json:"run_id"`
	Operation Operation     `json:"operation"`
	Success   bool          `json:"success"`
	Message   string        `json:"message,omitempty"`
	Err       error         `json:"-"`
	Duration  time.Duration `json:"duration"`
	Output    []string      `json:"output,omitempty"`
}

// Succeeded returns a successful outcome.
func Succeeded(op Operation, message string) RunOutcome {
	return RunOutcome{Operation: op, Success: true, Message: message}
}

// Failed returns a failed outcome caused by err.
func Failed(op Operation, err error) RunOutcome {
	return RunOutcome{Operation: op, Success: false, Err: err}
}

// Reason returns the human-readable failure reason, empty on success.
func (o RunOutcome) Reason() string {
	if o.Success || o.Err == nil {
		return ""
	}

	return o.Err.Error()
}

// ExitCode returns the worker exit code when the run failed on a known one.
func (o RunOutcome) ExitCode() (int, bool) {
	var exitErr *WorkerExitError
	if errors.As(o.Err, &exitErr) && exitErr.Status.Known {
		return exitErr.Status.Code, true
	}

	return 0, false
}
