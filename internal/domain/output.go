// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import "time"

// OutputPort defines the interface for presenting command results.
// This is a domain port that adapters implement for different output formats.
type OutputPort interface {
	// Success outputs a success message with optional structured data
	Success(message string, data interface{}) error

	// Table outputs tabular data
	Table(headers []string, rows [][]string) error

	// IsQuiet returns true if output should be suppressed
	IsQuiet() bool
}

// RunResult is the machine-readable summary of an install or uninstall run.
type RunResult struct {
	RunID     string        `json:"run_id"`
	Operation Operation     `json:"operation"`
	Method    InstallMethod `json:"method,omitempty"`
	Success   bool          `json:"success"`
	Message   string        `json:"message,omitempty"`
	Error     string        `json:"error,omitempty"`
	ExitCode  *int          `json:"exit_code,omitempty"`
	Duration  time.Duration `json:"duration"`
	Timestamp time.Time     `json:"timestamp"`
}

// NewRunResult summarises an outcome for output.
func NewRunResult(outcome RunOutcome, method InstallMethod, started time.Time) *RunResult {
	result := &RunResult{
		RunID:     outcome.RunID,
		Operation: outcome.Operation,
		Method:    method,
		Success:   outcome.Success,
		Message:   outcome.Message,
		Error:     outcome.Reason(),
		Duration:  outcome.Duration,
		Timestamp: started,
	}

	if code, ok := outcome.ExitCode(); ok {
		result.ExitCode = &code
	}

	return result
}

// StatusResult is the machine-readable installation status.
type StatusResult struct {
	InstallationState
	WorkerShell          string    `json:"worker_shell"`
	WorkerShellAvailable bool      `json:"worker_shell_available"`
	Timestamp            time.Time `json:"timestamp"`
}
