// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/stryk91/phishri-installer/internal/stringutil"
)

// Common domain errors.
var (
	ErrLaunch        = errors.New("failed to start worker")
	ErrStreamRead    = errors.New("failed to read worker output")
	ErrWorkerExit    = errors.New("worker exited unsuccessfully")
	ErrInvalidMethod = errors.New("invalid install method")
	ErrRunInProgress = errors.New("another install or uninstall is already running")
)

// LaunchError reports a worker that could not be started.
type LaunchError struct {
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("Failed to start %s: %v", e.Command, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// Is matches ErrLaunch.
func (e *LaunchError) Is(target error) bool { return target == ErrLaunch }

// StreamReadError reports an I/O failure while reading worker output.
type StreamReadError struct {
	Err error
}

func (e *StreamReadError) Error() string {
	return fmt.Sprintf("%v: %v", ErrStreamRead, e.Err)
}

func (e *StreamReadError) Unwrap() error { return e.Err }

// Is matches ErrStreamRead.
func (e *StreamReadError) Is(target error) bool { return target == ErrStreamRead }

// WorkerExitError reports a worker that ran but did not succeed.
type WorkerExitError struct {
	Summary  string
	Status   ExitStatus
	ShowCode bool
	Stderr   string // trimmed worker stderr, not part of Error()
}

func (e *WorkerExitError) Error() string {
	if !e.ShowCode {
		return e.Summary
	}

	code := "unknown"
	if e.Status.Known {
		code = strconv.Itoa(e.Status.Code)
	}

	return e.Summary + " with exit code: " + code
}

// Is matches ErrWorkerExit.
func (e *WorkerExitError) Is(target error) bool { return target == ErrWorkerExit }

// ExitError provides specific exit codes for different failure modes.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

// NewExitError creates an ExitError with the specified code and message.
func NewExitError(code int, message string, err error) *ExitError {
	return &ExitError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *ExitError) Unwrap() error { return e.Err }

// Failure classes reported by GetErrorInfo.
const (
	MessagePermissionDenied = "Permission denied"
	MessageNetworkFailed    = "Network connection failed"
)

// ErrorInfo provides user-friendly error information.
type ErrorInfo struct {
	Message     string   // User-friendly message
	Suggestions []string // Actionable suggestions
	ShowDetails bool     // Whether to show technical details
}

// getErrorMatchers returns error patterns and their corresponding info.
func getErrorMatchers() []struct {
	patterns []string
	getInfo  func(bool) ErrorInfo
} {
	return []struct {
		patterns []string
		getInfo  func(bool) ErrorInfo
	}{
		{
			patterns: []string{"executable file not found", "no such file or directory", "cannot find"},
			getInfo: func(verbose bool) ErrorInfo {
				return ErrorInfo{
					Message:     "Worker shell not found",
					Suggestions: []string{"Check the [worker] shell setting in config.toml", "Make sure PowerShell is on your PATH"},
					ShowDetails: verbose,
				}
			},
		},
		{
			patterns: []string{"permission", "denied", "access is denied"},
			getInfo: func(verbose bool) ErrorInfo {
				return ErrorInfo{
					Message:     MessagePermissionDenied,
					Suggestions: []string{"Check that your user can write to the install directory"},
					ShowDetails: verbose,
				}
			},
		},
		{
			patterns: []string{"network", "connection", "timeout", "no such host", "invoke-restmethod"},
			getInfo: func(verbose bool) ErrorInfo {
				return ErrorInfo{
					Message:     MessageNetworkFailed,
					Suggestions: []string{"Check your internet connection", "Set HTTPS_PROXY if you are behind a proxy"},
					ShowDetails: verbose,
				}
			},
		},
		{
			patterns: []string{"context canceled", "deadline exceeded"},
			getInfo: func(verbose bool) ErrorInfo {
				return ErrorInfo{
					Message:     "Interrupted",
					Suggestions: []string{"Increase --timeout or run again"},
					ShowDetails: verbose,
				}
			},
		},
		{
			patterns: []string{"exit code"},
			getInfo: func(verbose bool) ErrorInfo {
				return ErrorInfo{
					Message:     "Installer script reported a failure",
					Suggestions: []string{"Run with --verbose to see the script output"},
					ShowDetails: verbose,
				}
			},
		},
	}
}

// GetErrorInfo analyzes an error and returns user-friendly information.
func GetErrorInfo(err error, verbose bool) ErrorInfo {
	if err == nil {
		return ErrorInfo{}
	}

	for _, matcher := range getErrorMatchers() {
		if stringutil.ContainsAnyFold(err.Error(), matcher.patterns) {
			return matcher.getInfo(verbose)
		}
	}

	return ErrorInfo{
		Message:     "Operation failed",
		Suggestions: []string{"Run with --verbose for more details"},
		ShowDetails: verbose,
	}
}

// FormatErrorMessage formats a run failure for display.
func FormatErrorMessage(err error, op Operation, verbose bool) string {
	info := GetErrorInfo(err, verbose)

	var result strings.Builder

	label := "Run"
	if op != "" {
		label = strings.ToUpper(string(op[:1])) + string(op[1:])
	}

	result.WriteString("✗ ")
	result.WriteString(label)
	result.WriteString(" failed")

	if info.Message != "" {
		result.WriteString(": ")
		result.WriteString(info.Message)
	}

	if info.ShowDetails && err != nil {
		result.WriteString("\n  Technical details: ")
		result.WriteString(err.Error())
	}

	if len(info.Suggestions) > 0 && !verbose {
		result.WriteString(" (")
		result.WriteString(info.Suggestions[0])
		result.WriteString(")")
	} else if len(info.Suggestions) > 0 && verbose {
		result.WriteString("\n  Suggestions:")

		for _, suggestion := range info.Suggestions {
			result.WriteString("\n    • ")
			result.WriteString(suggestion)
		}
	}

	return result.String()
}
