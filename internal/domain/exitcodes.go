// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import "errors"

// Exit codes follow standard Unix conventions for better scripting support.
// Range 0-125 are safe to use (126+ have special meaning in shells).
const (
	ExitSuccess         = 0 // Operation completed successfully
	ExitGeneralError    = 1 // Generic failure (catch-all)
	ExitUsageError      = 2 // Invalid command line usage
	ExitConfigError     = 3 // Configuration file error
	ExitPermissionError = 4 // Permission denied

	ExitDependencyError = 10 // Worker shell missing or not startable
	ExitNetworkError    = 11 // Script download failed
	ExitSystemError     = 12 // Reading worker output failed
	ExitTimeoutError    = 13 // Run exceeded --timeout
	ExitInterruptError  = 14 // User interrupted (Ctrl+C)

	ExitInstallError   = 20 // Installer script reported failure
	ExitUninstallError = 21 // Uninstaller script reported failure
	ExitBusyError      = 23 // Another run holds the lock
)

// DetailExitCode maps worker diagnostics to the permission or network exit
// code when GetErrorInfo recognises them, and returns fallback otherwise.
func DetailExitCode(detail string, fallback int) int {
	if detail == "" {
		return fallback
	}

	switch GetErrorInfo(errors.New(detail), false).Message {
	case MessagePermissionDenied:
		return ExitPermissionError
	case MessageNetworkFailed:
		return ExitNetworkError
	default:
		return fallback
	}
}
