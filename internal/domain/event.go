// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

// Package domain holds the installer's core types: progress events, line
// classification, progress tracking and the ports adapters implement.
package domain

// Severity classifies how important a progress event is.
type Severity string

// Severities understood by the progress feed.
const (
	SeverityInfo  Severity = "info"
	SeverityOK    Severity = "ok"
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

// Step labels attached to progress events.
const (
	StepPrerequisites = "Checking prerequisites"
	StepDirectories   = "Creating directories"
	StepBinary        = "Downloading MCP binary"
	StepKnowledge     = "Installing knowledge base"
	StepConfigure     = "Configuring Claude Desktop"
	StepVerify        = "Verifying installation"
	StepProcessing    = "Processing"

	StepStarting     = "Starting"
	StepComplete     = "Complete"
	StepFailed       = "Failed"
	StepUninstalling = "Uninstalling"
)

// ProgressEventName is the name of the stream progress events are published on.
const ProgressEventName = "install-progress"

// ProgressEvent is one entry of the progress feed.
// JSON field names match the payload the presentation layer listens for.
type ProgressEvent struct {
	Step     string   `json:"step"`
	Severity Severity `json:"status"`
	Message  string   `json:"message"`
	Percent  int      `json:"progress"`
}

// NewProgressEvent builds an event, clamping percent into [0,100].
func NewProgressEvent(step string, severity Severity, message string, percent int) ProgressEvent {
	return ProgressEvent{
		Step:     step,
		Severity: severity,
		Message:  message,
		Percent:  max(0, min(percent, PercentComplete)),
	}
}

// IsTerminal reports whether the event closes a run.
func (e ProgressEvent) IsTerminal() bool {
	return e.Percent >= PercentComplete
}
