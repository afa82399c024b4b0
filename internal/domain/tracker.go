// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import "strings"

// Progress counter bounds.
const (
	PercentSeed     = 10
	PercentStep     = 10
	PercentCeiling  = 95
	PercentComplete = 100
)

// ProgressTracker owns the percent-complete counter of a single run.
// It only moves forward and stays at or below PercentCeiling until a
// terminal call. Not safe for concurrent use; each run owns its tracker.
type ProgressTracker struct {
	percent int
}

// NewProgressTracker returns a tracker seeded at PercentSeed.
func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{percent: PercentSeed}
}

// Percent returns the current counter value.
func (t *ProgressTracker) Percent() int {
	return t.percent
}

// OnLine advances the counter for a classified output line and returns the
// new value. Any line containing "OK" counts, tagged or not.
func (t *ProgressTracker) OnLine(severity Severity, line string) int {
	if severity != SeverityOK && !strings.Contains(line, "OK") {
		return t.percent
	}

	if t.percent >= PercentCeiling {
		return t.percent
	}

	t.percent = min(t.percent+PercentStep, PercentCeiling)

	return t.percent
}

// OnTerminalSuccess completes the counter.
func (t *ProgressTracker) OnTerminalSuccess() int {
	t.percent = PercentComplete

	return t.percent
}

// OnTerminalFailure completes the counter as well: progress reports that the
// run is over, not that it succeeded.
func (t *ProgressTracker) OnTerminalFailure() int {
	t.percent = PercentComplete

	return t.percent
}
