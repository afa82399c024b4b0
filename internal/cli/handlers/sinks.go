// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

package handlers

import (
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/stryk91/phishri-installer/internal/adapters/events"
	"github.com/stryk91/phishri-installer/internal/domain"
)

// ProgressSink picks the event sink for the output mode. Events are always
// mirrored to the debug log.
func (h *BaseHandler) ProgressSink() domain.EventSink {
	var primary domain.EventSink

	switch {
	case h.JSON:
		primary = events.NewJSONLinesSink(h.Console.Out)
	case h.Quiet:
		primary = events.NopSink{}
	default:
		primary = events.NewConsoleSink(h.Console.Out, h.NoColor || h.Plain)
	}

	return h.withLog(primary)
}

func (h *BaseHandler) withLog(primary domain.EventSink) domain.EventSink {
	return events.MultiSink{primary, events.NewLogSink(h.Log)}
}

// SpinnerSink shows a spinner on the error stream whose suffix follows the
// latest event message. Stop must be called once the run returns.
type SpinnerSink struct {
	mu      sync.Mutex
	spinner *spinner.Spinner
	stopped bool
}

// NewSpinnerSink starts a spinner with message.
func (h *BaseHandler) NewSpinnerSink(message string) *SpinnerSink {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Writer = h.Console.Err
	s.Suffix = " " + message
	s.Start()

	return &SpinnerSink{spinner: s}
}

// Publish implements domain.EventSink.
func (s *SpinnerSink) Publish(event domain.ProgressEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return nil
	}

	if event.IsTerminal() {
		s.stopLocked()
		return nil
	}

	s.spinner.Lock()
	s.spinner.Suffix = " " + event.Message
	s.spinner.Unlock()

	return nil
}

// Stop halts the spinner. It is safe to call more than once.
func (s *SpinnerSink) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()
}

func (s *SpinnerSink) stopLocked() {
	if s.stopped {
		return
	}

	s.stopped = true
	s.spinner.Stop()
}
