// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

package events

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/stryk91/phishri-installer/internal/domain"
)

// ConsoleSink prints one line per event with a severity color.
type ConsoleSink struct {
	mu     sync.Mutex
	out    io.Writer
	colors map[domain.Severity]*color.Color
	muted  *color.Color
}

// NewConsoleSink creates a console sink. Colors follow fatih/color's
// NO_COLOR and TTY detection unless noColor forces them off.
func NewConsoleSink(out io.Writer, noColor bool) *ConsoleSink {
	sink := &ConsoleSink{
		out: out,
		colors: map[domain.Severity]*color.Color{
			domain.SeverityInfo:  color.New(color.FgCyan),
			domain.SeverityOK:    color.New(color.FgGreen),
			domain.SeverityWarn:  color.New(color.FgYellow),
			domain.SeverityError: color.New(color.FgRed),
		},
		muted: color.New(color.FgHiBlack),
	}

	if noColor {
		for _, c := range sink.colors {
			c.DisableColor()
		}

		sink.muted.DisableColor()
	}

	return sink
}

// Publish implements domain.EventSink.
func (s *ConsoleSink) Publish(event domain.ProgressEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tone, ok := s.colors[event.Severity]
	if !ok {
		tone = s.colors[domain.SeverityInfo]
	}

	_, err := fmt.Fprintf(s.out, "%s %s %s\n",
		s.muted.Sprintf("[%3d%%]", event.Percent),
		tone.Sprintf("%-26s", event.Step),
		event.Message)
	if err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}
