// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

// Package events provides EventSink implementations for the progress feed.
package events

import (
	"errors"
	"sync"

	"github.com/go-logr/logr"

	"github.com/stryk91/phishri-installer/internal/domain"
)

// ErrSinkFull is returned by ChannelSink when the listener is not keeping up.
var ErrSinkFull = errors.New("event listener is not receiving")

// ErrSinkClosed is returned by ChannelSink after Close.
var ErrSinkClosed = errors.New("event sink closed")

// NopSink discards every event.
type NopSink struct{}

// Publish implements domain.EventSink.
func (NopSink) Publish(domain.ProgressEvent) error { return nil }

// MultiSink fans events out to several sinks. Every sink receives every
// event even when an earlier one fails.
type MultiSink []domain.EventSink

// Publish implements domain.EventSink.
func (m MultiSink) Publish(event domain.ProgressEvent) error {
	var errs []error

	for _, sink := range m {
		if sink == nil {
			continue
		}

		if err := sink.Publish(event); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// ChannelSink delivers events to a channel without blocking the run.
// Events are dropped when the buffer is full.
type ChannelSink struct {
	mu     sync.Mutex
	closed bool
	events chan domain.ProgressEvent
}

// NewChannelSink creates a sink with the given buffer size.
func NewChannelSink(buffer int) *ChannelSink {
	return &ChannelSink{events: make(chan domain.ProgressEvent, buffer)}
}

// Publish implements domain.EventSink.
func (s *ChannelSink) Publish(event domain.ProgressEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSinkClosed
	}

	select {
	case s.events <- event:
		return nil
	default:
		return ErrSinkFull
	}
}

// Close closes the channel once the run has returned. Buffered events stay
// readable.
func (s *ChannelSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.events)
	}
}

// Events returns the receive side of the sink.
func (s *ChannelSink) Events() <-chan domain.ProgressEvent {
	return s.events
}

// LogSink writes events to a logger.
type LogSink struct {
	log logr.Logger
}

// NewLogSink creates a sink logging at V(1).
func NewLogSink(log logr.Logger) *LogSink {
	return &LogSink{log: log}
}

// Publish implements domain.EventSink.
func (s *LogSink) Publish(event domain.ProgressEvent) error {
	s.log.V(1).Info(domain.ProgressEventName,
		"step", event.Step,
		"status", string(event.Severity),
		"progress", event.Percent,
		"message", event.Message)

	return nil
}
