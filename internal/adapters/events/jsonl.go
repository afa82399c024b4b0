// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

package events

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/stryk91/phishri-installer/internal/domain"
)

// Envelope is one line of the JSON-lines feed.
type Envelope struct {
	Event   string               `json:"event"`
	Payload domain.ProgressEvent `json:"payload"`
}

// JSONLinesSink writes each event as one JSON object per line.
type JSONLinesSink struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewJSONLinesSink creates a sink writing to w.
func NewJSONLinesSink(w io.Writer) *JSONLinesSink {
	return &JSONLinesSink{enc: json.NewEncoder(w)}
}

// Publish implements domain.EventSink.
func (s *JSONLinesSink) Publish(event domain.ProgressEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enc.Encode(Envelope{Event: domain.ProgressEventName, Payload: event}); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}
