// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

package events_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stryk91/phishri-installer/internal/adapters/events"
	"github.com/stryk91/phishri-installer/internal/domain"
	"github.com/stryk91/phishri-installer/internal/testutil"
)

var errBoom = errors.New("boom")

func sample() domain.ProgressEvent {
	return domain.NewProgressEvent(domain.StepPrerequisites, domain.SeverityOK, "[OK] prerequisites found", 20)
}

func TestMultiSink(t *testing.T) {
	t.Parallel()

	first := &testutil.RecordingSink{Err: errBoom}
	second := &testutil.RecordingSink{}

	err := events.MultiSink{first, nil, second}.Publish(sample())
	require.ErrorIs(t, err, errBoom)

	assert.Len(t, first.Events(), 1)
	assert.Len(t, second.Events(), 1, "a failing sink must not starve the next one")
}

func TestMultiSink_Empty(t *testing.T) {
	t.Parallel()

	assert.NoError(t, events.MultiSink{}.Publish(sample()))
	assert.NoError(t, events.NopSink{}.Publish(sample()))
}

func TestChannelSink(t *testing.T) {
	t.Parallel()

	sink := events.NewChannelSink(1)

	require.NoError(t, sink.Publish(sample()))
	require.ErrorIs(t, sink.Publish(sample()), events.ErrSinkFull)

	got := <-sink.Events()
	assert.Equal(t, sample(), got)

	require.NoError(t, sink.Publish(sample()))
}

func TestChannelSink_Close(t *testing.T) {
	t.Parallel()

	sink := events.NewChannelSink(2)
	require.NoError(t, sink.Publish(sample()))

	sink.Close()
	sink.Close()

	require.ErrorIs(t, sink.Publish(sample()), events.ErrSinkClosed)

	got, ok := <-sink.Events()
	require.True(t, ok, "buffered event survives Close")
	assert.Equal(t, sample(), got)

	_, ok = <-sink.Events()
	assert.False(t, ok)
}

func TestJSONLinesSink(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	sink := events.NewJSONLinesSink(&out)
	require.NoError(t, sink.Publish(sample()))
	require.NoError(t, sink.Publish(domain.NewProgressEvent(domain.StepComplete, domain.SeverityOK, "done", 100)))

	scanner := bufio.NewScanner(&out)

	var lines []map[string]any

	for scanner.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))

		lines = append(lines, line)
	}

	require.Len(t, lines, 2)
	assert.Equal(t, "install-progress", lines[0]["event"])
	assert.Equal(t, map[string]any{
		"step":     "Checking prerequisites",
		"status":   "ok",
		"message":  "[OK] prerequisites found",
		"progress": float64(20),
	}, lines[0]["payload"])
	assert.InDelta(t, 100, lines[1]["payload"].(map[string]any)["progress"], 0)
}

func TestConsoleSink(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	sink := events.NewConsoleSink(&out, true)
	require.NoError(t, sink.Publish(sample()))

	assert.Equal(t, "[ 20%] Checking prerequisites     [OK] prerequisites found\n", out.String())
}

func TestLogSink(t *testing.T) {
	t.Parallel()

	assert.NoError(t, events.NewLogSink(logr.Discard()).Publish(sample()))
}
