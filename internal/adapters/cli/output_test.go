// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stryk91/phishri-installer/internal/domain"
)

func TestOutputAdapter_Success(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		format       OutputFormat
		quiet        bool
		message      string
		data         any
		wantContains string
		wantEmpty    bool
	}{
		{
			name:         "text format with message",
			format:       TextFormat,
			message:      "Installation completed successfully",
			wantContains: "Installation completed successfully",
		},
		{
			name:      "quiet mode suppresses message",
			format:    TextFormat,
			quiet:     true,
			message:   "Installation completed successfully",
			wantEmpty: true,
		},
		{
			name:    "JSON format with data",
			format:  JSONFormat,
			message: "ignored",
			data: domain.RunResult{
				RunID:     "run-1",
				Operation: domain.OperationInstall,
				Success:   true,
				Duration:  5 * time.Second,
			},
			wantContains: `"run_id":"run-1"`,
		},
		{
			name:         "JSON data survives quiet",
			format:       JSONFormat,
			quiet:        true,
			data:         map[string]bool{"installed": true},
			wantContains: `"installed":true`,
		},
		{
			name:         "JSON format without data shows message",
			format:       JSONFormat,
			message:      "nothing to show",
			wantContains: "nothing to show",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			adapter := NewOutputAdapter(&buf, tt.format, tt.quiet)
			require.NoError(t, adapter.Success(tt.message, tt.data))

			output := buf.String()
			if tt.wantEmpty {
				assert.Empty(t, output)
			} else {
				assert.Contains(t, output, tt.wantContains)
			}

			if tt.format == JSONFormat && tt.data != nil {
				var result map[string]any
				assert.NoError(t, json.Unmarshal(buf.Bytes(), &result))
			}
		})
	}
}

func TestOutputAdapter_JSONIsOneLinePerValue(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	adapter := NewOutputAdapter(&buf, JSONFormat, false)
	require.NoError(t, adapter.Success("", map[string]string{"event": "install-progress"}))
	require.NoError(t, adapter.Success("", map[string]int{"doors": 3}))

	scanner := bufio.NewScanner(&buf)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"event":"install-progress"}`, lines[0])
	assert.JSONEq(t, `{"doors":3}`, lines[1])
}

func TestOutputAdapter_Table(t *testing.T) {
	t.Parallel()

	headers := []string{"Field", "Value"}
	rows := [][]string{
		{"Installed", "yes"},
		{"Doors", "12"},
	}

	t.Run("text format creates aligned table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		require.NoError(t, NewOutputAdapter(&buf, TextFormat, false).Table(headers, rows))

		output := buf.String()
		assert.Contains(t, output, "Field")
		assert.Contains(t, output, "Installed")
		assert.Contains(t, output, "-----")
	})

	t.Run("plain format is tab separated rows", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		require.NoError(t, NewOutputAdapter(&buf, PlainFormat, false).Table(headers, rows))
		assert.Equal(t, "Installed\tyes\nDoors\t12\n", buf.String())
	})

	t.Run("JSON format outputs structured data", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		require.NoError(t, NewOutputAdapter(&buf, JSONFormat, false).Table(headers, rows))

		var result map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &result))

		resultRows, ok := result["rows"].([]any)
		require.True(t, ok, "rows should be []any")
		assert.Len(t, resultRows, 2)
	})

	t.Run("quiet mode suppresses table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer

		require.NoError(t, NewOutputAdapter(&buf, TextFormat, true).Table(headers, rows))
		assert.Empty(t, buf.String())
	})
}

func TestParseOutputFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    OutputFormat
		wantErr bool
	}{
		{"", TextFormat, false},
		{"text", TextFormat, false},
		{"JSON", JSONFormat, false},
		{"plain", PlainFormat, false},
		{"xml", TextFormat, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseOutputFormat(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewOutputForMode(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	assert.Equal(t, TextFormat, NewOutputForMode(&buf, false, false, false).Format())
	assert.Equal(t, PlainFormat, NewOutputForMode(&buf, false, true, false).Format())
	assert.Equal(t, JSONFormat, NewOutputForMode(&buf, true, true, false).Format())
	assert.True(t, NewOutputForMode(&buf, false, false, true).IsQuiet())
	assert.Empty(t, buf.String())
}
