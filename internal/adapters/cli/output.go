// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

// Package cli provides output adapters for CLI operations.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/stryk91/phishri-installer/internal/domain"
)

var (
	// ErrUnsupportedFormat is returned when an unsupported output format is requested.
	ErrUnsupportedFormat = errors.New("unsupported output format")
)

// OutputAdapter implements domain.OutputPort for CLI output. JSON output is
// one object per line so results can follow a stream of progress events.
type OutputAdapter struct {
	writer io.Writer
	format OutputFormat
	quiet  bool
}

// OutputFormat represents the output format type.
type OutputFormat int

const (
	// TextFormat outputs human-readable text.
	TextFormat OutputFormat = iota
	// JSONFormat outputs machine-readable JSON lines.
	JSONFormat
	// PlainFormat outputs undecorated, tab separated text.
	PlainFormat
)

// NewOutputAdapter creates an output adapter writing to writer.
func NewOutputAdapter(writer io.Writer, format OutputFormat, quiet bool) *OutputAdapter {
	return &OutputAdapter{
		writer: writer,
		format: format,
		quiet:  quiet,
	}
}

// NewOutputForMode picks the format from the global output flags. JSON wins
// over plain.
func NewOutputForMode(writer io.Writer, jsonFlag, plainFlag, quietFlag bool) *OutputAdapter {
	format := TextFormat

	switch {
	case jsonFlag:
		format = JSONFormat
	case plainFlag:
		format = PlainFormat
	}

	return NewOutputAdapter(writer, format, quietFlag)
}

// Format returns the adapter's output format.
func (o *OutputAdapter) Format() OutputFormat {
	return o.format
}

// Success outputs a success message, or data in JSON mode. JSON data is
// written even when quiet.
func (o *OutputAdapter) Success(message string, data interface{}) error {
	if o.format == JSONFormat && data != nil {
		return o.outputJSON(data)
	}

	if message != "" && !o.quiet {
		_, _ = fmt.Fprintln(o.writer, message)
	}

	return nil
}

// Table outputs tabular data. Plain mode drops the header and separator.
func (o *OutputAdapter) Table(headers []string, rows [][]string) error {
	if o.quiet {
		return nil
	}

	switch o.format {
	case JSONFormat:
		return o.outputJSON(map[string]interface{}{
			"headers": headers,
			"rows":    rows,
		})
	case PlainFormat:
		for _, row := range rows {
			_, _ = fmt.Fprintln(o.writer, strings.Join(row, "\t"))
		}

		return nil
	case TextFormat:
	}

	w := tabwriter.NewWriter(o.writer, 0, 0, 2, ' ', 0)

	defer func() { _ = w.Flush() }()

	_, _ = fmt.Fprintln(w, strings.Join(headers, "\t"))

	separators := make([]string, len(headers))
	for i := range headers {
		separators[i] = strings.Repeat("-", len(headers[i]))
	}

	_, _ = fmt.Fprintln(w, strings.Join(separators, "\t"))

	for _, row := range rows {
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	return nil
}

// IsQuiet returns true if output should be suppressed.
func (o *OutputAdapter) IsQuiet() bool {
	return o.quiet
}

func (o *OutputAdapter) outputJSON(data interface{}) error {
	if err := json.NewEncoder(o.writer).Encode(data); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	return nil
}

// ParseOutputFormat parses a string into an OutputFormat.
func ParseOutputFormat(format string) (OutputFormat, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return TextFormat, nil
	case "json":
		return JSONFormat, nil
	case "plain":
		return PlainFormat, nil
	default:
		return TextFormat, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

var _ domain.OutputPort = (*OutputAdapter)(nil)
