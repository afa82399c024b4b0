// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

// Package console holds the output mode shared by CLI commands.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// OutputState holds the output mode and the streams it writes to. Results go
// to Out, diagnostics to Err.
type OutputState struct {
	Verbose bool
	JSON    bool
	Plain   bool
	Quiet   bool

	Out io.Writer
	Err io.Writer

	getenv func(string) string
}

// NewOutputState returns an OutputState writing to out and errOut.
func NewOutputState(out, errOut io.Writer) *OutputState {
	return &OutputState{Out: out, Err: errOut, getenv: os.Getenv}
}

// DefaultOutput writes to the process streams.
var DefaultOutput = NewOutputState(os.Stdout, os.Stderr) //nolint:gochecknoglobals

// SetMode configures output mode.
func (o *OutputState) SetMode(verbose, json, plain, quiet bool) {
	o.Verbose = verbose
	o.JSON = json
	o.Plain = plain
	o.Quiet = quiet
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}

// Interactive reports whether prompts and rich rendering may be used.
func (o *OutputState) Interactive() bool {
	return !o.JSON && !o.Plain && !o.Quiet && IsTerminal(o.Out)
}

// NoColor reports whether color must be suppressed, following no-color.org.
func (o *OutputState) NoColor() bool {
	if o.JSON || o.Plain {
		return true
	}

	if o.env("NO_COLOR") != "" || o.env("TERM") == "dumb" {
		return true
	}

	return !IsTerminal(o.Out)
}

// Bold formats text with bold when colored, uppercase when piped.
func (o *OutputState) Bold(text string) string {
	if o.JSON || o.Plain {
		return text
	}

	if o.NoColor() {
		return strings.ToUpper(text)
	}

	return "\033[1m" + text + "\033[0m"
}

// Progressf writes progress to Err when verbose in text mode.
func (o *OutputState) Progressf(format string, args ...any) {
	if o.Verbose && !o.JSON && !o.Plain {
		_, _ = fmt.Fprintf(o.Err, format+"\n", args...)
	}
}

// Successf writes a success line to Err in text mode.
func (o *OutputState) Successf(format string, args ...any) {
	if !o.JSON && !o.Plain && !o.Quiet {
		_, _ = fmt.Fprintf(o.Err, "✓ "+format+"\n", args...)
	}
}

// Warningf writes a warning to Err.
func (o *OutputState) Warningf(format string, args ...any) {
	if o.Plain {
		_, _ = fmt.Fprintf(o.Err, "warning: "+format+"\n", args...)
		return
	}

	_, _ = fmt.Fprintf(o.Err, "⚠ "+format+"\n", args...)
}

// Errorf writes an error to Err. Messages that already carry a marker are
// written as is.
func (o *OutputState) Errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	switch {
	case o.Plain:
		_, _ = fmt.Fprintf(o.Err, "error: %s\n", strings.TrimPrefix(msg, "✗ "))
	case strings.HasPrefix(msg, "✗ "):
		_, _ = fmt.Fprintln(o.Err, msg)
	default:
		_, _ = fmt.Fprintf(o.Err, "✗ %s\n", msg)
	}
}

// PlainKeyValue outputs a key:value pair for machine parsing.
func (o *OutputState) PlainKeyValue(key, value string) {
	_, _ = fmt.Fprintf(o.Out, "%s:%s\n", key, value)
}

// PlainValue outputs a single value.
func (o *OutputState) PlainValue(value string) {
	_, _ = fmt.Fprintf(o.Out, "%s\n", value)
}

func (o *OutputState) env(key string) string {
	if o.getenv == nil {
		return os.Getenv(key)
	}

	return o.getenv(key)
}
