// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import (
	"context"
	"io"
	"io/fs"
)

// EventSink receives progress events. Publishing is fire-and-forget: callers
// drop the returned error after logging it.
type EventSink interface {
	Publish(event ProgressEvent) error
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(event ProgressEvent) error

// Publish implements EventSink.
func (f EventSinkFunc) Publish(event ProgressEvent) error {
	return f(event)
}

// CommandSpec is a fully rendered worker command line.
type CommandSpec struct {
	Name string
	Args []string
	Env  []string
	Dir  string
}

// CommandBuilder renders the worker command lines.
type CommandBuilder interface {
	// InstallCommand renders the install command with method embedded.
	InstallCommand(method InstallMethod) (CommandSpec, error)

	// UninstallCommand renders the uninstall command.
	UninstallCommand() (CommandSpec, error)
}

// ExitStatus is how a worker terminated. Known is false when no numeric code
// could be obtained, for example when the process was killed by a signal.
type ExitStatus struct {
	Code  int
	Known bool
}

// Success reports a known zero exit code.
func (s ExitStatus) Success() bool {
	return s.Known && s.Code == 0
}

// ProcessHandle is a running worker.
type ProcessHandle interface {
	// Stdout streams the worker's standard output. It must be read to EOF
	// before Wait is called.
	Stdout() io.Reader

	// Wait blocks until the worker exits. A non-zero exit is reported in the
	// status, not as an error; the error is for status that could not be read.
	Wait() (ExitStatus, error)

	// Kill terminates the worker.
	Kill() error

	// Stderr returns the captured standard error. It is complete once Wait
	// has returned.
	Stderr() []byte
}

// CapturedOutput is the result of running a worker to completion.
type CapturedOutput struct {
	Status ExitStatus
	Stdout []byte
	Stderr []byte
}

// ProcessLauncher starts workers.
type ProcessLauncher interface {
	// Launch starts the worker with stdout piped for streaming. Spawn
	// failures are returned as *LaunchError.
	Launch(ctx context.Context, spec CommandSpec) (ProcessHandle, error)

	// Run starts the worker and blocks until it exits, capturing its output.
	Run(ctx context.Context, spec CommandSpec) (*CapturedOutput, error)

	// CommandExists checks if a command is available on the system.
	CommandExists(name string) bool
}

// FileManager defines the read-only file operations the status service needs.
type FileManager interface {
	// FileExists checks if a path exists.
	FileExists(path string) bool

	// ReadDir lists a directory.
	ReadDir(path string) ([]fs.DirEntry, error)

	// Stat describes path, following symlinks.
	Stat(path string) (fs.FileInfo, error)

	// EvalSymlinks returns path with every link resolved.
	EvalSymlinks(path string) (string, error)
}
