// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

// Package platform provides the operating system adapters for the worker
// launcher and the installation status check.
package platform

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/go-logr/logr"

	"github.com/stryk91/phishri-installer/internal/domain"
	"github.com/stryk91/phishri-installer/internal/platform"
)

const (
	// DefaultWaitDelay bounds how long Wait lingers on open pipes after the
	// worker exited or was killed.
	DefaultWaitDelay = 5 * time.Second

	// DefaultStderrLimit caps the captured stderr of a streaming worker.
	DefaultStderrLimit = 64 * 1024
)

// ProcessLauncher implements the ProcessLauncher port with os/exec.
type ProcessLauncher struct {
	log         logr.Logger
	waitDelay   time.Duration
	stderrLimit int
}

// LauncherOption configures a ProcessLauncher.
type LauncherOption func(*ProcessLauncher)

// WithWaitDelay sets the delay after which Wait force-closes worker pipes.
func WithWaitDelay(delay time.Duration) LauncherOption {
	return func(l *ProcessLauncher) {
		l.waitDelay = delay
	}
}

// WithStderrLimit sets how many stderr bytes a streaming worker keeps.
func WithStderrLimit(limit int) LauncherOption {
	return func(l *ProcessLauncher) {
		l.stderrLimit = limit
	}
}

// NewProcessLauncher creates a new process launcher.
func NewProcessLauncher(log logr.Logger, opts ...LauncherOption) *ProcessLauncher {
	launcher := &ProcessLauncher{
		log:         log,
		waitDelay:   DefaultWaitDelay,
		stderrLimit: DefaultStderrLimit,
	}

	for _, opt := range opts {
		opt(launcher)
	}

	return launcher
}

// Launch starts the worker with stdout piped. Stderr is collected in memory
// so an unread stderr pipe can never stall the worker.
func (l *ProcessLauncher) Launch(ctx context.Context, spec domain.CommandSpec) (domain.ProcessHandle, error) {
	cmd := l.command(ctx, spec)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &domain.LaunchError{Command: spec.Name, Err: err}
	}

	stderr := &limitedBuffer{limit: l.stderrLimit}
	cmd.Stderr = stderr

	l.log.V(1).Info("Launching worker", "command", spec.Name, "args", strings.Join(spec.Args, " "))

	if err := cmd.Start(); err != nil {
		return nil, &domain.LaunchError{Command: spec.Name, Err: err}
	}

	return &processHandle{
		cmd:    cmd,
		stdout: stdout,
		stderr: stderr,
		log:    l.log.WithValues("pid", cmd.Process.Pid),
	}, nil
}

// Run starts the worker and waits for it, capturing both output streams.
func (l *ProcessLauncher) Run(ctx context.Context, spec domain.CommandSpec) (*domain.CapturedOutput, error) {
	cmd := l.command(ctx, spec)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	l.log.V(1).Info("Running worker", "command", spec.Name, "args", strings.Join(spec.Args, " "))

	if err := cmd.Start(); err != nil {
		return nil, &domain.LaunchError{Command: spec.Name, Err: err}
	}

	status, err := exitStatus(cmd, cmd.Wait())
	if err != nil {
		return nil, err
	}

	return &domain.CapturedOutput{
		Status: status,
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}, nil
}

// CommandExists checks if a command is available on the system.
func (l *ProcessLauncher) CommandExists(name string) bool {
	_, err := exec.LookPath(name)

	return err == nil
}

func (l *ProcessLauncher) command(ctx context.Context, spec domain.CommandSpec) *exec.Cmd {
	// #nosec G204 - The worker command line comes from the installer configuration
	cmd := exec.CommandContext(ctx, spec.Name, spec.Args...)

	// Propagate proxy environment variables, the worker downloads its script
	cmd.Env = append(append(os.Environ(), platform.GetProxyEnv()...), spec.Env...)
	cmd.Dir = spec.Dir
	cmd.WaitDelay = l.waitDelay

	return cmd
}

type processHandle struct {
	cmd    *exec.Cmd
	stdout io.Reader
	stderr *limitedBuffer
	log    logr.Logger
}

func (h *processHandle) Stdout() io.Reader {
	return h.stdout
}

func (h *processHandle) Wait() (domain.ExitStatus, error) {
	status, err := exitStatus(h.cmd, h.cmd.Wait())

	if stderr := strings.TrimSpace(string(h.stderr.Bytes())); stderr != "" {
		h.log.V(1).Info("Worker stderr", "stderr", stderr)
	}

	return status, err
}

func (h *processHandle) Kill() error {
	if err := h.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("failed to kill worker: %w", err)
	}

	return nil
}

// Stderr returns the captured stderr of the worker, capped at the launcher's
// limit.
func (h *processHandle) Stderr() []byte {
	return h.stderr.Bytes()
}

// exitStatus maps the result of cmd.Wait. A process that exited, even with a
// non-zero code or after ErrWaitDelay, yields a status; a signal-terminated
// process yields an unknown code.
func exitStatus(cmd *exec.Cmd, waitErr error) (domain.ExitStatus, error) {
	state := cmd.ProcessState
	if state == nil {
		return domain.ExitStatus{}, fmt.Errorf("failed to wait for %s: %w", cmd.Path, waitErr)
	}

	code := state.ExitCode()
	if code < 0 {
		return domain.ExitStatus{}, nil
	}

	return domain.ExitStatus{Code: code, Known: true}, nil
}

// limitedBuffer keeps the first limit bytes written and discards the rest.
type limitedBuffer struct {
	mu    sync.Mutex
	buf   bytes.Buffer
	limit int
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if room := b.limit - b.buf.Len(); room > 0 {
		if len(p) > room {
			b.buf.Write(p[:room])
		} else {
			b.buf.Write(p)
		}
	}

	return len(p), nil
}

func (b *limitedBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]byte(nil), b.buf.Bytes()...)
}
