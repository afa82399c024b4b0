// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

// Package testutil provides fakes for the domain ports.
package testutil

import (
	"context"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/stryk91/phishri-installer/internal/domain"
)

// MockProcessLauncher mocks the ProcessLauncher port for testing.
type MockProcessLauncher struct {
	mock.Mock
}

// Launch mocks starting a streaming worker.
func (m *MockProcessLauncher) Launch(ctx context.Context, spec domain.CommandSpec) (domain.ProcessHandle, error) {
	args := m.Called(ctx, spec)
	if handle, ok := args.Get(0).(domain.ProcessHandle); ok {
		return handle, args.Error(1)
	}

	return nil, args.Error(1)
}

// Run mocks running a worker to completion.
func (m *MockProcessLauncher) Run(ctx context.Context, spec domain.CommandSpec) (*domain.CapturedOutput, error) {
	args := m.Called(ctx, spec)
	if output, ok := args.Get(0).(*domain.CapturedOutput); ok {
		return output, args.Error(1)
	}

	return nil, args.Error(1)
}

// CommandExists mocks the command lookup.
func (m *MockProcessLauncher) CommandExists(name string) bool {
	args := m.Called(name)
	return args.Bool(0)
}

// ScriptedHandle is a ProcessHandle replaying fixed output.
type ScriptedHandle struct {
	Lines   []string
	ReadErr error // returned after all lines were read, instead of EOF
	Status  domain.ExitStatus
	WaitErr error
	Errors  string // returned by Stderr

	mu     sync.Mutex
	killed bool
	waited bool
	reader io.Reader
}

// NewScriptedHandle returns a handle that prints lines and exits with code.
func NewScriptedHandle(code int, lines ...string) *ScriptedHandle {
	return &ScriptedHandle{
		Lines:  lines,
		Status: domain.ExitStatus{Code: code, Known: true},
	}
}

// Stdout implements domain.ProcessHandle.
func (h *ScriptedHandle) Stdout() io.Reader {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.reader == nil {
		var text string
		if len(h.Lines) > 0 {
			text = strings.Join(h.Lines, "\n") + "\n"
		}

		readers := []io.Reader{strings.NewReader(text)}
		if h.ReadErr != nil {
			readers = append(readers, errReader{err: h.ReadErr})
		}

		h.reader = io.MultiReader(readers...)
	}

	return h.reader
}

// Wait implements domain.ProcessHandle.
func (h *ScriptedHandle) Wait() (domain.ExitStatus, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.waited = true

	if h.killed {
		return domain.ExitStatus{}, h.WaitErr
	}

	return h.Status, h.WaitErr
}

// Kill implements domain.ProcessHandle.
func (h *ScriptedHandle) Kill() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.killed = true

	return nil
}

// Stderr implements domain.ProcessHandle.
func (h *ScriptedHandle) Stderr() []byte {
	return []byte(h.Errors)
}

// Killed reports whether Kill was called.
func (h *ScriptedHandle) Killed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.killed
}

// Waited reports whether Wait was called.
func (h *ScriptedHandle) Waited() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.waited
}

type errReader struct {
	err error
}

func (r errReader) Read([]byte) (int, error) {
	return 0, r.err
}

// StaticCommands is a CommandBuilder returning fixed specs.
type StaticCommands struct {
	Install   domain.CommandSpec
	Uninstall domain.CommandSpec
	Err       error

	mu      sync.Mutex
	methods []domain.InstallMethod
}

// InstallCommand implements domain.CommandBuilder and records the method.
func (c *StaticCommands) InstallCommand(method domain.InstallMethod) (domain.CommandSpec, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.methods = append(c.methods, method)

	spec := c.Install
	spec.Args = append(append([]string{}, spec.Args...), "-Method", method.String())

	return spec, c.Err
}

// UninstallCommand implements domain.CommandBuilder.
func (c *StaticCommands) UninstallCommand() (domain.CommandSpec, error) {
	return c.Uninstall, c.Err
}

// Methods returns the methods InstallCommand was called with.
func (c *StaticCommands) Methods() []domain.InstallMethod {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]domain.InstallMethod{}, c.methods...)
}

// RecordingSink collects published events.
type RecordingSink struct {
	mu     sync.Mutex
	events []domain.ProgressEvent
	Err    error // returned from every Publish after recording
}

// Publish implements domain.EventSink.
func (s *RecordingSink) Publish(event domain.ProgressEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, event)

	return s.Err
}

// Events returns a copy of the recorded events.
func (s *RecordingSink) Events() []domain.ProgressEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]domain.ProgressEvent{}, s.events...)
}

// Percents returns the percent of every recorded event.
func (s *RecordingSink) Percents() []int {
	events := s.Events()

	percents := make([]int, 0, len(events))
	for _, event := range events {
		percents = append(percents, event.Percent)
	}

	return percents
}

// AssertProgressInvariants checks the progress feed rules for one run:
// percent never decreases, stays at or below the ceiling until the last
// event, and only the last event reaches 100.
func AssertProgressInvariants(t *testing.T, events []domain.ProgressEvent) {
	t.Helper()

	if !assert.NotEmpty(t, events) {
		return
	}

	for i, event := range events {
		if i > 0 {
			assert.GreaterOrEqual(t, event.Percent, events[i-1].Percent, "event %d went backwards", i)
		}

		if i < len(events)-1 {
			assert.LessOrEqual(t, event.Percent, domain.PercentCeiling, "event %d exceeded ceiling", i)
		}
	}

	assert.Equal(t, domain.PercentComplete, events[len(events)-1].Percent)
}

// MockFileManager is an in-memory FileManager. Directories are implied by
// file paths; paths registered with Unreadable fail ReadDir.
type MockFileManager struct {
	mu         sync.Mutex
	files      map[string]bool
	dirs       map[string]bool
	unreadable map[string]bool
}

// NewMockFileManager creates an empty in-memory file manager.
func NewMockFileManager() *MockFileManager {
	return &MockFileManager{
		files:      make(map[string]bool),
		dirs:       make(map[string]bool),
		unreadable: make(map[string]bool),
	}
}

// AddFile registers a file and all its parent directories.
func (m *MockFileManager) AddFile(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = filepath.Clean(path)
	m.files[path] = true

	for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
		m.dirs[dir] = true

		if parent := filepath.Dir(dir); parent == dir {
			break
		}
	}
}

// Unreadable makes ReadDir fail for dir.
func (m *MockFileManager) Unreadable(dir string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.unreadable[filepath.Clean(dir)] = true
}

// FileExists implements domain.FileManager.
func (m *MockFileManager) FileExists(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = filepath.Clean(path)

	return m.files[path] || m.dirs[path]
}

// ReadDir implements domain.FileManager.
func (m *MockFileManager) ReadDir(path string) ([]fs.DirEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = filepath.Clean(path)
	if m.unreadable[path] {
		return nil, &fs.PathError{Op: "readdir", Path: path, Err: fs.ErrPermission}
	}

	if !m.dirs[path] {
		return nil, &fs.PathError{Op: "readdir", Path: path, Err: fs.ErrNotExist}
	}

	var entries []fs.DirEntry

	for file := range m.files {
		if filepath.Dir(file) == path {
			entries = append(entries, mockEntry{name: filepath.Base(file)})
		}
	}

	for dir := range m.dirs {
		if dir != path && filepath.Dir(dir) == path {
			entries = append(entries, mockEntry{name: filepath.Base(dir), dir: true})
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	return entries, nil
}

type mockEntry struct {
	name string
	dir  bool
}

func (e mockEntry) Name() string { return e.name }
func (e mockEntry) IsDir() bool  { return e.dir }

func (e mockEntry) Type() fs.FileMode {
	if e.dir {
		return fs.ModeDir
	}

	return 0
}

func (e mockEntry) Info() (fs.FileInfo, error) { return mockInfo(e), nil }

// Stat implements domain.FileManager. The fake has no links.
func (m *MockFileManager) Stat(path string) (fs.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	path = filepath.Clean(path)

	switch {
	case m.dirs[path]:
		return mockInfo{name: filepath.Base(path), dir: true}, nil
	case m.files[path]:
		return mockInfo{name: filepath.Base(path)}, nil
	default:
		return nil, &fs.PathError{Op: "stat", Path: path, Err: fs.ErrNotExist}
	}
}

// EvalSymlinks implements domain.FileManager.
func (m *MockFileManager) EvalSymlinks(path string) (string, error) {
	return filepath.Clean(path), nil
}

type mockInfo struct {
	name string
	dir  bool
}

func (i mockInfo) Name() string       { return i.name }
func (i mockInfo) Size() int64        { return 0 }
func (i mockInfo) ModTime() time.Time { return time.Time{} }
func (i mockInfo) IsDir() bool        { return i.dir }
func (i mockInfo) Sys() any           { return nil }

func (i mockInfo) Mode() fs.FileMode {
	if i.dir {
		return fs.ModeDir | 0o755
	}

	return 0o644
}

// WaitWithTimeout polls fn until it returns true or the timeout expires.
func WaitWithTimeout(fn func() bool, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return true
		}

		time.Sleep(10 * time.Millisecond)
	}

	return fn()
}
