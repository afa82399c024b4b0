// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

// Package tui is the interactive installer interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stryk91/phishri-installer/internal/adapters/events"
	"github.com/stryk91/phishri-installer/internal/console"
	"github.com/stryk91/phishri-installer/internal/domain"
	"github.com/stryk91/phishri-installer/internal/platform"
	"github.com/stryk91/phishri-installer/internal/tui/models"
	"github.com/stryk91/phishri-installer/internal/tui/styles"
)

// ErrNoTerminal is returned when the TUI is launched in a non-terminal environment.
var ErrNoTerminal = errors.New("TUI requires a terminal environment")

// eventBuffer bounds the events queued between the run and the UI.
const eventBuffer = 256

// Backend is the trigger surface the interface drives.
type Backend interface {
	RequestInstall(ctx context.Context, method domain.InstallMethod, sink domain.EventSink) domain.RunOutcome
	RequestUninstall(ctx context.Context, sink domain.EventSink) domain.RunOutcome
	RequestStatus() domain.InstallationState
}

// Options configures the interface.
type Options struct {
	LockPath string
	NoColor  bool
	Input    io.Reader
	Output   io.Writer
}

// Screen represents different TUI screens.
type Screen int

// Screens.
const (
	MenuScreen Screen = iota
	MethodScreen
	ConfirmScreen
	ProgressScreen
)

type statusMsg struct {
	state domain.InstallationState
}

type eventMsg struct {
	run    int
	event  domain.ProgressEvent
	events <-chan domain.ProgressEvent
}

type eventsClosedMsg struct {
	run int
}

type runDoneMsg struct {
	run     int
	outcome domain.RunOutcome
}

// App is the root model. It owns the status header and allows one run at a
// time.
//
//nolint:containedctx // TUI models require context for proper cancellation propagation
type App struct {
	ctx      context.Context
	backend  Backend
	lockPath string
	styles   *styles.Styles

	width  int
	height int
	screen Screen

	menu     *models.Menu
	methods  *models.MethodPicker
	confirm  *models.Confirm
	progress *models.Progress

	state        domain.InstallationState
	statusLoaded bool

	running   bool
	run       int
	cancelRun context.CancelFunc
	quitting  bool
}

// NewApp creates the root model.
func NewApp(ctx context.Context, backend Backend, opts Options) *App {
	styleConfig := styles.New()
	if opts.NoColor {
		styleConfig = styles.NewMonochrome()
	}

	lockPath := opts.LockPath
	if lockPath == "" {
		lockPath = platform.GetLockPath()
	}

	return &App{
		ctx:      ctx,
		backend:  backend,
		lockPath: lockPath,
		styles:   styleConfig,
		screen:   MenuScreen,
		menu:     models.NewMenu(styleConfig),
	}
}

// Run starts the interface and blocks until the user quits.
func Run(ctx context.Context, backend Backend, opts Options) error {
	if opts.Input == nil {
		opts.Input = os.Stdin
	}

	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	if !console.IsTerminal(opts.Output) {
		return ErrNoTerminal
	}

	program := tea.NewProgram(
		NewApp(ctx, backend, opts),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithInput(opts.Input),
		tea.WithOutput(opts.Output),
	)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI application failed: %w", err)
	}

	return nil
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return a.refreshStatus()
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

		if a.progress != nil {
			a.progress.SetWidth(msg.Width)
		}

		return a, nil
	case tea.KeyMsg:
		return a.handleKey(msg)
	case statusMsg:
		a.state = msg.state
		a.statusLoaded = true

		return a, nil
	case eventMsg:
		if msg.run == a.run && a.progress != nil {
			a.progress.Apply(msg.event)
		}

		return a, waitForEvent(msg.run, msg.events)
	case eventsClosedMsg:
		return a, nil
	case runDoneMsg:
		return a.handleRunDone(msg)
	case spinner.TickMsg:
		if a.progress == nil {
			return a, nil
		}

		_, cmd := a.progress.Update(msg)

		return a, cmd
	case models.MenuSelectedMsg:
		return a.handleMenu(msg.Action)
	case models.MethodChosenMsg:
		return a, a.startRun(domain.OperationInstall, msg.Method)
	case models.ConfirmMsg:
		if !msg.Confirmed {
			a.screen = MenuScreen
			return a, nil
		}

		return a, a.startRun(domain.OperationUninstall, "")
	case models.BackMsg:
		a.screen = MenuScreen
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		if a.running {
			a.cancelRun()
			return a, nil
		}

		a.quitting = true

		return a, tea.Quit
	}

	var cmd tea.Cmd

	switch a.screen {
	case MenuScreen:
		_, cmd = a.menu.Update(msg)
	case MethodScreen:
		_, cmd = a.methods.Update(msg)
	case ConfirmScreen:
		_, cmd = a.confirm.Update(msg)
	case ProgressScreen:
		if a.progress.Done() && (msg.String() == models.KeyEnter || msg.String() == models.KeyEsc) {
			a.screen = MenuScreen
			return a, nil
		}

		_, cmd = a.progress.Update(msg)
	}

	return a, cmd
}

func (a *App) handleMenu(action models.MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case models.ActionInstall:
		a.methods = models.NewMethodPicker(a.styles)
		a.screen = MethodScreen
	case models.ActionUninstall:
		a.confirm = models.NewConfirm(a.styles,
			"Remove PhiSHRI from this machine?",
			"The binary, knowledge base and Claude Desktop entry are removed.")
		a.screen = ConfirmScreen
	case models.ActionRefresh:
		a.statusLoaded = false
		return a, a.refreshStatus()
	case models.ActionQuit:
		a.quitting = true
		return a, tea.Quit
	}

	return a, nil
}

// startRun launches one install or uninstall. The run holds the
// cross-process lock and publishes into a channel the UI drains.
func (a *App) startRun(op domain.Operation, method domain.InstallMethod) tea.Cmd {
	if a.running {
		return nil
	}

	a.run++
	a.running = true
	a.screen = ProgressScreen
	a.progress = models.NewProgress(a.styles, op, a.width)

	runCtx, cancel := context.WithCancel(a.ctx)
	a.cancelRun = cancel

	sink := events.NewChannelSink(eventBuffer)
	backend, lockPath, run := a.backend, a.lockPath, a.run

	execute := func() tea.Msg {
		defer cancel()
		defer sink.Close()

		unlock, err := platform.AcquireRunLock(lockPath)
		if err != nil {
			return runDoneMsg{run: run, outcome: domain.Failed(op, err)}
		}
		defer unlock()

		var outcome domain.RunOutcome
		if op == domain.OperationUninstall {
			outcome = backend.RequestUninstall(runCtx, sink)
		} else {
			outcome = backend.RequestInstall(runCtx, method, sink)
		}

		return runDoneMsg{run: run, outcome: outcome}
	}

	return tea.Batch(execute, waitForEvent(run, sink.Events()), a.progress.Init())
}

func (a *App) handleRunDone(msg runDoneMsg) (tea.Model, tea.Cmd) {
	if msg.run != a.run {
		return a, nil
	}

	a.running = false
	a.cancelRun = nil
	a.progress.Finish(msg.outcome)

	return a, a.refreshStatus()
}

func (a *App) refreshStatus() tea.Cmd {
	backend := a.backend

	return func() tea.Msg {
		return statusMsg{state: backend.RequestStatus()}
	}
}

func waitForEvent(run int, ch <-chan domain.ProgressEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return eventsClosedMsg{run: run}
		}

		return eventMsg{run: run, event: event, events: ch}
	}
}

// Running reports whether a run is in progress.
func (a *App) Running() bool { return a.running }

// CurrentScreen returns the visible screen.
func (a *App) CurrentScreen() Screen { return a.screen }

// Progress returns the current or last run's progress model.
func (a *App) Progress() *models.Progress { return a.progress }

// View implements tea.Model.
func (a *App) View() string {
	if a.quitting {
		return ""
	}

	var body string

	switch a.screen {
	case MenuScreen:
		body = a.menu.View()
	case MethodScreen:
		body = a.methods.View()
	case ConfirmScreen:
		body = a.confirm.View()
	case ProgressScreen:
		body = a.progress.View()
	}

	return a.styles.Container.Render(strings.Join([]string{
		a.styles.Logo(),
		models.RenderStatus(a.styles, a.state, a.statusLoaded),
		"",
		body,
		a.footer(),
	}, "\n"))
}

func (a *App) footer() string {
	var keys []string

	switch {
	case a.running:
		keys = []string{a.styles.Keybinding("↑↓", "scroll"), a.styles.Keybinding("ctrl+c", "cancel run")}
	case a.screen == ProgressScreen:
		keys = []string{a.styles.Keybinding("enter", "back to menu")}
	case a.screen == MenuScreen:
		keys = []string{a.styles.Keybinding("↑↓", "move"), a.styles.Keybinding("enter", "select"), a.styles.Keybinding("q", "quit")}
	default:
		keys = []string{a.styles.Keybinding("enter", "select"), a.styles.Keybinding("esc", "back")}
	}

	return a.styles.Footer.Render(strings.Join(keys, "  "))
}
