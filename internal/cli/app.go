// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

// Package cli provides the command-line interface.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/urfave/cli/v3"

	cliAdapter "github.com/stryk91/phishri-installer/internal/adapters/cli"
	"github.com/stryk91/phishri-installer/internal/cli/handlers"
	"github.com/stryk91/phishri-installer/internal/config"
	"github.com/stryk91/phishri-installer/internal/console"
	"github.com/stryk91/phishri-installer/internal/domain"
	"github.com/stryk91/phishri-installer/internal/observability"
	"github.com/stryk91/phishri-installer/internal/platform"
	"github.com/stryk91/phishri-installer/internal/tui"
)

// AppName is the binary name.
const AppName = platform.AppName

// CLI wires the global flags, the configuration and the installer services
// into urfave commands.
type CLI struct {
	app     *cli.Command
	version string

	verbose    bool
	json       bool
	quiet      bool
	plain      bool
	output     string
	color      string // "auto", "always", "never"
	timeout    time.Duration
	yes        bool
	configPath string
	logLevel   string
	logFormat  string

	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	getenv   func(string) string
	lockPath string

	out      *console.OutputState
	noColor  bool
	cfg      *config.Config
	log      logr.Logger
	svc      *services
	shutdown observability.Shutdown
}

// Option configures a CLI.
type Option func(*CLI)

// WithIO replaces the process streams.
func WithIO(in io.Reader, out, errOut io.Writer) Option {
	return func(app *CLI) {
		app.stdin = in
		app.stdout = out
		app.stderr = errOut
	}
}

// WithGetenv replaces the environment lookup used for the status check.
func WithGetenv(getenv func(string) string) Option {
	return func(app *CLI) {
		app.getenv = getenv
	}
}

// WithLockPath replaces the run lock location.
func WithLockPath(path string) Option {
	return func(app *CLI) {
		app.lockPath = path
	}
}

// WithVersion sets the reported version.
func WithVersion(version string) Option {
	return func(app *CLI) {
		app.version = version
	}
}

// NewCLI creates the command tree.
func NewCLI(opts ...Option) *CLI {
	app := &CLI{
		version: "dev",
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		getenv:  os.Getenv,
		log:     logr.Discard(),
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.lockPath == "" {
		app.lockPath = platform.GetLockPath()
	}

	app.app = &cli.Command{
		Name:    AppName,
		Usage:   "Install, remove and inspect PhiSHRI",
		Version: app.version,
		Suggest: true,
		Description: `Runs the PhiSHRI installer scripts and reports their progress.

ESSENTIAL COMMANDS:
  install --method auto    Install PhiSHRI
  status                   Show what is installed
  uninstall --yes          Remove PhiSHRI

Run without arguments on a terminal to open the interactive interface.`,
		Reader:    app.stdin,
		Writer:    app.stdout,
		ErrWriter: app.stderr,
		Flags:     app.globalFlags(),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			return app.initConfig(ctx, cmd)
		},
		After: func(ctx context.Context, _ *cli.Command) error {
			return app.shutdownTracing(ctx)
		},
		Action:   app.defaultAction,
		Commands: app.createAllCommands(),
	}

	return app
}

// Run executes the CLI application.
func (app *CLI) Run(ctx context.Context, args []string) error {
	return app.app.Run(ctx, args)
}

// App returns the root command.
func (app *CLI) App() *cli.Command {
	return app.app
}

func (app *CLI) globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "verbose",
			Usage:       "show progress messages to stderr",
			Aliases:     []string{"v"},
			Destination: &app.verbose,
		},
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "output JSON lines: progress events, then the result",
			Aliases:     []string{"j"},
			Destination: &app.json,
		},
		&cli.BoolFlag{
			Name:        "quiet",
			Usage:       "suppress non-essential output",
			Aliases:     []string{"q"},
			Destination: &app.quiet,
		},
		&cli.BoolFlag{
			Name:        "plain",
			Usage:       "output plain text without formatting for scripts",
			Destination: &app.plain,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "output format: text, json, plain",
			Destination: &app.output,
		},
		&cli.StringFlag{
			Name:        "color",
			Usage:       "color output mode: auto, always, never",
			Value:       "auto",
			Destination: &app.color,
		},
		&cli.DurationFlag{
			Name:        "timeout",
			Usage:       "stop the worker after this long (0 = worker.timeout from config)",
			Destination: &app.timeout,
		},
		&cli.BoolFlag{
			Name:        "yes",
			Aliases:     []string{"y"},
			Usage:       "automatically answer yes to all prompts",
			Destination: &app.yes,
		},
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "config file path",
			Sources:     cli.EnvVars(config.EnvConfigPath),
			Destination: &app.configPath,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level: debug, info, warn, error",
			Destination: &app.logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format: text, json",
			Destination: &app.logFormat,
		},
	}
}

func (app *CLI) createAllCommands() []*cli.Command {
	return []*cli.Command{
		app.createInstallCommand(),
		app.createUninstallCommand(),
		app.createStatusCommand(),
		app.createTUICommand(),
		app.createConfigCommand(),
		app.createVersionCommand(),
	}
}

func (app *CLI) createInstallCommand() *cli.Command {
	return &cli.Command{
		Name:  "install",
		Usage: "Install PhiSHRI",
		Description: `Downloads and runs the installer script, streaming its progress.

Methods:
  auto     Let the installer pick the best option (default)
  mcpb     Claude Desktop bundle
  dxt      Desktop extension package
  manual   Edit claude_desktop_config.json directly

Examples:
  phishri-installer install
  phishri-installer install --method mcpb --json`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "method",
				Aliases: []string{"m"},
				Usage:   "install method: auto, mcpb, dxt, manual",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return app.runHandler().Install(ctx, cmd.String("method"))
		},
	}
}

func (app *CLI) createUninstallCommand() *cli.Command {
	return &cli.Command{
		Name:  "uninstall",
		Usage: "Remove PhiSHRI",
		Description: `Runs the uninstaller script. Asks for confirmation unless --yes is given.

Examples:
  phishri-installer uninstall
  phishri-installer --yes uninstall`,
		Action: func(ctx context.Context, _ *cli.Command) error {
			return app.runHandler().Uninstall(ctx)
		},
	}
}

func (app *CLI) createStatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show whether PhiSHRI is installed and how many doors it has",
		Action: func(ctx context.Context, _ *cli.Command) error {
			return app.statusHandler().Status(ctx)
		},
	}
}

func (app *CLI) createTUICommand() *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Open the interactive interface",
		Action: app.handleTUIAction,
	}
}

func (app *CLI) createConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect the configuration",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the effective configuration as TOML",
				Action: func(_ context.Context, _ *cli.Command) error {
					data, err := app.cfg.Marshal()
					if err != nil {
						return domain.NewExitError(domain.ExitConfigError, "✗ Failed to render configuration", err)
					}

					_, _ = app.stdout.Write(data)

					return nil
				},
			},
			{
				Name:  "path",
				Usage: "Print the configuration file location",
				Action: func(_ context.Context, _ *cli.Command) error {
					path := app.configPath
					if path == "" {
						path = config.DefaultPath()
					}

					app.out.PlainValue(platform.ExpandPath(path))

					return nil
				},
			},
		},
	}
}

func (app *CLI) createVersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print the version",
		Action: func(_ context.Context, _ *cli.Command) error {
			if app.json {
				return json.NewEncoder(app.stdout).Encode(map[string]string{"version": app.version})
			}

			app.out.PlainValue(AppName + " " + app.version)

			return nil
		},
	}
}

// defaultAction opens the interface on a terminal and prints usage otherwise.
func (app *CLI) defaultAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() > 0 {
		return domain.NewExitError(domain.ExitUsageError,
			fmt.Sprintf("✗ '%s' is not a command. Run '%s --help' to see available commands.", cmd.Args().First(), AppName), nil)
	}

	if !app.out.Interactive() {
		app.showConciseHelp()
		return nil
	}

	return app.handleTUIAction(ctx, cmd)
}

func (app *CLI) handleTUIAction(ctx context.Context, _ *cli.Command) error {
	err := tui.Run(ctx, app.svc.installer, tui.Options{
		LockPath: app.lockPath,
		NoColor:  app.noColor,
		Input:    app.stdin,
		Output:   app.stdout,
	})
	if err != nil {
		if app.verbose {
			return domain.NewExitError(domain.ExitGeneralError, fmt.Sprintf("✗ Failed to launch TUI: %v", err), err)
		}

		return domain.NewExitError(domain.ExitGeneralError, "✗ Failed to launch interactive interface (terminal required)", err)
	}

	return nil
}

func (app *CLI) showConciseHelp() {
	_, _ = fmt.Fprintf(app.stdout, `%s %s

Usage:
  %s install [--method auto|mcpb|dxt|manual]
  %s uninstall [--yes]
  %s status [--json]

Run '%s --help' for all commands and flags.
`, AppName, app.version, AppName, AppName, AppName, AppName)
}

// applyOutputFormat folds --output into the --json and --plain switches.
func (app *CLI) applyOutputFormat() error {
	format, err := cliAdapter.ParseOutputFormat(app.output)
	if err != nil {
		return domain.NewExitError(domain.ExitUsageError, "✗ "+err.Error()+" (use text, json or plain)", err)
	}

	switch format {
	case cliAdapter.JSONFormat:
		app.json = true
	case cliAdapter.PlainFormat:
		app.plain = true
	case cliAdapter.TextFormat:
	}

	return nil
}

// initConfig validates the global flags, loads the configuration and builds
// the services every command uses.
func (app *CLI) initConfig(ctx context.Context, _ *cli.Command) (context.Context, error) {
	if err := app.applyOutputFormat(); err != nil {
		return ctx, err
	}

	if app.json && app.plain {
		return ctx, domain.NewExitError(domain.ExitUsageError, "✗ cannot use both --json and --plain flags simultaneously", nil)
	}

	app.out = console.NewOutputState(app.stdout, app.stderr)
	app.out.SetMode(app.verbose, app.json, app.plain, app.quiet)

	switch app.color {
	case "auto":
		app.noColor = app.out.NoColor()
	case "always":
		app.noColor = false
	case "never":
		app.noColor = true
	default:
		return ctx, domain.NewExitError(domain.ExitUsageError, "✗ invalid --color value: must be auto, always, or never", nil)
	}

	cfg, err := config.Load(app.configPath)
	if err != nil {
		return ctx, domain.NewExitError(domain.ExitConfigError, "✗ Failed to load configuration", err)
	}

	if app.logLevel != "" {
		cfg.Log.Level = app.logLevel
	}

	if app.logFormat != "" {
		cfg.Log.Format = app.logFormat
	}

	if err := cfg.Validate(); err != nil {
		return ctx, domain.NewExitError(domain.ExitUsageError, "✗ Invalid logging flags", err)
	}

	log, err := observability.NewLogger(cfg.Log, app.stderr)
	if err != nil {
		return ctx, domain.NewExitError(domain.ExitConfigError, "✗ Failed to set up logging", err)
	}

	shutdown, err := observability.SetupTracing(ctx, cfg.Tracing, app.version)
	if err != nil {
		return ctx, domain.NewExitError(domain.ExitConfigError, "✗ Failed to set up tracing", err)
	}

	if app.timeout == 0 {
		// Validated above.
		app.timeout, _ = cfg.Worker.TimeoutDuration()
	}

	svc, err := buildServices(cfg, log, app.getenv)
	if err != nil {
		_ = shutdown(ctx)
		return ctx, domain.NewExitError(domain.ExitConfigError, "✗ Invalid worker configuration", err)
	}

	app.cfg = cfg
	app.log = log
	app.svc = svc
	app.shutdown = shutdown

	log.V(1).Info("configuration loaded", "shell", svc.shell, "timeout", app.timeout.String())

	return ctx, nil
}

func (app *CLI) shutdownTracing(ctx context.Context) error {
	if app.shutdown == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := app.shutdown(shutdownCtx); err != nil {
		app.log.Error(err, "failed to flush traces")
	}

	return nil
}

func (app *CLI) baseHandler() *handlers.BaseHandler {
	return handlers.NewBaseHandler(handlers.Options{
		Verbose: app.verbose,
		JSON:    app.json,
		Quiet:   app.quiet,
		Plain:   app.plain,
		NoColor: app.noColor,
		Yes:     app.yes,
		Timeout: app.timeout,
	}, app.out, app.log)
}

func (app *CLI) prompter() handlers.Prompter {
	if app.out.Interactive() && console.IsTerminal(app.stderr) {
		return formPrompter{out: app.stderr}
	}

	return linePrompter{in: app.stdin, out: app.stderr}
}

func (app *CLI) runHandler() *handlers.RunHandler {
	return handlers.NewRunHandler(app.baseHandler(), app.svc.installer, app.prompter(), app.lockPath)
}

func (app *CLI) statusHandler() *handlers.StatusHandler {
	return handlers.NewStatusHandler(app.baseHandler(), app.svc.installer, app.svc.shell, app.svc.launcher.CommandExists)
}
