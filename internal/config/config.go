// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

// Package config loads the installer configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/stryk91/phishri-installer/internal/domain"
	"github.com/stryk91/phishri-installer/internal/platform"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "PHISHRI_INSTALLER_CONFIG"

// Worker invocation defaults.
const (
	DefaultShell              = "powershell"
	DefaultInstallScriptURL   = "https://raw.githubusercontent.com/Stryk91/PhiSHRI/main/install.ps1"
	DefaultUninstallScriptURL = "https://raw.githubusercontent.com/Stryk91/PhiSHRI/main/uninstall.ps1"

	DefaultInstallTemplate = "$ErrorActionPreference = 'Continue'; " +
		"$script = Invoke-RestMethod -Uri '{{{script_url}}}'; " +
		"$scriptBlock = [ScriptBlock]::Create($script); " +
		"& $scriptBlock -Method {{{method}}}"

	DefaultUninstallTemplate = "Invoke-RestMethod -Uri '{{{script_url}}}' | Invoke-Expression"
)

// Log and tracing defaults.
const (
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultServiceName = "phishri-installer"
)

// ErrInvalidConfig is returned when the configuration cannot be used.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the installer configuration.
type Config struct {
	Worker  WorkerConfig         `toml:"worker"`
	Layout  domain.InstallLayout `toml:"layout"`
	Log     LogConfig            `toml:"log"`
	Tracing TracingConfig        `toml:"tracing"`
}

// WorkerConfig describes how the worker process is invoked. The templates
// are mustache templates receiving script_url and, for install, method.
type WorkerConfig struct {
	Shell              string   `toml:"shell"`
	ShellArgs          []string `toml:"shell_args"`
	InstallScriptURL   string   `toml:"install_script_url"`
	UninstallScriptURL string   `toml:"uninstall_script_url"`
	InstallTemplate    string   `toml:"install_template"`
	UninstallTemplate  string   `toml:"uninstall_template"`
	Env                []string `toml:"env,omitempty"`
	Timeout            string   `toml:"timeout,omitempty"`
}

// TimeoutDuration parses Timeout. Empty means no timeout.
func (w WorkerConfig) TimeoutDuration() (time.Duration, error) {
	if w.Timeout == "" {
		return 0, nil
	}

	timeout, err := time.ParseDuration(w.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: worker.timeout: %w", ErrInvalidConfig, err)
	}

	if timeout < 0 {
		return 0, fmt.Errorf("%w: worker.timeout must not be negative", ErrInvalidConfig)
	}

	return timeout, nil
}

// LogConfig selects the log level and output format.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// TracingConfig configures OTLP trace export. Tracing is off without an endpoint.
type TracingConfig struct {
	Endpoint    string `toml:"endpoint,omitempty"`
	Insecure    bool   `toml:"insecure"`
	ServiceName string `toml:"service_name"`
}

// Enabled reports whether spans are exported.
func (t TracingConfig) Enabled() bool {
	return t.Endpoint != ""
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Worker: WorkerConfig{
			Shell:              DefaultShell,
			ShellArgs:          []string{"-NoProfile", "-ExecutionPolicy", "Bypass", "-Command"},
			InstallScriptURL:   DefaultInstallScriptURL,
			UninstallScriptURL: DefaultUninstallScriptURL,
			InstallTemplate:    DefaultInstallTemplate,
			UninstallTemplate:  DefaultUninstallTemplate,
		},
		Layout: domain.DefaultInstallLayout(),
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Tracing: TracingConfig{
			ServiceName: DefaultServiceName,
		},
	}
}

// DefaultPath returns the config file location, honoring PHISHRI_INSTALLER_CONFIG.
func DefaultPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return platform.ExpandPath(path)
	}

	return filepath.Join(platform.GetXDGConfigHome(), platform.AppName, "config.toml")
}

// Load reads the config file at path over the defaults. An empty path
// means DefaultPath, which may be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := Default()

	// #nosec G304 - Config path comes from the user
	data, err := os.ReadFile(platform.ExpandPath(path))
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}

		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %w", ErrInvalidConfig, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	var problems []string

	if c.Worker.Shell == "" {
		problems = append(problems, "worker.shell is empty")
	}

	if c.Worker.InstallTemplate == "" || c.Worker.UninstallTemplate == "" {
		problems = append(problems, "worker templates must not be empty")
	}

	if _, err := c.Worker.TimeoutDuration(); err != nil {
		problems = append(problems, "worker.timeout is not a duration")
	}

	if c.Layout.RootDir == "" || c.Layout.Binary == "" || c.Layout.Knowledge == "" {
		problems = append(problems, "layout paths must not be empty")
	}

	if !strings.HasPrefix(c.Layout.DoorExtension, ".") {
		problems = append(problems, "layout.door_extension must start with a dot")
	}

	if !slices.Contains(LogLevels(), c.Log.Level) {
		problems = append(problems, "log.level must be one of "+strings.Join(LogLevels(), ", "))
	}

	if c.Log.Format != "text" && c.Log.Format != "json" {
		problems = append(problems, "log.format must be text or json")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}

	return nil
}

// LogLevels lists the accepted log levels.
func LogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Marshal renders the configuration as TOML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}

	return data, nil
}
