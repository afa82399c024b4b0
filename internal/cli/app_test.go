// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

package cli_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stryk91/phishri-installer/internal/application"
	"github.com/stryk91/phishri-installer/internal/cli"
	"github.com/stryk91/phishri-installer/internal/domain"
)

type harness struct {
	dir    string
	config string
	home   string
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newHarness(t *testing.T, installTemplate, uninstallTemplate string) *harness {
	t.Helper()

	dir := t.TempDir()
	h := &harness{
		dir:    dir,
		config: filepath.Join(dir, "config.toml"),
		home:   filepath.Join(dir, "home"),
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}

	config := fmt.Sprintf(`[worker]
shell = "sh"
shell_args = ["-c"]
install_script_url = "https://example.invalid/install.ps1"
uninstall_script_url = "https://example.invalid/uninstall.ps1"
install_template = %q
uninstall_template = %q

[log]
level = "error"
format = "text"
`, installTemplate, uninstallTemplate)

	require.NoError(t, os.WriteFile(h.config, []byte(config), 0o600))

	return h
}

func (h *harness) run(t *testing.T, stdin string, args ...string) error {
	t.Helper()

	app := cli.NewCLI(
		cli.WithIO(strings.NewReader(stdin), h.stdout, h.stderr),
		cli.WithLockPath(filepath.Join(h.dir, "run.lock")),
		cli.WithGetenv(func(key string) string {
			if key == "USERPROFILE" {
				return h.home
			}

			return ""
		}),
		cli.WithVersion("1.2.3"),
	)

	full := append([]string{cli.AppName, "--config", h.config}, args...)

	return app.Run(context.Background(), full)
}

func exitCode(t *testing.T, err error) int {
	t.Helper()

	var exitErr *domain.ExitError
	require.True(t, errors.As(err, &exitErr), "expected ExitError, got %v", err)

	return exitErr.Code
}

const okInstall = "echo '[OK] Directory created'; echo '[OK] MCP binary downloaded'; echo 'using {{{method}}}'"

func TestCLI_InstallJSON(t *testing.T) {
	t.Parallel()

	h := newHarness(t, okInstall, "true")
	require.NoError(t, h.run(t, "", "--json", "install", "--method", "dxt"))

	var lines []map[string]any

	scanner := bufio.NewScanner(h.stdout)
	for scanner.Scan() {
		var line map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line), scanner.Text())

		lines = append(lines, line)
	}

	require.Len(t, lines, 6, "starting, three worker lines, complete and the result")

	first, ok := lines[0]["payload"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, domain.ProgressEventName, lines[0]["event"])
	assert.Equal(t, "Starting installation with method: Dxt", first["message"])

	worker, ok := lines[3]["payload"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "using Dxt", worker["message"])

	complete, ok := lines[4]["payload"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 100, complete["progress"], 0)

	result := lines[5]
	assert.Equal(t, true, result["success"])
	assert.Equal(t, "Dxt", result["method"])
	assert.Equal(t, "install", result["operation"])
}

func TestCLI_InstallFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t, "echo '[ERROR] download failed'; exit 3", "true")
	err := h.run(t, "", "--plain", "install")

	require.Error(t, err)
	assert.Equal(t, domain.ExitInstallError, exitCode(t, err))
	assert.Contains(t, err.Error(), "exit code: 3")
	assert.Contains(t, h.stdout.String(), "[ERROR] download failed")
}

func TestCLI_WorkerStderrSelectsExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		install   string
		uninstall string
		args      []string
		want      int
	}{
		{
			name:      "install denied",
			install:   "echo 'mkdir: permission denied' >&2; exit 1",
			uninstall: "true",
			args:      []string{"--plain", "install"},
			want:      domain.ExitPermissionError,
		},
		{
			name:      "install download failed",
			install:   "echo 'curl: could not resolve: no such host' >&2; exit 1",
			uninstall: "true",
			args:      []string{"--plain", "install"},
			want:      domain.ExitNetworkError,
		},
		{
			name:      "uninstall denied",
			install:   okInstall,
			uninstall: "echo 'rm: Permission denied' >&2; exit 1",
			args:      []string{"--yes", "uninstall"},
			want:      domain.ExitPermissionError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t, tt.install, tt.uninstall)
			err := h.run(t, "", tt.args...)

			require.Error(t, err)
			assert.Equal(t, tt.want, exitCode(t, err))
		})
	}
}

func TestCLI_InstallInvalidMethod(t *testing.T) {
	t.Parallel()

	h := newHarness(t, okInstall, "true")
	err := h.run(t, "", "install", "--method", "zip")

	require.Error(t, err)
	assert.Equal(t, domain.ExitUsageError, exitCode(t, err))
	assert.Empty(t, h.stdout.String())
}

func TestCLI_InstallDefaultsToAuto(t *testing.T) {
	t.Parallel()

	h := newHarness(t, okInstall, "true")
	require.NoError(t, h.run(t, "", "install"))

	assert.Contains(t, h.stdout.String(), "Starting installation with method: Auto")
	assert.Contains(t, h.stdout.String(), "using Auto")
}

func TestCLI_Uninstall(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		stdin   string
		args    []string
		wantRan bool
	}{
		{name: "yes flag", args: []string{"--yes", "uninstall"}, wantRan: true},
		{name: "confirmed on stdin", stdin: "y\n", args: []string{"uninstall"}, wantRan: true},
		{name: "declined on stdin", stdin: "n\n", args: []string{"uninstall"}, wantRan: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			marker := filepath.Join(dir, "uninstalled")

			h := newHarness(t, okInstall, "touch '"+marker+"'; echo 'Removed PhiSHRI directory'")
			require.NoError(t, h.run(t, tt.stdin, tt.args...))

			_, statErr := os.Stat(marker)
			assert.Equal(t, tt.wantRan, statErr == nil)

			if tt.wantRan {
				assert.Contains(t, h.stdout.String(), application.UninstallCompleteMessage)
			} else {
				assert.Contains(t, h.stderr.String(), "Uninstall cancelled")
			}
		})
	}
}

func TestCLI_UninstallWithoutAnswer(t *testing.T) {
	t.Parallel()

	marker := filepath.Join(t.TempDir(), "uninstalled")
	h := newHarness(t, okInstall, "touch '"+marker+"'")

	err := h.run(t, "", "uninstall")

	require.Error(t, err)
	assert.Equal(t, domain.ExitUsageError, exitCode(t, err))
	assert.NoFileExists(t, marker)
}

func TestCLI_UninstallFailure(t *testing.T) {
	t.Parallel()

	h := newHarness(t, okInstall, "exit 1")
	err := h.run(t, "", "--yes", "uninstall")

	require.Error(t, err)
	assert.Equal(t, domain.ExitUninstallError, exitCode(t, err))
}

func TestCLI_StatusPlain(t *testing.T) {
	t.Parallel()

	h := newHarness(t, okInstall, "true")

	root := filepath.Join(h.home, ".phishri")
	knowledge := filepath.Join(root, "knowledge", "CONTEXTS")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "bin"), 0o750))
	require.NoError(t, os.MkdirAll(knowledge, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "bin", "phishri-mcp.exe"), []byte("bin"), 0o600))

	for _, door := range []string{"alpha.json", "beta.json", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(knowledge, door), []byte("{}"), 0o600))
	}

	require.NoError(t, h.run(t, "", "--plain", "status"))

	out := h.stdout.String()
	assert.Contains(t, out, "installed:true\n")
	assert.Contains(t, out, "doors:2\n")
	assert.Contains(t, out, "root:"+root+"\n")
	assert.Contains(t, out, "shell:sh\n")
	assert.Contains(t, out, "shell_available:true\n")
}

func TestCLI_StatusJSONNotInstalled(t *testing.T) {
	t.Parallel()

	h := newHarness(t, okInstall, "true")
	require.NoError(t, h.run(t, "", "--json", "status"))

	var result map[string]any
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &result))
	assert.Equal(t, false, result["installed"])
}

func TestCLI_OutputFlag(t *testing.T) {
	t.Parallel()

	h := newHarness(t, okInstall, "true")
	require.NoError(t, h.run(t, "", "--output", "json", "status"))

	var result map[string]any
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &result))
	assert.Equal(t, false, result["installed"])

	h = newHarness(t, okInstall, "true")
	require.NoError(t, h.run(t, "", "-o", "plain", "status"))
	assert.Contains(t, h.stdout.String(), "installed:false\n")

	h = newHarness(t, okInstall, "true")
	require.NoError(t, h.run(t, "", "--output", "text", "--json", "version"))
	assert.JSONEq(t, `{"version":"1.2.3"}`, h.stdout.String())
}

func TestCLI_Version(t *testing.T) {
	t.Parallel()

	h := newHarness(t, okInstall, "true")
	require.NoError(t, h.run(t, "", "version"))
	assert.Equal(t, cli.AppName+" 1.2.3\n", h.stdout.String())

	h = newHarness(t, okInstall, "true")
	require.NoError(t, h.run(t, "", "--json", "version"))
	assert.JSONEq(t, `{"version":"1.2.3"}`, h.stdout.String())
}

func TestCLI_ConfigShow(t *testing.T) {
	t.Parallel()

	h := newHarness(t, okInstall, "true")
	require.NoError(t, h.run(t, "", "config", "show"))

	out := h.stdout.String()
	assert.Contains(t, out, "[worker]")
	assert.Contains(t, out, "using {{{method}}}")
	assert.Contains(t, out, "[layout]")
}

func TestCLI_NoArgumentsPrintsUsage(t *testing.T) {
	t.Parallel()

	h := newHarness(t, okInstall, "true")
	require.NoError(t, h.run(t, ""))

	assert.Contains(t, h.stdout.String(), "Usage:")
	assert.Contains(t, h.stdout.String(), cli.AppName+" install")
}

func TestCLI_UsageErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "json and plain", args: []string{"--json", "--plain", "status"}, want: domain.ExitUsageError},
		{name: "bad output format", args: []string{"--output", "xml", "status"}, want: domain.ExitUsageError},
		{name: "output json and plain", args: []string{"--output", "json", "--plain", "status"}, want: domain.ExitUsageError},
		{name: "bad color", args: []string{"--color", "sometimes", "status"}, want: domain.ExitUsageError},
		{name: "bad log level", args: []string{"--log-level", "loud", "status"}, want: domain.ExitUsageError},
		{name: "unknown command", args: []string{"frobnicate"}, want: domain.ExitUsageError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t, okInstall, "true")
			err := h.run(t, "", tt.args...)

			require.Error(t, err)
			assert.Equal(t, tt.want, exitCode(t, err))
		})
	}
}

func TestCLI_BrokenConfig(t *testing.T) {
	t.Parallel()

	h := newHarness(t, okInstall, "true")
	require.NoError(t, os.WriteFile(h.config, []byte("[worker]\nshell = \n"), 0o600))

	err := h.run(t, "", "status")

	require.Error(t, err)
	assert.Equal(t, domain.ExitConfigError, exitCode(t, err))
}
