// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

package platform_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stryk91/phishri-installer/internal/platform"
)

func TestGetXDGConfigHomeWithEnv(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, "/custom/config", platform.GetXDGConfigHomeWithEnv("/custom/config"))
	assert.Equal(t, filepath.Join(home, ".config"), platform.GetXDGConfigHomeWithEnv(""))
}

func TestGetXDGStateHomeWithEnv(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, "/custom/state", platform.GetXDGStateHomeWithEnv("/custom/state"))
	assert.Equal(t, filepath.Join(home, ".local", "state"), platform.GetXDGStateHomeWithEnv(""))
}

func TestGetLockPath(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")

	assert.Equal(t, filepath.Join("/tmp/state", "phishri-installer", "run.lock"), platform.GetLockPath())
}

func TestExpandPathWithEnv(t *testing.T) {
	t.Parallel()

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name string
		path string
		want string
	}{
		{"tilde", "~/phishri.toml", filepath.Join(home, "phishri.toml")},
		{"xdg config", "$XDG_CONFIG_HOME/phishri-installer/config.toml", "/xdg/phishri-installer/config.toml"},
		{"absolute", "/etc/phishri.toml", "/etc/phishri.toml"},
		{"relative", "config.toml", "config.toml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, platform.ExpandPathWithEnv(tt.path, "/xdg"))
		})
	}
}
