// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import (
	"fmt"
	"path/filepath"
)

// InstallPaths are the locations the status service inspects.
type InstallPaths struct {
	Root      string `json:"root"`
	Binary    string `json:"binary"`
	Knowledge string `json:"knowledge"`
}

// InstallationState is the result of one status check.
type InstallationState struct {
	Installed       bool         `json:"installed"`
	BinaryExists    bool         `json:"binary_exists"`
	KnowledgeExists bool         `json:"knowledge_exists"`
	DoorCount       int          `json:"door_count"`
	Paths           InstallPaths `json:"paths"`
}

// InstallLayout describes where installed artifacts live relative to a
// host-specific base directory. Paths use forward slashes.
type InstallLayout struct {
	BaseDirEnv    string `toml:"base_dir_env"`
	RootDir       string `toml:"root_dir"`
	Binary        string `toml:"binary"`
	Knowledge     string `toml:"knowledge"`
	DoorExtension string `toml:"door_extension"`
}

// DefaultInstallLayout returns the layout the installer scripts produce.
func DefaultInstallLayout() InstallLayout {
	return InstallLayout{
		BaseDirEnv:    "USERPROFILE",
		RootDir:       ".phishri",
		Binary:        "bin/phishri-mcp.exe",
		Knowledge:     "knowledge/CONTEXTS",
		DoorExtension: ".json",
	}
}

// Resolve computes the status paths under baseDir. An empty baseDir yields
// paths anchored at the filesystem root, which normally do not exist.
func (l InstallLayout) Resolve(baseDir string) InstallPaths {
	root := filepath.Clean(filepath.FromSlash(baseDir + "/" + l.RootDir))

	return InstallPaths{
		Root:      root,
		Binary:    filepath.Join(root, filepath.FromSlash(l.Binary)),
		Knowledge: filepath.Join(root, filepath.FromSlash(l.Knowledge)),
	}
}

// Summary is the one-line status headline.
func (s InstallationState) Summary() string {
	if !s.Installed {
		return "PhiSHRI is not installed"
	}

	return fmt.Sprintf("PhiSHRI is installed — %d doors available", s.DoorCount)
}
