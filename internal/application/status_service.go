// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

package application

import (
	"io/fs"
	"path/filepath"

	"github.com/go-logr/logr"

	"github.com/stryk91/phishri-installer/internal/domain"
)

// StatusService inspects the filesystem for an existing installation.
// It never spawns processes and never fails.
type StatusService struct {
	files  domain.FileManager
	layout domain.InstallLayout
	log    logr.Logger
}

// NewStatusService creates a status service for layout.
func NewStatusService(files domain.FileManager, layout domain.InstallLayout, log logr.Logger) *StatusService {
	return &StatusService{
		files:  files,
		layout: layout,
		log:    log,
	}
}

// Layout returns the layout the service inspects.
func (s *StatusService) Layout() domain.InstallLayout {
	return s.layout
}

// Inspect examines the installation under baseDir. An empty baseDir yields
// paths that do not exist, which reads as not installed.
func (s *StatusService) Inspect(baseDir string) domain.InstallationState {
	paths := s.layout.Resolve(baseDir)

	state := domain.InstallationState{
		BinaryExists:    s.files.FileExists(paths.Binary),
		KnowledgeExists: s.files.FileExists(paths.Knowledge),
		Paths:           paths,
	}

	state.Installed = state.BinaryExists && state.KnowledgeExists

	if state.KnowledgeExists {
		state.DoorCount = s.countDoors(paths.Knowledge)
	}

	s.log.V(1).Info("Inspected installation", "root", paths.Root, "installed", state.Installed, "doors", state.DoorCount)

	return state
}

// countDoors counts door files below root with an explicit stack.
// A directory that cannot be listed contributes nothing. Symlinks are
// followed, and each resolved directory is walked once so link loops end.
func (s *StatusService) countDoors(root string) int {
	count := 0
	stack := []string{root}
	visited := make(map[string]bool)

	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		resolved, err := s.files.EvalSymlinks(dir)
		if err != nil {
			resolved = filepath.Clean(dir)
		}

		if visited[resolved] {
			continue
		}

		visited[resolved] = true

		entries, err := s.files.ReadDir(dir)
		if err != nil {
			s.log.V(1).Info("Skipping unreadable directory", "path", dir, "error", err.Error())
			continue
		}

		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())

			isDir := entry.IsDir()
			if entry.Type()&fs.ModeSymlink != 0 {
				info, err := s.files.Stat(path)
				if err != nil {
					s.log.V(1).Info("Skipping dangling link", "path", path, "error", err.Error())
					continue
				}

				isDir = info.IsDir()
			}

			switch {
			case isDir:
				stack = append(stack, path)
			case filepath.Ext(entry.Name()) == s.layout.DoorExtension:
				count++
			}
		}
	}

	return count
}
