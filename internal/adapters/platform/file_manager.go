// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

package platform

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileManager implements the FileManager port for the real filesystem.
type FileManager struct{}

// NewFileManager creates a new file manager.
func NewFileManager() *FileManager {
	return &FileManager{}
}

// FileExists checks if a file or directory exists.
func (f *FileManager) FileExists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}

// ReadDir lists a directory without following entries.
func (f *FileManager) ReadDir(path string) ([]fs.DirEntry, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	return entries, nil
}

// Stat describes path, following symlinks.
func (f *FileManager) Stat(path string) (fs.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	return info, nil
}

// EvalSymlinks resolves every link in path.
func (f *FileManager) EvalSymlinks(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	return resolved, nil
}
