// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/stryk91/phishri-installer/internal/domain"
)

// AcquireRunLock takes the cross-process run lock at path without waiting.
// It returns domain.ErrRunInProgress when another process holds it.
func AcquireRunLock(path string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	lock := flock.New(path)

	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire run lock: %w", err)
	}

	if !locked {
		return nil, fmt.Errorf("%w (lock held on %s)", domain.ErrRunInProgress, path)
	}

	return func() { _ = lock.Unlock() }, nil
}
