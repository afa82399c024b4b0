// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"github.com/stryk91/phishri-installer/internal/domain"
	"github.com/stryk91/phishri-installer/internal/tui/styles"
)

// RenderStatus renders the status headline. loaded is false until the first
// status check returns.
func RenderStatus(styleConfig *styles.Styles, state domain.InstallationState, loaded bool) string {
	switch {
	case !loaded:
		return styleConfig.MutedText.Render("○ Checking installation...")
	case state.Installed:
		return styleConfig.SuccessText.Render("● " + state.Summary())
	default:
		return styleConfig.WarningText.Render("○ " + state.Summary())
	}
}
