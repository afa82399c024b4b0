// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

package application

import (
	"context"
	"errors"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stryk91/phishri-installer/internal/domain"
	"github.com/stryk91/phishri-installer/internal/testutil"
)

func TestUninstallService_Uninstall(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		captured     *domain.CapturedOutput
		runErr       error
		wantSuccess  bool
		wantMessage  string
		wantReason   string
		wantEvents   []domain.ProgressEvent
		wantOutput   []string
		wantSentinel error
		wantStderr   string
	}{
		{
			name: "worker succeeds",
			captured: &domain.CapturedOutput{
				Status: domain.ExitStatus{Code: 0, Known: true},
				Stdout: []byte("[OK] removed binary\r\n[OK] removed knowledge\r\n"),
			},
			wantSuccess: true,
			wantMessage: UninstallSuccessResult,
			wantEvents: []domain.ProgressEvent{
				domain.NewProgressEvent(domain.StepUninstalling, domain.SeverityInfo, "Removing PhiSHRI...", 50),
				domain.NewProgressEvent(domain.StepComplete, domain.SeverityOK, "PhiSHRI has been uninstalled", 100),
			},
			wantOutput: []string{"[OK] removed binary", "[OK] removed knowledge"},
		},
		{
			name: "worker fails",
			captured: &domain.CapturedOutput{
				Status: domain.ExitStatus{Code: 1, Known: true},
				Stderr: []byte("access denied"),
			},
			wantReason: "Uninstall failed",
			wantEvents: []domain.ProgressEvent{
				domain.NewProgressEvent(domain.StepUninstalling, domain.SeverityInfo, "Removing PhiSHRI...", 50),
				domain.NewProgressEvent(domain.StepFailed, domain.SeverityError, "Uninstall failed.", 100),
			},
			wantSentinel: domain.ErrWorkerExit,
			wantStderr:   "access denied",
		},
		{
			name:       "worker cannot start",
			runErr:     &domain.LaunchError{Command: "powershell", Err: errors.New("permission denied")},
			wantReason: "Failed to start powershell: permission denied",
			wantEvents: []domain.ProgressEvent{
				domain.NewProgressEvent(domain.StepUninstalling, domain.SeverityInfo, "Removing PhiSHRI...", 50),
			},
			wantSentinel: domain.ErrLaunch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			launcher := &testutil.MockProcessLauncher{}
			launcher.On("Run", mock.Anything, domain.CommandSpec{Name: "uninstall"}).Return(tt.captured, tt.runErr)

			commands := &testutil.StaticCommands{Uninstall: domain.CommandSpec{Name: "uninstall"}}
			service := NewUninstallService(launcher, commands, logr.Discard(), fixedRunID())
			sink := &testutil.RecordingSink{}

			outcome := service.Uninstall(context.Background(), sink)

			assert.Equal(t, tt.wantSuccess, outcome.Success)
			assert.Equal(t, tt.wantMessage, outcome.Message)
			assert.Equal(t, tt.wantReason, outcome.Reason())
			assert.Equal(t, tt.wantEvents, sink.Events())
			assert.Equal(t, tt.wantOutput, outcome.Output)
			assert.Equal(t, "run-1", outcome.RunID)
			assert.Equal(t, domain.OperationUninstall, outcome.Operation)

			if tt.wantSentinel != nil {
				require.ErrorIs(t, outcome.Err, tt.wantSentinel)
			}

			var exitErr *domain.WorkerExitError
			if errors.As(outcome.Err, &exitErr) {
				assert.Equal(t, tt.wantStderr, exitErr.Stderr)
			}

			launcher.AssertExpectations(t)
		})
	}
}

func TestUninstallService_FailingSink(t *testing.T) {
	t.Parallel()

	launcher := &testutil.MockProcessLauncher{}
	launcher.On("Run", mock.Anything, mock.Anything).
		Return(&domain.CapturedOutput{Status: domain.ExitStatus{Known: true}}, nil)

	service := NewUninstallService(launcher, &testutil.StaticCommands{}, logr.Discard())
	sink := &testutil.RecordingSink{Err: errors.New("window closed")}

	outcome := service.Uninstall(context.Background(), sink)

	require.True(t, outcome.Success)
	assert.Equal(t, []int{50, 100}, sink.Percents())
}
