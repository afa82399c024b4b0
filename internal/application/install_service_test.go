// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stryk91/phishri-installer/internal/domain"
	"github.com/stryk91/phishri-installer/internal/testutil"
)

func fixedRunID() Option {
	return WithRunIDs(func() string { return "run-1" })
}

func newScriptedInstall(t *testing.T, handle *testutil.ScriptedHandle) (*InstallService, *testutil.StaticCommands) {
	t.Helper()

	launcher := &testutil.MockProcessLauncher{}
	launcher.On("Launch", mock.Anything, mock.Anything).Return(handle, nil)

	commands := &testutil.StaticCommands{Install: domain.CommandSpec{Name: "worker"}}

	return NewInstallService(launcher, commands, logr.Discard(), fixedRunID()), commands
}

func TestInstallService_FiveOKLines(t *testing.T) {
	t.Parallel()

	handle := testutil.NewScriptedHandle(0,
		"[OK] prerequisites met",
		"[OK] directory created",
		"[OK] MCP binary downloaded",
		"[OK] knowledge base installed",
		"[OK] Claude config updated",
	)
	service, _ := newScriptedInstall(t, handle)
	sink := &testutil.RecordingSink{}

	outcome := service.Install(context.Background(), domain.MethodAuto, sink)

	require.True(t, outcome.Success, outcome.Reason())
	assert.Equal(t, InstallSuccessResult, outcome.Message)
	assert.Equal(t, "run-1", outcome.RunID)
	assert.Equal(t, domain.OperationInstall, outcome.Operation)
	assert.Len(t, outcome.Output, 5)

	assert.Equal(t, []int{0, 20, 30, 40, 50, 60, 100}, sink.Percents())

	events := sink.Events()
	assert.Equal(t, domain.NewProgressEvent(domain.StepStarting, domain.SeverityInfo,
		"Starting installation with method: Auto", 0), events[0])
	assert.Equal(t, []string{
		domain.StepStarting,
		domain.StepPrerequisites,
		domain.StepDirectories,
		domain.StepBinary,
		domain.StepKnowledge,
		domain.StepConfigure,
		domain.StepComplete,
	}, steps(events))
	assert.Equal(t, domain.NewProgressEvent(domain.StepComplete, domain.SeverityOK,
		InstallCompleteMessage, 100), events[6])
	assert.Equal(t, "[OK] directory created", events[2].Message)

	testutil.AssertProgressInvariants(t, events)
}

func TestInstallService_NonZeroExitWithoutOutput(t *testing.T) {
	t.Parallel()

	service, _ := newScriptedInstall(t, testutil.NewScriptedHandle(3))
	sink := &testutil.RecordingSink{}

	outcome := service.Install(context.Background(), domain.MethodMcpb, sink)

	require.False(t, outcome.Success)
	assert.Equal(t, "Installation failed with exit code: 3", outcome.Reason())
	require.ErrorIs(t, outcome.Err, domain.ErrWorkerExit)

	code, ok := outcome.ExitCode()
	assert.True(t, ok)
	assert.Equal(t, 3, code)

	events := sink.Events()
	require.Len(t, events, 2)
	assert.Equal(t, domain.StepStarting, events[0].Step)
	assert.Equal(t, domain.NewProgressEvent(domain.StepFailed, domain.SeverityError, InstallFailedMessage, 100), events[1])
}

func TestInstallService_FailureKeepsStderr(t *testing.T) {
	t.Parallel()

	handle := testutil.NewScriptedHandle(1, "[INFO] Downloading")
	handle.Errors = "  Invoke-RestMethod : Unable to connect to the remote server\n"

	service, _ := newScriptedInstall(t, handle)

	outcome := service.Install(context.Background(), domain.MethodAuto, nil)

	require.False(t, outcome.Success)
	assert.Equal(t, "Installation failed with exit code: 1", outcome.Reason())

	var exitErr *domain.WorkerExitError
	require.ErrorAs(t, outcome.Err, &exitErr)
	assert.Equal(t, "Invoke-RestMethod : Unable to connect to the remote server", exitErr.Stderr)
}

func TestInstallService_UnknownExitCode(t *testing.T) {
	t.Parallel()

	handle := testutil.NewScriptedHandle(0, "[INFO] working")
	handle.Status = domain.ExitStatus{}

	service, _ := newScriptedInstall(t, handle)

	outcome := service.Install(context.Background(), domain.MethodAuto, nil)

	require.False(t, outcome.Success)
	assert.Equal(t, "Installation failed with exit code: unknown", outcome.Reason())

	_, ok := outcome.ExitCode()
	assert.False(t, ok)
}

func TestInstallService_WaitError(t *testing.T) {
	t.Parallel()

	handle := testutil.NewScriptedHandle(0)
	handle.WaitErr = errors.New("wait: no child processes")

	service, _ := newScriptedInstall(t, handle)
	sink := &testutil.RecordingSink{}

	outcome := service.Install(context.Background(), domain.MethodAuto, sink)

	require.False(t, outcome.Success)
	assert.Contains(t, outcome.Reason(), "unknown")
	assert.Equal(t, []int{0, 100}, sink.Percents())
}

func TestInstallService_LaunchFailure(t *testing.T) {
	t.Parallel()

	launcher := &testutil.MockProcessLauncher{}
	launcher.On("Launch", mock.Anything, mock.Anything).
		Return(nil, &domain.LaunchError{Command: "powershell", Err: errors.New("executable file not found in $PATH")})

	service := NewInstallService(launcher, &testutil.StaticCommands{}, logr.Discard())
	sink := &testutil.RecordingSink{}

	outcome := service.Install(context.Background(), domain.MethodDxt, sink)

	require.False(t, outcome.Success)
	require.ErrorIs(t, outcome.Err, domain.ErrLaunch)
	assert.Contains(t, outcome.Reason(), "Failed to start powershell: executable file not found")

	events := sink.Events()
	require.Len(t, events, 1, "only the Starting event is published")
	assert.Equal(t, domain.StepStarting, events[0].Step)
	assert.Equal(t, 0, events[0].Percent)

	launcher.AssertExpectations(t)
}

func TestInstallService_CommandBuildFailure(t *testing.T) {
	t.Parallel()

	launcher := &testutil.MockProcessLauncher{}
	commands := &testutil.StaticCommands{Err: errors.New("template broken")}

	service := NewInstallService(launcher, commands, logr.Discard())
	sink := &testutil.RecordingSink{}

	outcome := service.Install(context.Background(), domain.MethodAuto, sink)

	require.False(t, outcome.Success)
	assert.Len(t, sink.Events(), 1)
	launcher.AssertNotCalled(t, "Launch", mock.Anything, mock.Anything)
}

func TestInstallService_StreamReadError(t *testing.T) {
	t.Parallel()

	handle := testutil.NewScriptedHandle(0, "[OK] prerequisites met", "[INFO] creating directory")
	handle.ReadErr = io.ErrUnexpectedEOF

	service, _ := newScriptedInstall(t, handle)
	sink := &testutil.RecordingSink{}

	outcome := service.Install(context.Background(), domain.MethodAuto, sink)

	require.False(t, outcome.Success)
	require.ErrorIs(t, outcome.Err, domain.ErrStreamRead)
	require.ErrorIs(t, outcome.Err, io.ErrUnexpectedEOF)
	assert.Equal(t, []string{"[OK] prerequisites met", "[INFO] creating directory"}, outcome.Output)

	assert.True(t, handle.Killed())
	assert.True(t, handle.Waited())

	events := sink.Events()
	assert.Equal(t, []int{0, 20, 20, 100}, sink.Percents())
	assert.Equal(t, domain.StepFailed, events[len(events)-1].Step)
	testutil.AssertProgressInvariants(t, events)
}

func TestInstallService_OverlongLineIsReadError(t *testing.T) {
	t.Parallel()

	handle := testutil.NewScriptedHandle(0, strings.Repeat("x", MaxLineBytes+1))
	service, _ := newScriptedInstall(t, handle)

	outcome := service.Install(context.Background(), domain.MethodAuto, nil)

	require.ErrorIs(t, outcome.Err, domain.ErrStreamRead)
	assert.True(t, handle.Killed())
}

func TestInstallService_FailingSinkDoesNotFailRun(t *testing.T) {
	t.Parallel()

	service, _ := newScriptedInstall(t, testutil.NewScriptedHandle(0, "[OK] done"))
	sink := &testutil.RecordingSink{Err: errors.New("listener gone")}

	outcome := service.Install(context.Background(), domain.MethodAuto, sink)

	require.True(t, outcome.Success)
	assert.Equal(t, []int{0, 20, 100}, sink.Percents())
}

func TestInstallService_InvalidMethod(t *testing.T) {
	t.Parallel()

	launcher := &testutil.MockProcessLauncher{}
	service := NewInstallService(launcher, &testutil.StaticCommands{}, logr.Discard())
	sink := &testutil.RecordingSink{}

	outcome := service.Install(context.Background(), domain.InstallMethod("Turbo"), sink)

	require.False(t, outcome.Success)
	require.ErrorIs(t, outcome.Err, domain.ErrInvalidMethod)
	assert.Empty(t, sink.Events())
	launcher.AssertNotCalled(t, "Launch", mock.Anything, mock.Anything)
}

func TestInstallService_MethodReachesWorker(t *testing.T) {
	t.Parallel()

	for _, method := range domain.InstallMethods() {
		t.Run(method.String(), func(t *testing.T) {
			t.Parallel()

			launcher := &testutil.MockProcessLauncher{}
			launcher.On("Launch", mock.Anything, mock.MatchedBy(func(spec domain.CommandSpec) bool {
				return strings.Join(spec.Args, " ") == "-Method "+method.String()
			})).Return(testutil.NewScriptedHandle(0), nil)

			commands := &testutil.StaticCommands{Install: domain.CommandSpec{Name: "worker"}}
			service := NewInstallService(launcher, commands, logr.Discard())

			outcome := service.Install(context.Background(), method, nil)

			require.True(t, outcome.Success)
			assert.Equal(t, []domain.InstallMethod{method}, commands.Methods())
			launcher.AssertExpectations(t)
		})
	}
}

func TestInstallService_ClassifiesWarnConfigLine(t *testing.T) {
	t.Parallel()

	service, _ := newScriptedInstall(t, testutil.NewScriptedHandle(0, "[WARN] config file missing, creating"))
	sink := &testutil.RecordingSink{}

	service.Install(context.Background(), domain.MethodAuto, sink)

	events := sink.Events()
	require.Len(t, events, 3)
	assert.Equal(t, domain.SeverityWarn, events[1].Severity)
	assert.Equal(t, domain.StepConfigure, events[1].Step)
	assert.Equal(t, 10, events[1].Percent)
}

func TestInstallService_CeilingHoldsUntilTerminal(t *testing.T) {
	t.Parallel()

	lines := make([]string, 15)
	for i := range lines {
		lines[i] = fmt.Sprintf("[OK] step %d", i)
	}

	service, _ := newScriptedInstall(t, testutil.NewScriptedHandle(0, lines...))
	sink := &testutil.RecordingSink{}

	service.Install(context.Background(), domain.MethodAuto, sink)

	percents := sink.Percents()
	assert.Equal(t, 95, percents[len(percents)-2])
	assert.Equal(t, 100, percents[len(percents)-1])
	testutil.AssertProgressInvariants(t, sink.Events())
}

type upperClassifier struct{}

func (upperClassifier) Classify(line string) domain.Classification {
	return domain.Classification{Severity: domain.SeverityInfo, Step: strings.ToUpper(line)}
}

func TestInstallService_WithClassifier(t *testing.T) {
	t.Parallel()

	service, _ := newScriptedInstall(t, testutil.NewScriptedHandle(0, "hello"))
	service.WithClassifier(upperClassifier{})

	sink := &testutil.RecordingSink{}
	service.Install(context.Background(), domain.MethodAuto, sink)

	assert.Equal(t, "HELLO", sink.Events()[1].Step)
}

func TestInstallService_ConcurrentRunsAreIndependent(t *testing.T) {
	t.Parallel()

	const runs = 8

	var wg sync.WaitGroup

	sinks := make([]*testutil.RecordingSink, runs)

	for i := range runs {
		sinks[i] = &testutil.RecordingSink{}

		handle := testutil.NewScriptedHandle(0, "[OK] a", "[OK] b", "[OK] c")
		service, _ := newScriptedInstall(t, handle)

		wg.Add(1)

		go func() {
			defer wg.Done()

			service.Install(context.Background(), domain.MethodAuto, sinks[i])
		}()
	}

	wg.Wait()

	for _, sink := range sinks {
		assert.Equal(t, []int{0, 20, 30, 40, 100}, sink.Percents())
	}
}

func steps(events []domain.ProgressEvent) []string {
	out := make([]string, 0, len(events))
	for _, event := range events {
		out = append(out, event.Step)
	}

	return out
}
