// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

package application

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/attribute"

	"github.com/stryk91/phishri-installer/internal/domain"
)

// Install messages shown to the listener and returned to the caller.
const (
	InstallStartingMessage = "Starting installation with method: "
	InstallCompleteMessage = "Installation completed successfully!"
	InstallFailedMessage   = "Installation failed. Check logs for details."
	InstallSuccessResult   = "Installation completed successfully"
	InstallFailedSummary   = "Installation failed"
)

// MaxLineBytes is the longest worker output line accepted before the
// stream is treated as unreadable.
const MaxLineBytes = 1024 * 1024

// ErrInvalidMethodRequest is returned for install requests with a method
// outside the supported set. No events are published for them.
var ErrInvalidMethodRequest = errors.New("install request rejected")

// InstallService runs the streaming install workflow:
// Starting, Streaming, Finalizing, then Completed or Failed.
type InstallService struct {
	runner

	launcher   domain.ProcessLauncher
	commands   domain.CommandBuilder
	classifier domain.LineClassifier
}

// NewInstallService creates an install service using the keyword classifier.
func NewInstallService(launcher domain.ProcessLauncher, commands domain.CommandBuilder, log logr.Logger, opts ...Option) *InstallService {
	return &InstallService{
		runner:     newRunner(log, opts),
		launcher:   launcher,
		commands:   commands,
		classifier: domain.NewKeywordClassifier(),
	}
}

// WithClassifier swaps the line classifier.
func (s *InstallService) WithClassifier(classifier domain.LineClassifier) *InstallService {
	s.classifier = classifier
	return s
}

// Install runs the worker with method and relays its progress to sink.
// The returned outcome is always terminal; Install never panics on worker
// misbehaviour and never fails because the sink does.
func (s *InstallService) Install(ctx context.Context, method domain.InstallMethod, sink domain.EventSink) domain.RunOutcome {
	if !method.IsValid() {
		return domain.Failed(domain.OperationInstall,
			fmt.Errorf("%w: %w: %q", ErrInvalidMethodRequest, domain.ErrInvalidMethod, string(method)))
	}

	ctx, scope := s.begin(ctx, domain.OperationInstall, attribute.String("install.method", method.String()))
	scope.log = scope.log.WithValues("method", method.String())

	return s.end(scope, s.run(ctx, scope, method, sink))
}

func (s *InstallService) run(ctx context.Context, scope *runScope, method domain.InstallMethod, sink domain.EventSink) domain.RunOutcome {
	tracker := domain.NewProgressTracker()

	// Starting
	scope.publish(sink, domain.NewProgressEvent(domain.StepStarting, domain.SeverityInfo,
		InstallStartingMessage+method.String(), 0))

	spec, err := s.commands.InstallCommand(method)
	if err != nil {
		return domain.Failed(domain.OperationInstall, err)
	}

	handle, err := s.launcher.Launch(ctx, spec)
	if err != nil {
		scope.log.Info("Worker could not be started", "error", err.Error())
		return domain.Failed(domain.OperationInstall, err)
	}

	// Streaming
	output, readErr := s.stream(scope, handle, tracker, sink)
	if readErr != nil {
		scope.log.Info("Worker output could not be read, stopping worker", "error", readErr.Error())

		if err := handle.Kill(); err != nil {
			scope.log.V(1).Info("Failed to stop worker", "error", err.Error())
		}

		_, _ = handle.Wait()

		s.fail(scope, tracker, sink)

		outcome := domain.Failed(domain.OperationInstall, &domain.StreamReadError{Err: readErr})
		outcome.Output = output

		return outcome
	}

	// Finalizing
	status, err := handle.Wait()
	if err != nil {
		scope.log.Info("Worker exit status unavailable", "error", err.Error())

		status = domain.ExitStatus{}
	}

	scope.log.V(1).Info("Worker exited", "code", status.Code, "known", status.Known)

	if status.Success() {
		percent := tracker.OnTerminalSuccess()
		scope.publish(sink, domain.NewProgressEvent(domain.StepComplete, domain.SeverityOK, InstallCompleteMessage, percent))

		outcome := domain.Succeeded(domain.OperationInstall, InstallSuccessResult)
		outcome.Output = output

		return outcome
	}

	s.fail(scope, tracker, sink)

	var reason error = &domain.WorkerExitError{
		Summary:  InstallFailedSummary,
		Status:   status,
		ShowCode: true,
		Stderr:   strings.TrimSpace(string(handle.Stderr())),
	}
	if cause := context.Cause(ctx); cause != nil {
		reason = fmt.Errorf("%w: %w", reason, cause)
	}

	outcome := domain.Failed(domain.OperationInstall, reason)
	outcome.Output = output

	return outcome
}

// stream relays worker stdout line by line, in order, until EOF or a read
// error. It returns the lines read so far.
func (s *InstallService) stream(scope *runScope, handle domain.ProcessHandle, tracker *domain.ProgressTracker, sink domain.EventSink) ([]string, error) {
	var output []string

	scanner := bufio.NewScanner(handle.Stdout())
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineBytes)

	for scanner.Scan() {
		line := scanner.Text()
		output = append(output, line)

		class := s.classifier.Classify(line)
		percent := tracker.OnLine(class.Severity, line)

		scope.log.V(1).Info("Worker output", "step", class.Step, "status", string(class.Severity), "progress", percent, "line", line)
		scope.publish(sink, domain.NewProgressEvent(class.Step, class.Severity, line, percent))
	}

	return output, scanner.Err()
}

func (s *InstallService) fail(scope *runScope, tracker *domain.ProgressTracker, sink domain.EventSink) {
	percent := tracker.OnTerminalFailure()
	scope.publish(sink, domain.NewProgressEvent(domain.StepFailed, domain.SeverityError, InstallFailedMessage, percent))
}
