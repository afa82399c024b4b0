// SPDX-FileCopyrightText: 2025 The PhiSHRI Installer Authors
// SPDX-License-Identifier: EUPL-1.2

// Package application drives the install and uninstall workflows and the
// installed-state check.
package application

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/stryk91/phishri-installer/internal/domain"
)

const tracerName = "github.com/stryk91/phishri-installer/internal/application"

// Option configures the run services.
type Option func(*runner)

// WithTracer sets the tracer used for run spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *runner) {
		r.tracer = tracer
	}
}

// WithRunIDs replaces the run ID generator.
func WithRunIDs(next func() string) Option {
	return func(r *runner) {
		r.newRunID = next
	}
}

// WithClock replaces the clock used for run durations.
func WithClock(now func() time.Time) Option {
	return func(r *runner) {
		r.now = now
	}
}

// runner holds what both workflows share: logging, tracing, run identity
// and fire-and-forget publishing.
type runner struct {
	log      logr.Logger
	tracer   trace.Tracer
	newRunID func() string
	now      func() time.Time
}

func newRunner(log logr.Logger, opts []Option) runner {
	r := runner{
		log:      log,
		tracer:   otel.GetTracerProvider().Tracer(tracerName),
		newRunID: uuid.NewString,
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(&r)
	}

	return r
}

// runScope is the per-run logger and span.
type runScope struct {
	id      string
	log     logr.Logger
	span    trace.Span
	started time.Time
}

func (r *runner) begin(ctx context.Context, op domain.Operation, attrs ...attribute.KeyValue) (context.Context, *runScope) {
	id := r.newRunID()

	attrs = append([]attribute.KeyValue{
		attribute.String("run.id", id),
		attribute.String("run.operation", string(op)),
	}, attrs...)

	ctx, span := r.tracer.Start(ctx, string(op), trace.WithAttributes(attrs...))

	return ctx, &runScope{
		id:      id,
		log:     r.log.WithValues("runID", id, "operation", op),
		span:    span,
		started: r.now(),
	}
}

// end stamps the outcome with the run identity and closes the span.
func (r *runner) end(scope *runScope, outcome domain.RunOutcome) domain.RunOutcome {
	outcome.RunID = scope.id
	outcome.Duration = r.now().Sub(scope.started)

	scope.span.SetAttributes(attribute.Bool("run.success", outcome.Success))

	if code, ok := outcome.ExitCode(); ok {
		scope.span.SetAttributes(attribute.Int("worker.exit_code", code))
	}

	if outcome.Success {
		scope.span.SetStatus(codes.Ok, outcome.Message)
		scope.log.Info("Run completed", "message", outcome.Message, "duration", outcome.Duration)
	} else {
		if outcome.Err != nil {
			scope.span.RecordError(outcome.Err)
		}

		scope.span.SetStatus(codes.Error, outcome.Reason())
		scope.log.Info("Run failed", "reason", outcome.Reason(), "duration", outcome.Duration)
	}

	scope.span.End()

	return outcome
}

// publish hands an event to the sink. A failed publish is logged and
// otherwise ignored; it never fails the run.
func (s *runScope) publish(sink domain.EventSink, event domain.ProgressEvent) {
	if sink == nil {
		return
	}

	if err := sink.Publish(event); err != nil {
		s.log.V(1).Info("Progress event dropped", "step", event.Step, "progress", event.Percent, "error", err.Error())
	}

	if event.IsTerminal() {
		s.span.AddEvent(domain.ProgressEventName, trace.WithAttributes(
			attribute.String("step", event.Step),
			attribute.String("status", string(event.Severity)),
		))
	}
}
