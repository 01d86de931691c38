package service

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	dErrors "medgate/pkg/domain-errors"
)

// Observability helpers for tracing, logging, and metrics. Metrics are
// optional; every helper tolerates a nil collector so tests can construct the
// service without Prometheus registration.

var tracer = otel.Tracer("medgate/authgate")

func (s *Service) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name)
}

// endSpan records the outcome of an operation. The domain code is attached as
// an attribute so traces can be sliced by failure class; raw tokens are never
// added to spans.
func (s *Service) endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(dErrors.CodeOf(err)))
		span.SetAttributes(attribute.String("authgate.failure_class", string(dErrors.CodeOf(err))))
	}
	span.End()
}

func (s *Service) logApproval(ctx context.Context, email string) {
	s.logger.InfoContext(ctx, "administrator approved identity",
		"email", email,
		"event", "approval_confirmed",
	)
}

func (s *Service) incrementApprovalsRequested() {
	if s.metrics != nil {
		s.metrics.IncrementApprovalsRequested()
	}
}

func (s *Service) incrementApprovalsConfirmed() {
	if s.metrics != nil {
		s.metrics.IncrementApprovalsConfirmed()
	}
}

func (s *Service) incrementApprovalsRejected(reason string) {
	if s.metrics != nil {
		s.metrics.IncrementApprovalsRejected(reason)
	}
}

func (s *Service) incrementNotificationFailures() {
	if s.metrics != nil {
		s.metrics.IncrementNotificationFailures()
	}
}

func (s *Service) incrementStatusPolls(outcome string) {
	if s.metrics != nil {
		s.metrics.IncrementStatusPolls(outcome)
	}
}

func (s *Service) incrementSessionsIssued() {
	if s.metrics != nil {
		s.metrics.IncrementSessionsIssued()
	}
}

func (s *Service) observeRequestApprovalDuration(durationMs float64) {
	if s.metrics != nil {
		s.metrics.ObserveRequestApprovalDuration(durationMs)
	}
}

func (s *Service) observeCheckStatusDuration(durationMs float64) {
	if s.metrics != nil {
		s.metrics.ObserveCheckStatusDuration(durationMs)
	}
}
