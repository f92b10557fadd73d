package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jonwraymond/sentinel/monitor"
)

// Tracer wraps OpenTelemetry tracing with check-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for one probe against one target.
	StartSpan(ctx context.Context, target monitor.Target) (context.Context, trace.Span)

	// EndSpan ends the span, recording the probe outcome.
	EndSpan(span trace.Span, result monitor.Result)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer creates a new Tracer wrapping the given OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with target metadata as attributes.
// Span names follow the format monitor.check.<name>.
func (t *tracerImpl) StartSpan(ctx context.Context, target monitor.Target) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "monitor.check."+target.Name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("monitor.name", target.Name),
			attribute.String("monitor.url", target.URL),
			attribute.Int("monitor.expected_status", target.ExpectedStatus),
		),
	)
}

// EndSpan records the probe outcome on the span and ends it.
func (t *tracerImpl) EndSpan(span trace.Span, result monitor.Result) {
	span.SetAttributes(attribute.String("monitor.status", string(result.Status)))
	if result.StatusCode != nil {
		span.SetAttributes(attribute.Int("http.response.status_code", *result.StatusCode))
	}
	if result.LatencyMS != nil {
		span.SetAttributes(attribute.Float64("monitor.latency_ms", *result.LatencyMS))
	}

	if result.IsHealthy() {
		span.SetStatus(codes.Ok, "")
	} else {
		span.SetStatus(codes.Error, result.ErrorMessage)
	}
	span.End()
}
