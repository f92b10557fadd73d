package telemetry

import (
	"context"
	"time"

	"github.com/jonwraymond/sentinel/monitor"
)

// CheckFunc is the signature for check execution functions. This is the
// function shape that Middleware wraps.
type CheckFunc func(ctx context.Context, target monitor.Target) monitor.Result

// Middleware wraps check execution with observability (tracing, metrics,
// logging).
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe CheckFunc.
//   - Context: propagates context through tracing spans.
//   - Ownership: the result is passed through without modification.
type Middleware struct {
	tracer  Tracer
	metrics CheckMetrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given observability
// components.
func NewMiddleware(tracer Tracer, metrics CheckMetrics, logger Logger) *Middleware {
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// Wrap wraps a CheckFunc with tracing, metrics, and logging.
func (m *Middleware) Wrap(fn CheckFunc) CheckFunc {
	return func(ctx context.Context, target monitor.Target) monitor.Result {
		ctx, span := m.tracer.StartSpan(ctx, target)

		start := time.Now()
		result := fn(ctx, target)
		duration := time.Since(start)

		m.tracer.EndSpan(span, result)
		m.metrics.RecordCheck(ctx, result, duration)

		logger := m.logger.WithMonitor(target.Name)
		fields := []Field{
			{Key: "url", Value: result.URL},
			{Key: "status", Value: string(result.Status)},
			{Key: "duration_ms", Value: float64(duration.Milliseconds())},
		}
		if result.StatusCode != nil {
			fields = append(fields, Field{Key: "status_code", Value: *result.StatusCode})
		}

		if result.IsHealthy() {
			logger.Debug(ctx, "check completed", fields...)
		} else {
			fields = append(fields, Field{Key: "error", Value: result.ErrorMessage})
			logger.Warn(ctx, "check failed", fields...)
		}

		return result
	}
}

// MiddlewareFromProvider creates a Middleware from a Provider.
// This is a convenience function for common use cases.
func MiddlewareFromProvider(p Provider) (*Middleware, error) {
	metrics, err := NewCheckMetrics(p.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(NewTracer(p.Tracer()), metrics, p.Logger()), nil
}
