package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/jonwraymond/sentinel/monitor"
)

// CheckMetrics records metrics for check execution.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type CheckMetrics interface {
	// RecordCheck records one completed probe with its wall-clock duration.
	RecordCheck(ctx context.Context, result monitor.Result, duration time.Duration)

	// RecordTransition records one detected status transition.
	RecordTransition(ctx context.Context, transition monitor.Transition)

	// RecordCycle records one completed check cycle.
	RecordCycle(ctx context.Context, results int, duration time.Duration)
}

// checkMetrics is the concrete OpenTelemetry implementation of CheckMetrics.
type checkMetrics struct {
	meter           metric.Meter
	checkCount      metric.Int64Counter
	failureCount    metric.Int64Counter
	latencyHist     metric.Float64Histogram
	durationHist    metric.Float64Histogram
	transitionCount metric.Int64Counter
	cycleCount      metric.Int64Counter
	cycleDuration   metric.Float64Histogram
}

// NewCheckMetrics creates a CheckMetrics instance backed by the given meter.
func NewCheckMetrics(meter metric.Meter) (CheckMetrics, error) {
	checkCount, err := meter.Int64Counter(
		"monitor.checks.total",
		metric.WithDescription("Total number of health checks executed"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, err
	}

	failureCount, err := meter.Int64Counter(
		"monitor.checks.failures",
		metric.WithDescription("Total number of health checks that did not report UP"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, err
	}

	latencyHist, err := meter.Float64Histogram(
		"monitor.check.latency_ms",
		metric.WithDescription("Endpoint response latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"monitor.check.duration_ms",
		metric.WithDescription("Wall-clock probe duration in milliseconds, including timeouts"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	transitionCount, err := meter.Int64Counter(
		"monitor.transitions.total",
		metric.WithDescription("Total number of status transitions detected"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, err
	}

	cycleCount, err := meter.Int64Counter(
		"monitor.cycles.total",
		metric.WithDescription("Total number of completed check cycles"),
		metric.WithUnit("{cycle}"),
	)
	if err != nil {
		return nil, err
	}

	cycleDuration, err := meter.Float64Histogram(
		"monitor.cycle.duration_ms",
		metric.WithDescription("Check cycle duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &checkMetrics{
		meter:           meter,
		checkCount:      checkCount,
		failureCount:    failureCount,
		latencyHist:     latencyHist,
		durationHist:    durationHist,
		transitionCount: transitionCount,
		cycleCount:      cycleCount,
		cycleDuration:   cycleDuration,
	}, nil
}

// RecordCheck records metrics for one completed probe.
func (m *checkMetrics) RecordCheck(ctx context.Context, result monitor.Result, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("monitor.name", result.MonitorName),
		attribute.String("monitor.status", string(result.Status)),
	}
	opt := metric.WithAttributes(attrs...)

	m.checkCount.Add(ctx, 1, opt)
	if !result.IsHealthy() {
		m.failureCount.Add(ctx, 1, opt)
	}

	// Latency is recorded only when the probe produced one; timeouts and
	// transport errors carry no latency value.
	if result.LatencyMS != nil {
		m.latencyHist.Record(ctx, *result.LatencyMS, opt)
	}
	m.durationHist.Record(ctx, float64(duration)/float64(time.Millisecond), opt)
}

// RecordTransition records one detected status transition.
func (m *checkMetrics) RecordTransition(ctx context.Context, transition monitor.Transition) {
	m.transitionCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("monitor.name", transition.MonitorName),
		attribute.String("transition.from", string(transition.From)),
		attribute.String("transition.to", string(transition.To)),
	))
}

// RecordCycle records one completed check cycle.
func (m *checkMetrics) RecordCycle(ctx context.Context, results int, duration time.Duration) {
	opt := metric.WithAttributes(attribute.Int("cycle.results", results))
	m.cycleCount.Add(ctx, 1, opt)
	m.cycleDuration.Record(ctx, float64(duration)/float64(time.Millisecond), opt)
}

// RegisterInFlightGauge registers an observable gauge reporting how many
// checks are currently in flight. The callback is invoked on collection and
// must be safe for concurrent use.
func RegisterInFlightGauge(meter metric.Meter, inFlight func() int64) error {
	gauge, err := meter.Int64ObservableGauge(
		"monitor.checks.in_flight",
		metric.WithDescription("Number of health checks currently executing"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return err
	}

	_, err = meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		o.ObserveInt64(gauge, inFlight())
		return nil
	}, gauge)
	return err
}

// nopCheckMetrics is a metrics implementation that does nothing.
type nopCheckMetrics struct{}

// NopCheckMetrics returns a CheckMetrics that discards everything.
func NopCheckMetrics() CheckMetrics {
	return &nopCheckMetrics{}
}

func (m *nopCheckMetrics) RecordCheck(ctx context.Context, result monitor.Result, duration time.Duration) {
}
func (m *nopCheckMetrics) RecordTransition(ctx context.Context, transition monitor.Transition) {}
func (m *nopCheckMetrics) RecordCycle(ctx context.Context, results int, duration time.Duration) {}
