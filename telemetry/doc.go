// Package telemetry provides observability for the monitoring engine.
//
// This package wires OpenTelemetry tracing and metrics plus structured JSON
// logging behind a single Provider, configured once at process start. It
// also provides a Middleware that wraps check execution with a span, check
// metrics, and a structured log line per probe.
//
// # Basic Usage
//
//	provider, err := telemetry.NewProvider(ctx, telemetry.Config{
//	    ServiceName: "sentinel",
//	    Version:     "1.0.0",
//	    Metrics:     telemetry.MetricsConfig{Enabled: true, Exporter: "prometheus"},
//	    Logging:     telemetry.LoggingConfig{Enabled: true, Level: "info"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Shutdown(ctx)
//
// # Instrumenting Checks
//
//	mw, err := telemetry.MiddlewareFromProvider(provider)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	instrumented := mw.Wrap(checker.Check)
package telemetry
