// Package probe executes health checks against individual monitor targets.
//
// This package implements the single-probe path of the check engine: it
// issues one HTTP request per invocation, enforces the target's own timeout,
// measures latency to response headers, and classifies every failure mode
// into a closed set of error kinds (DNS, TLS, timeout, connection).
//
// # Outcome Mapping
//
// Check never returns an error. Every failure path is converted into a
// monitor.Result:
//
//   - expected status code received: StatusUp
//   - unexpected status code received: StatusDown
//   - deadline elapsed before a response: StatusTimeout
//   - DNS, TLS, or connection failure: StatusError
//
// # Classification Priority
//
// Transport failures are classified in a fixed priority order: DNS
// resolution failures first, then TLS/certificate failures, then elapsed
// deadlines, then all remaining connection-level failures. The ordering
// matters: a certificate failure inside a timed-out handshake must surface
// as an SSL error, not a timeout.
//
// # Basic Usage
//
//	checker := probe.NewChecker(probe.CheckerConfig{})
//	result := checker.Check(ctx, target)
//	if !result.IsHealthy() {
//	    log.Printf("%s is %s: %s", result.MonitorName, result.Status, result.ErrorMessage)
//	}
package probe
