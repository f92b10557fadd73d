// Package monitor defines the domain model for endpoint health monitoring.
//
// This package contains the core types shared by every other package in the
// module: the Target describing an endpoint under observation, the Result of
// a single probe, the Status classification of that probe, and the Stats
// aggregate derived from a sequence of results.
//
// # Core Concepts
//
// A Target is the identity and policy for one endpoint: its URL, the status
// code it is expected to return, how long a probe may take, and whether it
// currently participates in check cycles. Targets are validated at the
// boundary where they are constructed; the check engine only ever sees
// targets that passed Validate.
//
// A Result is created exactly once per probe attempt and is immutable. Field
// presence follows the status:
//
//   - StatusUp / StatusDown: StatusCode and LatencyMS are set.
//   - StatusTimeout / StatusError: StatusCode and LatencyMS are absent.
//   - Any status other than StatusUp carries an ErrorMessage.
//
// # Basic Usage
//
//	target := monitor.Target{
//	    Name:           "api",
//	    URL:            "https://api.example.com/healthz",
//	    Interval:       60 * time.Second,
//	    ExpectedStatus: 200,
//	    Timeout:        10 * time.Second,
//	    Enabled:        true,
//	}
//	if err := target.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package monitor
