// Package stats aggregates health-check results into per-monitor statistics
// and detects status transitions.
//
// The Aggregator owns the only mutable shared state inside the core: one
// stats entry per monitor name. Entries are guarded per key, so updates for
// the same monitor are serialized while updates for different monitors
// proceed fully in parallel.
//
// A transition is detected when a result's status differs from the
// monitor's previous status. The first-ever result for a monitor counts as
// a transition from the implicit unknown state only when it is not UP, so a
// fleet coming up healthy raises no alerts. Detected transitions are
// reported to the configured Dispatcher.
package stats
