package stats

import (
	"context"
	"sort"
	"sync"

	"github.com/jonwraymond/sentinel/monitor"
)

// Dispatcher receives detected status transitions. Delivery mechanics
// (webhook, log, fan-out) are entirely up to the implementation; the
// aggregator only reports.
type Dispatcher interface {
	Dispatch(ctx context.Context, transition monitor.Transition)
}

// DispatcherFunc is an adapter to allow ordinary functions to be used as
// Dispatchers.
type DispatcherFunc func(ctx context.Context, transition monitor.Transition)

// Dispatch calls f.
func (f DispatcherFunc) Dispatch(ctx context.Context, transition monitor.Transition) {
	f(ctx, transition)
}

// entry holds the mutable aggregate for one monitor. Each entry has its own
// lock so different monitors never contend.
type entry struct {
	mu           sync.Mutex
	stats        monitor.Stats
	latencySum   float64
	latencyCount int64
}

// Aggregator folds results into running per-monitor statistics.
type Aggregator struct {
	mu         sync.RWMutex
	entries    map[string]*entry
	dispatcher Dispatcher
}

// AggregatorOption configures the aggregator.
type AggregatorOption func(*Aggregator)

// WithDispatcher attaches a transition dispatcher.
func WithDispatcher(d Dispatcher) AggregatorOption {
	return func(a *Aggregator) { a.dispatcher = d }
}

// NewAggregator creates a new stats aggregator.
func NewAggregator(opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		entries: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Apply folds one result into the monitor's statistics and returns the
// updated snapshot plus the detected transition, if any. Updates for the
// same monitor name are serialized. The dispatcher is notified after the
// entry lock is released so a slow delivery cannot stall snapshot reads;
// callers that need transition order to match update order must serialize
// Apply calls for the same monitor.
func (a *Aggregator) Apply(ctx context.Context, result monitor.Result) (monitor.Stats, *monitor.Transition) {
	e := a.entry(result.MonitorName)

	e.mu.Lock()

	previous := e.stats.LastStatus

	e.stats.TotalChecks++
	if result.IsHealthy() {
		e.stats.SuccessfulChecks++
	} else {
		e.stats.FailedChecks++
	}

	if result.LatencyMS != nil {
		e.latencySum += *result.LatencyMS
		e.latencyCount++
		mean := e.latencySum / float64(e.latencyCount)
		e.stats.AverageLatencyMS = &mean
	}

	e.stats.UptimePercentage = e.stats.SuccessRate()
	ts := result.Timestamp
	e.stats.LastCheckTimestamp = &ts
	e.stats.LastStatus = result.Status

	transition := detectTransition(previous, result)
	snapshot := e.stats
	e.mu.Unlock()

	if transition != nil && a.dispatcher != nil {
		a.dispatcher.Dispatch(ctx, *transition)
	}

	return snapshot, transition
}

// detectTransition reports a status change between consecutive results.
// Like-to-like never transitions; a first result transitions from the
// implicit unknown state only when it is not UP.
func detectTransition(previous monitor.Status, result monitor.Result) *monitor.Transition {
	if previous == "" {
		if result.Status == monitor.StatusUp {
			return nil
		}
		return &monitor.Transition{
			MonitorName: result.MonitorName,
			To:          result.Status,
			Result:      result,
		}
	}
	if previous == result.Status {
		return nil
	}
	return &monitor.Transition{
		MonitorName: result.MonitorName,
		From:        previous,
		To:          result.Status,
		Result:      result,
	}
}

// entry returns the stats entry for name, creating it on first use.
func (a *Aggregator) entry(name string) *entry {
	a.mu.RLock()
	e, ok := a.entries[name]
	a.mu.RUnlock()
	if ok {
		return e
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if e, ok = a.entries[name]; ok {
		return e
	}
	e = &entry{stats: monitor.Stats{MonitorName: name}}
	a.entries[name] = e
	return e
}

// Stats returns the current snapshot for one monitor.
func (a *Aggregator) Stats(name string) (monitor.Stats, bool) {
	a.mu.RLock()
	e, ok := a.entries[name]
	a.mu.RUnlock()
	if !ok {
		return monitor.Stats{}, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats, true
}

// All returns snapshots for every tracked monitor, sorted by name.
func (a *Aggregator) All() []monitor.Stats {
	a.mu.RLock()
	entries := make([]*entry, 0, len(a.entries))
	for _, e := range a.entries {
		entries = append(entries, e)
	}
	a.mu.RUnlock()

	out := make([]monitor.Stats, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		out = append(out, e.stats)
		e.mu.Unlock()
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].MonitorName < out[j].MonitorName
	})
	return out
}

// Reset removes the entry for name, if present. Used when a monitor is
// deleted from the registry.
func (a *Aggregator) Reset(name string) {
	a.mu.Lock()
	delete(a.entries, name)
	a.mu.Unlock()
}
