package engine

import (
	"context"
	"sync"

	"github.com/jonwraymond/sentinel/monitor"
)

// Checker executes one probe against one target. Implementations must be
// safe for concurrent use and must never block past the target's timeout.
type Checker interface {
	Check(ctx context.Context, target monitor.Target) monitor.Result
}

// CheckerFunc is an adapter to allow ordinary functions to be used as
// Checkers.
type CheckerFunc func(ctx context.Context, target monitor.Target) monitor.Result

// Check performs the health check.
func (f CheckerFunc) Check(ctx context.Context, target monitor.Target) monitor.Result {
	return f(ctx, target)
}

// Runner executes one check cycle: it fans enabled targets out through the
// limiter and fans their results back in.
type Runner struct {
	checker Checker
	limiter *Limiter
}

// NewRunner creates a new cycle runner.
func NewRunner(checker Checker, limiter *Limiter) *Runner {
	if limiter == nil {
		limiter = NewLimiter(LimiterConfig{})
	}
	return &Runner{checker: checker, limiter: limiter}
}

// Run checks every enabled target and returns the collected results. Results
// arrive in completion order, not input order.
//
// A cycle completes when every admitted check has produced a result or ctx
// is cancelled. On cancellation, checks still queued at the limiter are
// released without a result and in-flight checks see their deadlines
// shortened to immediate; whatever completed is still returned. One target's
// failure never affects the others: at this layer errors are data, carried
// inside results.
func (r *Runner) Run(ctx context.Context, targets []monitor.Target) []monitor.Result {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make([]monitor.Result, 0, len(targets))
	)

	for _, target := range targets {
		if !target.Enabled {
			continue
		}

		wg.Add(1)
		go func(target monitor.Target) {
			defer wg.Done()

			// Queue for a slot. A cancelled wait means this target was
			// never admitted, so it produces no result.
			if err := r.limiter.Acquire(ctx); err != nil {
				return
			}
			defer r.limiter.Release()

			result := r.checker.Check(ctx, target)

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		}(target)
	}

	wg.Wait()
	return results
}

// Limiter returns the runner's limiter, exposed for metrics.
func (r *Runner) Limiter() *Limiter {
	return r.limiter
}
