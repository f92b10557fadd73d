package engine

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// LimiterConfig configures the concurrency limiter.
type LimiterConfig struct {
	// MaxConcurrent is the maximum number of checks in flight across the
	// whole process.
	// Default: 50
	MaxConcurrent int
}

// Limiter bounds concurrent check execution. Acquisition blocks until a slot
// frees or the context is cancelled; saturated callers queue, they are never
// rejected.
type Limiter struct {
	config LimiterConfig
	sem    *semaphore.Weighted

	mu        sync.Mutex
	active    int
	maxActive int
}

// NewLimiter creates a new concurrency limiter.
func NewLimiter(config LimiterConfig) *Limiter {
	// Apply defaults
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 50
	}

	return &Limiter{
		config: config,
		sem:    semaphore.NewWeighted(int64(config.MaxConcurrent)),
	}
}

// Acquire blocks until a slot is available or ctx is cancelled. It returns
// ctx.Err() on cancellation.
func (l *Limiter) Acquire(ctx context.Context) error {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return err
	}

	l.mu.Lock()
	l.active++
	if l.active > l.maxActive {
		l.maxActive = l.active
	}
	l.mu.Unlock()
	return nil
}

// Release frees a slot. Every successful Acquire must be paired with exactly
// one Release on every exit path.
func (l *Limiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()
	l.sem.Release(1)
}

// Execute runs the operation within the limiter, releasing the slot on every
// exit path.
func (l *Limiter) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := l.Acquire(ctx); err != nil {
		return err
	}
	defer l.Release()

	return op(ctx)
}

// Metrics returns current limiter statistics.
func (l *Limiter) Metrics() LimiterMetrics {
	l.mu.Lock()
	defer l.mu.Unlock()

	return LimiterMetrics{
		Active:        l.active,
		MaxActive:     l.maxActive,
		Available:     l.config.MaxConcurrent - l.active,
		MaxConcurrent: l.config.MaxConcurrent,
	}
}

// LimiterMetrics contains limiter statistics.
type LimiterMetrics struct {
	Active        int
	MaxActive     int
	Available     int
	MaxConcurrent int
}
