package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonwraymond/sentinel/monitor"
	"github.com/jonwraymond/sentinel/telemetry"
)

// State is the scheduler lifecycle state.
type State int32

const (
	// StateStarting indicates the scheduler is obtaining its initial
	// target snapshot.
	StateStarting State = iota
	// StateRunning indicates the scheduler is driving check cycles.
	StateRunning
	// StateDraining indicates shutdown was requested and the in-flight
	// cycle is settling.
	StateDraining
	// StateStopped indicates the scheduler has terminated.
	StateStopped
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Registry supplies the set of active targets at the start of each cycle.
type Registry interface {
	ListActiveTargets(ctx context.Context) ([]monitor.Target, error)
}

// Aggregator folds results into per-monitor statistics. Apply returns the
// updated snapshot and the detected transition, if any.
type Aggregator interface {
	Apply(ctx context.Context, result monitor.Result) (monitor.Stats, *monitor.Transition)
}

// ResultSink receives each result and each updated stats snapshot. Sink
// failures are collaborator failures: logged, never fatal to the loop.
type ResultSink interface {
	SaveResult(ctx context.Context, result monitor.Result) error
	SaveStats(ctx context.Context, stats monitor.Stats) error
}

// SchedulerConfig configures the scheduler.
type SchedulerConfig struct {
	// CheckInterval is the global cycle cadence, measured from cycle start
	// so slow cycles do not compound drift.
	// Default: 60 seconds
	CheckInterval time.Duration

	// GracefulShutdownTimeout bounds how long draining waits for the
	// in-flight cycle to settle before abandoning it.
	// Default: 30 seconds
	GracefulShutdownTimeout time.Duration

	// FailureBackoff is the delay applied after a collaborator failure in
	// the loop body (e.g. the registry snapshot call failing).
	// Default: 5 seconds
	FailureBackoff time.Duration
}

// Scheduler drives check cycles on a fixed cadence and owns the engine
// lifecycle. Cycles run sequentially and never overlap.
type Scheduler struct {
	config     SchedulerConfig
	registry   Registry
	runner     *Runner
	aggregator Aggregator
	sink       ResultSink
	logger     telemetry.Logger
	metrics    telemetry.CheckMetrics

	state atomic.Int32

	mu     sync.Mutex
	cancel context.CancelFunc
}

// SchedulerOption configures optional scheduler collaborators.
type SchedulerOption func(*Scheduler)

// WithSink attaches a result sink.
func WithSink(sink ResultSink) SchedulerOption {
	return func(s *Scheduler) { s.sink = sink }
}

// WithLogger attaches a structured logger.
func WithLogger(logger telemetry.Logger) SchedulerOption {
	return func(s *Scheduler) { s.logger = logger }
}

// WithMetrics attaches check metrics recording.
func WithMetrics(metrics telemetry.CheckMetrics) SchedulerOption {
	return func(s *Scheduler) { s.metrics = metrics }
}

// NewScheduler creates a new scheduler.
func NewScheduler(config SchedulerConfig, registry Registry, runner *Runner, aggregator Aggregator, opts ...SchedulerOption) *Scheduler {
	// Apply defaults
	if config.CheckInterval <= 0 {
		config.CheckInterval = 60 * time.Second
	}
	if config.GracefulShutdownTimeout <= 0 {
		config.GracefulShutdownTimeout = 30 * time.Second
	}
	if config.FailureBackoff <= 0 {
		config.FailureBackoff = 5 * time.Second
	}

	s := &Scheduler{
		config:     config,
		registry:   registry,
		runner:     runner,
		aggregator: aggregator,
		logger:     telemetry.NewNopLogger(),
		metrics:    telemetry.NopCheckMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State {
	return State(s.state.Load())
}

func (s *Scheduler) setState(state State) {
	s.state.Store(int32(state))
}

// Stop requests shutdown. It is equivalent to cancelling the context passed
// to Run and is safe to call more than once or before Run.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Run drives check cycles until ctx is cancelled or Stop is called, then
// drains and returns. A clean shutdown returns nil.
func (s *Scheduler) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	s.setState(StateStarting)
	s.logger.Info(ctx, "scheduler starting",
		telemetry.Field{Key: "check_interval", Value: s.config.CheckInterval.String()},
		telemetry.Field{Key: "graceful_shutdown_timeout", Value: s.config.GracefulShutdownTimeout.String()},
	)

	targets, ok := s.initialSnapshot(ctx)
	if !ok {
		return s.finish(nil)
	}

	s.setState(StateRunning)
	first := true

	for {
		cycleStart := time.Now()

		if !first {
			var err error
			targets, err = s.registry.ListActiveTargets(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return s.finish(nil)
				}
				s.logger.Error(ctx, "target snapshot failed",
					telemetry.Field{Key: "error", Value: err.Error()},
					telemetry.Field{Key: "backoff", Value: s.config.FailureBackoff.String()},
				)
				if !s.sleep(ctx, s.config.FailureBackoff) {
					return s.finish(nil)
				}
				continue
			}
		}
		first = false

		done := make(chan []monitor.Result, 1)
		go func() {
			done <- s.runner.Run(ctx, targets)
		}()

		select {
		case results := <-done:
			s.dispatch(ctx, results)
			s.metrics.RecordCycle(ctx, len(results), time.Since(cycleStart))
		case <-ctx.Done():
			return s.finish(done)
		}

		// Sleep the remainder of the interval, measured from cycle start.
		// An overrunning cycle starts the next one immediately.
		if delay := s.config.CheckInterval - time.Since(cycleStart); delay > 0 {
			if !s.sleep(ctx, delay) {
				return s.finish(nil)
			}
		}
	}
}

// initialSnapshot obtains the first target set, retrying with backoff until
// the registry answers or shutdown is requested.
func (s *Scheduler) initialSnapshot(ctx context.Context) ([]monitor.Target, bool) {
	for {
		targets, err := s.registry.ListActiveTargets(ctx)
		if err == nil {
			return targets, true
		}
		if ctx.Err() != nil {
			return nil, false
		}
		s.logger.Error(ctx, "initial target snapshot failed",
			telemetry.Field{Key: "error", Value: err.Error()},
			telemetry.Field{Key: "backoff", Value: s.config.FailureBackoff.String()},
		)
		if !s.sleep(ctx, s.config.FailureBackoff) {
			return nil, false
		}
	}
}

// finish transitions through DRAINING to STOPPED. If a cycle is still in
// flight its results are awaited up to the graceful-shutdown timeout; a
// cancelled cycle's partial results are still dispatched.
func (s *Scheduler) finish(done <-chan []monitor.Result) error {
	s.setState(StateDraining)
	ctx := context.Background()
	s.logger.Info(ctx, "scheduler draining")

	if done != nil {
		timer := time.NewTimer(s.config.GracefulShutdownTimeout)
		defer timer.Stop()

		select {
		case results := <-done:
			s.dispatch(ctx, results)
			s.logger.Info(ctx, "in-flight cycle settled",
				telemetry.Field{Key: "results", Value: len(results)})
		case <-timer.C:
			s.logger.Warn(ctx, "drain timeout elapsed, abandoning in-flight checks",
				telemetry.Field{Key: "timeout", Value: s.config.GracefulShutdownTimeout.String()})
		}
	}

	s.setState(StateStopped)
	s.logger.Info(ctx, "scheduler stopped")
	return nil
}

// dispatch applies results to the aggregator and emits them to the sink.
// The sink write uses a context detached from cancellation so results are
// not dropped on a normal shutdown path.
func (s *Scheduler) dispatch(ctx context.Context, results []monitor.Result) {
	emit := context.WithoutCancel(ctx)

	for _, result := range results {
		snapshot, transition := s.aggregator.Apply(emit, result)
		if transition != nil {
			s.metrics.RecordTransition(emit, *transition)
			s.logger.Warn(emit, "status transition",
				telemetry.Field{Key: "monitor", Value: transition.MonitorName},
				telemetry.Field{Key: "from", Value: string(transition.From)},
				telemetry.Field{Key: "to", Value: string(transition.To)},
			)
		}

		if s.sink == nil {
			continue
		}
		if err := s.sink.SaveResult(emit, result); err != nil {
			s.logger.Error(emit, "result sink write failed",
				telemetry.Field{Key: "monitor", Value: result.MonitorName},
				telemetry.Field{Key: "error", Value: err.Error()},
			)
		}
		if err := s.sink.SaveStats(emit, snapshot); err != nil {
			s.logger.Error(emit, "stats sink write failed",
				telemetry.Field{Key: "monitor", Value: snapshot.MonitorName},
				telemetry.Field{Key: "error", Value: err.Error()},
			)
		}
	}
}

// sleep waits for d or until ctx is cancelled. It reports whether the full
// delay elapsed.
func (s *Scheduler) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
