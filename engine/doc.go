// Package engine drives concurrent health-check execution.
//
// This package contains the moving parts of the monitoring core: a Limiter
// bounding how many checks run simultaneously across the whole process, a
// Runner fanning one cycle's targets out through the limiter and fanning
// results back in, and a Scheduler owning the lifecycle that repeats cycles
// on a fixed cadence and coordinates graceful shutdown.
//
// # Concurrency Model
//
// One long-lived scheduling loop drives cycles sequentially; cycles never
// overlap. Within a cycle every enabled target is checked on its own
// goroutine, admitted through the Limiter. Targets that cannot get a slot
// wait; they are never dropped because of backpressure.
//
// # Cancellation
//
// Cancelling the scheduler's context cancels the in-flight cycle, which in
// turn shortens every in-flight check's deadline to immediate. Results that
// completed before cancellation are still delivered; a cancelled cycle is a
// partial cycle, not a discarded one. Draining is bounded by the configured
// graceful-shutdown timeout.
//
// # Basic Usage
//
//	limiter := engine.NewLimiter(engine.LimiterConfig{MaxConcurrent: 50})
//	runner := engine.NewRunner(checker, limiter)
//	sched := engine.NewScheduler(engine.SchedulerConfig{
//	    CheckInterval: time.Minute,
//	}, registry, runner, aggregator)
//
//	if err := sched.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package engine
