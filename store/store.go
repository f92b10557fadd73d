package store

import (
	"context"

	"github.com/jonwraymond/sentinel/monitor"
)

// Sink receives each check result and each updated stats snapshot.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: write failures are reported to the caller, which logs and
//   continues; a sink error never stops the check loop.
type Sink interface {
	SaveResult(ctx context.Context, result monitor.Result) error
	SaveStats(ctx context.Context, stats monitor.Stats) error
	Close() error
}

// nopSink discards everything.
type nopSink struct{}

// NewNopSink returns a sink that discards all writes.
func NewNopSink() Sink {
	return nopSink{}
}

func (nopSink) SaveResult(ctx context.Context, result monitor.Result) error { return nil }
func (nopSink) SaveStats(ctx context.Context, stats monitor.Stats) error    { return nil }
func (nopSink) Close() error                                                { return nil }
