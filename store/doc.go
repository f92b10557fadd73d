// Package store persists check results and stats snapshots.
//
// The scheduler writes through the Sink interface; SQLiteStore is the
// production implementation, keeping an append-only result history and an
// upserted stats row per monitor. NopSink serves deployments that run
// purely in memory.
package store
