package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jonwraymond/sentinel/monitor"
)

// SQLiteStore persists results and stats in a SQLite database. It keeps an
// append-only check_results history and one upserted monitor_stats row per
// monitor.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and ensures the
// schema is up to date. WAL mode keeps the scheduler's writes from blocking
// API reads.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", path))
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: run migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// migrate ensures the schema is created.
func (s *SQLiteStore) migrate(ctx context.Context) error {
	schema := `
CREATE TABLE IF NOT EXISTS check_results (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	monitor_name  TEXT NOT NULL,
	url           TEXT NOT NULL,
	status        TEXT NOT NULL,
	status_code   INTEGER,
	latency_ms    REAL,
	error_message TEXT,
	checked_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_check_results_monitor_checked_at
	ON check_results (monitor_name, checked_at DESC);

CREATE TABLE IF NOT EXISTS monitor_stats (
	monitor_name       TEXT PRIMARY KEY,
	total_checks       INTEGER NOT NULL,
	successful_checks  INTEGER NOT NULL,
	failed_checks      INTEGER NOT NULL,
	uptime_percentage  REAL NOT NULL,
	average_latency_ms REAL,
	last_status        TEXT,
	last_check_at      TEXT,
	updated_at         TEXT NOT NULL
);
`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// SaveResult appends one check result to the history.
func (s *SQLiteStore) SaveResult(ctx context.Context, result monitor.Result) error {
	query := `
INSERT INTO check_results (monitor_name, url, status, status_code, latency_ms, error_message, checked_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`

	var code sql.NullInt64
	if result.StatusCode != nil {
		code = sql.NullInt64{Int64: int64(*result.StatusCode), Valid: true}
	}
	var latency sql.NullFloat64
	if result.LatencyMS != nil {
		latency = sql.NullFloat64{Float64: *result.LatencyMS, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, query,
		result.MonitorName,
		result.URL,
		string(result.Status),
		code,
		latency,
		result.ErrorMessage,
		result.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("store: insert result: %w", err)
	}
	return nil
}

// SaveStats upserts the stats row for the monitor.
func (s *SQLiteStore) SaveStats(ctx context.Context, stats monitor.Stats) error {
	query := `
INSERT INTO monitor_stats (monitor_name, total_checks, successful_checks, failed_checks,
	uptime_percentage, average_latency_ms, last_status, last_check_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(monitor_name) DO UPDATE SET
	total_checks       = excluded.total_checks,
	successful_checks  = excluded.successful_checks,
	failed_checks      = excluded.failed_checks,
	uptime_percentage  = excluded.uptime_percentage,
	average_latency_ms = excluded.average_latency_ms,
	last_status        = excluded.last_status,
	last_check_at      = excluded.last_check_at,
	updated_at         = excluded.updated_at`

	var latency sql.NullFloat64
	if stats.AverageLatencyMS != nil {
		latency = sql.NullFloat64{Float64: *stats.AverageLatencyMS, Valid: true}
	}
	var lastCheck sql.NullString
	if stats.LastCheckTimestamp != nil {
		lastCheck = sql.NullString{String: stats.LastCheckTimestamp.UTC().Format(time.RFC3339Nano), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, query,
		stats.MonitorName,
		stats.TotalChecks,
		stats.SuccessfulChecks,
		stats.FailedChecks,
		stats.UptimePercentage,
		latency,
		string(stats.LastStatus),
		lastCheck,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("store: upsert stats: %w", err)
	}
	return nil
}

// RecentResults returns the newest results for a monitor, newest first,
// capped at limit.
func (s *SQLiteStore) RecentResults(ctx context.Context, monitorName string, limit int) ([]monitor.Result, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
SELECT monitor_name, url, status, status_code, latency_ms, error_message, checked_at
FROM check_results
WHERE monitor_name = ?
ORDER BY checked_at DESC, id DESC
LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, monitorName, limit)
	if err != nil {
		return nil, fmt.Errorf("store: query results: %w", err)
	}
	defer rows.Close()

	var out []monitor.Result
	for rows.Next() {
		var (
			result    monitor.Result
			status    string
			code      sql.NullInt64
			latency   sql.NullFloat64
			checkedAt string
		)
		if err := rows.Scan(&result.MonitorName, &result.URL, &status, &code, &latency, &result.ErrorMessage, &checkedAt); err != nil {
			return nil, fmt.Errorf("store: scan result: %w", err)
		}
		result.Status = monitor.Status(status)
		if code.Valid {
			c := int(code.Int64)
			result.StatusCode = &c
		}
		if latency.Valid {
			l := latency.Float64
			result.LatencyMS = &l
		}
		if ts, err := time.Parse(time.RFC3339Nano, checkedAt); err == nil {
			result.Timestamp = ts
		}
		out = append(out, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate results: %w", err)
	}
	return out, nil
}

// LoadStats returns the persisted stats row for a monitor, reporting whether
// one exists.
func (s *SQLiteStore) LoadStats(ctx context.Context, monitorName string) (monitor.Stats, bool, error) {
	query := `
SELECT monitor_name, total_checks, successful_checks, failed_checks,
	uptime_percentage, average_latency_ms, last_status, last_check_at
FROM monitor_stats
WHERE monitor_name = ?`

	var (
		stats     monitor.Stats
		latency   sql.NullFloat64
		status    sql.NullString
		lastCheck sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, monitorName).Scan(
		&stats.MonitorName,
		&stats.TotalChecks,
		&stats.SuccessfulChecks,
		&stats.FailedChecks,
		&stats.UptimePercentage,
		&latency,
		&status,
		&lastCheck,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return monitor.Stats{}, false, nil
	}
	if err != nil {
		return monitor.Stats{}, false, fmt.Errorf("store: query stats: %w", err)
	}

	if latency.Valid {
		l := latency.Float64
		stats.AverageLatencyMS = &l
	}
	if status.Valid {
		stats.LastStatus = monitor.Status(status.String)
	}
	if lastCheck.Valid {
		if ts, err := time.Parse(time.RFC3339Nano, lastCheck.String); err == nil {
			stats.LastCheckTimestamp = &ts
		}
	}
	return stats, true, nil
}

// PruneResults deletes result rows older than the cutoff, returning the
// number removed. Meant to be invoked periodically by the operator.
func (s *SQLiteStore) PruneResults(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM check_results WHERE checked_at < ?`,
		cutoff.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("store: prune results: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("store: prune rows affected: %w", err)
	}
	return n, nil
}
