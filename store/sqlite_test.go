package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonwraymond/sentinel/monitor"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "sentinel.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_SaveAndLoadResults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	results := []monitor.Result{
		monitor.Up("api", "https://api.example.com", 200, 25*time.Millisecond),
		monitor.Down("api", "https://api.example.com", 503, 12*time.Millisecond, "expected 200, got 503"),
		monitor.Timeout("api", "https://api.example.com", "health check timed out after 10s"),
		monitor.Up("web", "https://web.example.com", 200, 40*time.Millisecond),
	}
	for i, r := range results {
		// Distinct timestamps so ordering is observable.
		r.Timestamp = time.Date(2026, 8, 27, 12, 0, i, 0, time.UTC)
		if err := s.SaveResult(ctx, r); err != nil {
			t.Fatalf("SaveResult(%d) = %v", i, err)
		}
	}

	got, err := s.RecentResults(ctx, "api", 10)
	if err != nil {
		t.Fatalf("RecentResults() = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d results for api, want 3", len(got))
	}

	// Newest first.
	if got[0].Status != monitor.StatusTimeout {
		t.Errorf("newest status = %s, want TIMEOUT", got[0].Status)
	}
	if got[0].StatusCode != nil || got[0].LatencyMS != nil {
		t.Error("timeout result should have no status code or latency")
	}
	if got[2].Status != monitor.StatusUp {
		t.Errorf("oldest status = %s, want UP", got[2].Status)
	}
	if got[2].StatusCode == nil || *got[2].StatusCode != 200 {
		t.Errorf("oldest StatusCode = %v, want 200", got[2].StatusCode)
	}
	if got[2].LatencyMS == nil || *got[2].LatencyMS != 25 {
		t.Errorf("oldest LatencyMS = %v, want 25", got[2].LatencyMS)
	}

	if got[1].ErrorMessage != "expected 200, got 503" {
		t.Errorf("ErrorMessage = %q", got[1].ErrorMessage)
	}
}

func TestSQLiteStore_RecentResultsLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		r := monitor.Up("api", "https://api.example.com", 200, time.Millisecond)
		r.Timestamp = time.Date(2026, 8, 27, 12, 0, i, 0, time.UTC)
		if err := s.SaveResult(ctx, r); err != nil {
			t.Fatalf("SaveResult() = %v", err)
		}
	}

	got, err := s.RecentResults(ctx, "api", 4)
	if err != nil {
		t.Fatalf("RecentResults() = %v", err)
	}
	if len(got) != 4 {
		t.Errorf("got %d results, want 4", len(got))
	}
}

func TestSQLiteStore_StatsUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	latency := 30.0
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	stats := monitor.Stats{
		MonitorName:        "api",
		TotalChecks:        4,
		SuccessfulChecks:   3,
		FailedChecks:       1,
		AverageLatencyMS:   &latency,
		UptimePercentage:   75,
		LastCheckTimestamp: &now,
		LastStatus:         monitor.StatusDown,
	}
	if err := s.SaveStats(ctx, stats); err != nil {
		t.Fatalf("SaveStats() = %v", err)
	}

	// A second write for the same monitor replaces, never duplicates.
	stats.TotalChecks = 5
	stats.SuccessfulChecks = 4
	stats.UptimePercentage = 80
	stats.LastStatus = monitor.StatusUp
	if err := s.SaveStats(ctx, stats); err != nil {
		t.Fatalf("second SaveStats() = %v", err)
	}

	got, ok, err := s.LoadStats(ctx, "api")
	if err != nil {
		t.Fatalf("LoadStats() = %v", err)
	}
	if !ok {
		t.Fatal("LoadStats() reported no row")
	}
	if got.TotalChecks != 5 || got.SuccessfulChecks != 4 || got.FailedChecks != 1 {
		t.Errorf("counts = %d/%d/%d, want 5/4/1", got.TotalChecks, got.SuccessfulChecks, got.FailedChecks)
	}
	if got.UptimePercentage != 80 {
		t.Errorf("UptimePercentage = %v, want 80", got.UptimePercentage)
	}
	if got.AverageLatencyMS == nil || *got.AverageLatencyMS != 30 {
		t.Errorf("AverageLatencyMS = %v, want 30", got.AverageLatencyMS)
	}
	if got.LastStatus != monitor.StatusUp {
		t.Errorf("LastStatus = %s, want UP", got.LastStatus)
	}
	if got.LastCheckTimestamp == nil || !got.LastCheckTimestamp.Equal(now) {
		t.Errorf("LastCheckTimestamp = %v, want %v", got.LastCheckTimestamp, now)
	}
}

func TestSQLiteStore_LoadStatsMissing(t *testing.T) {
	s := newTestStore(t)

	_, ok, err := s.LoadStats(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("LoadStats() = %v", err)
	}
	if ok {
		t.Error("LoadStats() reported a row for an unknown monitor")
	}
}

func TestSQLiteStore_PruneResults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		r := monitor.Up("api", "https://api.example.com", 200, time.Millisecond)
		r.Timestamp = time.Date(2026, 8, 27, 12, 0, i, 0, time.UTC)
		if err := s.SaveResult(ctx, r); err != nil {
			t.Fatalf("SaveResult() = %v", err)
		}
	}

	cutoff := time.Date(2026, 8, 27, 12, 0, 3, 0, time.UTC)
	pruned, err := s.PruneResults(ctx, cutoff)
	if err != nil {
		t.Fatalf("PruneResults() = %v", err)
	}
	if pruned != 3 {
		t.Errorf("pruned %d rows, want 3", pruned)
	}

	remaining, err := s.RecentResults(ctx, "api", 100)
	if err != nil {
		t.Fatalf("RecentResults() = %v", err)
	}
	if len(remaining) != 3 {
		t.Errorf("%d results remain, want 3", len(remaining))
	}
}

func TestNopSink(t *testing.T) {
	sink := NewNopSink()
	ctx := context.Background()

	if err := sink.SaveResult(ctx, monitor.Up("api", "u", 200, time.Millisecond)); err != nil {
		t.Errorf("SaveResult() = %v", err)
	}
	if err := sink.SaveStats(ctx, monitor.Stats{MonitorName: "api"}); err != nil {
		t.Errorf("SaveStats() = %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}
