package monitor

import "time"

// Stats is the aggregated view of a monitor's check history.
//
// Stats values are snapshots; the stats aggregator owns the mutable state
// behind them. SuccessfulChecks + FailedChecks always equals TotalChecks.
type Stats struct {
	MonitorName      string     `json:"monitor_name"`
	TotalChecks      int64      `json:"total_checks"`
	SuccessfulChecks int64      `json:"successful_checks"`
	FailedChecks     int64      `json:"failed_checks"`

	// AverageLatencyMS is the running mean over checks that produced a
	// latency value. Absent until at least one such check completes.
	AverageLatencyMS *float64 `json:"average_latency_ms,omitempty"`

	UptimePercentage   float64    `json:"uptime_percentage"`
	LastCheckTimestamp *time.Time `json:"last_check_timestamp,omitempty"`
	LastStatus         Status     `json:"last_status,omitempty"`
}

// SuccessRate returns the success rate as a percentage, 0 when no checks
// have been recorded.
func (s Stats) SuccessRate() float64 {
	if s.TotalChecks == 0 {
		return 0
	}
	return float64(s.SuccessfulChecks) / float64(s.TotalChecks) * 100
}
