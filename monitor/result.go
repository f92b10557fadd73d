package monitor

import "time"

// Status classifies the outcome of a single probe.
type Status string

const (
	// StatusUp indicates the endpoint responded with the expected status code.
	StatusUp Status = "UP"
	// StatusDown indicates the endpoint responded with an unexpected status code.
	StatusDown Status = "DOWN"
	// StatusTimeout indicates the probe deadline elapsed before any response.
	StatusTimeout Status = "TIMEOUT"
	// StatusError indicates the probe failed at the transport layer
	// (DNS, TLS, connection).
	StatusError Status = "ERROR"
)

// Valid reports whether s is one of the four defined statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusUp, StatusDown, StatusTimeout, StatusError:
		return true
	}
	return false
}

// Result contains the outcome of a single health check.
//
// A Result is created once per probe attempt and never mutated. StatusCode is
// present only if a response was received; LatencyMS is present only if the
// request completed (never for TIMEOUT or ERROR); ErrorMessage is present for
// every status other than UP.
type Result struct {
	MonitorName  string    `json:"monitor_name"`
	URL          string    `json:"url"`
	Status       Status    `json:"status"`
	StatusCode   *int      `json:"status_code,omitempty"`
	LatencyMS    *float64  `json:"latency_ms,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Up creates a result for a probe that returned the expected status.
func Up(name, url string, statusCode int, latency time.Duration) Result {
	ms := float64(latency) / float64(time.Millisecond)
	return Result{
		MonitorName: name,
		URL:         url,
		Status:      StatusUp,
		StatusCode:  &statusCode,
		LatencyMS:   &ms,
		Timestamp:   time.Now().UTC(),
	}
}

// Down creates a result for a probe that returned an unexpected status.
func Down(name, url string, statusCode int, latency time.Duration, message string) Result {
	ms := float64(latency) / float64(time.Millisecond)
	return Result{
		MonitorName:  name,
		URL:          url,
		Status:       StatusDown,
		StatusCode:   &statusCode,
		LatencyMS:    &ms,
		ErrorMessage: message,
		Timestamp:    time.Now().UTC(),
	}
}

// Timeout creates a result for a probe whose deadline elapsed.
func Timeout(name, url, message string) Result {
	return Result{
		MonitorName:  name,
		URL:          url,
		Status:       StatusTimeout,
		ErrorMessage: message,
		Timestamp:    time.Now().UTC(),
	}
}

// Failed creates a result for a probe that failed at the transport layer.
func Failed(name, url, message string) Result {
	return Result{
		MonitorName:  name,
		URL:          url,
		Status:       StatusError,
		ErrorMessage: message,
		Timestamp:    time.Now().UTC(),
	}
}

// IsHealthy reports whether the endpoint is considered healthy.
func (r Result) IsHealthy() bool {
	return r.Status == StatusUp
}

// LogFields returns the result as structured logging fields.
func (r Result) LogFields() map[string]any {
	fields := map[string]any{
		"monitor": r.MonitorName,
		"url":     r.URL,
		"status":  string(r.Status),
	}
	if r.StatusCode != nil {
		fields["status_code"] = *r.StatusCode
	}
	if r.LatencyMS != nil {
		fields["latency_ms"] = *r.LatencyMS
	}
	if r.ErrorMessage != "" {
		fields["error"] = r.ErrorMessage
	}
	return fields
}
