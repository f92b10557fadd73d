package monitor

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Validation bounds for Target fields.
const (
	// MaxNameLength is the maximum length of a monitor name.
	MaxNameLength = 100

	// MinInterval is the minimum per-monitor check interval.
	MinInterval = 10 * time.Second
	// MaxInterval is the maximum per-monitor check interval.
	MaxInterval = 3600 * time.Second

	// MinTimeout is the minimum per-probe timeout.
	MinTimeout = 1 * time.Second
	// MaxTimeout is the maximum per-probe timeout.
	MaxTimeout = 60 * time.Second
)

// Sentinel errors for target validation.
var (
	// ErrEmptyName indicates the monitor name is empty or whitespace.
	ErrEmptyName = errors.New("monitor: name cannot be empty or whitespace")

	// ErrNameTooLong indicates the monitor name exceeds MaxNameLength.
	ErrNameTooLong = errors.New("monitor: name exceeds maximum length")

	// ErrInvalidURL indicates the URL could not be parsed or is not HTTP/HTTPS.
	ErrInvalidURL = errors.New("monitor: only HTTP and HTTPS URLs are supported")

	// ErrIntervalOutOfRange indicates the interval is outside [10s, 1h].
	ErrIntervalOutOfRange = errors.New("monitor: interval out of range")

	// ErrStatusOutOfRange indicates the expected status is outside [100, 599].
	ErrStatusOutOfRange = errors.New("monitor: expected status out of range")

	// ErrTimeoutOutOfRange indicates the timeout is outside [1s, 60s].
	ErrTimeoutOutOfRange = errors.New("monitor: timeout out of range")
)

// Target represents an endpoint to monitor.
//
// A Target is immutable once handed to the engine for a cycle; updates made
// through the registry take effect on the next cycle's snapshot.
type Target struct {
	// Name is a human-readable identifier, unique within the active set.
	Name string `json:"name" mapstructure:"name"`

	// URL is the HTTP or HTTPS endpoint to probe.
	URL string `json:"url" mapstructure:"url"`

	// Interval is the per-monitor check cadence. Retained on the model and
	// validated, but scheduling is currently driven by one global tick.
	Interval time.Duration `json:"interval" mapstructure:"interval"`

	// ExpectedStatus is the HTTP status code that classifies a probe as up.
	ExpectedStatus int `json:"expected_status" mapstructure:"expected_status"`

	// Timeout bounds a single probe attempt.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// Enabled gates inclusion in check cycles.
	Enabled bool `json:"enabled" mapstructure:"enabled"`
}

// Normalize trims surrounding whitespace from the name and applies defaults
// for zero-valued policy fields.
func (t Target) Normalize() Target {
	t.Name = strings.TrimSpace(t.Name)
	if t.Interval == 0 {
		t.Interval = 60 * time.Second
	}
	if t.ExpectedStatus == 0 {
		t.ExpectedStatus = 200
	}
	if t.Timeout == 0 {
		t.Timeout = 10 * time.Second
	}
	return t
}

// Validate checks the target against the domain constraints. It returns the
// first violation found.
func (t Target) Validate() error {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: %d > %d", ErrNameTooLong, len(name), MaxNameLength)
	}

	u, err := url.Parse(t.URL)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidURL, t.URL)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidURL, t.URL)
	}

	if t.Interval < MinInterval || t.Interval > MaxInterval {
		return fmt.Errorf("%w: %s", ErrIntervalOutOfRange, t.Interval)
	}
	if t.ExpectedStatus < 100 || t.ExpectedStatus > 599 {
		return fmt.Errorf("%w: %d", ErrStatusOutOfRange, t.ExpectedStatus)
	}
	if t.Timeout < MinTimeout || t.Timeout > MaxTimeout {
		return fmt.Errorf("%w: %s", ErrTimeoutOutOfRange, t.Timeout)
	}

	return nil
}

// Hostname returns the host portion of the target URL, without the port.
// Returns an empty string if the URL does not parse.
func (t Target) Hostname() string {
	u, err := url.Parse(t.URL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
