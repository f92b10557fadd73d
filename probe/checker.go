package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jonwraymond/sentinel/monitor"
)

// CheckerConfig configures the HTTP checker.
type CheckerConfig struct {
	// Method is the HTTP method used for probes: GET or HEAD.
	// Default: GET
	Method string

	// MaxRedirects caps how many redirects a probe follows before the
	// attempt is classified as a connection failure.
	// Default: 5
	MaxRedirects int

	// UserAgent is sent on every probe request.
	// Default: "sentinel-probe/1.0"
	UserAgent string

	// Transport is the shared HTTP transport for all probes. The transport
	// is used read-only and may be shared across concurrent checks.
	// Default: http.DefaultTransport
	Transport http.RoundTripper
}

// Checker executes a single probe per invocation against one target.
type Checker struct {
	config CheckerConfig
	client *http.Client
}

// NewChecker creates a new HTTP checker.
func NewChecker(config CheckerConfig) *Checker {
	// Apply defaults
	if config.Method == "" {
		config.Method = http.MethodGet
	}
	if config.Method != http.MethodGet && config.Method != http.MethodHead {
		config.Method = http.MethodGet
	}
	if config.MaxRedirects <= 0 {
		config.MaxRedirects = 5
	}
	if config.UserAgent == "" {
		config.UserAgent = "sentinel-probe/1.0"
	}
	if config.Transport == nil {
		config.Transport = http.DefaultTransport
	}

	maxRedirects := config.MaxRedirects
	return &Checker{
		config: config,
		client: &http.Client{
			Transport: config.Transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return errTooManyRedirects
				}
				return nil
			},
		},
	}
}

// Check probes the target once and produces a result.
//
// The probe is bounded by target.Timeout and by ctx: cancelling ctx shortens
// the effective deadline to immediate. Check never returns an error; all
// failure paths are classified into the result.
func (c *Checker) Check(ctx context.Context, target monitor.Target) monitor.Result {
	ctx, cancel := context.WithTimeout(ctx, target.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, c.config.Method, target.URL, nil)
	if err != nil {
		return monitor.Failed(target.Name, target.URL,
			NewConnectionError(target.URL, "unknown").Message)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)

	start := time.Now()
	resp, err := c.client.Do(req)
	latency := time.Since(start)

	if err != nil {
		return c.failureResult(target, err)
	}
	// Latency is measured to response headers; the body is not part of it.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()

	if resp.StatusCode == target.ExpectedStatus {
		return monitor.Up(target.Name, target.URL, resp.StatusCode, latency)
	}
	return monitor.Down(target.Name, target.URL, resp.StatusCode, latency,
		fmt.Sprintf("expected %d, got %d", target.ExpectedStatus, resp.StatusCode))
}

// failureResult maps a classified transport failure to a result.
func (c *Checker) failureResult(target monitor.Target, err error) monitor.Result {
	classified := Classify(target.URL, target.Timeout, err)

	var timeoutErr *TimeoutError
	if errors.As(classified, &timeoutErr) {
		return monitor.Timeout(target.Name, target.URL, timeoutErr.Message)
	}

	var dnsErr *DNSError
	if errors.As(classified, &dnsErr) {
		return monitor.Failed(target.Name, target.URL, dnsErr.Message)
	}

	var sslErr *SSLError
	if errors.As(classified, &sslErr) {
		return monitor.Failed(target.Name, target.URL, sslErr.Message)
	}

	var connErr *ConnectionError
	if errors.As(classified, &connErr) {
		return monitor.Failed(target.Name, target.URL, connErr.Message)
	}

	return monitor.Failed(target.Name, target.URL, classified.Error())
}
