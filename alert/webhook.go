package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"time"

	"github.com/jonwraymond/sentinel/monitor"
	"github.com/jonwraymond/sentinel/telemetry"
)

// ErrMissingWebhookURL is returned when no webhook URL is configured.
var ErrMissingWebhookURL = errors.New("alert: webhook URL is required")

// WebhookConfig configures the webhook dispatcher.
type WebhookConfig struct {
	// URL is the endpoint the transition payload is POSTed to. Required.
	URL string

	// Timeout bounds each delivery attempt.
	// Default: 10 seconds
	Timeout time.Duration

	// MaxAttempts is the maximum number of delivery attempts per transition
	// (including the first).
	// Default: 3
	MaxAttempts int

	// InitialBackoff is the delay before the first redelivery. Subsequent
	// delays double, with up to 25% jitter.
	// Default: 500ms
	InitialBackoff time.Duration

	// MaxBackoff caps the delay between attempts.
	// Default: 5 seconds
	MaxBackoff time.Duration

	// Headers are added to every request. Content-Type is always
	// application/json.
	Headers map[string]string

	// HTTPClient overrides the default client. Its Timeout is ignored in
	// favor of per-attempt contexts.
	HTTPClient *http.Client
}

// WebhookDispatcher POSTs each transition to a configured endpoint as a JSON
// payload, retrying transient failures with exponential backoff.
type WebhookDispatcher struct {
	config WebhookConfig
	client *http.Client
	logger telemetry.Logger
}

// webhookPayload is the wire form of a transition notification.
type webhookPayload struct {
	Event       string         `json:"event"`
	MonitorName string         `json:"monitor_name"`
	From        string         `json:"from"`
	To          string         `json:"to"`
	Result      monitor.Result `json:"result"`
	Timestamp   time.Time      `json:"timestamp"`
}

// NewWebhookDispatcher creates a webhook dispatcher.
func NewWebhookDispatcher(config WebhookConfig, logger telemetry.Logger) (*WebhookDispatcher, error) {
	if config.URL == "" {
		return nil, ErrMissingWebhookURL
	}
	u, err := url.Parse(config.URL)
	if err != nil || u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("alert: invalid webhook URL %q", config.URL)
	}

	// Apply defaults
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.InitialBackoff <= 0 {
		config.InitialBackoff = 500 * time.Millisecond
	}
	if config.MaxBackoff <= 0 {
		config.MaxBackoff = 5 * time.Second
	}
	if logger == nil {
		logger = telemetry.NewNopLogger()
	}

	client := config.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	return &WebhookDispatcher{config: config, client: client, logger: logger}, nil
}

// Dispatch delivers the transition. Failures after all attempts are logged
// and dropped.
func (d *WebhookDispatcher) Dispatch(ctx context.Context, transition monitor.Transition) {
	payload := webhookPayload{
		Event:       "monitor.transition",
		MonitorName: transition.MonitorName,
		From:        fromLabel(transition.From),
		To:          string(transition.To),
		Result:      transition.Result,
		Timestamp:   time.Now().UTC(),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		d.logger.Error(ctx, "webhook payload encoding failed",
			telemetry.Field{Key: "monitor", Value: transition.MonitorName},
			telemetry.Field{Key: "error", Value: err.Error()},
		)
		return
	}

	var lastErr error
	for attempt := 1; attempt <= d.config.MaxAttempts; attempt++ {
		lastErr = d.deliver(ctx, body)
		if lastErr == nil {
			return
		}

		if attempt >= d.config.MaxAttempts {
			break
		}

		delay := d.backoff(attempt)
		d.logger.Warn(ctx, "webhook delivery failed, retrying",
			telemetry.Field{Key: "monitor", Value: transition.MonitorName},
			telemetry.Field{Key: "attempt", Value: attempt},
			telemetry.Field{Key: "delay", Value: delay.String()},
			telemetry.Field{Key: "error", Value: lastErr.Error()},
		)

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}

	d.logger.Error(ctx, "webhook delivery abandoned",
		telemetry.Field{Key: "monitor", Value: transition.MonitorName},
		telemetry.Field{Key: "attempts", Value: d.config.MaxAttempts},
		telemetry.Field{Key: "error", Value: lastErr.Error()},
	)
}

// deliver performs one POST attempt. Any 2xx response counts as delivered.
func (d *WebhookDispatcher) deliver(ctx context.Context, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, d.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.config.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range d.config.Headers {
		req.Header.Set(k, v)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused.
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return fmt.Errorf("webhook endpoint returned status %d", resp.StatusCode)
}

// backoff returns the delay before the next attempt: exponential doubling
// from InitialBackoff, capped at MaxBackoff, with up to 25% jitter.
func (d *WebhookDispatcher) backoff(attempt int) time.Duration {
	delay := time.Duration(float64(d.config.InitialBackoff) * math.Pow(2, float64(attempt-1)))
	if delay > d.config.MaxBackoff {
		delay = d.config.MaxBackoff
	}
	if jitterRange := int64(delay / 4); jitterRange > 0 {
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		delay += time.Duration(rand.Int64N(jitterRange))
	}
	return delay
}
