package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jonwraymond/sentinel/monitor"
	"github.com/jonwraymond/sentinel/telemetry"
)

// Bounds for engine configuration values.
const (
	MinCheckInterval = 10 * time.Second
	MaxCheckInterval = 3600 * time.Second

	MinMaxConcurrency = 1
	MaxMaxConcurrency = 500

	MinShutdownTimeout = 1 * time.Second
	MaxShutdownTimeout = 3600 * time.Second
)

// Config is the top-level service configuration.
type Config struct {
	Engine    EngineConfig     `mapstructure:"engine"`
	Probe     ProbeConfig      `mapstructure:"probe"`
	Server    ServerConfig     `mapstructure:"server"`
	Storage   StorageConfig    `mapstructure:"storage"`
	Alerts    AlertsConfig     `mapstructure:"alerts"`
	Telemetry TelemetryConfig  `mapstructure:"telemetry"`
	Monitors  []monitor.Target `mapstructure:"monitors"`
}

// EngineConfig controls the check scheduler.
type EngineConfig struct {
	CheckInterval           time.Duration `mapstructure:"check_interval"`
	MaxConcurrency          int           `mapstructure:"max_concurrency"`
	GracefulShutdownTimeout time.Duration `mapstructure:"graceful_shutdown_timeout"`
	FailureBackoff          time.Duration `mapstructure:"failure_backoff"`
}

// ProbeConfig controls the HTTP checker.
type ProbeConfig struct {
	Method       string `mapstructure:"method"`
	MaxRedirects int    `mapstructure:"max_redirects"`
	UserAgent    string `mapstructure:"user_agent"`
}

// ServerConfig controls the admin API.
type ServerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
	APIKey  string `mapstructure:"api_key"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Backend string `mapstructure:"backend"` // sqlite|none
	Path    string `mapstructure:"path"`
}

// AlertsConfig controls transition notifications.
type AlertsConfig struct {
	Log     bool          `mapstructure:"log"`
	Webhook WebhookConfig `mapstructure:"webhook"`
}

// WebhookConfig configures webhook alert delivery. An empty URL disables it.
type WebhookConfig struct {
	URL         string        `mapstructure:"url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxAttempts int           `mapstructure:"max_attempts"`
}

// TelemetryConfig configures tracing, metrics and logging.
type TelemetryConfig struct {
	Tracing TracingConfig `mapstructure:"tracing"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TracingConfig configures the tracing subsystem.
type TracingConfig struct {
	Enabled   bool    `mapstructure:"enabled"`
	Exporter  string  `mapstructure:"exporter"` // otlp|stdout|none
	SamplePct float64 `mapstructure:"sample_pct"`
}

// MetricsConfig configures the metrics subsystem.
type MetricsConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Exporter string `mapstructure:"exporter"` // otlp|prometheus|stdout|none
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level string `mapstructure:"level"` // debug|info|warn|error
}

// Load reads configuration from the given path (or defaults) with
// environment variable overrides (prefix SENTINEL_).
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("engine.check_interval", "60s")
	v.SetDefault("engine.max_concurrency", 50)
	v.SetDefault("engine.graceful_shutdown_timeout", "30s")
	v.SetDefault("engine.failure_backoff", "5s")
	v.SetDefault("probe.method", "GET")
	v.SetDefault("probe.max_redirects", 5)
	v.SetDefault("probe.user_agent", "sentinel-probe/1.0")
	v.SetDefault("server.enabled", true)
	v.SetDefault("server.listen", "127.0.0.1:8080")
	v.SetDefault("server.api_key", "")
	v.SetDefault("alerts.webhook.url", "")
	v.SetDefault("storage.backend", "sqlite")
	v.SetDefault("storage.path", "sentinel.db")
	v.SetDefault("alerts.log", true)
	v.SetDefault("alerts.webhook.timeout", "10s")
	v.SetDefault("alerts.webhook.max_attempts", 3)
	v.SetDefault("telemetry.metrics.enabled", true)
	v.SetDefault("telemetry.metrics.exporter", "prometheus")
	v.SetDefault("telemetry.tracing.enabled", false)
	v.SetDefault("telemetry.tracing.exporter", "none")
	v.SetDefault("telemetry.tracing.sample_pct", 0.1)
	v.SetDefault("telemetry.logging.level", "info")

	// Environment
	v.SetEnvPrefix("SENTINEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// File
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshalling: %w", err)
	}

	for i, target := range cfg.Monitors {
		cfg.Monitors[i] = target.Normalize()
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("config: validating: %w", errors.Join(errs...))
	}

	return &cfg, nil
}

// Validate checks the configuration for logical errors. It returns every
// violation found rather than stopping at the first one.
func (c *Config) Validate() []error {
	var errs []error

	errs = append(errs, c.validateEngine()...)
	errs = append(errs, c.validateProbe()...)
	errs = append(errs, c.validateServer()...)
	errs = append(errs, c.validateStorage()...)
	errs = append(errs, c.validateAlerts()...)
	errs = append(errs, c.validateTelemetry()...)
	errs = append(errs, c.validateMonitors()...)

	return errs
}

func (c *Config) validateEngine() []error {
	var errs []error

	if c.Engine.CheckInterval < MinCheckInterval || c.Engine.CheckInterval > MaxCheckInterval {
		errs = append(errs, fmt.Errorf(
			"config: engine.check_interval must be between %s and %s, got %s",
			MinCheckInterval, MaxCheckInterval, c.Engine.CheckInterval))
	}
	if c.Engine.MaxConcurrency < MinMaxConcurrency || c.Engine.MaxConcurrency > MaxMaxConcurrency {
		errs = append(errs, fmt.Errorf(
			"config: engine.max_concurrency must be between %d and %d, got %d",
			MinMaxConcurrency, MaxMaxConcurrency, c.Engine.MaxConcurrency))
	}
	if c.Engine.GracefulShutdownTimeout < MinShutdownTimeout || c.Engine.GracefulShutdownTimeout > MaxShutdownTimeout {
		errs = append(errs, fmt.Errorf(
			"config: engine.graceful_shutdown_timeout must be between %s and %s, got %s",
			MinShutdownTimeout, MaxShutdownTimeout, c.Engine.GracefulShutdownTimeout))
	}
	if c.Engine.FailureBackoff <= 0 {
		errs = append(errs, fmt.Errorf(
			"config: engine.failure_backoff must be positive, got %s", c.Engine.FailureBackoff))
	}

	return errs
}

func (c *Config) validateProbe() []error {
	var errs []error

	validMethods := map[string]bool{"GET": true, "HEAD": true}
	if !validMethods[c.Probe.Method] {
		errs = append(errs, fmt.Errorf(
			"config: probe.method must be one of [GET, HEAD], got %q", c.Probe.Method))
	}
	if c.Probe.MaxRedirects < 0 || c.Probe.MaxRedirects > 20 {
		errs = append(errs, fmt.Errorf(
			"config: probe.max_redirects must be between 0 and 20, got %d", c.Probe.MaxRedirects))
	}

	return errs
}

func (c *Config) validateServer() []error {
	var errs []error

	if !c.Server.Enabled {
		return nil
	}
	if c.Server.Listen == "" {
		errs = append(errs, errors.New("config: server.listen must not be empty"))
	} else if _, _, err := net.SplitHostPort(c.Server.Listen); err != nil {
		errs = append(errs, fmt.Errorf(
			"config: server.listen must be a valid host:port address, got %q: %w",
			c.Server.Listen, err))
	}

	return errs
}

func (c *Config) validateStorage() []error {
	var errs []error

	validBackends := map[string]bool{"sqlite": true, "none": true}
	if !validBackends[c.Storage.Backend] {
		errs = append(errs, fmt.Errorf(
			"config: storage.backend must be one of [sqlite, none], got %q", c.Storage.Backend))
	}
	if c.Storage.Backend == "sqlite" && c.Storage.Path == "" {
		errs = append(errs, errors.New("config: storage.path must not be empty for the sqlite backend"))
	}

	return errs
}

func (c *Config) validateAlerts() []error {
	var errs []error

	if c.Alerts.Webhook.URL == "" {
		return nil
	}
	if c.Alerts.Webhook.Timeout <= 0 {
		errs = append(errs, fmt.Errorf(
			"config: alerts.webhook.timeout must be positive, got %s", c.Alerts.Webhook.Timeout))
	}
	if c.Alerts.Webhook.MaxAttempts < 1 || c.Alerts.Webhook.MaxAttempts > 10 {
		errs = append(errs, fmt.Errorf(
			"config: alerts.webhook.max_attempts must be between 1 and 10, got %d",
			c.Alerts.Webhook.MaxAttempts))
	}

	return errs
}

func (c *Config) validateTelemetry() []error {
	var errs []error

	tc := c.TelemetryConfig("", "")
	if err := tc.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("config: telemetry: %w", err))
	}

	return errs
}

func (c *Config) validateMonitors() []error {
	var errs []error

	seen := make(map[string]bool, len(c.Monitors))
	for i, target := range c.Monitors {
		if err := target.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("config: monitors[%d] (%q): %w", i, target.Name, err))
			continue
		}
		if seen[target.Name] {
			errs = append(errs, fmt.Errorf("config: monitors[%d]: duplicate name %q", i, target.Name))
		}
		seen[target.Name] = true
	}

	return errs
}

// TelemetryConfig maps the file-level telemetry section onto the telemetry
// package's provider configuration.
func (c *Config) TelemetryConfig(serviceName, version string) telemetry.Config {
	if serviceName == "" {
		serviceName = "sentinel"
	}
	return telemetry.Config{
		ServiceName: serviceName,
		Version:     version,
		Tracing: telemetry.TracingConfig{
			Enabled:   c.Telemetry.Tracing.Enabled,
			Exporter:  c.Telemetry.Tracing.Exporter,
			SamplePct: c.Telemetry.Tracing.SamplePct,
		},
		Metrics: telemetry.MetricsConfig{
			Enabled:  c.Telemetry.Metrics.Enabled,
			Exporter: c.Telemetry.Metrics.Exporter,
		},
		Logging: telemetry.LoggingConfig{
			Enabled: true,
			Level:   c.Telemetry.Logging.Level,
		},
	}
}
