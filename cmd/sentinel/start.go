package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/sentinel/alert"
	"github.com/jonwraymond/sentinel/api"
	"github.com/jonwraymond/sentinel/config"
	"github.com/jonwraymond/sentinel/engine"
	"github.com/jonwraymond/sentinel/probe"
	"github.com/jonwraymond/sentinel/registry"
	"github.com/jonwraymond/sentinel/stats"
	"github.com/jonwraymond/sentinel/store"
	"github.com/jonwraymond/sentinel/telemetry"
)

func newStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the monitoring engine",
		Long:  "Load configuration, seed the monitor registry, and drive check cycles until interrupted.",
		RunE:  runStart,
	}

	cmd.Flags().String("listen", "", "override admin API listen address (host:port)")

	return cmd
}

func runStart(cmd *cobra.Command, _ []string) error {
	cfgPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
		cfg.Server.Listen = listen
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := telemetry.NewProvider(ctx, cfg.TelemetryConfig("sentinel", version))
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	logger := provider.Logger()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Error(shutdownCtx, "telemetry shutdown failed",
				telemetry.Field{Key: "error", Value: err.Error()})
		}
	}()

	metrics, err := telemetry.NewCheckMetrics(provider.Meter())
	if err != nil {
		return fmt.Errorf("initializing metrics: %w", err)
	}
	middleware := telemetry.NewMiddleware(telemetry.NewTracer(provider.Tracer()), metrics, logger)

	reg := registry.NewRegistry()
	if err := reg.Seed(cfg.Monitors); err != nil {
		return fmt.Errorf("seeding monitors: %w", err)
	}
	logger.Info(ctx, "monitors registered",
		telemetry.Field{Key: "count", Value: reg.Len()})

	dispatcher, err := buildDispatcher(cfg, logger)
	if err != nil {
		return fmt.Errorf("configuring alerts: %w", err)
	}
	aggregator := stats.NewAggregator(stats.WithDispatcher(dispatcher))

	sink, history, err := buildStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		if err := sink.Close(); err != nil {
			logger.Error(context.Background(), "storage close failed",
				telemetry.Field{Key: "error", Value: err.Error()})
		}
	}()

	checker := probe.NewChecker(probe.CheckerConfig{
		Method:       cfg.Probe.Method,
		MaxRedirects: cfg.Probe.MaxRedirects,
		UserAgent:    cfg.Probe.UserAgent,
	})
	runner := engine.NewRunner(
		engine.CheckerFunc(middleware.Wrap(checker.Check)),
		engine.NewLimiter(engine.LimiterConfig{MaxConcurrent: cfg.Engine.MaxConcurrency}),
	)
	if err := telemetry.RegisterInFlightGauge(provider.Meter(), func() int64 {
		return int64(runner.Limiter().Metrics().Active)
	}); err != nil {
		return fmt.Errorf("registering in-flight gauge: %w", err)
	}

	scheduler := engine.NewScheduler(
		engine.SchedulerConfig{
			CheckInterval:           cfg.Engine.CheckInterval,
			GracefulShutdownTimeout: cfg.Engine.GracefulShutdownTimeout,
			FailureBackoff:          cfg.Engine.FailureBackoff,
		},
		reg,
		runner,
		aggregator,
		engine.WithSink(sink),
		engine.WithLogger(logger),
		engine.WithMetrics(metrics),
	)

	schedulerErr := make(chan error, 1)
	go func() { schedulerErr <- scheduler.Run(ctx) }()

	var server *api.Server
	var serverErr <-chan error
	if cfg.Server.Enabled {
		handlers := api.NewHandlers(reg, aggregator, history,
			func() bool { return scheduler.State() == engine.StateRunning }, logger)
		server = api.NewServer(api.ServerConfig{
			Listen: cfg.Server.Listen,
			APIKey: cfg.Server.APIKey,
		}, handlers, logger)
		serverErr = server.Start()
	}

	select {
	case <-ctx.Done():
		logger.Info(context.Background(), "shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			logger.Error(ctx, "admin server failed",
				telemetry.Field{Key: "error", Value: err.Error()})
		}
		stop()
	}

	// Let the in-flight cycle drain before the API disappears.
	runErr := <-schedulerErr

	if server != nil {
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error(context.Background(), "admin server shutdown failed",
				telemetry.Field{Key: "error", Value: err.Error()})
		}
	}

	return runErr
}

// buildDispatcher assembles the alert fan-out from configuration.
func buildDispatcher(cfg *config.Config, logger telemetry.Logger) (stats.Dispatcher, error) {
	var dispatchers []alert.Dispatcher

	if cfg.Alerts.Log {
		dispatchers = append(dispatchers, alert.NewLogDispatcher(logger))
	}
	if cfg.Alerts.Webhook.URL != "" {
		webhook, err := alert.NewWebhookDispatcher(alert.WebhookConfig{
			URL:         cfg.Alerts.Webhook.URL,
			Timeout:     cfg.Alerts.Webhook.Timeout,
			MaxAttempts: cfg.Alerts.Webhook.MaxAttempts,
		}, logger)
		if err != nil {
			return nil, err
		}
		dispatchers = append(dispatchers, webhook)
	}

	return alert.NewMulti(dispatchers...), nil
}

// buildStorage opens the configured persistence backend. The returned
// history is nil when persistence is disabled.
func buildStorage(ctx context.Context, cfg *config.Config) (store.Sink, api.History, error) {
	if cfg.Storage.Backend != "sqlite" {
		return store.NewNopSink(), nil, nil
	}

	s, err := store.NewSQLiteStore(ctx, cfg.Storage.Path)
	if err != nil {
		return nil, nil, err
	}
	return s, s, nil
}
