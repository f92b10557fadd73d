package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jonwraymond/sentinel/telemetry"
)

// ServerConfig configures the admin HTTP server.
type ServerConfig struct {
	// Listen is the host:port the server binds to.
	// Default: 127.0.0.1:8080
	Listen string

	// APIKey protects /api/v1 routes when non-empty. Clients present it in
	// the X-API-Key header.
	APIKey string

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 10 seconds
	ShutdownTimeout time.Duration
}

// Server wraps the http.Server to provide graceful shutdown.
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	logger     telemetry.Logger
}

// NewServer creates the admin server around the given handlers.
func NewServer(config ServerConfig, handlers *Handlers, logger telemetry.Logger) *Server {
	// Apply defaults
	if config.Listen == "" {
		config.Listen = "127.0.0.1:8080"
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = telemetry.NewNopLogger()
	}

	return &Server{
		config: config,
		httpServer: &http.Server{
			Addr:              config.Listen,
			Handler:           NewRouter(handlers, config.APIKey),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Start runs the HTTP server in a new goroutine. Listen failures other than
// a normal close are reported on the returned channel.
func (s *Server) Start() <-chan error {
	errCh := make(chan error, 1)

	s.logger.Info(context.Background(), "admin server listening",
		telemetry.Field{Key: "addr", Value: s.config.Listen})

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	return errCh
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.logger.Info(ctx, "admin server shutting down")
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the server's root handler, exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
