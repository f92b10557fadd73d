package telemetry

import (
	"context"
	"testing"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "minimal valid",
			config:  Config{ServiceName: "sentinel"},
			wantErr: false,
		},
		{
			name:    "missing service name",
			config:  Config{},
			wantErr: true,
		},
		{
			name: "valid tracing",
			config: Config{
				ServiceName: "sentinel",
				Tracing:     TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: 0.5},
			},
			wantErr: false,
		},
		{
			name: "unknown tracing exporter",
			config: Config{
				ServiceName: "sentinel",
				Tracing:     TracingConfig{Enabled: true, Exporter: "jaeger"},
			},
			wantErr: true,
		},
		{
			name: "sample pct out of range",
			config: Config{
				ServiceName: "sentinel",
				Tracing:     TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: 1.5},
			},
			wantErr: true,
		},
		{
			name: "unknown metrics exporter",
			config: Config{
				ServiceName: "sentinel",
				Metrics:     MetricsConfig{Enabled: true, Exporter: "statsd"},
			},
			wantErr: true,
		},
		{
			name: "prometheus metrics",
			config: Config{
				ServiceName: "sentinel",
				Metrics:     MetricsConfig{Enabled: true, Exporter: "prometheus"},
			},
			wantErr: false,
		},
		{
			name: "unknown log level",
			config: Config{
				ServiceName: "sentinel",
				Logging:     LoggingConfig{Enabled: true, Level: "verbose"},
			},
			wantErr: true,
		},
		{
			name: "disabled subsystems skip validation",
			config: Config{
				ServiceName: "sentinel",
				Tracing:     TracingConfig{Enabled: false, Exporter: "bogus"},
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewProvider_Disabled(t *testing.T) {
	ctx := context.Background()

	p, err := NewProvider(ctx, Config{ServiceName: "sentinel"})
	if err != nil {
		t.Fatalf("NewProvider() = %v", err)
	}

	if p.Tracer() == nil {
		t.Error("Tracer() should never be nil")
	}
	if p.Meter() == nil {
		t.Error("Meter() should never be nil")
	}
	if p.Logger() == nil {
		t.Error("Logger() should never be nil")
	}
	if err := p.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() = %v", err)
	}
}

func TestNewProvider_InvalidConfig(t *testing.T) {
	if _, err := NewProvider(context.Background(), Config{}); err == nil {
		t.Error("NewProvider() with empty config = nil error, want error")
	}
}
