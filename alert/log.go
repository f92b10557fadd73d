package alert

import (
	"context"

	"github.com/jonwraymond/sentinel/monitor"
	"github.com/jonwraymond/sentinel/telemetry"
)

// LogDispatcher emits each transition as a structured log line. Recoveries
// log at info, everything else at warn.
type LogDispatcher struct {
	logger telemetry.Logger
}

// NewLogDispatcher creates a dispatcher writing to logger. A nil logger
// discards everything.
func NewLogDispatcher(logger telemetry.Logger) *LogDispatcher {
	if logger == nil {
		logger = telemetry.NewNopLogger()
	}
	return &LogDispatcher{logger: logger}
}

// Dispatch logs the transition.
func (d *LogDispatcher) Dispatch(ctx context.Context, transition monitor.Transition) {
	logger := d.logger.WithMonitor(transition.MonitorName)

	fields := []telemetry.Field{
		{Key: "from", Value: fromLabel(transition.From)},
		{Key: "to", Value: string(transition.To)},
		{Key: "url", Value: transition.Result.URL},
	}
	if transition.Result.ErrorMessage != "" {
		fields = append(fields, telemetry.Field{Key: "reason", Value: transition.Result.ErrorMessage})
	}

	if transition.To == monitor.StatusUp {
		logger.Info(ctx, "monitor recovered", fields...)
		return
	}
	logger.Warn(ctx, "monitor unhealthy", fields...)
}

// fromLabel renders the pre-transition status, naming the implicit unknown
// state a brand-new monitor starts in.
func fromLabel(s monitor.Status) string {
	if s == "" {
		return "UNKNOWN"
	}
	return string(s)
}
