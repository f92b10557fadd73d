package alert

import (
	"context"

	"github.com/jonwraymond/sentinel/monitor"
)

// Dispatcher delivers one transition notification.
type Dispatcher interface {
	Dispatch(ctx context.Context, transition monitor.Transition)
}

// Multi fans a transition out to several dispatchers in order. One
// dispatcher's failure does not stop the others; each handles its own
// error reporting.
type Multi struct {
	dispatchers []Dispatcher
}

// NewMulti creates a composite dispatcher.
func NewMulti(dispatchers ...Dispatcher) *Multi {
	return &Multi{dispatchers: dispatchers}
}

// Dispatch delivers to every configured dispatcher.
func (m *Multi) Dispatch(ctx context.Context, transition monitor.Transition) {
	for _, d := range m.dispatchers {
		d.Dispatch(ctx, transition)
	}
}
