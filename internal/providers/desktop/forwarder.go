package desktop

import (
	"context"

	"github.com/GriffinCanCode/agentshell/internal/domain/events"
	"github.com/GriffinCanCode/agentshell/internal/infrastructure/monitoring"
	"go.uber.org/zap"
)

// Subscriber is the event source the forwarder drains.
type Subscriber interface {
	Subscribe() (<-chan events.Event, func())
}

// Forwarder re-emits bus events into the webview as runtime events, so the
// UI can listen with EventsOn without opening the WebSocket stream.
type Forwarder struct {
	binding *Binding
	bus     Subscriber
	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// NewForwarder creates a forwarder. metrics may be nil.
func NewForwarder(binding *Binding, bus Subscriber, metrics *monitoring.Metrics, logger *zap.Logger) *Forwarder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Forwarder{binding: binding, bus: bus, metrics: metrics, logger: logger}
}

// Run forwards until ctx is done. Events published before the runtime is
// bound are dropped.
func (f *Forwarder) Run(ctx context.Context) {
	stream, cancel := f.bus.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-stream:
			if !ok {
				return
			}
			rctx, err := f.binding.Context()
			if err != nil {
				f.logger.Debug("dropping event before startup", zap.String("event", string(evt.Name)))
				continue
			}
			f.binding.Runtime().EventsEmit(rctx, string(evt.Name), evt.Payload)
			if f.metrics != nil {
				f.metrics.RecordEvent("runtime", string(evt.Name))
			}
		}
	}
}
