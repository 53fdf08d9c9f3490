// Package ingest pumps inbound telephony notifications from the bus into
// the state mirror, one at a time, in arrival order.
package ingest

import (
	"context"

	"github.com/ikidd/vgmms/internal/bus"
	"github.com/ikidd/vgmms/internal/modem"
	"github.com/ikidd/vgmms/internal/state"
	"go.uber.org/zap"
)

// Engine subscribes to "modem." events and dispatches their notification
// payloads to the state reconciler.
type Engine struct {
	state  *state.State
	bus    *bus.Bus
	logger *zap.Logger
	cancel context.CancelFunc
}

// New creates an ingest engine.
func New(st *state.State, b *bus.Bus, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{state: st, bus: b, logger: logger}
}

// Start subscribes to inbound modem events on the bus and processes them
// until the context is cancelled or Stop is called.
func (e *Engine) Start(ctx context.Context) {
	ctx, e.cancel = context.WithCancel(ctx)
	ch, unsub := e.bus.Subscribe("modem.", 256)

	go func() {
		defer unsub()
		for {
			select {
			case evt := <-ch:
				e.handleEvent(evt)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the engine.
func (e *Engine) Stop() {
	if e.cancel != nil {
		e.cancel()
	}
}

func (e *Engine) handleEvent(evt bus.Event) {
	n, ok := evt.Payload.(modem.Notification)
	if !ok {
		e.logger.Warn("dropping modem event with unexpected payload", zap.String("kind", evt.Kind))
		return
	}
	e.state.HandleNotification(n)
}
