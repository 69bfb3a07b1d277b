package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Handler reacts to one audit record. Errors are logged by the bus.
type Handler func(ctx context.Context, a Audit) error

// Bus fans audit records out to subscribers. Publish never blocks the
// mutation that produced the record; Drain waits for handlers still running.
type Bus struct {
	handlers map[string][]Handler
	all      []Handler
	logger   *slog.Logger
	mu       sync.RWMutex
	inflight sync.WaitGroup
}

func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

// Subscribe registers h for one event type.
func (b *Bus) Subscribe(eventType string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], h)
	b.logger.Debug("audit handler registered",
		"event_type", eventType,
		"total_handlers", len(b.handlers[eventType]))
}

// SubscribeAll registers h for every event type.
func (b *Bus) SubscribeAll(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.all = append(b.all, h)
	b.logger.Debug("audit handler registered for all events", "total_handlers", len(b.all))
}

func (b *Bus) handlersFor(eventType string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Handler, 0, len(b.all)+len(b.handlers[eventType]))
	out = append(out, b.all...)
	return append(out, b.handlers[eventType]...)
}

// Publish runs every matching handler on its own goroutine.
func (b *Bus) Publish(ctx context.Context, a Audit) error {
	handlers := b.handlersFor(a.Type)
	if len(handlers) == 0 {
		b.logger.Debug("no handlers for audit event", "event_type", a.Type)
		return nil
	}

	b.logger.Debug("publishing audit event",
		"event_type", a.Type,
		"event_id", a.ID,
		"module", a.Module,
		"handlers_count", len(handlers))

	// handlers outlive the request, keep its values but drop its cancellation
	detached := context.WithoutCancel(ctx)
	b.inflight.Add(len(handlers))
	for _, h := range handlers {
		go func(h Handler) {
			defer b.inflight.Done()
			if err := h(detached, a); err != nil {
				b.logger.Error("audit handler failed",
					"event_type", a.Type,
					"event_id", a.ID,
					"error", err)
			}
		}(h)
	}

	return nil
}

// PublishSync runs the handlers in order and stops at the first failure.
func (b *Bus) PublishSync(ctx context.Context, a Audit) error {
	for _, h := range b.handlersFor(a.Type) {
		if err := h(ctx, a); err != nil {
			b.logger.Error("audit handler failed",
				"event_type", a.Type,
				"event_id", a.ID,
				"error", err)
			return fmt.Errorf("handler failed for event %s: %w", a.Type, err)
		}
	}
	return nil
}

// Drain blocks until every running handler has returned or ctx is done.
func (b *Bus) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("audit handlers still running: %w", ctx.Err())
	}
}
