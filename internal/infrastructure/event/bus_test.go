package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fieldstock/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testEvent implements DomainEvent for testing
type testEvent struct {
	shared.BaseDomainEvent
	Data string `json:"data"`
}

func newTestEvent(eventType string, orgID uuid.UUID) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", uuid.New(), orgID),
		Data:            "test data",
	}
}

// testHandler implements EventHandler for testing
type testHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	mu         sync.Mutex
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{
		eventTypes: eventTypes,
		handled:    make([]shared.DomainEvent, 0),
	}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) setError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

func (h *testHandler) getHandled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

func TestInMemoryEventBusPublish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	orgID := uuid.New()

	t.Run("delivers to matching handler", func(t *testing.T) {
		handler := newTestHandler("stock.received")
		bus.Subscribe(handler)

		evt := newTestEvent("stock.received", orgID)
		err := bus.Publish(context.Background(), evt)
		require.NoError(t, err)

		handled := handler.getHandled()
		require.Len(t, handled, 1)
		assert.Equal(t, evt.EventID(), handled[0].EventID())

		bus.Unsubscribe(handler)
	})

	t.Run("does not deliver to non-matching handler", func(t *testing.T) {
		handler := newTestHandler("stock.issued")
		bus.Subscribe(handler)

		err := bus.Publish(context.Background(), newTestEvent("stock.received", orgID))
		require.NoError(t, err)
		assert.Empty(t, handler.getHandled())

		bus.Unsubscribe(handler)
	})

	t.Run("wildcard handler receives all events", func(t *testing.T) {
		handler := newTestHandler()
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(context.Background(),
			newTestEvent("stock.received", orgID),
			newTestEvent("stock.issued", orgID),
		))
		assert.Len(t, handler.getHandled(), 2)

		bus.Unsubscribe(handler)
	})

	t.Run("handler error does not stop other handlers", func(t *testing.T) {
		failing := newTestHandler("stock.received")
		failing.setError(errors.New("boom"))
		healthy := newTestHandler("stock.received")
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		err := bus.Publish(context.Background(), newTestEvent("stock.received", orgID))
		require.NoError(t, err)
		assert.Len(t, healthy.getHandled(), 1)

		bus.Unsubscribe(failing)
		bus.Unsubscribe(healthy)
	})
}

func TestInMemoryEventBusUnsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("stock.received")
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("stock.received", uuid.New())))
	assert.Empty(t, handler.getHandled())
}

func TestInMemoryEventBusStartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, bus.Start(ctx))
	require.NoError(t, bus.Stop(ctx))
}

func TestHandlerRegistry(t *testing.T) {
	registry := NewHandlerRegistry()
	a := newTestHandler("stock.received")
	b := newTestHandler("stock.received", "stock.issued")

	registry.Register(a, a.EventTypes()...)
	registry.Register(b, b.EventTypes()...)

	assert.Len(t, registry.GetHandlers("stock.received"), 2)
	assert.Len(t, registry.GetHandlers("stock.issued"), 1)
	assert.Empty(t, registry.GetHandlers("stock.adjusted"))

	registry.Unregister(a)
	assert.Len(t, registry.GetHandlers("stock.received"), 1)
}
