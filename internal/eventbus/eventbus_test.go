package eventbus

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calselect/internal/domain"
)

func newTestBus() *bus {
	return NewWithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))).(*bus)
}

func TestBus_PublishWaitsForHandlersInOrder(t *testing.T) {
	b := newTestBus()

	var order []string
	b.Subscribe(EventSelectionUpdated, func(e DomainEvent) { order = append(order, "first") })
	b.Subscribe(EventSelectionUpdated, func(e DomainEvent) { order = append(order, "second") })
	b.Subscribe(EventSelectionUpdated, func(e DomainEvent) { order = append(order, "third") })

	b.Publish(SelectionUpdatedEvent{ID: 7})

	// Delivery is synchronous: all handlers have run once Publish returns
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestBus_PayloadIsSelectionID(t *testing.T) {
	b := newTestBus()

	var got domain.SelectionID
	b.Subscribe(EventSelectionCreated, func(e DomainEvent) {
		ev, ok := e.(domain.SelectionEvent)
		require.True(t, ok)
		got = ev.SelectionID()
	})

	b.Publish(SelectionCreatedEvent{ID: 42})
	assert.Equal(t, domain.SelectionID(42), got)
}

func TestBus_NoMatchingHandlers(t *testing.T) {
	b := newTestBus()

	b.Subscribe(EventSelectionRemoved, func(e DomainEvent) {
		t.Error("handler should not be called for a different event type")
	})

	b.Publish(SelectionCreatedEvent{ID: 1})
}

func TestBus_Unsubscribe(t *testing.T) {
	b := newTestBus()

	calls := map[string]int{}
	unsubFirst := b.Subscribe(EventSelectionUpdated, func(e DomainEvent) { calls["first"]++ })
	b.Subscribe(EventSelectionUpdated, func(e DomainEvent) { calls["second"]++ })
	require.Equal(t, 2, b.SubscriptionCount())

	unsubFirst()
	unsubFirst() // second call is a no-op
	assert.Equal(t, 1, b.SubscriptionCount())

	b.Publish(SelectionUpdatedEvent{ID: 1})
	assert.Equal(t, 0, calls["first"])
	assert.Equal(t, 1, calls["second"])
}

func TestBus_UnsubscribeDuringPublish(t *testing.T) {
	b := newTestBus()

	calls := 0
	var unsub func()
	unsub = b.Subscribe(EventSelectionRemoved, func(e DomainEvent) {
		calls++
		unsub()
	})
	b.Subscribe(EventSelectionRemoved, func(e DomainEvent) { calls++ })

	b.Publish(SelectionRemovedEvent{ID: 3})
	assert.Equal(t, 2, calls, "handlers captured before the unsubscribe still run")

	b.Publish(SelectionRemovedEvent{ID: 3})
	assert.Equal(t, 3, calls)
}

func TestBus_PanickingHandlerDoesNotStopDelivery(t *testing.T) {
	b := newTestBus()

	reached := false
	b.Subscribe(EventError, func(e DomainEvent) { panic("boom") })
	b.Subscribe(EventError, func(e DomainEvent) { reached = true })

	assert.NotPanics(t, func() {
		b.Publish(ErrorEvent{Message: "x"})
	})
	assert.True(t, reached)
}

func TestBus_NestedPublish(t *testing.T) {
	b := newTestBus()

	var order []domain.EventType
	b.Subscribe(EventSelectionCreated, func(e DomainEvent) {
		order = append(order, e.Type())
		b.Publish(SelectionUpdatedEvent{ID: 1})
	})
	b.Subscribe(EventSelectionUpdated, func(e DomainEvent) {
		order = append(order, e.Type())
	})

	b.Publish(SelectionCreatedEvent{ID: 1})
	assert.Equal(t, []domain.EventType{EventSelectionCreated, EventSelectionUpdated}, order)
}
