package eventbus

import (
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"calselect/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType
type SelectionEvent = domain.SelectionEvent

// Event type constants
const (
	EventSelectionCreated = domain.EventSelectionCreated
	EventSelectionUpdated = domain.EventSelectionUpdated
	EventSelectionRemoved = domain.EventSelectionRemoved
	EventError            = domain.EventError
	EventConfigLoaded     = domain.EventConfigLoaded
	EventConfigSaved      = domain.EventConfigSaved
	EventConfigChanged    = domain.EventConfigChanged
)

// Re-export domain event types
type SelectionCreatedEvent = domain.SelectionCreatedEvent
type SelectionUpdatedEvent = domain.SelectionUpdatedEvent
type SelectionRemovedEvent = domain.SelectionRemovedEvent
type ErrorEvent = domain.ErrorEvent
type ConfigLoadedEvent = domain.ConfigLoadedEvent
type ConfigSavedEvent = domain.ConfigSavedEvent
type ConfigChangedEvent = domain.ConfigChangedEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus.
//
// Publish does not return until every handler registered for the event's type
// has returned. Handlers run on the publishing goroutine, in registration order.
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]subscription
	nextID   atomic.Uint64
	logger   *slog.Logger
}

// New creates a new event bus
func New() EventBus {
	return NewWithLogger(slog.Default())
}

// NewWithLogger creates a bus that reports handler panics to logger
func NewWithLogger(logger *slog.Logger) EventBus {
	return &bus{
		handlers: make(map[EventType][]subscription),
		logger:   logger,
	}
}

// Publish delivers an event to all subscribers and waits for each of them
func (b *bus) Publish(event DomainEvent) {
	b.mu.RLock()
	subs := b.handlers[event.Type()]
	// Copy so handlers may subscribe or unsubscribe without deadlocking
	subsCopy := make([]subscription, len(subs))
	copy(subsCopy, subs)
	b.mu.RUnlock()

	b.logger.Debug("eventbus: publishing", "type", event.Type(), "handlers", len(subsCopy))

	for _, sub := range subsCopy {
		b.safeCall(sub.handler, event)
	}
}

// Subscribe subscribes to events of a specific type
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID.Add(1)
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()

			subs := b.handlers[eventType]
			for i, sub := range subs {
				if sub.id == id {
					// Build a fresh slice; an in-flight Publish may still hold the old one
					next := make([]subscription, 0, len(subs)-1)
					next = append(next, subs[:i]...)
					b.handlers[eventType] = append(next, subs[i+1:]...)
					break
				}
			}
		})
	}
}

// SubscriptionCount returns the total number of active subscriptions
func (b *bus) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := 0
	for _, subs := range b.handlers {
		count += len(subs)
	}
	return count
}

// safeCall runs one handler, recovering a panic so later handlers still run
func (b *bus) safeCall(h EventHandler, event DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panic",
				"type", event.Type(),
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	h(event)
}
