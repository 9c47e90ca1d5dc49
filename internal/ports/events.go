package ports

import "context"

const (
	// EventRenderStarted is emitted before a render call runs.
	EventRenderStarted = "render.started"
	// EventRenderCompleted is emitted after a render call returns.
	EventRenderCompleted = "render.completed"
	// EventDiagnostic is emitted for every warning raised during a render.
	EventDiagnostic = "render.diagnostic"
	// EventStylesLoaded is emitted when a style configuration is fetched from a store.
	EventStylesLoaded = "styles.loaded"
)

// DomainEvent is a significant occurrence carrying a structured payload.
type DomainEvent interface {
	EventType() string
	Payload() interface{}
}

// EventPublisher distributes events to subscribers. Publish blocks until all
// handlers ran. Implementations must be thread-safe.
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
}

// EventHandler processes an event of a specific type. Failures are returned,
// not panicked, so the publisher can keep delivering.
type EventHandler func(context.Context, DomainEvent) error

// Subscription represents a registered handler.
type Subscription interface {
	Unsubscribe()
}

// Event is a plain DomainEvent implementation.
type Event struct {
	Type string
	Data map[string]interface{}
}

// EventType returns the event type.
func (e Event) EventType() string { return e.Type }

// Payload returns the event data.
func (e Event) Payload() interface{} { return e.Data }
