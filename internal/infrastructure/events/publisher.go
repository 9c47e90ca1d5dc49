// Package events distributes render events to subscribers and the structured
// log. The Publisher doubles as the renderer's diagnostic channel.
package events

import (
	"context"
	"sort"
	"sync"

	"github.com/alexisbeaulieu97/stackrender/internal/diagnostics"
	"github.com/alexisbeaulieu97/stackrender/internal/ports"
)

// Publisher emits domain events as structured log entries and fans them out
// to subscribers.
type Publisher struct {
	logger ports.Logger
	subs   map[string][]subscriptionEntry
	nextID int
	mu     sync.RWMutex
}

var (
	_ ports.EventPublisher = (*Publisher)(nil)
	_ diagnostics.Reporter = (*Publisher)(nil)
)

// NewPublisher creates a publisher that logs each event through logger.
func NewPublisher(logger ports.Logger) *Publisher {
	return &Publisher{
		logger: logger,
		subs:   make(map[string][]subscriptionEntry),
	}
}

// Publish logs the event and runs every handler subscribed to its type.
// Handler failures are logged and never returned.
func (p *Publisher) Publish(ctx context.Context, event ports.DomainEvent) error {
	if p == nil || event == nil {
		return nil
	}

	p.mu.RLock()
	handlers := append([]subscriptionEntry(nil), p.subs[event.EventType()]...)
	p.mu.RUnlock()

	if p.logger != nil {
		fields := append([]interface{}{"event_type", event.EventType()}, payloadFields(event.Payload())...)
		if event.EventType() == ports.EventDiagnostic {
			p.logger.Warn(ctx, "render diagnostic", fields...)
		} else {
			p.logger.Debug(ctx, "domain event", fields...)
		}
	}

	for _, entry := range handlers {
		if entry.handler == nil {
			continue
		}
		if err := entry.handler(ctx, event); err != nil && p.logger != nil {
			p.logger.Warn(ctx, "event handler failed", "event_type", event.EventType(), "error", err)
		}
	}

	return nil
}

// Report publishes d as a render.diagnostic event. Informational diagnostics
// are logged at debug level and not fanned out.
func (p *Publisher) Report(ctx context.Context, d diagnostics.Diagnostic) {
	if p == nil {
		return
	}
	if !d.Warning() {
		if p.logger != nil {
			p.logger.Debug(ctx, "render note", "kind", string(d.Kind), "message", d.Message)
		}
		return
	}
	_ = p.Publish(ctx, DiagnosticEvent(d))
}

// DiagnosticEvent converts a diagnostic into a render.diagnostic event.
func DiagnosticEvent(d diagnostics.Diagnostic) ports.Event {
	data := map[string]interface{}{
		"kind":    string(d.Kind),
		"message": d.Message,
	}
	if d.Name != "" {
		data["name"] = d.Name
	}
	for k, v := range d.Context {
		if _, taken := data[k]; !taken {
			data[k] = v
		}
	}
	return ports.Event{Type: ports.EventDiagnostic, Data: data}
}

func payloadFields(payload interface{}) []interface{} {
	switch payload := payload.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(payload))
		for key := range payload {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		fields := make([]interface{}, 0, len(keys)*2)
		for _, key := range keys {
			fields = append(fields, key, payload[key])
		}
		return fields
	case nil:
		return nil
	default:
		return []interface{}{"payload", payload}
	}
}

// Subscribe registers a handler for the provided event type.
func (p *Publisher) Subscribe(eventType string, handler ports.EventHandler) (ports.Subscription, error) {
	if p == nil || handler == nil {
		return noopSubscription{}, nil
	}
	p.mu.Lock()
	p.nextID++
	id := p.nextID
	p.subs[eventType] = append(p.subs[eventType], subscriptionEntry{id: id, handler: handler})
	p.mu.Unlock()

	return subscription{
		cancel: func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			handlers := p.subs[eventType]
			for i, entry := range handlers {
				if entry.id == id {
					p.subs[eventType] = append(handlers[:i], handlers[i+1:]...)
					break
				}
			}
		},
	}, nil
}

type noopSubscription struct{}

func (noopSubscription) Unsubscribe() {}

type subscription struct {
	cancel func()
}

func (s subscription) Unsubscribe() {
	if s.cancel != nil {
		s.cancel()
	}
}

type subscriptionEntry struct {
	id      int
	handler ports.EventHandler
}
