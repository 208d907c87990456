// Package events publishes allocation domain events to the reporting side.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"github.com/guttosm/kandypack-dispatch/internal/logger"
)

// Publisher emits domain events. Delivery to customers happens downstream.
type Publisher interface {
	Publish(ctx context.Context, event model.Event) error
	Close() error
}

// stamp fills the id and timestamp of an event when the caller left them empty.
func stamp(event model.Event) model.Event {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	return event
}

// LogPublisher writes events to the structured log.
type LogPublisher struct{}

// NewLogPublisher creates a publisher that only logs.
func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

// Publish logs the event at info level.
func (p *LogPublisher) Publish(ctx context.Context, event model.Event) error {
	event = stamp(event)
	log := logger.WithContext(ctx)
	log.Info().
		Str("event_id", event.ID).
		Str("event_type", string(event.Type)).
		Str("order_id", event.OrderID).
		Str("order_item_id", event.OrderItemID).
		Str("trip_id", event.TripInstanceID).
		Str("leg", string(event.Leg)).
		Str("reason", event.Reason).
		Msg("Domain event")
	return nil
}

// Close is a no-op.
func (p *LogPublisher) Close() error { return nil }

// MemoryPublisher records events in memory.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []model.Event
}

// NewMemoryPublisher creates an empty recorder.
func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

// Publish appends the event.
func (p *MemoryPublisher) Publish(_ context.Context, event model.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, stamp(event))
	return nil
}

// Events returns a copy of every recorded event.
func (p *MemoryPublisher) Events() []model.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]model.Event, len(p.events))
	copy(out, p.events)
	return out
}

// OfType returns the recorded events with type t.
func (p *MemoryPublisher) OfType(t model.EventType) []model.Event {
	var out []model.Event
	for _, e := range p.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Close is a no-op.
func (p *MemoryPublisher) Close() error { return nil }
