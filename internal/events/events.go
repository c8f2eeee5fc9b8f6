package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventConsultationScheduled = "consultation_scheduled"
	EventConsultationStatus    = "consultation_status_changed"
	EventConsultationCancelled = "consultation_cancelled"
)

// Sources distinguish how a consultation record came to exist.
const (
	SourceRemote = "remote"
	SourceLocal  = "local"
)

// ConsultationEventPayload is the minimal consultation snapshot handed
// to event consumers. Source tells synthetic fallback records apart
// from server-confirmed ones.
type ConsultationEventPayload struct {
	ConsultationID string `json:"consultation_id"`
	Status         string `json:"status"`
	Date           string `json:"date"`
	TimeSlot       string `json:"time_slot"`
	Source         string `json:"source"`
}

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
