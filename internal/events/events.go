package events

import (
	"encoding/json"
	"sync"
	"time"
)

const (
	EventSessionStarted = "session_started"
	EventSessionExpired = "session_expired"
	EventSessionCleared = "session_cleared"
	EventReviewPosted   = "review_posted"
	EventBoothApplied   = "booth_applied"
	EventBoothReviewed  = "booth_reviewed"
)

// SessionEventPayload describes a change of the local session.
type SessionEventPayload struct {
	UserID int64  `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	Reason string `json:"reason,omitempty"`
	Route  string `json:"route,omitempty"`
}

// ReviewEventPayload is published after a rating is accepted by the backend.
type ReviewEventPayload struct {
	EventID    int64 `json:"event_id"`
	UserID     int64 `json:"user_id"`
	RatingID   int64 `json:"rating_id"`
	RatingStar int   `json:"rating_star"`
	Remaining  int   `json:"remaining"`
}

// BoothEventPayload is published when a booth application is filed or
// decided by an admin.
type BoothEventPayload struct {
	BoothID   int64  `json:"booth_id"`
	EventID   int64  `json:"event_id"`
	UserID    int64  `json:"user_id,omitempty"`
	Status    string `json:"status"`
	Available int    `json:"available"`
}

type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// Decode unmarshals the JSON payload into out.
func (e *Event) Decode(out any) error {
	return json.Unmarshal(e.Payload, out)
}

type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for client lifecycle events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish runs handlers synchronously in subscription order. Handler
// errors are ignored; a failing subscriber must not block the others.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event. Safe on a nil bus.
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
