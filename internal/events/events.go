package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the progression engine.
const (
	// TypeDayCompleted fires when a day transitions to done.
	TypeDayCompleted = "day.completed"

	// TypeDayUnlocked fires when the next day transitions from locked to
	// ready.
	TypeDayUnlocked = "day.unlocked"

	// TypePlanCompleted fires when the final day of a plan is done.
	TypePlanCompleted = "plan.completed"
)

// ProgressionEvent describes one state change in a user's plan. The payload
// carries event-specific data serialized as JSON so handlers stay decoupled
// from the progression package.
type ProgressionEvent struct {
	// ID is a unique identifier for this event.
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants.
	Type string `json:"type"`

	// Payload contains the event-specific data serialized as JSON.
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created.
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *ProgressionEvent) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// NewProgressionEvent creates a new ProgressionEvent with the given type and
// payload.
func NewProgressionEvent(eventType string, payload any) (*ProgressionEvent, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &ProgressionEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// DayCompletedPayload is the payload for TypeDayCompleted events.
type DayCompletedPayload struct {
	UserID    uuid.UUID `json:"user_id"`
	PlanID    uuid.UUID `json:"plan_id"`
	DayID     uuid.UUID `json:"day_id"`
	DayNumber int       `json:"day_number"`
	Score     int       `json:"score"`
	Streak    int       `json:"streak"`
}

// DayUnlockedPayload is the payload for TypeDayUnlocked events.
type DayUnlockedPayload struct {
	UserID     uuid.UUID `json:"user_id"`
	PlanID     uuid.UUID `json:"plan_id"`
	DayID      uuid.UUID `json:"day_id"`
	DayNumber  int       `json:"day_number"`
	Difficulty int       `json:"difficulty"`
}

// PlanCompletedPayload is the payload for TypePlanCompleted events.
type PlanCompletedPayload struct {
	UserID uuid.UUID `json:"user_id"`
	PlanID uuid.UUID `json:"plan_id"`
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *ProgressionEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows the progression engine to publish events without direct
// knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *ProgressionEvent) error
}
