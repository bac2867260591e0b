package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Plan-specific validation errors
var (
	// ErrPlanIDEmpty is returned when a plan ID is empty or nil.
	ErrPlanIDEmpty = errors.New("plan ID cannot be empty")

	// ErrPlanUserIDEmpty is returned when a plan's user ID is empty or nil.
	ErrPlanUserIDEmpty = errors.New("plan user ID cannot be empty")

	// ErrPlanTopicEmpty is returned when a plan's topic is empty.
	ErrPlanTopicEmpty = errors.New("plan topic cannot be empty")

	// ErrPlanDayCountInvalid is returned when a plan's day count is not positive.
	ErrPlanDayCountInvalid = errors.New("plan day count must be positive")
)

// Plan is an ordered collection of Days for one user. A Plan and all of its
// Days are created atomically at generation time; Days are never added or
// removed afterwards.
type Plan struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	Topic    string    `json:"topic"`
	DayCount int       `json:"day_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPlan creates a new Plan owned by the given user.
// It generates a new UUID and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewPlan(userID uuid.UUID, topic string, dayCount int) (*Plan, error) {
	plan := &Plan{
		ID:        uuid.New(),
		UserID:    userID,
		Topic:     strings.TrimSpace(topic),
		DayCount:  dayCount,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}

	return plan, nil
}

// Validate checks if the Plan has valid data.
// Returns an error if any field fails validation.
func (p *Plan) Validate() error {
	if p.ID == uuid.Nil {
		return ErrPlanIDEmpty
	}

	if p.UserID == uuid.Nil {
		return ErrPlanUserIDEmpty
	}

	if p.Topic == "" {
		return ErrPlanTopicEmpty
	}

	if p.DayCount <= 0 {
		return ErrPlanDayCountInvalid
	}

	return nil
}
