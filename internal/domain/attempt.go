package domain

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// QuizAttempt-specific validation errors
var (
	// ErrAttemptIDEmpty is returned when an attempt ID is empty or nil.
	ErrAttemptIDEmpty = errors.New("attempt ID cannot be empty")

	// ErrAttemptUserIDEmpty is returned when an attempt's user ID is empty or nil.
	ErrAttemptUserIDEmpty = errors.New("attempt user ID cannot be empty")

	// ErrAttemptPlanIDEmpty is returned when an attempt's plan ID is empty or nil.
	ErrAttemptPlanIDEmpty = errors.New("attempt plan ID cannot be empty")

	// ErrAttemptDayIDEmpty is returned when an attempt's day ID is empty or nil.
	ErrAttemptDayIDEmpty = errors.New("attempt day ID cannot be empty")

	// ErrAttemptScoreInvalid is returned when an attempt score is negative.
	ErrAttemptScoreInvalid = errors.New("attempt score cannot be negative")
)

// QuizAttempt is the immutable record of one grading event. Attempts are
// append-only; the latest attempt is authoritative for the passed state.
type QuizAttempt struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
	PlanID uuid.UUID `json:"plan_id"`
	DayID  uuid.UUID `json:"day_id"`

	Answers  []string        `json:"answers"`
	Score    int             `json:"score"`
	Passed   bool            `json:"passed"`
	Feedback json.RawMessage `json:"feedback,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// NewQuizAttempt creates an immutable attempt record.
// Returns an error if validation fails.
func NewQuizAttempt(
	userID, planID, dayID uuid.UUID,
	answers []string,
	score int,
	passed bool,
	feedback json.RawMessage,
) (*QuizAttempt, error) {
	attempt := &QuizAttempt{
		ID:        uuid.New(),
		UserID:    userID,
		PlanID:    planID,
		DayID:     dayID,
		Answers:   answers,
		Score:     score,
		Passed:    passed,
		Feedback:  feedback,
		CreatedAt: time.Now().UTC(),
	}

	if err := attempt.Validate(); err != nil {
		return nil, err
	}

	return attempt, nil
}

// Validate checks if the QuizAttempt has valid data.
func (a *QuizAttempt) Validate() error {
	if a.ID == uuid.Nil {
		return ErrAttemptIDEmpty
	}

	if a.UserID == uuid.Nil {
		return ErrAttemptUserIDEmpty
	}

	if a.PlanID == uuid.Nil {
		return ErrAttemptPlanIDEmpty
	}

	if a.DayID == uuid.Nil {
		return ErrAttemptDayIDEmpty
	}

	if a.Score < 0 {
		return ErrAttemptScoreInvalid
	}

	return nil
}
