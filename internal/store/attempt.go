package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/pathwise/pathwise-api/internal/domain"
)

// AttemptStore defines the interface for quiz attempt persistence.
// Attempts are immutable and append-only.
type AttemptStore interface {
	// Create saves a new quiz attempt.
	Create(ctx context.Context, attempt *domain.QuizAttempt) error

	// GetLatestByDay returns the most recent attempt for a day.
	// Returns ErrAttemptNotFound when the day has no attempts.
	GetLatestByDay(ctx context.Context, dayID uuid.UUID) (*domain.QuizAttempt, error)

	// ListByDay returns all attempts for a day, newest first.
	ListByDay(ctx context.Context, dayID uuid.UUID) ([]*domain.QuizAttempt, error)

	// WithTx returns a new AttemptStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) AttemptStore
}
