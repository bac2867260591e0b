package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/pathwise/pathwise-api/internal/domain"
)

// DayStore defines the interface for day data persistence.
//
// Day rows carry the two pieces of shared mutable state in the core (status
// and the artifact cache maps), so Update uses an optimistic concurrency
// check: the caller passes the day as it was read, and the store only writes
// if the row's updated_at still matches. ErrUpdateConflict signals that a
// concurrent writer got there first and the caller must re-read.
type DayStore interface {
	// CreateBatch saves all days of a plan in one statement. Called inside
	// the plan-creation transaction.
	CreateBatch(ctx context.Context, days []*domain.Day) error

	// GetByID retrieves a day by its unique ID.
	// Returns ErrDayNotFound if the day does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Day, error)

	// GetByPlanAndNumber retrieves the day with the given 1-based number
	// within a plan. Returns ErrDayNotFound if it does not exist.
	GetByPlanAndNumber(ctx context.Context, planID uuid.UUID, dayNumber int) (*domain.Day, error)

	// ListByPlan returns all days of a plan ordered by day number.
	ListByPlan(ctx context.Context, planID uuid.UUID) ([]*domain.Day, error)

	// Update writes the day's mutable fields (status, difficulty, artifact
	// maps, result) guarded by the optimistic updated_at check. On success
	// the day's UpdatedAt is refreshed in place.
	// Returns ErrUpdateConflict when the row changed since the read, and
	// ErrDayNotFound when the row no longer exists.
	Update(ctx context.Context, day *domain.Day) error

	// WithTx returns a new DayStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) DayStore
}
