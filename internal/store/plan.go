package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/pathwise/pathwise-api/internal/domain"
)

// PlanStore defines the interface for plan data persistence.
type PlanStore interface {
	// Create saves a new plan. Days are created separately through the
	// DayStore within the same transaction; plan creation is atomic with
	// all of its days.
	Create(ctx context.Context, plan *domain.Plan) error

	// GetByID retrieves a plan by its unique ID.
	// Returns ErrPlanNotFound if the plan does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Plan, error)

	// GetLatestByUser retrieves the most recently created plan for a user.
	// Returns ErrPlanNotFound if the user has no plans.
	GetLatestByUser(ctx context.Context, userID uuid.UUID) (*domain.Plan, error)

	// Delete removes a plan and, via cascade, all of its days and attempts.
	// Returns ErrPlanNotFound if the plan does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new PlanStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) PlanStore
}
