package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pathwise/pathwise-api/internal/domain"
	"github.com/pathwise/pathwise-api/internal/platform/logger"
	"github.com/pathwise/pathwise-api/internal/store"
)

// PostgresPlanStore implements the store.PlanStore interface using a
// PostgreSQL database as the storage backend.
type PostgresPlanStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPlanStore creates a new PostgreSQL implementation of the
// PlanStore interface. If logger is nil, a default logger will be used.
func NewPostgresPlanStore(db store.DBTX, logger *slog.Logger) *PostgresPlanStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresPlanStore{
		db:     db,
		logger: logger.With(slog.String("component", "plan_store")),
	}
}

// Ensure PostgresPlanStore implements store.PlanStore
var _ store.PlanStore = (*PostgresPlanStore)(nil)

// WithTx implements store.PlanStore.WithTx
func (s *PostgresPlanStore) WithTx(tx *sql.Tx) store.PlanStore {
	return &PostgresPlanStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.PlanStore.Create
func (s *PostgresPlanStore) Create(ctx context.Context, plan *domain.Plan) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := plan.Validate(); err != nil {
		log.Warn("plan validation failed during create",
			slog.String("error", err.Error()),
			slog.String("plan_id", plan.ID.String()))
		return err
	}

	query := `
		INSERT INTO plans (id, user_id, topic, day_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		plan.ID,
		plan.UserID,
		plan.Topic,
		plan.DayCount,
		plan.CreatedAt,
		plan.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create plan",
			slog.String("error", err.Error()),
			slog.String("plan_id", plan.ID.String()),
			slog.String("user_id", plan.UserID.String()))
		return MapError(err)
	}

	log.Info("plan created successfully",
		slog.String("plan_id", plan.ID.String()),
		slog.String("user_id", plan.UserID.String()),
		slog.Int("day_count", plan.DayCount))
	return nil
}

// GetByID implements store.PlanStore.GetByID
// Returns store.ErrPlanNotFound if the plan does not exist.
func (s *PostgresPlanStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Plan, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, topic, day_count, created_at, updated_at
		FROM plans
		WHERE id = $1
	`

	plan, err := scanPlan(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("plan not found", slog.String("plan_id", id.String()))
			return nil, store.ErrPlanNotFound
		}
		log.Error("failed to get plan by ID",
			slog.String("error", err.Error()),
			slog.String("plan_id", id.String()))
		return nil, MapError(err)
	}

	return plan, nil
}

// GetLatestByUser implements store.PlanStore.GetLatestByUser
// Returns store.ErrPlanNotFound if the user has no plans.
func (s *PostgresPlanStore) GetLatestByUser(ctx context.Context, userID uuid.UUID) (*domain.Plan, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, topic, day_count, created_at, updated_at
		FROM plans
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	plan, err := scanPlan(s.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("no plans for user", slog.String("user_id", userID.String()))
			return nil, store.ErrPlanNotFound
		}
		log.Error("failed to get latest plan",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}

	return plan, nil
}

// Delete implements store.PlanStore.Delete
// Days and attempts are removed by ON DELETE CASCADE.
// Returns store.ErrPlanNotFound if the plan does not exist.
func (s *PostgresPlanStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM plans WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete plan",
			slog.String("error", err.Error()),
			slog.String("plan_id", id.String()))
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if rows == 0 {
		return store.ErrPlanNotFound
	}

	log.Info("plan deleted", slog.String("plan_id", id.String()))
	return nil
}

// scanPlan reads one plan row.
func scanPlan(row *sql.Row) (*domain.Plan, error) {
	var plan domain.Plan

	err := row.Scan(
		&plan.ID,
		&plan.UserID,
		&plan.Topic,
		&plan.DayCount,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &plan, nil
}
