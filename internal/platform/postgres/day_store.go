package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pathwise/pathwise-api/internal/domain"
	"github.com/pathwise/pathwise-api/internal/platform/logger"
	"github.com/pathwise/pathwise-api/internal/store"
)

// PostgresDayStore implements the store.DayStore interface using a
// PostgreSQL database as the storage backend. Each artifact language map is
// persisted as one JSONB column on the day row, and Update is guarded by an
// optimistic updated_at check so concurrent cache fills and grade submissions
// cannot silently overwrite each other.
type PostgresDayStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDayStore creates a new PostgreSQL implementation of the
// DayStore interface. If logger is nil, a default logger will be used.
func NewPostgresDayStore(db store.DBTX, logger *slog.Logger) *PostgresDayStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDayStore{
		db:     db,
		logger: logger.With(slog.String("component", "day_store")),
	}
}

// Ensure PostgresDayStore implements store.DayStore
var _ store.DayStore = (*PostgresDayStore)(nil)

// WithTx implements store.DayStore.WithTx
func (s *PostgresDayStore) WithTx(tx *sql.Tx) store.DayStore {
	return &PostgresDayStore{
		db:     tx,
		logger: s.logger,
	}
}

const dayColumns = `id, plan_id, day_number, status, difficulty, mission_title, focus,
	steps, quiz, resources, article, slides, result, created_at, updated_at`

// CreateBatch implements store.DayStore.CreateBatch
func (s *PostgresDayStore) CreateBatch(ctx context.Context, days []*domain.Day) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(days) == 0 {
		return nil
	}

	query := `
		INSERT INTO days (` + dayColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	stmt, err := s.db.PrepareContext(ctx, query)
	if err != nil {
		log.Error("failed to prepare day insert",
			slog.String("error", err.Error()))
		return MapError(err)
	}
	defer func() { _ = stmt.Close() }()

	for _, day := range days {
		if err := day.Validate(); err != nil {
			log.Warn("day validation failed during batch create",
				slog.String("error", err.Error()),
				slog.String("day_id", day.ID.String()))
			return err
		}

		maps, err := marshalArtifactMaps(day)
		if err != nil {
			return err
		}

		_, err = stmt.ExecContext(
			ctx,
			day.ID,
			day.PlanID,
			day.DayNumber,
			day.Status,
			day.Difficulty,
			day.MissionTitle,
			day.Focus,
			maps[0], maps[1], maps[2], maps[3], maps[4],
			nullableJSON(day.Result),
			day.CreatedAt,
			day.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to insert day",
				slog.String("error", err.Error()),
				slog.String("day_id", day.ID.String()),
				slog.Int("day_number", day.DayNumber))
			return MapError(err)
		}
	}

	log.Info("days created",
		slog.String("plan_id", days[0].PlanID.String()),
		slog.Int("count", len(days)))
	return nil
}

// GetByID implements store.DayStore.GetByID
// Returns store.ErrDayNotFound if the day does not exist.
func (s *PostgresDayStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Day, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + dayColumns + ` FROM days WHERE id = $1`

	day, err := scanDay(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("day not found", slog.String("day_id", id.String()))
			return nil, store.ErrDayNotFound
		}
		log.Error("failed to get day by ID",
			slog.String("error", err.Error()),
			slog.String("day_id", id.String()))
		return nil, MapError(err)
	}

	return day, nil
}

// GetByPlanAndNumber implements store.DayStore.GetByPlanAndNumber
// Returns store.ErrDayNotFound if the day does not exist.
func (s *PostgresDayStore) GetByPlanAndNumber(ctx context.Context, planID uuid.UUID, dayNumber int) (*domain.Day, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + dayColumns + ` FROM days WHERE plan_id = $1 AND day_number = $2`

	day, err := scanDay(s.db.QueryRowContext(ctx, query, planID, dayNumber))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("day not found",
				slog.String("plan_id", planID.String()),
				slog.Int("day_number", dayNumber))
			return nil, store.ErrDayNotFound
		}
		log.Error("failed to get day by plan and number",
			slog.String("error", err.Error()),
			slog.String("plan_id", planID.String()),
			slog.Int("day_number", dayNumber))
		return nil, MapError(err)
	}

	return day, nil
}

// ListByPlan implements store.DayStore.ListByPlan
func (s *PostgresDayStore) ListByPlan(ctx context.Context, planID uuid.UUID) ([]*domain.Day, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + dayColumns + ` FROM days WHERE plan_id = $1 ORDER BY day_number ASC`

	rows, err := s.db.QueryContext(ctx, query, planID)
	if err != nil {
		log.Error("failed to list days",
			slog.String("error", err.Error()),
			slog.String("plan_id", planID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var days []*domain.Day
	for rows.Next() {
		day, err := scanDay(rows)
		if err != nil {
			log.Error("failed to scan day row",
				slog.String("error", err.Error()),
				slog.String("plan_id", planID.String()))
			return nil, MapError(err)
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return days, nil
}

// Update implements store.DayStore.Update
//
// The WHERE clause matches on the updated_at value the caller read. A second
// query distinguishes a vanished row (ErrDayNotFound) from a concurrent write
// (ErrUpdateConflict) when nothing matched.
func (s *PostgresDayStore) Update(ctx context.Context, day *domain.Day) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := day.Validate(); err != nil {
		log.Warn("day validation failed during update",
			slog.String("error", err.Error()),
			slog.String("day_id", day.ID.String()))
		return err
	}

	maps, err := marshalArtifactMaps(day)
	if err != nil {
		return err
	}

	query := `
		UPDATE days
		SET status = $3, difficulty = $4,
		    steps = $5, quiz = $6, resources = $7, article = $8, slides = $9,
		    result = $10, updated_at = NOW()
		WHERE id = $1 AND updated_at = $2
		RETURNING updated_at
	`

	err = s.db.QueryRowContext(
		ctx,
		query,
		day.ID,
		day.UpdatedAt,
		day.Status,
		day.Difficulty,
		maps[0], maps[1], maps[2], maps[3], maps[4],
		nullableJSON(day.Result),
	).Scan(&day.UpdatedAt)
	if err == nil {
		log.Debug("day updated",
			slog.String("day_id", day.ID.String()),
			slog.String("status", string(day.Status)))
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		log.Error("failed to update day",
			slog.String("error", err.Error()),
			slog.String("day_id", day.ID.String()))
		return MapError(err)
	}

	// No row matched: either the day is gone or the timestamp moved.
	var exists bool
	checkErr := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM days WHERE id = $1)`, day.ID).Scan(&exists)
	if checkErr != nil {
		return MapError(checkErr)
	}
	if !exists {
		return store.ErrDayNotFound
	}

	log.Warn("optimistic concurrency conflict on day update",
		slog.String("day_id", day.ID.String()))
	return store.ErrUpdateConflict
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanDay.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanDay reads one day row, decoding the five artifact JSONB blobs.
func scanDay(row rowScanner) (*domain.Day, error) {
	var day domain.Day
	var steps, quiz, resources, article, slides []byte
	var result []byte

	err := row.Scan(
		&day.ID,
		&day.PlanID,
		&day.DayNumber,
		&day.Status,
		&day.Difficulty,
		&day.MissionTitle,
		&day.Focus,
		&steps,
		&quiz,
		&resources,
		&article,
		&slides,
		&result,
		&day.CreatedAt,
		&day.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	for _, col := range []struct {
		name string
		raw  []byte
		dst  *domain.ArtifactMap
	}{
		{"steps", steps, &day.Steps},
		{"quiz", quiz, &day.Quiz},
		{"resources", resources, &day.Resources},
		{"article", article, &day.Article},
		{"slides", slides, &day.Slides},
	} {
		m := domain.ArtifactMap{}
		if len(col.raw) > 0 {
			if err := json.Unmarshal(col.raw, &m); err != nil {
				return nil, fmt.Errorf("failed to decode %s artifacts for day %s: %w", col.name, day.ID, err)
			}
		}
		*col.dst = m
	}

	if len(result) > 0 {
		day.Result = json.RawMessage(result)
	}

	return &day, nil
}

// marshalArtifactMaps encodes the five artifact maps in column order.
func marshalArtifactMaps(day *domain.Day) ([5][]byte, error) {
	var out [5][]byte
	for i, m := range []domain.ArtifactMap{day.Steps, day.Quiz, day.Resources, day.Article, day.Slides} {
		if m == nil {
			m = domain.ArtifactMap{}
		}
		data, err := json.Marshal(m)
		if err != nil {
			return out, fmt.Errorf("failed to encode artifacts for day %s: %w", day.ID, err)
		}
		out[i] = data
	}
	return out, nil
}

// nullableJSON maps an empty raw message to SQL NULL.
func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
