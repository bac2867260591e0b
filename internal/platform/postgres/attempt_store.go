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

// PostgresAttemptStore implements the store.AttemptStore interface using a
// PostgreSQL database as the storage backend. Attempt rows are append-only.
type PostgresAttemptStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAttemptStore creates a new PostgreSQL implementation of the
// AttemptStore interface. If logger is nil, a default logger will be used.
func NewPostgresAttemptStore(db store.DBTX, logger *slog.Logger) *PostgresAttemptStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAttemptStore{
		db:     db,
		logger: logger.With(slog.String("component", "attempt_store")),
	}
}

// Ensure PostgresAttemptStore implements store.AttemptStore
var _ store.AttemptStore = (*PostgresAttemptStore)(nil)

// WithTx implements store.AttemptStore.WithTx
func (s *PostgresAttemptStore) WithTx(tx *sql.Tx) store.AttemptStore {
	return &PostgresAttemptStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.AttemptStore.Create
func (s *PostgresAttemptStore) Create(ctx context.Context, attempt *domain.QuizAttempt) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := attempt.Validate(); err != nil {
		log.Warn("attempt validation failed during create",
			slog.String("error", err.Error()),
			slog.String("attempt_id", attempt.ID.String()))
		return err
	}

	answers, err := json.Marshal(attempt.Answers)
	if err != nil {
		return fmt.Errorf("failed to encode answers for attempt %s: %w", attempt.ID, err)
	}

	query := `
		INSERT INTO quiz_attempts (id, user_id, plan_id, day_id, answers, score, passed, feedback, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		attempt.ID,
		attempt.UserID,
		attempt.PlanID,
		attempt.DayID,
		answers,
		attempt.Score,
		attempt.Passed,
		nullableJSON(attempt.Feedback),
		attempt.CreatedAt,
	)
	if err != nil {
		log.Error("failed to create attempt",
			slog.String("error", err.Error()),
			slog.String("attempt_id", attempt.ID.String()),
			slog.String("day_id", attempt.DayID.String()))
		return MapError(err)
	}

	log.Info("attempt recorded",
		slog.String("attempt_id", attempt.ID.String()),
		slog.String("day_id", attempt.DayID.String()),
		slog.Int("score", attempt.Score),
		slog.Bool("passed", attempt.Passed))
	return nil
}

// GetLatestByDay implements store.AttemptStore.GetLatestByDay
// Returns store.ErrAttemptNotFound when the day has no attempts.
func (s *PostgresAttemptStore) GetLatestByDay(ctx context.Context, dayID uuid.UUID) (*domain.QuizAttempt, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, plan_id, day_id, answers, score, passed, feedback, created_at
		FROM quiz_attempts
		WHERE day_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	attempt, err := scanAttempt(s.db.QueryRowContext(ctx, query, dayID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("no attempts for day", slog.String("day_id", dayID.String()))
			return nil, store.ErrAttemptNotFound
		}
		log.Error("failed to get latest attempt",
			slog.String("error", err.Error()),
			slog.String("day_id", dayID.String()))
		return nil, MapError(err)
	}

	return attempt, nil
}

// ListByDay implements store.AttemptStore.ListByDay
func (s *PostgresAttemptStore) ListByDay(ctx context.Context, dayID uuid.UUID) ([]*domain.QuizAttempt, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, plan_id, day_id, answers, score, passed, feedback, created_at
		FROM quiz_attempts
		WHERE day_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, dayID)
	if err != nil {
		log.Error("failed to list attempts",
			slog.String("error", err.Error()),
			slog.String("day_id", dayID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var attempts []*domain.QuizAttempt
	for rows.Next() {
		attempt, err := scanAttempt(rows)
		if err != nil {
			log.Error("failed to scan attempt row",
				slog.String("error", err.Error()),
				slog.String("day_id", dayID.String()))
			return nil, MapError(err)
		}
		attempts = append(attempts, attempt)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return attempts, nil
}

// scanAttempt reads one attempt row.
func scanAttempt(row rowScanner) (*domain.QuizAttempt, error) {
	var attempt domain.QuizAttempt
	var answers []byte
	var feedback []byte

	err := row.Scan(
		&attempt.ID,
		&attempt.UserID,
		&attempt.PlanID,
		&attempt.DayID,
		&answers,
		&attempt.Score,
		&attempt.Passed,
		&feedback,
		&attempt.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &attempt.Answers); err != nil {
			return nil, fmt.Errorf("failed to decode answers for attempt %s: %w", attempt.ID, err)
		}
	}
	if len(feedback) > 0 {
		attempt.Feedback = json.RawMessage(feedback)
	}

	return &attempt, nil
}
