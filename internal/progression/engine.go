package progression

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pathwise/pathwise-api/internal/domain"
	"github.com/pathwise/pathwise-api/internal/domain/grading"
	"github.com/pathwise/pathwise-api/internal/events"
	"github.com/pathwise/pathwise-api/internal/platform/logger"
	"github.com/pathwise/pathwise-api/internal/store"
)

// TxRunner executes a function within a database transaction.
type TxRunner func(ctx context.Context, fn store.TxFn) error

// NewSQLTxRunner returns a TxRunner backed by store.RunInTransaction.
func NewSQLTxRunner(db *sql.DB) TxRunner {
	return func(ctx context.Context, fn store.TxFn) error {
		return store.RunInTransaction(ctx, db, fn)
	}
}

// GradeOutcome is the result of a grade submission.
type GradeOutcome struct {
	Score            int                      `json:"score"`
	Total            int                      `json:"total"`
	Passed           bool                     `json:"passed"`
	AlreadyCompleted bool                     `json:"already_completed,omitempty"`
	PerQuestion      []grading.QuestionResult `json:"per_question,omitempty"`
	Signal           grading.DifficultySignal `json:"signal,omitempty"`
	Streak           int                      `json:"streak,omitempty"`
	NextDayNumber    int                      `json:"next_day_number,omitempty"`
	PlanCompleted    bool                     `json:"plan_completed,omitempty"`
	FailureReason    string                   `json:"failure_reason,omitempty"`
}

// resultRecord is the serialized outcome stored on a done day. Re-submissions
// replay it instead of re-grading.
type resultRecord struct {
	Score       int                      `json:"score"`
	Total       int                      `json:"total"`
	Signal      grading.DifficultySignal `json:"signal"`
	CompletedAt time.Time                `json:"completed_at"`
}

// Engine drives day progression for a plan.
type Engine struct {
	runTx    TxRunner
	users    store.UserStore
	plans    store.PlanStore
	days     store.DayStore
	attempts store.AttemptStore
	emitter  events.EventEmitter
	logger   *slog.Logger

	// now is swappable for streak tests.
	now func() time.Time
}

// NewEngine creates a progression engine. The emitter may be nil when no
// side-effect handlers are wired.
func NewEngine(
	runTx TxRunner,
	users store.UserStore,
	plans store.PlanStore,
	days store.DayStore,
	attempts store.AttemptStore,
	emitter events.EventEmitter,
	log *slog.Logger,
) *Engine {
	if runTx == nil {
		panic("txRunner cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Engine{
		runTx:    runTx,
		users:    users,
		plans:    plans,
		days:     days,
		attempts: attempts,
		emitter:  emitter,
		logger:   log.With(slog.String("component", "progression_engine")),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SubmitGrade grades the user's answers for a day and, on a pass, completes
// the day, updates the streak and unlocks the next day in one transaction.
//
// Submitting to an already-done day replays the recorded result with no side
// effects. Failing submissions record the attempt and leave the day ready.
func (e *Engine) SubmitGrade(
	ctx context.Context,
	userID, planID uuid.UUID,
	dayNumber int,
	answers []string,
	resourcesCompleted bool,
	lang string,
) (*GradeOutcome, error) {
	log := logger.FromContextOrDefault(ctx, e.logger)

	plan, err := e.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.UserID != userID {
		log.Warn("grade submitted for foreign plan",
			slog.String("plan_id", planID.String()),
			slog.String("user_id", userID.String()))
		return nil, ErrPlanNotOwned
	}

	day, err := e.days.GetByPlanAndNumber(ctx, planID, dayNumber)
	if err != nil {
		return nil, err
	}

	switch day.Status {
	case domain.DayStatusDone:
		return e.replayResult(ctx, day)
	case domain.DayStatusLocked:
		return nil, ErrDayLocked
	}

	quiz, err := readQuiz(day, lang)
	if err != nil {
		return nil, err
	}

	result, err := grading.Grade(quiz.Questions, answers)
	if err != nil {
		return nil, err
	}

	passed := grading.Passed(result.Score) && resourcesCompleted

	feedback, err := json.Marshal(result.PerQuestion)
	if err != nil {
		return nil, fmt.Errorf("failed to encode grade feedback: %w", err)
	}

	attempt, err := domain.NewQuizAttempt(userID, planID, day.ID, answers, result.Score, passed, feedback)
	if err != nil {
		return nil, err
	}
	if err := e.attempts.Create(ctx, attempt); err != nil {
		return nil, err
	}

	outcome := &GradeOutcome{
		Score:       result.Score,
		Total:       result.Total,
		Passed:      passed,
		PerQuestion: result.PerQuestion,
		Signal:      result.Signal,
	}

	if !passed {
		if grading.Passed(result.Score) {
			outcome.FailureReason = "supporting resources not completed"
		} else {
			outcome.FailureReason = "score below passing threshold"
		}
		log.Info("grade submission failed",
			slog.String("day_id", day.ID.String()),
			slog.Int("score", result.Score),
			slog.String("reason", outcome.FailureReason))
		return outcome, nil
	}

	emitted, err := e.completeDay(ctx, plan, day, result, outcome)
	if err != nil {
		return nil, err
	}

	// Side effects fire only after the transaction committed.
	e.emit(ctx, emitted)

	log.Info("day completed",
		slog.String("day_id", day.ID.String()),
		slog.Int("day_number", day.DayNumber),
		slog.Int("score", result.Score),
		slog.Int("streak", outcome.Streak))

	return outcome, nil
}

// replayResult returns the recorded outcome of an already-done day.
func (e *Engine) replayResult(ctx context.Context, day *domain.Day) (*GradeOutcome, error) {
	log := logger.FromContextOrDefault(ctx, e.logger)

	var record resultRecord
	if len(day.Result) > 0 {
		if err := json.Unmarshal(day.Result, &record); err != nil {
			return nil, fmt.Errorf("failed to decode recorded result for day %s: %w", day.ID, err)
		}
	}

	log.Debug("replaying recorded result for completed day",
		slog.String("day_id", day.ID.String()))

	return &GradeOutcome{
		Score:            record.Score,
		Total:            record.Total,
		Passed:           true,
		AlreadyCompleted: true,
		Signal:           record.Signal,
	}, nil
}

// completeDay runs the passing-grade transaction: day done, streak update,
// next day unlocked. Returns the events to emit after commit.
func (e *Engine) completeDay(
	ctx context.Context,
	plan *domain.Plan,
	day *domain.Day,
	result *grading.Result,
	outcome *GradeOutcome,
) ([]*events.ProgressionEvent, error) {
	now := e.now()

	record, err := json.Marshal(resultRecord{
		Score:       result.Score,
		Total:       result.Total,
		Signal:      result.Signal,
		CompletedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode result record: %w", err)
	}

	var emitted []*events.ProgressionEvent

	err = e.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		days := e.days.WithTx(tx)
		users := e.users.WithTx(tx)

		day.Status = domain.DayStatusDone
		day.Result = record
		if err := days.Update(ctx, day); err != nil {
			return err
		}

		user, err := users.GetByID(ctx, plan.UserID)
		if err != nil {
			return err
		}
		user.Streak = nextStreak(user.Streak, user.LastCompletedAt, now)
		user.LastCompletedAt = &now
		if err := users.Update(ctx, user); err != nil {
			return err
		}
		outcome.Streak = user.Streak

		completed, err := events.NewProgressionEvent(events.TypeDayCompleted, events.DayCompletedPayload{
			UserID:    user.ID,
			PlanID:    plan.ID,
			DayID:     day.ID,
			DayNumber: day.DayNumber,
			Score:     result.Score,
			Streak:    user.Streak,
		})
		if err != nil {
			return err
		}
		emitted = append(emitted, completed)

		next, err := days.GetByPlanAndNumber(ctx, plan.ID, day.DayNumber+1)
		if errors.Is(err, store.ErrDayNotFound) {
			outcome.PlanCompleted = true
			done, err := events.NewProgressionEvent(events.TypePlanCompleted, events.PlanCompletedPayload{
				UserID: user.ID,
				PlanID: plan.ID,
			})
			if err != nil {
				return err
			}
			emitted = append(emitted, done)
			return nil
		}
		if err != nil {
			return err
		}

		if next.Status == domain.DayStatusLocked {
			next.Status = domain.DayStatusReady
			next.Difficulty = grading.NextDifficulty(day.Difficulty, result.Signal)
			if err := days.Update(ctx, next); err != nil {
				return err
			}

			unlocked, err := events.NewProgressionEvent(events.TypeDayUnlocked, events.DayUnlockedPayload{
				UserID:     user.ID,
				PlanID:     plan.ID,
				DayID:      next.ID,
				DayNumber:  next.DayNumber,
				Difficulty: next.Difficulty,
			})
			if err != nil {
				return err
			}
			emitted = append(emitted, unlocked)
		}
		outcome.NextDayNumber = next.DayNumber

		return nil
	})
	if err != nil {
		return nil, err
	}

	return emitted, nil
}

// emit delivers events best-effort; handler failures are logged, never
// surfaced to the submitter.
func (e *Engine) emit(ctx context.Context, batch []*events.ProgressionEvent) {
	if e.emitter == nil {
		return
	}
	for _, event := range batch {
		if err := e.emitter.EmitEvent(ctx, event); err != nil {
			e.logger.Error("event emission failed",
				slog.String("event_type", event.Type),
				slog.String("error", err.Error()))
		}
	}
}

// nextStreak computes the streak after completing a day at now.
// Consecutive calendar days (UTC) extend the streak, a second completion on
// the same day keeps it, anything else resets to 1.
func nextStreak(current int, last *time.Time, now time.Time) int {
	if last == nil {
		return 1
	}
	if domain.SameUTCDate(*last, now) {
		if current < 1 {
			return 1
		}
		return current
	}
	if domain.SameUTCDate(last.Add(24*time.Hour), now) {
		return current + 1
	}
	return 1
}

// readQuiz extracts the day's quiz in the requested language, falling back
// to the base language entry.
func readQuiz(day *domain.Day, lang string) (*domain.Quiz, error) {
	raw, ok := day.Quiz.Get(lang)
	if !ok {
		base, _, err := day.Quiz.Base()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrQuizNotReady, err)
		}
		if base == nil {
			return nil, ErrQuizNotReady
		}
		raw = base
	}

	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return nil, fmt.Errorf("failed to decode quiz for day %s: %w", day.ID, err)
	}

	return &quiz, nil
}
