package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"text/template"

	"github.com/google/uuid"
	"github.com/pathwise/pathwise-api/internal/domain"
	"github.com/pathwise/pathwise-api/internal/generation"
	"github.com/pathwise/pathwise-api/internal/platform/logger"
	"github.com/pathwise/pathwise-api/internal/progression"
	"github.com/pathwise/pathwise-api/internal/store"
)

// Plan size bounds accepted from clients.
const (
	MinPlanDays = 1
	MaxPlanDays = 30
)

// ErrInvalidDayCount is returned when the requested plan length is out of
// bounds.
var ErrInvalidDayCount = fmt.Errorf("%w: day count must be between %d and %d",
	domain.ErrValidation, MinPlanDays, MaxPlanDays)

// outlineMaxTokens bounds the outline generation response.
const outlineMaxTokens = 2048

var outlineTemplate = template.Must(template.New("outline").Parse(`You are designing a {{.Days}}-day learning plan about {{.Topic}}.
Write all titles and focus lines in language code "{{.Lang}}".

Each day needs a short mission title and a one-line focus naming the concrete
skills or concepts for that day. Days must build on each other. Respond with
JSON only:
{"days": [{"mission_title": "...", "focus": "..."}]}
Produce exactly {{.Days}} entries.
`))

// outlineResponse is the decoded shape of the outline generation output.
type outlineResponse struct {
	Days []progression.DayOutline `json:"days"`
}

// PlanSummary is a plan with per-day progression state and no artifact
// bodies.
type PlanSummary struct {
	Plan *domain.Plan `json:"plan"`
	Days []DaySummary `json:"days"`
}

// DaySummary is the progression state of one day.
type DaySummary struct {
	DayNumber    int              `json:"day_number"`
	MissionTitle string           `json:"mission_title"`
	Focus        string           `json:"focus"`
	Status       domain.DayStatus `json:"status"`
	Difficulty   int              `json:"difficulty"`
}

// PlanService creates plans from AI-generated outlines and reads plan state.
type PlanService struct {
	runTx     progression.TxRunner
	plans     store.PlanStore
	days      store.DayStore
	generator generation.TextGenerator
	logger    *slog.Logger
}

// NewPlanService creates a plan service.
func NewPlanService(
	runTx progression.TxRunner,
	plans store.PlanStore,
	days store.DayStore,
	generator generation.TextGenerator,
	log *slog.Logger,
) *PlanService {
	if runTx == nil {
		panic("txRunner cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &PlanService{
		runTx:     runTx,
		plans:     plans,
		days:      days,
		generator: generator,
		logger:    log.With(slog.String("component", "plan_service")),
	}
}

// CreatePlan generates a day-by-day outline for the topic and persists the
// plan with all of its days atomically. Day 1 starts ready.
//
// Provider quota errors pass through as generation.ErrQuotaExceeded so the
// API layer can answer with a retryable status.
func (s *PlanService) CreatePlan(ctx context.Context, userID uuid.UUID, topic string, dayCount int, lang string) (*domain.Plan, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if dayCount < MinPlanDays || dayCount > MaxPlanDays {
		return nil, ErrInvalidDayCount
	}
	lang = domain.NormalizeLang(lang)
	if lang == "" {
		return nil, domain.ErrInvalidLanguage
	}

	outline, err := s.generateOutline(ctx, topic, dayCount, lang)
	if err != nil {
		return nil, err
	}

	plan, err := domain.NewPlan(userID, topic, dayCount)
	if err != nil {
		return nil, err
	}

	days, err := progression.SeedDays(plan.ID, outline)
	if err != nil {
		return nil, err
	}

	err = s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.plans.WithTx(tx).Create(ctx, plan); err != nil {
			return err
		}
		return s.days.WithTx(tx).CreateBatch(ctx, days)
	})
	if err != nil {
		return nil, err
	}

	log.Info("plan created",
		slog.String("plan_id", plan.ID.String()),
		slog.String("user_id", userID.String()),
		slog.Int("day_count", dayCount))

	return plan, nil
}

// GetCurrentPlan returns the user's latest plan with day statuses only.
func (s *PlanService) GetCurrentPlan(ctx context.Context, userID uuid.UUID) (*PlanSummary, error) {
	plan, err := s.plans.GetLatestByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	days, err := s.days.ListByPlan(ctx, plan.ID)
	if err != nil {
		return nil, err
	}

	summary := &PlanSummary{Plan: plan, Days: make([]DaySummary, 0, len(days))}
	for _, d := range days {
		summary.Days = append(summary.Days, DaySummary{
			DayNumber:    d.DayNumber,
			MissionTitle: d.MissionTitle,
			Focus:        d.Focus,
			Status:       d.Status,
			Difficulty:   d.Difficulty,
		})
	}

	return summary, nil
}

// generateOutline asks the model for the plan outline and validates its
// shape. A response with too few days is rejected; extra days are dropped.
func (s *PlanService) generateOutline(ctx context.Context, topic string, dayCount int, lang string) ([]progression.DayOutline, error) {
	var buf bytes.Buffer
	err := outlineTemplate.Execute(&buf, struct {
		Topic string
		Days  int
		Lang  string
	}{Topic: topic, Days: dayCount, Lang: lang})
	if err != nil {
		return nil, fmt.Errorf("failed to render outline prompt: %w", err)
	}

	text, err := s.generator.Generate(ctx, buf.String(), outlineMaxTokens)
	if err != nil {
		if errors.Is(err, generation.ErrQuotaExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	var resp outlineResponse
	if err := generation.DecodeLenient(text, &resp); err != nil {
		return nil, err
	}

	if len(resp.Days) < dayCount {
		return nil, fmt.Errorf("%w: outline has %d days, want %d",
			generation.ErrInvalidResponse, len(resp.Days), dayCount)
	}

	return resp.Days[:dayCount], nil
}
