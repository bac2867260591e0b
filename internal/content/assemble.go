package content

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pathwise/pathwise-api/internal/domain"
	"github.com/pathwise/pathwise-api/internal/platform/logger"
	"github.com/pathwise/pathwise-api/internal/progression"
)

// DayContent is everything a client needs to render an opened day.
type DayContent struct {
	PlanID       uuid.UUID        `json:"plan_id"`
	DayID        uuid.UUID        `json:"day_id"`
	DayNumber    int              `json:"day_number"`
	MissionTitle string           `json:"mission_title"`
	Focus        string           `json:"focus"`
	Status       domain.DayStatus `json:"status"`
	Difficulty   int              `json:"difficulty"`
	Lang         string           `json:"lang"`
	Steps        json.RawMessage  `json:"steps"`
	Quiz         json.RawMessage  `json:"quiz"`
	Resources    json.RawMessage  `json:"resources"`
	Article      json.RawMessage  `json:"article"`
	Slides       json.RawMessage  `json:"slides"`
	Result       json.RawMessage  `json:"result,omitempty"`
}

// AssembleDayContent opens a day: it checks ownership and lock state, then
// returns all five artifacts in the requested language, generating or
// translating whatever is missing.
//
// Artifacts are filled one at a time. Each fill rewrites the same day row
// under the optimistic check, so fanning the five out in parallel would
// mostly produce conflict retries.
func (c *Cache) AssembleDayContent(ctx context.Context, userID, planID uuid.UUID, dayNumber int, lang string) (*DayContent, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	lang = domain.NormalizeLang(lang)
	if lang == "" {
		return nil, domain.ErrInvalidLanguage
	}

	plan, err := c.plans.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.UserID != userID {
		log.Warn("day content requested for foreign plan",
			slog.String("plan_id", planID.String()),
			slog.String("user_id", userID.String()))
		return nil, progression.ErrPlanNotOwned
	}

	day, err := c.days.GetByPlanAndNumber(ctx, planID, dayNumber)
	if err != nil {
		return nil, err
	}
	if day.Status == domain.DayStatusLocked {
		return nil, progression.ErrDayLocked
	}

	out := &DayContent{
		PlanID:       plan.ID,
		DayID:        day.ID,
		DayNumber:    day.DayNumber,
		MissionTitle: day.MissionTitle,
		Focus:        day.Focus,
		Status:       day.Status,
		Difficulty:   day.Difficulty,
		Lang:         lang,
		Result:       day.Result,
	}

	for _, t := range domain.ArtifactTypes {
		raw, err := c.GetOrCreate(ctx, day.ID, t, lang)
		if err != nil {
			return nil, err
		}
		switch t {
		case domain.ArtifactSteps:
			out.Steps = raw
		case domain.ArtifactQuiz:
			out.Quiz = raw
		case domain.ArtifactResources:
			out.Resources = raw
		case domain.ArtifactArticle:
			out.Article = raw
		case domain.ArtifactSlides:
			out.Slides = raw
		}
	}

	c.localizeHeadings(ctx, out, day.ID, lang)

	log.Info("day content assembled",
		slog.String("day_id", day.ID.String()),
		slog.Int("day_number", day.DayNumber),
		slog.String("lang", lang))

	return out, nil
}

// localizeHeadings rewrites the mission title and focus line into the
// requested language when it differs from the base generation language.
// Headings live on the day row itself rather than in a per-language artifact
// map, so they are translated on each non-base open; a translator failure
// keeps the base-language headings rather than failing the day.
func (c *Cache) localizeHeadings(ctx context.Context, out *DayContent, dayID uuid.UUID, lang string) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	day, err := c.days.GetByID(ctx, dayID)
	if err != nil {
		log.Warn("heading localization skipped",
			slog.String("day_id", dayID.String()),
			slog.String("error", err.Error()))
		return
	}

	baseLang := day.Steps.BaseLang()
	if baseLang == "" || baseLang == lang {
		return
	}

	headings := []string{out.MissionTitle, out.Focus}
	translated, err := c.translator.TranslateBatch(ctx, headings, baseLang, lang, "curriculum day heading")
	if err != nil || len(translated) != len(headings) {
		log.Warn("heading translation failed, serving base language",
			slog.String("day_id", dayID.String()),
			slog.String("lang", lang))
		return
	}
	out.MissionTitle = translated[0]
	out.Focus = translated[1]
}
