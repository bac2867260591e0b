package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pathwise/pathwise-api/internal/domain"
	"github.com/pathwise/pathwise-api/internal/generation"
	"github.com/pathwise/pathwise-api/internal/platform/logger"
	"github.com/pathwise/pathwise-api/internal/store"
	"golang.org/x/sync/singleflight"
)

// maxConflictRetries bounds re-reads when a concurrent writer wins the
// optimistic day update. Each retry re-checks the cache first, so a lost
// race for the same language resolves to a hit.
const maxConflictRetries = 3

// Cache is the generate-once, translate-for-others artifact cache. Concurrent
// requests for the same day/type/language collapse into one flight; the
// store's optimistic update check covers racing writers on other keys.
type Cache struct {
	plans      store.PlanStore
	days       store.DayStore
	generator  generation.TextGenerator
	translator generation.Translator
	resources  *ResourceFinder
	logger     *slog.Logger
	group      singleflight.Group
}

// NewCache creates an artifact cache over the given stores and providers.
func NewCache(
	plans store.PlanStore,
	days store.DayStore,
	generator generation.TextGenerator,
	translator generation.Translator,
	resources *ResourceFinder,
	log *slog.Logger,
) *Cache {
	if log == nil {
		log = slog.Default()
	}
	return &Cache{
		plans:      plans,
		days:       days,
		generator:  generator,
		translator: translator,
		resources:  resources,
		logger:     log.With(slog.String("component", "content_cache")),
	}
}

// GetOrCreate returns the artifact for a day in the requested language,
// producing and caching it if absent. The first language requested for an
// artifact becomes its base language; later languages are translated from
// the base entry. Provider failures leave the cache unwritten.
func (c *Cache) GetOrCreate(ctx context.Context, dayID uuid.UUID, artifactType domain.ArtifactType, lang string) (json.RawMessage, error) {
	lang = domain.NormalizeLang(lang)
	if lang == "" {
		return nil, domain.ErrInvalidLanguage
	}
	if !artifactType.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidArtifactType, artifactType)
	}

	key := dayID.String() + "|" + string(artifactType) + "|" + lang
	raw, err, _ := c.group.Do(key, func() (any, error) {
		return c.getOrCreate(ctx, dayID, artifactType, lang)
	})
	if err != nil {
		return nil, err
	}
	return raw.(json.RawMessage), nil
}

func (c *Cache) getOrCreate(ctx context.Context, dayID uuid.UUID, artifactType domain.ArtifactType, lang string) (json.RawMessage, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	for attempt := 0; ; attempt++ {
		day, err := c.days.GetByID(ctx, dayID)
		if err != nil {
			return nil, err
		}

		artifacts, err := day.Artifacts(artifactType)
		if err != nil {
			return nil, err
		}

		if raw, ok := artifacts.Get(lang); ok {
			log.Debug("artifact cache hit",
				slog.String("day_id", dayID.String()),
				slog.String("artifact_type", string(artifactType)),
				slog.String("lang", lang))
			return raw, nil
		}

		var raw json.RawMessage
		if len(artifacts.Languages()) > 0 {
			raw, err = c.deriveFromBase(ctx, day, artifacts, artifactType, lang)
			if err != nil {
				return nil, err
			}
			artifacts.Set(lang, raw)
		} else {
			raw, err = c.createBase(ctx, day, artifactType, lang)
			if err != nil {
				return nil, err
			}
			if err := artifacts.SetBase(lang, raw); err != nil {
				return nil, err
			}
			log.Info("artifact base generated",
				slog.String("day_id", dayID.String()),
				slog.String("artifact_type", string(artifactType)),
				slog.String("base_lang", lang))
		}

		err = c.days.Update(ctx, day)
		if err == nil {
			return raw, nil
		}
		if !errors.Is(err, store.ErrUpdateConflict) {
			return nil, err
		}
		if attempt >= maxConflictRetries {
			return nil, fmt.Errorf("%w: gave up after %d conflicts",
				store.ErrUpdateConflict, attempt+1)
		}

		// A concurrent writer changed the day; re-read and retry. If it
		// cached exactly this key, the next pass returns it without
		// regenerating.
		log.Debug("artifact write conflict, retrying",
			slog.String("day_id", dayID.String()),
			slog.String("artifact_type", string(artifactType)),
			slog.Int("attempt", attempt+1))
	}
}

// createBase produces the first entry of an artifact map in the requested
// language.
func (c *Cache) createBase(ctx context.Context, day *domain.Day, artifactType domain.ArtifactType, lang string) (json.RawMessage, error) {
	if artifactType == domain.ArtifactResources {
		return c.assembleResources(ctx, day, lang)
	}

	plan, err := c.plans.GetByID(ctx, day.PlanID)
	if err != nil {
		return nil, err
	}

	prompt, err := buildPrompt(artifactType, promptData{
		Topic:        plan.Topic,
		MissionTitle: day.MissionTitle,
		Focus:        day.Focus,
		Difficulty:   day.Difficulty,
		Level:        levelName(day.Difficulty),
		Lang:         lang,
		QuizLength:   domain.QuizLength,
	})
	if err != nil {
		return nil, err
	}

	text, err := c.generator.Generate(ctx, prompt, maxTokensFor(artifactType))
	if err != nil {
		if errors.Is(err, generation.ErrQuotaExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	return decodeArtifact(artifactType, text)
}

// deriveFromBase produces a new language entry from the base entry. Generated
// artifacts are translated; resource links are looked up fresh in the target
// language instead, since URLs do not translate.
func (c *Cache) deriveFromBase(ctx context.Context, day *domain.Day, artifacts domain.ArtifactMap, artifactType domain.ArtifactType, lang string) (json.RawMessage, error) {
	if artifactType == domain.ArtifactResources {
		return c.assembleResources(ctx, day, lang)
	}

	base, baseLang, err := artifacts.Base()
	if err != nil {
		return nil, err
	}

	translated, err := c.translator.Translate(ctx, string(base), baseLang, lang, translationHint(artifactType))
	if err != nil {
		if errors.Is(err, generation.ErrQuotaExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	// Re-validate so a mangled translation never lands in the cache.
	return decodeArtifact(artifactType, translated)
}

func (c *Cache) assembleResources(ctx context.Context, day *domain.Day, lang string) (json.RawMessage, error) {
	plan, err := c.plans.GetByID(ctx, day.PlanID)
	if err != nil {
		return nil, err
	}

	artifact, err := c.resources.Assemble(ctx, plan.Topic, day.Focus, lang)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(artifact)
	if err != nil {
		return nil, fmt.Errorf("failed to encode resources artifact: %w", err)
	}
	return raw, nil
}

// decodeArtifact parses model output into the artifact's schema and returns
// it re-marshaled in canonical form.
func decodeArtifact(artifactType domain.ArtifactType, text string) (json.RawMessage, error) {
	var value any
	switch artifactType {
	case domain.ArtifactSteps:
		var a StepsArtifact
		if err := generation.DecodeLenient(text, &a); err != nil {
			return nil, err
		}
		if err := a.validate(); err != nil {
			return nil, err
		}
		value = &a
	case domain.ArtifactQuiz:
		var q domain.Quiz
		if err := generation.DecodeLenient(text, &q); err != nil {
			return nil, err
		}
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
		}
		if len(q.Questions) != domain.QuizLength {
			return nil, fmt.Errorf("%w: quiz has %d questions, want %d",
				generation.ErrInvalidResponse, len(q.Questions), domain.QuizLength)
		}
		value = &q
	case domain.ArtifactArticle:
		var a ArticleArtifact
		if err := generation.DecodeLenient(text, &a); err != nil {
			return nil, err
		}
		if err := a.validate(); err != nil {
			return nil, err
		}
		value = &a
	case domain.ArtifactSlides:
		var a SlidesArtifact
		if err := generation.DecodeLenient(text, &a); err != nil {
			return nil, err
		}
		if err := a.validate(); err != nil {
			return nil, err
		}
		value = &a
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidArtifactType, artifactType)
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s artifact: %w", artifactType, err)
	}
	return raw, nil
}
