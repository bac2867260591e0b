package content

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/pathwise/pathwise-api/internal/domain"
	"github.com/pathwise/pathwise-api/internal/generation"
	"github.com/pathwise/pathwise-api/internal/lookup"
	"github.com/pathwise/pathwise-api/internal/mocks"
	"github.com/pathwise/pathwise-api/internal/progression"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stepsJSON = `{"steps": [{"title": "Read the intro", "detail": "Skim the first chapter", "duration_minutes": 15}]}`

const quizJSON = `{"questions": [
	{"type": "mcq", "prompt": "Pick one", "choices": ["a", "b", "c"], "answer": "A"},
	{"type": "short", "prompt": "Name it", "answer": "gravity"},
	{"type": "short", "prompt": "Define it", "answer": "mass"}
]}`

const shortQuizJSON = `{"questions": [
	{"type": "short", "prompt": "Name it", "answer": "gravity"}
]}`

const articleJSON = `{"title": "First light", "body": "Point the telescope at the moon."}`

const slidesJSON = `{"slides": [{"title": "Lenses", "bullets": ["refraction", "focal length"]}]}`

// artifactGenerateFn answers each prompt with a valid payload for the
// artifact it asks for, so a full day can be assembled against the mocks.
func artifactGenerateFn(_ context.Context, prompt string, _ int) (string, error) {
	switch {
	case strings.Contains(prompt, "writing a quiz"):
		return quizJSON, nil
	case strings.Contains(prompt, "reading material"):
		return articleJSON, nil
	case strings.Contains(prompt, "slide deck"):
		return slidesJSON, nil
	default:
		return stepsJSON, nil
	}
}

type cacheFixture struct {
	cache     *Cache
	plans     *mocks.MemoryPlanStore
	days      *mocks.MemoryDayStore
	generator *mocks.MockTextGenerator
	trans     *mocks.MockTranslator
	day       *domain.Day
}

func newCacheFixture(t *testing.T, generated string) *cacheFixture {
	t.Helper()

	plans := mocks.NewMemoryPlanStore()
	days := mocks.NewMemoryDayStore()

	plan, err := domain.NewPlan(uuid.New(), "astronomy", 3)
	require.NoError(t, err)
	require.NoError(t, plans.Create(context.Background(), plan))

	day, err := domain.NewDay(plan.ID, 1, "First light", "telescopes, lenses", domain.MinDifficulty)
	require.NoError(t, err)
	require.NoError(t, days.CreateBatch(context.Background(), []*domain.Day{day}))

	generator := &mocks.MockTextGenerator{Text: generated}
	trans := &mocks.MockTranslator{}

	// Empty pools force every lookup onto its degraded fallback, keeping
	// resource assembly off the network.
	finder := NewResourceFinder(
		lookup.NewVideoClient(lookup.NewPool(nil, nil), "", nil),
		lookup.NewEncyclopediaClient(lookup.NewPool(nil, nil), "", nil),
		lookup.NewArticleClient(lookup.NewPool(nil, nil), "", nil),
		slog.Default(),
	)

	return &cacheFixture{
		cache:     NewCache(plans, days, generator, trans, finder, slog.Default()),
		plans:     plans,
		days:      days,
		generator: generator,
		trans:     trans,
		day:       day,
	}
}

func TestGetOrCreateGeneratesBaseOnce(t *testing.T) {
	t.Parallel()
	f := newCacheFixture(t, stepsJSON)
	ctx := context.Background()

	first, err := f.cache.GetOrCreate(ctx, f.day.ID, domain.ArtifactSteps, "en")
	require.NoError(t, err)
	assert.Equal(t, 1, f.generator.CallCount())

	second, err := f.cache.GetOrCreate(ctx, f.day.ID, domain.ArtifactSteps, "en")
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))
	assert.Equal(t, 1, f.generator.CallCount(), "cache hit must not regenerate")

	stored, err := f.days.GetByID(ctx, f.day.ID)
	require.NoError(t, err)
	assert.Equal(t, "en", stored.Steps.BaseLang())
}

func TestGetOrCreateTranslatesWhenBaseExists(t *testing.T) {
	t.Parallel()
	f := newCacheFixture(t, stepsJSON)
	ctx := context.Background()

	_, err := f.cache.GetOrCreate(ctx, f.day.ID, domain.ArtifactSteps, "en")
	require.NoError(t, err)

	// Translator echoes valid JSON back so schema validation passes.
	f.trans.TranslateFn = func(_ context.Context, text, fromLang, toLang, _ string) (string, error) {
		assert.Equal(t, "en", fromLang)
		assert.Equal(t, "de", toLang)
		return text, nil
	}

	_, err = f.cache.GetOrCreate(ctx, f.day.ID, domain.ArtifactSteps, "de")
	require.NoError(t, err)

	assert.Equal(t, 1, f.generator.CallCount(), "second language must translate, not regenerate")
	assert.Equal(t, 1, f.trans.CallCount())

	stored, err := f.days.GetByID(ctx, f.day.ID)
	require.NoError(t, err)
	assert.Equal(t, "en", stored.Steps.BaseLang(), "base language marker must survive the rewrite")
	assert.ElementsMatch(t, []string{"en", "de"}, stored.Steps.Languages())
}

func TestGetOrCreatePreservesUnknownKeys(t *testing.T) {
	t.Parallel()
	f := newCacheFixture(t, stepsJSON)
	ctx := context.Background()

	// Simulate a future writer having added a key this code does not know.
	day, err := f.days.GetByID(ctx, f.day.ID)
	require.NoError(t, err)
	require.NoError(t, day.Steps.SetBase("en", json.RawMessage(stepsJSON)))
	day.Steps["_v2meta"] = json.RawMessage(`{"revision": 7}`)
	require.NoError(t, f.days.Update(ctx, day))

	f.trans.TranslateFn = func(_ context.Context, text, _, _, _ string) (string, error) {
		return text, nil
	}

	_, err = f.cache.GetOrCreate(ctx, f.day.ID, domain.ArtifactSteps, "fr")
	require.NoError(t, err)

	stored, err := f.days.GetByID(ctx, f.day.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"revision": 7}`, string(stored.Steps["_v2meta"]))
}

func TestGetOrCreateQuotaPassthrough(t *testing.T) {
	t.Parallel()
	f := newCacheFixture(t, "")
	f.generator.Err = generation.ErrQuotaExceeded
	ctx := context.Background()

	_, err := f.cache.GetOrCreate(ctx, f.day.ID, domain.ArtifactQuiz, "en")
	assert.ErrorIs(t, err, generation.ErrQuotaExceeded)

	stored, err := f.days.GetByID(ctx, f.day.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Quiz, "failed generation must not write to the cache")
}

func TestGetOrCreateInvalidModelOutput(t *testing.T) {
	t.Parallel()
	f := newCacheFixture(t, "the model rambled with no JSON at all")
	ctx := context.Background()

	_, err := f.cache.GetOrCreate(ctx, f.day.ID, domain.ArtifactSteps, "en")
	assert.ErrorIs(t, err, generation.ErrInvalidResponse)
}

func TestGetOrCreateQuizValidated(t *testing.T) {
	t.Parallel()
	f := newCacheFixture(t, quizJSON)
	ctx := context.Background()

	raw, err := f.cache.GetOrCreate(ctx, f.day.ID, domain.ArtifactQuiz, "en")
	require.NoError(t, err)

	var quiz domain.Quiz
	require.NoError(t, json.Unmarshal(raw, &quiz))
	assert.Len(t, quiz.Questions, domain.QuizLength)
}

func TestGetOrCreateQuizWrongLengthRejected(t *testing.T) {
	t.Parallel()
	f := newCacheFixture(t, shortQuizJSON)
	ctx := context.Background()

	_, err := f.cache.GetOrCreate(ctx, f.day.ID, domain.ArtifactQuiz, "en")
	assert.ErrorIs(t, err, generation.ErrInvalidResponse)

	stored, err := f.days.GetByID(ctx, f.day.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.Quiz, "wrong-length quiz must not be cached")
}

func TestGetOrCreateResourcesDegraded(t *testing.T) {
	t.Parallel()
	f := newCacheFixture(t, "")
	ctx := context.Background()

	raw, err := f.cache.GetOrCreate(ctx, f.day.ID, domain.ArtifactResources, "en")
	require.NoError(t, err)

	var artifact ResourcesArtifact
	require.NoError(t, json.Unmarshal(raw, &artifact))
	assert.True(t, artifact.Degraded, "no credentials must degrade, not fail")
	require.NotEmpty(t, artifact.Videos)
	assert.Contains(t, artifact.Videos[0].URL, "youtube.com/results")
	assert.Zero(t, f.generator.CallCount(), "resources never touch the text generator")
}

func TestGetOrCreateValidatesInput(t *testing.T) {
	t.Parallel()
	f := newCacheFixture(t, stepsJSON)
	ctx := context.Background()

	_, err := f.cache.GetOrCreate(ctx, f.day.ID, domain.ArtifactSteps, "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidLanguage)

	_, err = f.cache.GetOrCreate(ctx, f.day.ID, domain.ArtifactType("poems"), "en")
	assert.ErrorIs(t, err, domain.ErrInvalidArtifactType)
}

func TestAssembleDayContent(t *testing.T) {
	t.Parallel()

	t.Run("foreign plan not owned", func(t *testing.T) {
		t.Parallel()
		f := newCacheFixture(t, stepsJSON)

		_, err := f.cache.AssembleDayContent(context.Background(), uuid.New(), f.day.PlanID, 1, "en")
		assert.ErrorIs(t, err, progression.ErrPlanNotOwned)
	})

	t.Run("locked day refused", func(t *testing.T) {
		t.Parallel()
		f := newCacheFixture(t, stepsJSON)
		ctx := context.Background()

		plan, err := f.plans.GetByID(ctx, f.day.PlanID)
		require.NoError(t, err)

		locked, err := domain.NewDay(plan.ID, 2, "Deep sky", "nebulae", domain.MinDifficulty)
		require.NoError(t, err)
		require.NoError(t, f.days.CreateBatch(ctx, []*domain.Day{locked}))

		_, err = f.cache.AssembleDayContent(ctx, plan.UserID, plan.ID, 2, "en")
		assert.ErrorIs(t, err, progression.ErrDayLocked)
	})

	t.Run("headings translated for second language", func(t *testing.T) {
		t.Parallel()
		f := newCacheFixture(t, "")
		f.generator.GenerateFn = artifactGenerateFn
		// Echo artifact JSON unchanged so the translated copy stays valid;
		// heading translation goes through TranslateBatch and keeps its
		// language-prefixing default.
		f.trans.TranslateFn = func(_ context.Context, text, _, _, _ string) (string, error) {
			return text, nil
		}
		ctx := context.Background()

		plan, err := f.plans.GetByID(ctx, f.day.PlanID)
		require.NoError(t, err)

		base, err := f.cache.AssembleDayContent(ctx, plan.UserID, plan.ID, 1, "en")
		require.NoError(t, err)
		assert.Equal(t, "First light", base.MissionTitle)
		assert.Zero(t, f.trans.BatchCallCount(), "base-language open needs no heading translation")

		second, err := f.cache.AssembleDayContent(ctx, plan.UserID, plan.ID, 1, "de")
		require.NoError(t, err)
		assert.Equal(t, "[de] First light", second.MissionTitle)
		assert.Equal(t, "[de] telescopes, lenses", second.Focus)
		assert.Equal(t, 1, f.trans.BatchCallCount())
	})

	t.Run("heading translation failure keeps base language", func(t *testing.T) {
		t.Parallel()
		f := newCacheFixture(t, "")
		f.generator.GenerateFn = artifactGenerateFn
		// Echo artifact JSON unchanged so only the batch heading translation
		// fails, which is the path this subtest exercises.
		f.trans.TranslateFn = func(_ context.Context, text, _, _, _ string) (string, error) {
			return text, nil
		}
		f.trans.TranslateBatchFn = func(context.Context, []string, string, string, string) ([]string, error) {
			return nil, generation.ErrProviderFailure
		}
		ctx := context.Background()

		plan, err := f.plans.GetByID(ctx, f.day.PlanID)
		require.NoError(t, err)

		_, err = f.cache.AssembleDayContent(ctx, plan.UserID, plan.ID, 1, "en")
		require.NoError(t, err)

		second, err := f.cache.AssembleDayContent(ctx, plan.UserID, plan.ID, 1, "de")
		require.NoError(t, err, "heading translation failure must not fail the open")
		assert.Equal(t, "First light", second.MissionTitle)
		assert.Equal(t, "telescopes, lenses", second.Focus)
	})
}
