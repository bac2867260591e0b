package content

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/pathwise/pathwise-api/internal/lookup"
	"golang.org/x/sync/errgroup"
)

// maxResourceKeywords caps how many video lookups one day triggers.
const maxResourceKeywords = 3

// videoMaxDuration keeps supporting videos to lesson-sized lengths.
const videoMaxDuration = 20 * time.Minute

// ResourceFinder assembles the resources artifact for a day from the
// category lookup clients. Lookups fan out concurrently; a provider that is
// down or out of quota degrades its own entries without failing the rest.
type ResourceFinder struct {
	videos       *lookup.VideoClient
	encyclopedia *lookup.EncyclopediaClient
	articles     *lookup.ArticleClient
	logger       *slog.Logger
}

// NewResourceFinder creates a resource finder over the category clients.
func NewResourceFinder(
	videos *lookup.VideoClient,
	encyclopedia *lookup.EncyclopediaClient,
	articles *lookup.ArticleClient,
	log *slog.Logger,
) *ResourceFinder {
	if log == nil {
		log = slog.Default()
	}
	return &ResourceFinder{
		videos:       videos,
		encyclopedia: encyclopedia,
		articles:     articles,
		logger:       log.With(slog.String("component", "resource_finder")),
	}
}

// Assemble gathers one day's external resources: a video per focus keyword,
// one encyclopedia reference (local language first, then English, then a
// degraded search link), and one supporting article.
func (f *ResourceFinder) Assemble(ctx context.Context, topic, focus, lang string) (*ResourcesArtifact, error) {
	keywords := focusKeywords(topic, focus)

	artifact := &ResourcesArtifact{
		Videos: make([]lookup.VideoResult, len(keywords)),
	}

	g, gctx := errgroup.WithContext(ctx)

	for i, kw := range keywords {
		i, kw := i, kw
		g.Go(func() error {
			artifact.Videos[i] = f.videos.Search(gctx, kw, videoMaxDuration)
			return nil
		})
	}

	g.Go(func() error {
		artifact.Encyclopedia = f.lookupEncyclopedia(gctx, topic, lang)
		return nil
	})

	g.Go(func() error {
		query := topic
		if focus != "" {
			query = topic + " " + focus
		}
		artifact.Articles = []lookup.ArticleResult{f.articles.Search(gctx, query, lang)}
		return nil
	})

	// The workers only record degraded results, never errors; Wait still
	// respects context cancellation.
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, v := range artifact.Videos {
		artifact.Degraded = artifact.Degraded || v.Degraded
	}
	artifact.Degraded = artifact.Degraded || artifact.Encyclopedia.Degraded
	for _, a := range artifact.Articles {
		artifact.Degraded = artifact.Degraded || a.Degraded
	}

	if artifact.Degraded {
		f.logger.Warn("resources assembled with degraded entries",
			slog.String("topic", topic),
			slog.String("lang", lang))
	}

	return artifact, nil
}

// lookupEncyclopedia runs the language fallback chain: requested language,
// then English, then a degraded search link.
func (f *ResourceFinder) lookupEncyclopedia(ctx context.Context, topic, lang string) lookup.EncyclopediaResult {
	result, err := f.encyclopedia.Lookup(ctx, topic, lang)
	if err == nil {
		return result
	}

	if lang != "en" {
		f.logger.Debug("encyclopedia lookup falling back to English",
			slog.String("topic", topic),
			slog.String("lang", lang),
			slog.String("error", err.Error()))
		if result, err = f.encyclopedia.Lookup(ctx, topic, "en"); err == nil {
			return result
		}
	}

	if lookup.IsDegradationError(err) {
		f.logger.Warn("encyclopedia lookup degraded",
			slog.String("topic", topic),
			slog.String("error", err.Error()))
	} else {
		f.logger.Error("encyclopedia lookup failed, serving degraded result",
			slog.String("topic", topic),
			slog.String("error", err.Error()))
	}
	return lookup.FallbackEncyclopedia(topic, lang)
}

// focusKeywords derives up to maxResourceKeywords video queries from a day's
// focus, prefixed with the plan topic for context.
func focusKeywords(topic, focus string) []string {
	parts := strings.FieldsFunc(focus, func(r rune) bool {
		return r == ',' || r == ';'
	})

	var keywords []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		keywords = append(keywords, topic+" "+p)
		if len(keywords) == maxResourceKeywords {
			break
		}
	}

	if len(keywords) == 0 {
		keywords = []string{topic}
	}
	return keywords
}
