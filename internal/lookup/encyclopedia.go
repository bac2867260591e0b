package lookup

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// EncyclopediaResult is one encyclopedia reference for a Day.
type EncyclopediaResult struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Extract  string `json:"extract,omitempty"`
	Lang     string `json:"lang"`
	Degraded bool   `json:"degraded,omitempty"`
}

// EncyclopediaClient looks up articles on the Wikimedia REST API using the
// pool's rotating bearer tokens. Language fallback chains (local language
// first, then English) are sequenced by the caller, not here; the client
// only covers credential-level resilience for one lookup.
type EncyclopediaClient struct {
	pool    *Pool
	http    *http.Client
	baseURL string
	logger  *slog.Logger
}

// NewEncyclopediaClient creates an encyclopedia lookup client. baseURL
// overrides the Wikimedia endpoint for tests; pass "" for the real API.
func NewEncyclopediaClient(pool *Pool, baseURL string, logger *slog.Logger) *EncyclopediaClient {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = "https://api.wikimedia.org/core/v1/wikipedia"
	}

	return &EncyclopediaClient{
		pool:    pool,
		http:    newHTTPClient(),
		baseURL: baseURL,
		logger:  logger.With(slog.String("component", "encyclopedia_lookup")),
	}
}

type wikiSearchResponse struct {
	Pages []struct {
		Key     string `json:"key"`
		Title   string `json:"title"`
		Excerpt string `json:"excerpt"`
	} `json:"pages"`
}

// Lookup returns the top encyclopedia page for the topic in the given
// language, or ErrNoResults when the wiki has nothing for it. Quota and
// pool-exhaustion errors propagate so the caller can try its fallback chain
// before degrading.
func (c *EncyclopediaClient) Lookup(ctx context.Context, topic, lang string) (EncyclopediaResult, error) {
	return Execute(ctx, c.pool, func(ctx context.Context, key string) (EncyclopediaResult, error) {
		return c.lookup(ctx, key, topic, lang)
	})
}

func (c *EncyclopediaClient) lookup(ctx context.Context, key, topic, lang string) (EncyclopediaResult, error) {
	params := url.Values{}
	params.Set("q", topic)
	params.Set("limit", "5")

	endpoint := fmt.Sprintf("%s/%s/search/page?%s", c.baseURL, url.PathEscape(lang), params.Encode())
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return EncyclopediaResult{}, fmt.Errorf("failed to build encyclopedia request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+key)

	var resp wikiSearchResponse
	if err := doJSON(ctx, c.http, req, &resp); err != nil {
		return EncyclopediaResult{}, err
	}

	for _, page := range resp.Pages {
		if page.Key == "" {
			continue
		}
		return EncyclopediaResult{
			Title:   page.Title,
			URL:     fmt.Sprintf("https://%s.wikipedia.org/wiki/%s", lang, page.Key),
			Extract: stripMarkup(page.Excerpt),
			Lang:    lang,
		}, nil
	}

	return EncyclopediaResult{}, ErrNoResults
}

// FallbackEncyclopedia constructs the degraded search-link result.
func FallbackEncyclopedia(topic, lang string) EncyclopediaResult {
	if lang == "" {
		lang = "en"
	}
	return EncyclopediaResult{
		Title:    topic,
		URL:      fmt.Sprintf("https://%s.wikipedia.org/wiki/Special:Search?search=%s", lang, url.QueryEscape(topic)),
		Lang:     lang,
		Degraded: true,
	}
}

// stripMarkup removes the highlight spans the search endpoint embeds in
// excerpts.
func stripMarkup(s string) string {
	replacer := strings.NewReplacer(
		`<span class="searchmatch">`, "",
		"</span>", "",
	)
	return replacer.Replace(s)
}
