package lookup

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
)

// ArticleResult is one supporting news or blog article for a Day.
type ArticleResult struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Source   string `json:"source,omitempty"`
	Degraded bool   `json:"degraded,omitempty"`
}

// ArticleClient searches a news API for supporting articles using the
// pool's rotating API keys.
type ArticleClient struct {
	pool    *Pool
	http    *http.Client
	baseURL string
	logger  *slog.Logger
}

// NewArticleClient creates an article search client. baseURL overrides the
// endpoint for tests; pass "" for the real API.
func NewArticleClient(pool *Pool, baseURL string, logger *slog.Logger) *ArticleClient {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = "https://gnews.io/api/v4"
	}

	return &ArticleClient{
		pool:    pool,
		http:    newHTTPClient(),
		baseURL: baseURL,
		logger:  logger.With(slog.String("component", "article_lookup")),
	}
}

type newsSearchResponse struct {
	Articles []struct {
		Title  string `json:"title"`
		URL    string `json:"url"`
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// Search returns the top article for the query in the given language. When
// the pool is exhausted or the provider fails, a degraded search link is
// returned instead of an error.
func (c *ArticleClient) Search(ctx context.Context, query, lang string) ArticleResult {
	result, err := Execute(ctx, c.pool, func(ctx context.Context, key string) (ArticleResult, error) {
		return c.search(ctx, key, query, lang)
	})
	if err != nil {
		if IsDegradationError(err) {
			c.logger.Warn("article lookup degraded",
				slog.String("query", query),
				slog.String("error", err.Error()))
		} else {
			c.logger.Error("article lookup failed, serving degraded result",
				slog.String("query", query),
				slog.String("error", err.Error()))
		}
		return FallbackArticle(query)
	}
	return result
}

func (c *ArticleClient) search(ctx context.Context, key, query, lang string) (ArticleResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("max", "5")
	if lang != "" {
		params.Set("lang", lang)
	}
	params.Set("apikey", key)

	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return ArticleResult{}, fmt.Errorf("failed to build article search request: %w", err)
	}

	var resp newsSearchResponse
	if err := doJSON(ctx, c.http, req, &resp); err != nil {
		return ArticleResult{}, err
	}

	for _, a := range resp.Articles {
		if a.URL == "" {
			continue
		}
		return ArticleResult{
			Title:  a.Title,
			URL:    a.URL,
			Source: a.Source.Name,
		}, nil
	}

	return ArticleResult{}, ErrNoResults
}

// FallbackArticle constructs the degraded search-link result for a query.
func FallbackArticle(query string) ArticleResult {
	return ArticleResult{
		Title:    query,
		URL:      "https://news.google.com/search?q=" + url.QueryEscape(query),
		Degraded: true,
	}
}
