package lookup

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// VideoResult is one supporting video link for a Day.
type VideoResult struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Channel  string `json:"channel,omitempty"`
	Degraded bool   `json:"degraded,omitempty"`
}

// VideoClient searches YouTube for supporting videos using the pool's
// rotating API keys.
type VideoClient struct {
	pool    *Pool
	http    *http.Client
	baseURL string
	logger  *slog.Logger
}

// NewVideoClient creates a video search client over the given credential
// pool. baseURL overrides the YouTube endpoint for tests; pass "" for the
// real API.
func NewVideoClient(pool *Pool, baseURL string, logger *slog.Logger) *VideoClient {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = "https://www.googleapis.com/youtube/v3"
	}

	return &VideoClient{
		pool:    pool,
		http:    newHTTPClient(),
		baseURL: baseURL,
		logger:  logger.With(slog.String("component", "video_lookup")),
	}
}

type youtubeSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
		} `json:"snippet"`
	} `json:"items"`
}

// Search returns the top video for the query whose duration class fits
// maxDuration. When the pool is exhausted or the provider fails, a degraded
// search link is returned instead of an error.
func (c *VideoClient) Search(ctx context.Context, query string, maxDuration time.Duration) VideoResult {
	result, err := Execute(ctx, c.pool, func(ctx context.Context, key string) (VideoResult, error) {
		return c.search(ctx, key, query, maxDuration)
	})
	if err != nil {
		if IsDegradationError(err) {
			c.logger.Warn("video lookup degraded",
				slog.String("query", query),
				slog.String("error", err.Error()))
		} else {
			c.logger.Error("video lookup failed, serving degraded result",
				slog.String("query", query),
				slog.String("error", err.Error()))
		}
		return FallbackVideo(query)
	}
	return result
}

func (c *VideoClient) search(ctx context.Context, key, query string, maxDuration time.Duration) (VideoResult, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("maxResults", "5")
	params.Set("q", query)
	params.Set("videoDuration", durationClass(maxDuration))
	params.Set("key", key)

	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return VideoResult{}, fmt.Errorf("failed to build video search request: %w", err)
	}

	var resp youtubeSearchResponse
	if err := doJSON(ctx, c.http, req, &resp); err != nil {
		return VideoResult{}, err
	}

	for _, item := range resp.Items {
		if item.ID.VideoID == "" {
			continue
		}
		return VideoResult{
			Title:   item.Snippet.Title,
			URL:     "https://www.youtube.com/watch?v=" + item.ID.VideoID,
			Channel: item.Snippet.ChannelTitle,
		}, nil
	}

	return VideoResult{}, ErrNoResults
}

// durationClass maps a maximum duration onto the provider's coarse duration
// filter buckets.
func durationClass(maxDuration time.Duration) string {
	switch {
	case maxDuration > 0 && maxDuration <= 4*time.Minute:
		return "short"
	case maxDuration > 0 && maxDuration <= 20*time.Minute:
		return "medium"
	default:
		return "any"
	}
}

// FallbackVideo constructs the degraded search-link result for a query.
func FallbackVideo(query string) VideoResult {
	return VideoResult{
		Title:    query,
		URL:      "https://www.youtube.com/results?search_query=" + url.QueryEscape(query),
		Degraded: true,
	}
}
