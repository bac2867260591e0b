package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"time"

	"github.com/pathwise/pathwise-api/internal/generation"
	"google.golang.org/genai"
)

// Config holds the settings for the Gemini adapter.
type Config struct {
	// APIKey authenticates against the Gemini API.
	APIKey string

	// Model is the Gemini model ID, e.g. "gemini-2.0-flash".
	Model string

	// MaxRetries bounds retry attempts for transient failures.
	MaxRetries int

	// RetryDelaySeconds is the base delay for exponential backoff.
	RetryDelaySeconds int
}

// Generator implements generation.TextGenerator on top of the Gemini API.
type Generator struct {
	logger *slog.Logger
	client *genai.Client
	config Config
}

// NewGenerator creates a Gemini-backed text generator.
// Returns generation.ErrInvalidConfig when required settings are missing.
func NewGenerator(ctx context.Context, logger *slog.Logger, config Config) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if config.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if config.Model == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	if config.MaxRetries < 0 {
		config.MaxRetries = 3
	}
	if config.RetryDelaySeconds < 1 {
		config.RetryDelaySeconds = 2
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &Generator{
		logger: logger.With(slog.String("component", "gemini_generator")),
		client: client,
		config: config,
	}, nil
}

// Ensure Generator implements generation.TextGenerator
var _ generation.TextGenerator = (*Generator)(nil)

// Generate implements generation.TextGenerator.Generate with exponential
// backoff retry for transient provider failures. Quota and safety-block
// responses are returned immediately without retrying.
func (g *Generator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("%w: prompt cannot be empty", generation.ErrGenerationFailed)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var lastErr error
	for attempt := 0; attempt <= g.config.MaxRetries; attempt++ {
		if attempt > 0 {
			// delay = baseDelay * (2^(attempt-1)) * (0.5 + rand(0, 0.5))
			backoff := float64(g.config.RetryDelaySeconds) * math.Pow(2, float64(attempt-1))
			jitter := 0.5 + rng.Float64()*0.5
			delay := time.Duration(backoff * jitter * float64(time.Second))

			g.logger.InfoContext(ctx, "retrying Gemini call after delay",
				slog.Int("attempt", attempt+1),
				slog.Duration("delay", delay))

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", generation.ErrGenerationFailed, ctx.Err())
			}
		}

		text, err := g.call(ctx, prompt, maxTokens)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if !isTransient(err) {
			g.logger.WarnContext(ctx, "permanent Gemini error, not retrying",
				slog.String("error", err.Error()),
				slog.Int("attempt", attempt+1))
			return "", err
		}

		g.logger.ErrorContext(ctx, "Gemini call failed",
			slog.String("error", err.Error()),
			slog.Int("attempt", attempt+1),
			slog.Int("max_attempts", g.config.MaxRetries+1))
	}

	return "", fmt.Errorf("%w: exceeded maximum retry attempts (%d): %v",
		generation.ErrProviderFailure, g.config.MaxRetries, lastErr)
}

// call makes one GenerateContent request and classifies its outcome.
func (g *Generator) call(ctx context.Context, prompt string, maxTokens int) (string, error) {
	config := &genai.GenerateContentConfig{}
	if maxTokens > 0 {
		config.MaxOutputTokens = int32(maxTokens)
	}

	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: prompt}}},
	}

	result, err := g.client.Models.GenerateContent(ctx, g.config.Model, contents, config)
	if err != nil {
		return "", mapAPIError(err)
	}

	if len(result.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	if result.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: safety filter triggered", generation.ErrContentBlocked)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty response text", generation.ErrInvalidResponse)
	}

	return text, nil
}

// mapAPIError classifies a genai error into the generation error taxonomy.
func mapAPIError(err error) error {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", generation.ErrQuotaExceeded, err)
		case apiErr.Code == http.StatusForbidden:
			return fmt.Errorf("%w: %v", generation.ErrQuotaExceeded, err)
		case apiErr.Code >= 500:
			return fmt.Errorf("%w: %v", generation.ErrProviderFailure, err)
		}
	}
	return fmt.Errorf("%w: %v", generation.ErrProviderFailure, err)
}

// isTransient reports whether an error is worth retrying. Quota errors are
// not transient: retrying immediately would burn more of the same quota.
func isTransient(err error) bool {
	switch {
	case errors.Is(err, generation.ErrQuotaExceeded),
		errors.Is(err, generation.ErrContentBlocked),
		errors.Is(err, generation.ErrInvalidResponse):
		return false
	}
	return errors.Is(err, generation.ErrProviderFailure)
}
