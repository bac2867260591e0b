package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pathwise/pathwise-api/internal/generation"
	openai "github.com/sashabaranov/go-openai"
)

// Config holds the settings for the OpenAI translation adapter.
type Config struct {
	// APIKey authenticates against the OpenAI API.
	APIKey string

	// Model is the chat model ID, e.g. "gpt-4o-mini".
	Model string

	// BaseURL overrides the API endpoint for OpenAI-compatible providers.
	BaseURL string
}

// chatClient is the subset of the OpenAI client the translator uses.
// Narrowed for testability.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Translator implements generation.Translator on top of OpenAI chat
// completions.
type Translator struct {
	logger *slog.Logger
	client chatClient
	model  string
}

// NewTranslator creates an OpenAI-backed translator.
// Returns generation.ErrInvalidConfig when required settings are missing.
func NewTranslator(logger *slog.Logger, config Config) (*Translator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if config.APIKey == "" {
		return nil, fmt.Errorf("%w: openai API key cannot be empty", generation.ErrInvalidConfig)
	}

	if config.Model == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &Translator{
		logger: logger.With(slog.String("component", "openai_translator")),
		client: openai.NewClientWithConfig(clientConfig),
		model:  config.Model,
	}, nil
}

// Ensure Translator implements generation.Translator
var _ generation.Translator = (*Translator)(nil)

const translateSystemPrompt = "You are a professional translator. Translate the user content " +
	"from %s to %s. The content is %s. Preserve all JSON structure, markdown formatting, " +
	"placeholders and proper nouns exactly. Respond with the translation only, no commentary."

// Translate implements generation.Translator.Translate
func (t *Translator) Translate(ctx context.Context, text, fromLang, toLang, hint string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	if hint == "" {
		hint = "learning material"
	}

	resp, err := t.complete(ctx, fmt.Sprintf(translateSystemPrompt, fromLang, toLang, hint), text)
	if err != nil {
		return "", err
	}

	t.logger.DebugContext(ctx, "translated text",
		slog.String("from", fromLang),
		slog.String("to", toLang),
		slog.Int("length", len(text)))

	return resp, nil
}

// TranslateBatch implements generation.Translator.TranslateBatch
//
// The strings travel as one JSON array in both directions; the response must
// come back with the same length or the whole batch is rejected.
func (t *Translator) TranslateBatch(ctx context.Context, texts []string, fromLang, toLang, hint string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if hint == "" {
		hint = "learning material"
	}

	payload, err := json.Marshal(texts)
	if err != nil {
		return nil, fmt.Errorf("failed to encode batch: %w", err)
	}

	system := fmt.Sprintf(translateSystemPrompt, fromLang, toLang, hint) +
		" The user content is a JSON array of strings; respond with a JSON array " +
		"of the same length, each element the translation of the element at the same index."

	resp, err := t.complete(ctx, system, string(payload))
	if err != nil {
		return nil, err
	}

	var translated []string
	if err := generation.DecodeLenient(resp, &translated); err != nil {
		return nil, fmt.Errorf("%w: batch translation is not a JSON array: %v",
			generation.ErrInvalidResponse, err)
	}

	if len(translated) != len(texts) {
		return nil, fmt.Errorf("%w: batch translation length mismatch: sent %d, got %d",
			generation.ErrInvalidResponse, len(texts), len(translated))
	}

	t.logger.DebugContext(ctx, "translated batch",
		slog.String("from", fromLang),
		slog.String("to", toLang),
		slog.Int("count", len(texts)))

	return translated, nil
}

// complete makes one chat completion request and classifies its outcome.
func (t *Translator) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", mapAPIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in completion response", generation.ErrInvalidResponse)
	}

	return resp.Choices[0].Message.Content, nil
}

// mapAPIError classifies an OpenAI error into the generation error taxonomy.
func mapAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", generation.ErrQuotaExceeded, err)
		case apiErr.HTTPStatusCode == http.StatusForbidden:
			return fmt.Errorf("%w: %v", generation.ErrQuotaExceeded, err)
		}
	}
	return fmt.Errorf("%w: %v", generation.ErrProviderFailure, err)
}
