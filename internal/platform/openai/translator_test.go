package openai

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/pathwise/pathwise-api/internal/generation"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChatClient returns canned completion responses.
type fakeChatClient struct {
	content string
	err     error
	calls   int
	lastReq openai.ChatCompletionRequest
}

func (f *fakeChatClient) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.content}},
		},
	}, nil
}

func newTestTranslator(client chatClient) *Translator {
	return &Translator{
		logger: slog.Default(),
		client: client,
		model:  "gpt-4o-mini",
	}
}

func TestNewTranslatorValidation(t *testing.T) {
	t.Parallel()

	_, err := NewTranslator(nil, Config{APIKey: "k", Model: "m"})
	require.Error(t, err)

	_, err = NewTranslator(slog.Default(), Config{Model: "m"})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = NewTranslator(slog.Default(), Config{APIKey: "k"})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestTranslate(t *testing.T) {
	t.Parallel()

	t.Run("returns translation", func(t *testing.T) {
		t.Parallel()
		client := &fakeChatClient{content: "Hola mundo"}
		tr := newTestTranslator(client)

		got, err := tr.Translate(context.Background(), "Hello world", "en", "es", "greeting")
		require.NoError(t, err)
		assert.Equal(t, "Hola mundo", got)
		assert.Equal(t, 1, client.calls)
	})

	t.Run("empty text short-circuits", func(t *testing.T) {
		t.Parallel()
		client := &fakeChatClient{}
		tr := newTestTranslator(client)

		got, err := tr.Translate(context.Background(), "   ", "en", "es", "")
		require.NoError(t, err)
		assert.Equal(t, "   ", got)
		assert.Zero(t, client.calls)
	})

	t.Run("rate limit maps to quota error", func(t *testing.T) {
		t.Parallel()
		client := &fakeChatClient{err: &openai.APIError{HTTPStatusCode: 429}}
		tr := newTestTranslator(client)

		_, err := tr.Translate(context.Background(), "Hello", "en", "es", "")
		assert.ErrorIs(t, err, generation.ErrQuotaExceeded)
	})

	t.Run("other errors map to provider failure", func(t *testing.T) {
		t.Parallel()
		client := &fakeChatClient{err: errors.New("connection reset")}
		tr := newTestTranslator(client)

		_, err := tr.Translate(context.Background(), "Hello", "en", "es", "")
		assert.ErrorIs(t, err, generation.ErrProviderFailure)
	})
}

func TestTranslateBatch(t *testing.T) {
	t.Parallel()

	t.Run("round-trips a fenced JSON array", func(t *testing.T) {
		t.Parallel()
		client := &fakeChatClient{content: "```json\n[\"uno\", \"dos\"]\n```"}
		tr := newTestTranslator(client)

		got, err := tr.TranslateBatch(context.Background(), []string{"one", "two"}, "en", "es", "numbers")
		require.NoError(t, err)
		assert.Equal(t, []string{"uno", "dos"}, got)
	})

	t.Run("length mismatch rejected", func(t *testing.T) {
		t.Parallel()
		client := &fakeChatClient{content: `["uno"]`}
		tr := newTestTranslator(client)

		_, err := tr.TranslateBatch(context.Background(), []string{"one", "two"}, "en", "es", "")
		assert.ErrorIs(t, err, generation.ErrInvalidResponse)
	})

	t.Run("empty batch short-circuits", func(t *testing.T) {
		t.Parallel()
		client := &fakeChatClient{}
		tr := newTestTranslator(client)

		got, err := tr.TranslateBatch(context.Background(), nil, "en", "es", "")
		require.NoError(t, err)
		assert.Nil(t, got)
		assert.Zero(t, client.calls)
	})

	t.Run("non-array response rejected", func(t *testing.T) {
		t.Parallel()
		client := &fakeChatClient{content: "I cannot translate that."}
		tr := newTestTranslator(client)

		_, err := tr.TranslateBatch(context.Background(), []string{"one"}, "en", "es", "")
		assert.ErrorIs(t, err, generation.ErrInvalidResponse)
	})
}
