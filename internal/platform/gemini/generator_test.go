package gemini

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/pathwise/pathwise-api/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestNewGeneratorValidation(t *testing.T) {
	t.Parallel()

	logger := slog.Default()

	t.Run("nil logger", func(t *testing.T) {
		t.Parallel()
		_, err := NewGenerator(context.Background(), nil, Config{APIKey: "key", Model: "m"})
		require.Error(t, err)
	})

	t.Run("missing api key", func(t *testing.T) {
		t.Parallel()
		_, err := NewGenerator(context.Background(), logger, Config{Model: "m"})
		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
	})

	t.Run("missing model", func(t *testing.T) {
		t.Parallel()
		_, err := NewGenerator(context.Background(), logger, Config{APIKey: "key"})
		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
	})
}

func TestMapAPIError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		code int
		want error
	}{
		{name: "rate limited", code: 429, want: generation.ErrQuotaExceeded},
		{name: "quota forbidden", code: 403, want: generation.ErrQuotaExceeded},
		{name: "server error", code: 500, want: generation.ErrProviderFailure},
		{name: "bad request", code: 400, want: generation.ErrProviderFailure},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := mapAPIError(&genai.APIError{Code: tc.code})
			assert.ErrorIs(t, err, tc.want)
		})
	}

	t.Run("non-api error", func(t *testing.T) {
		t.Parallel()
		err := mapAPIError(errors.New("connection reset"))
		assert.ErrorIs(t, err, generation.ErrProviderFailure)
	})
}

func TestIsTransient(t *testing.T) {
	t.Parallel()

	assert.False(t, isTransient(generation.ErrQuotaExceeded))
	assert.False(t, isTransient(generation.ErrContentBlocked))
	assert.False(t, isTransient(generation.ErrInvalidResponse))
	assert.True(t, isTransient(generation.ErrProviderFailure))
}
