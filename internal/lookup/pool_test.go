package lookup

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quotaErr() error {
	return fmt.Errorf("%w: status 403", ErrQuotaExceeded)
}

func TestExecuteNoCredentials(t *testing.T) {
	t.Parallel()

	pool := NewPool(nil, nil)
	_, err := Execute(context.Background(), pool, func(ctx context.Context, key string) (string, error) {
		t.Fatal("fn must not be called without credentials")
		return "", nil
	})
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestExecuteRotatesOnQuotaFailure(t *testing.T) {
	t.Parallel()

	pool := NewPool([]string{"key-1", "key-2"}, nil)

	var calls []string
	result, err := Execute(context.Background(), pool, func(ctx context.Context, key string) (string, error) {
		calls = append(calls, key)
		if key == "key-1" {
			return "", quotaErr()
		}
		return "ok-" + key, nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok-key-2", result)
	assert.Equal(t, []string{"key-1", "key-2"}, calls)

	// The first credential must stay unusable for subsequent selections
	// within the cooldown window.
	cred, _ := pool.selectCredential(time.Now(), map[int]bool{})
	assert.Equal(t, "key-2", cred.Key)
}

func TestExecuteAllCredentialsExhausted(t *testing.T) {
	t.Parallel()

	pool := NewPool([]string{"key-1", "key-2"}, nil)

	calls := 0
	_, err := Execute(context.Background(), pool, func(ctx context.Context, key string) (string, error) {
		calls++
		return "", quotaErr()
	})

	assert.ErrorIs(t, err, ErrAllCredentialsCooling)
	// Bounded by the number of distinct credentials, no infinite loop.
	assert.Equal(t, 2, calls)
}

func TestExecuteNonQuotaErrorReturnsImmediately(t *testing.T) {
	t.Parallel()

	pool := NewPool([]string{"key-1", "key-2"}, nil)
	boom := errors.New("connection refused")

	calls := 0
	_, err := Execute(context.Background(), pool, func(ctx context.Context, key string) (string, error) {
		calls++
		return "", boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)

	// A non-quota failure must not put the credential into cooldown.
	cred, _ := pool.selectCredential(time.Now(), map[int]bool{})
	assert.Equal(t, "key-1", cred.Key)
}

func TestSelectCredentialPrefersSoonestWhenAllCooling(t *testing.T) {
	t.Parallel()

	pool := NewPool([]string{"key-1", "key-2"}, nil)
	now := time.Now()
	pool.creds[0].CooldownUntil = now.Add(30 * time.Minute)
	pool.creds[1].CooldownUntil = now.Add(10 * time.Minute)

	cred, _ := pool.selectCredential(now, map[int]bool{})
	assert.Equal(t, "key-2", cred.Key)
}

func TestSuccessResetsCooldownEarly(t *testing.T) {
	t.Parallel()

	pool := NewPool([]string{"key-1"}, nil)
	pool.creds[0].CooldownUntil = time.Now().Add(30 * time.Minute)

	// The only credential is cooling, so it is still selected best-effort;
	// a success resets its cooldown.
	result, err := Execute(context.Background(), pool, func(ctx context.Context, key string) (string, error) {
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.True(t, pool.creds[0].Available(time.Now()))
}

func TestIsDegradationError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"no credentials", ErrNoCredentials, true},
		{"all cooling", ErrAllCredentialsCooling, true},
		{"no results", ErrNoResults, true},
		{"wrapped no results", fmt.Errorf("video: %w", ErrNoResults), true},
		{"quota", ErrQuotaExceeded, false},
		{"provider failure", errors.New("connection refused"), false},
		{"nil", nil, false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, IsDegradationError(tc.err))
		})
	}
}

func TestNewPoolDropsEmptyKeys(t *testing.T) {
	t.Parallel()

	pool := NewPool([]string{"", "key-1", ""}, nil)
	assert.Equal(t, 1, pool.Size())
}
