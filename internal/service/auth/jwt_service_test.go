package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-thats-at-least-32-characters"

func newTestService(t *testing.T, lifetime time.Duration) *hmacJWTService {
	t.Helper()
	svc, err := NewJWTService(testSecret, lifetime)
	require.NoError(t, err)
	return svc.(*hmacJWTService)
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	t.Run("rejects short secret", func(t *testing.T) {
		t.Parallel()
		_, err := NewJWTService("too-short", time.Hour)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive lifetime", func(t *testing.T) {
		t.Parallel()
		_, err := NewJWTService(testSecret, 0)
		assert.Error(t, err)
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, time.Hour)
	userID := uuid.New()

	token, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestValidateTokenExpired(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, time.Minute)
	base := time.Now()
	svc.timeFunc = func() time.Time { return base }

	token, err := svc.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)

	// Advance past the lifetime plus clock skew.
	svc.timeFunc = func() time.Time { return base.Add(time.Minute + svc.clockSkew + time.Second) }

	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenMalformed(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, time.Hour)

	_, err := svc.ValidateToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenWrongKey(t *testing.T) {
	t.Parallel()

	issuer := newTestService(t, time.Hour)
	verifier := newTestService(t, time.Hour)
	verifier.signingKey = []byte("another-secret-key-also-32-chars-long!!")

	token, err := issuer.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)

	_, err = verifier.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
