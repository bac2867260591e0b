package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pathwise/pathwise-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubJWTService returns canned validation results.
type stubJWTService struct {
	userID uuid.UUID
	err    error
}

func (s *stubJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return "stub-token", nil
}

func (s *stubJWTService) ValidateToken(ctx context.Context, tokenString string) (uuid.UUID, error) {
	if s.err != nil {
		return uuid.Nil, s.err
	}
	return s.userID, nil
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	serve := func(svc auth.JWTService, header string) (*httptest.ResponseRecorder, *uuid.UUID) {
		var captured *uuid.UUID
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id, ok := GetUserID(r); ok {
				captured = &id
			}
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/plans/current", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		NewAuthMiddleware(svc).Authenticate(next).ServeHTTP(w, req)
		return w, captured
	}

	t.Run("valid token puts user ID in context", func(t *testing.T) {
		t.Parallel()

		w, captured := serve(&stubJWTService{userID: userID}, "Bearer good-token")
		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, captured)
		assert.Equal(t, userID, *captured)
	})

	t.Run("missing header", func(t *testing.T) {
		t.Parallel()

		w, captured := serve(&stubJWTService{userID: userID}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Nil(t, captured)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		t.Parallel()

		w, _ := serve(&stubJWTService{userID: userID}, "Basic dXNlcjpwYXNz")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()

		w, _ := serve(&stubJWTService{err: auth.ErrExpiredToken}, "Bearer old-token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Token expired")
	})

	t.Run("invalid token", func(t *testing.T) {
		t.Parallel()

		w, _ := serve(&stubJWTService{err: auth.ErrInvalidToken}, "Bearer bad-token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unexpected validation failure", func(t *testing.T) {
		t.Parallel()

		w, _ := serve(&stubJWTService{err: errors.New("keystore offline")}, "Bearer token")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "keystore")
	})
}

func TestAuthenticateEndToEnd(t *testing.T) {
	t.Parallel()

	svc, err := auth.NewJWTService("integration-test-secret-at-least-32-chars", time.Hour)
	require.NoError(t, err)

	userID := uuid.New()
	token, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)

	var captured uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = GetUserID(r)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/plans/current", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	NewAuthMiddleware(svc).Authenticate(next).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, captured)
}
