package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/pathwise/pathwise-api/internal/domain"
	"github.com/pathwise/pathwise-api/internal/domain/grading"
	"github.com/pathwise/pathwise-api/internal/generation"
	"github.com/pathwise/pathwise-api/internal/lookup"
	"github.com/pathwise/pathwise-api/internal/progression"
	"github.com/pathwise/pathwise-api/internal/service/auth"
	"github.com/pathwise/pathwise-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"plan not found", store.ErrPlanNotFound, http.StatusNotFound},
		{"day not found", store.ErrDayNotFound, http.StatusNotFound},
		{"plan not owned", progression.ErrPlanNotOwned, http.StatusNotFound},
		{"validation", domain.ErrValidation, http.StatusBadRequest},
		{"invalid id", domain.ErrInvalidID, http.StatusBadRequest},
		{"wrapped invalid id", fmt.Errorf("%w: planID has invalid format", domain.ErrInvalidID), http.StatusBadRequest},
		{"invalid language", domain.ErrInvalidLanguage, http.StatusBadRequest},
		{"day locked", progression.ErrDayLocked, http.StatusBadRequest},
		{"quiz not ready", progression.ErrQuizNotReady, http.StatusBadRequest},
		{"answer mismatch", grading.ErrAnswerCountMismatch, http.StatusBadRequest},
		{"generation quota", generation.ErrQuotaExceeded, http.StatusServiceUnavailable},
		{"lookup quota", lookup.ErrQuotaExceeded, http.StatusServiceUnavailable},
		{"credentials cooling", lookup.ErrAllCredentialsCooling, http.StatusServiceUnavailable},
		{"update conflict", store.ErrUpdateConflict, http.StatusConflict},
		{"generation failed", generation.ErrGenerationFailed, http.StatusBadGateway},
		{"invalid model output", generation.ErrInvalidResponse, http.StatusBadGateway},
		{"content blocked", generation.ErrContentBlocked, http.StatusBadGateway},
		{"wrapped sentinel", fmt.Errorf("context: %w", store.ErrDayNotFound), http.StatusNotFound},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

// A plan the user does not own must produce the same status and message as a
// plan that does not exist, so ownership cannot be probed.
func TestOwnershipFailureIndistinguishableFromMissing(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		MapErrorToStatusCode(store.ErrPlanNotFound),
		MapErrorToStatusCode(progression.ErrPlanNotOwned))
	assert.Equal(t,
		GetSafeErrorMessage(store.ErrPlanNotFound),
		GetSafeErrorMessage(progression.ErrPlanNotOwned))
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "An unexpected error occurred"},
		{"plan not found", store.ErrPlanNotFound, "Plan not found"},
		{"day locked", progression.ErrDayLocked, "Day is locked"},
		{"quota", generation.ErrQuotaExceeded, "Service temporarily unavailable, please retry later"},
		{"conflict", store.ErrUpdateConflict, "The day was updated concurrently, please retry"},
		{"unknown with internals", errors.New("pq: connection refused host=10.0.0.1"), "An unexpected error occurred"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := errors.New(
		"Key: 'CreatePlanRequest.Topic' Error:Field validation for 'Topic' failed on the 'required' tag")
	assert.Equal(t, "Invalid Topic: required field", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("some other error")))
}
