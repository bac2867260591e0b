package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pathwise/pathwise-api/internal/domain"
	"github.com/pathwise/pathwise-api/internal/domain/grading"
	"github.com/pathwise/pathwise-api/internal/generation"
	"github.com/pathwise/pathwise-api/internal/lookup"
	"github.com/pathwise/pathwise-api/internal/progression"
	"github.com/pathwise/pathwise-api/internal/service"
	"github.com/pathwise/pathwise-api/internal/service/auth"
	"github.com/pathwise/pathwise-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types or messages to clients.
//
// Ownership failures map to 404, not 403: a plan a user does not own must be
// indistinguishable from a plan that does not exist.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Not found, including ownership failures
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, progression.ErrPlanNotOwned):
		return http.StatusNotFound

	// Invalid arguments
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidLanguage),
		errors.Is(err, domain.ErrInvalidArtifactType),
		errors.Is(err, grading.ErrAnswerCountMismatch),
		errors.Is(err, grading.ErrNoQuestions),
		errors.Is(err, progression.ErrDayLocked),
		errors.Is(err, progression.ErrQuizNotReady),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Provider quota exhausted: the request may succeed later
	case errors.Is(err, generation.ErrQuotaExceeded),
		errors.Is(err, lookup.ErrQuotaExceeded),
		errors.Is(err, lookup.ErrAllCredentialsCooling):
		return http.StatusServiceUnavailable

	// Concurrent update lost the optimistic check
	case errors.Is(err, store.ErrUpdateConflict),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Upstream model produced garbage or failed outright
	case errors.Is(err, generation.ErrGenerationFailed),
		errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrContentBlocked),
		errors.Is(err, generation.ErrProviderFailure):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly message for the
// error. Internal details never reach the client.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"

	case errors.Is(err, store.ErrPlanNotFound),
		errors.Is(err, progression.ErrPlanNotOwned):
		return "Plan not found"

	case errors.Is(err, store.ErrDayNotFound):
		return "Day not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrNotFound):
		return "Not found"

	case errors.Is(err, progression.ErrDayLocked):
		return "Day is locked"

	case errors.Is(err, progression.ErrQuizNotReady):
		return "Quiz has not been generated for this day yet"

	case errors.Is(err, grading.ErrAnswerCountMismatch):
		return "Answer count does not match the quiz"

	case errors.Is(err, service.ErrInvalidDayCount):
		return "Day count is out of range"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid identifier"

	case errors.Is(err, domain.ErrInvalidLanguage):
		return "Invalid language code"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	case errors.Is(err, generation.ErrQuotaExceeded),
		errors.Is(err, lookup.ErrQuotaExceeded),
		errors.Is(err, lookup.ErrAllCredentialsCooling):
		return "Service temporarily unavailable, please retry later"

	case errors.Is(err, store.ErrUpdateConflict):
		return "The day was updated concurrently, please retry"

	case errors.Is(err, generation.ErrGenerationFailed),
		errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrContentBlocked),
		errors.Is(err, generation.ErrProviderFailure):
		return "Content generation failed"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes internal details from validator errors and
// returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example: "Key: 'CreatePlanRequest.Topic' Error:Field validation for 'Topic' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, validationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
