package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pathwise/pathwise-api/internal/api/shared"
	"github.com/pathwise/pathwise-api/internal/domain"
)

// defaultLang is used when a request does not name a language.
const defaultLang = "en"

// getUserIDFromContext extracts the authenticated user's UUID from the
// request context, where the auth middleware placed it.
func getUserIDFromContext(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

// getPathUUID extracts and parses a UUID path parameter.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, fmt.Errorf("%w: %s is required", domain.ErrValidation, paramName)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s has invalid format", domain.ErrInvalidID, paramName)
	}
	return id, nil
}

// getPathInt extracts and parses a positive integer path parameter.
func getPathInt(r *http.Request, paramName string) (int, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return 0, fmt.Errorf("%w: %s is required", domain.ErrValidation, paramName)
	}

	n, err := strconv.Atoi(pathParam)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", domain.ErrValidation, paramName)
	}
	return n, nil
}

// getLangParam reads the lang query parameter, falling back to defaultLang.
func getLangParam(r *http.Request) string {
	lang := domain.NormalizeLang(r.URL.Query().Get("lang"))
	if lang == "" {
		return defaultLang
	}
	return lang
}

// respondWithMappedError maps an internal error to a status code and safe
// message and writes the response.
func respondWithMappedError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err)
}
