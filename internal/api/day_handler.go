package api

import (
	"context"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pathwise/pathwise-api/internal/api/shared"
	"github.com/pathwise/pathwise-api/internal/content"
	"github.com/pathwise/pathwise-api/internal/progression"
)

// DayContentAssembler is the slice of the content cache the handler needs.
type DayContentAssembler interface {
	AssembleDayContent(ctx context.Context, userID, planID uuid.UUID, dayNumber int, lang string) (*content.DayContent, error)
}

// GradeSubmitter is the slice of the progression engine the handler needs.
type GradeSubmitter interface {
	SubmitGrade(ctx context.Context, userID, planID uuid.UUID, dayNumber int, answers []string, resourcesCompleted bool, lang string) (*progression.GradeOutcome, error)
}

// GradeRequest represents the request body for grading a day's quiz.
type GradeRequest struct {
	Answers            []string `json:"answers"             validate:"required,min=1"`
	ResourcesCompleted bool     `json:"resources_completed"`
	Lang               string   `json:"lang"                validate:"omitempty,min=2,max=8"`
}

// DayHandler handles day content and grading HTTP requests.
type DayHandler struct {
	assembler DayContentAssembler
	grader    GradeSubmitter
	validator *validator.Validate
}

// NewDayHandler creates a new DayHandler.
func NewDayHandler(assembler DayContentAssembler, grader GradeSubmitter) *DayHandler {
	return &DayHandler{
		assembler: assembler,
		grader:    grader,
		validator: validator.New(),
	}
}

// GetDay handles GET /plans/{planID}/days/{dayNumber} requests. It returns
// the full content of an unlocked day in the requested language, generating
// or translating artifacts on first access.
func (h *DayHandler) GetDay(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	planID, err := getPathUUID(r, "planID")
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	dayNumber, err := getPathInt(r, "dayNumber")
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	dayContent, err := h.assembler.AssembleDayContent(r.Context(), userID, planID, dayNumber, getLangParam(r))
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, dayContent)
}

// GradeDay handles POST /plans/{planID}/days/{dayNumber}/grade requests.
// A passing submission completes the day and unlocks the next one;
// re-submissions on a completed day replay the recorded outcome.
func (h *DayHandler) GradeDay(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	planID, err := getPathUUID(r, "planID")
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	dayNumber, err := getPathInt(r, "dayNumber")
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	var req GradeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	lang := req.Lang
	if lang == "" {
		lang = defaultLang
	}

	outcome, err := h.grader.SubmitGrade(r.Context(), userID, planID, dayNumber, req.Answers, req.ResourcesCompleted, lang)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, outcome)
}
