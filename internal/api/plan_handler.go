package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pathwise/pathwise-api/internal/api/shared"
	"github.com/pathwise/pathwise-api/internal/domain"
	"github.com/pathwise/pathwise-api/internal/service"
)

// PlanCreator is the slice of the plan service the handler needs.
type PlanCreator interface {
	CreatePlan(ctx context.Context, userID uuid.UUID, topic string, dayCount int, lang string) (*domain.Plan, error)
	GetCurrentPlan(ctx context.Context, userID uuid.UUID) (*service.PlanSummary, error)
}

// CreatePlanRequest represents the request body for creating a new plan.
type CreatePlanRequest struct {
	Topic    string `json:"topic"     validate:"required,min=1,max=200"`
	DayCount int    `json:"day_count" validate:"required,min=1,max=30"`
	Lang     string `json:"lang"      validate:"omitempty,min=2,max=8"`
}

// PlanResponse represents the response data for a created plan.
type PlanResponse struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	DayCount  int       `json:"day_count"`
	CreatedAt time.Time `json:"created_at"`
}

// PlanHandler handles plan-related HTTP requests.
type PlanHandler struct {
	planService PlanCreator
	validator   *validator.Validate
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService PlanCreator) *PlanHandler {
	return &PlanHandler{
		planService: planService,
		validator:   validator.New(),
	}
}

// CreatePlan handles POST /plans requests.
func (h *PlanHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreatePlanRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	lang := domain.NormalizeLang(req.Lang)
	if lang == "" {
		lang = defaultLang
	}

	plan, err := h.planService.CreatePlan(r.Context(), userID, req.Topic, req.DayCount, lang)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, planToResponse(plan))
}

// GetCurrentPlan handles GET /plans/current requests. It returns the user's
// most recent plan with per-day progression state and no artifact bodies.
func (h *PlanHandler) GetCurrentPlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	summary, err := h.planService.GetCurrentPlan(r.Context(), userID)
	if err != nil {
		respondWithMappedError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}

func planToResponse(plan *domain.Plan) PlanResponse {
	return PlanResponse{
		ID:        plan.ID.String(),
		Topic:     plan.Topic,
		DayCount:  plan.DayCount,
		CreatedAt: plan.CreatedAt,
	}
}
