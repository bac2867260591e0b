package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pathwise/pathwise-api/internal/api/shared"
	"github.com/pathwise/pathwise-api/internal/content"
	"github.com/pathwise/pathwise-api/internal/domain"
	"github.com/pathwise/pathwise-api/internal/progression"
	"github.com/pathwise/pathwise-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAssembler struct {
	fn    func(ctx context.Context, userID, planID uuid.UUID, dayNumber int, lang string) (*content.DayContent, error)
	calls int
}

func (f *fakeAssembler) AssembleDayContent(ctx context.Context, userID, planID uuid.UUID, dayNumber int, lang string) (*content.DayContent, error) {
	f.calls++
	return f.fn(ctx, userID, planID, dayNumber, lang)
}

type fakeGrader struct {
	fn    func(ctx context.Context, userID, planID uuid.UUID, dayNumber int, answers []string, resourcesCompleted bool, lang string) (*progression.GradeOutcome, error)
	calls int
}

func (f *fakeGrader) SubmitGrade(ctx context.Context, userID, planID uuid.UUID, dayNumber int, answers []string, resourcesCompleted bool, lang string) (*progression.GradeOutcome, error) {
	f.calls++
	return f.fn(ctx, userID, planID, dayNumber, answers, resourcesCompleted, lang)
}

// dayRouter mounts the handler behind chi so URL params resolve like in
// production.
func dayRouter(h *DayHandler) chi.Router {
	r := chi.NewRouter()
	r.Get("/plans/{planID}/days/{dayNumber}", h.GetDay)
	r.Post("/plans/{planID}/days/{dayNumber}/grade", h.GradeDay)
	return r
}

func TestGetDay(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	planID := uuid.New()

	t.Run("returns assembled content", func(t *testing.T) {
		t.Parallel()

		assembler := &fakeAssembler{
			fn: func(ctx context.Context, gotUser, gotPlan uuid.UUID, dayNumber int, lang string) (*content.DayContent, error) {
				assert.Equal(t, userID, gotUser)
				assert.Equal(t, planID, gotPlan)
				assert.Equal(t, 2, dayNumber)
				assert.Equal(t, "fr", lang)
				return &content.DayContent{
					PlanID:    gotPlan,
					DayNumber: dayNumber,
					Status:    domain.DayStatusReady,
					Lang:      lang,
					Steps:     json.RawMessage(`{"steps":[]}`),
				}, nil
			},
		}
		h := NewDayHandler(assembler, &fakeGrader{})

		req := authedRequest(t, http.MethodGet, "/plans/"+planID.String()+"/days/2?lang=FR", userID, nil)
		w := httptest.NewRecorder()
		dayRouter(h).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp content.DayContent
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, 2, resp.DayNumber)
		assert.Equal(t, "fr", resp.Lang)
	})

	t.Run("defaults language to en", func(t *testing.T) {
		t.Parallel()

		assembler := &fakeAssembler{
			fn: func(ctx context.Context, _, _ uuid.UUID, _ int, lang string) (*content.DayContent, error) {
				assert.Equal(t, "en", lang)
				return &content.DayContent{}, nil
			},
		}
		h := NewDayHandler(assembler, &fakeGrader{})

		req := authedRequest(t, http.MethodGet, "/plans/"+planID.String()+"/days/1", userID, nil)
		w := httptest.NewRecorder()
		dayRouter(h).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects non-numeric day number", func(t *testing.T) {
		t.Parallel()

		assembler := &fakeAssembler{}
		h := NewDayHandler(assembler, &fakeGrader{})

		req := authedRequest(t, http.MethodGet, "/plans/"+planID.String()+"/days/one", userID, nil)
		w := httptest.NewRecorder()
		dayRouter(h).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Zero(t, assembler.calls)
	})

	t.Run("rejects malformed plan ID", func(t *testing.T) {
		t.Parallel()

		h := NewDayHandler(&fakeAssembler{}, &fakeGrader{})

		req := authedRequest(t, http.MethodGet, "/plans/not-a-uuid/days/1", userID, nil)
		w := httptest.NewRecorder()
		dayRouter(h).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	// A foreign plan must be indistinguishable from a missing plan.
	t.Run("foreign plan looks like missing plan", func(t *testing.T) {
		t.Parallel()

		foreign := &fakeAssembler{
			fn: func(ctx context.Context, _, _ uuid.UUID, _ int, _ string) (*content.DayContent, error) {
				return nil, progression.ErrPlanNotOwned
			},
		}
		missing := &fakeAssembler{
			fn: func(ctx context.Context, _, _ uuid.UUID, _ int, _ string) (*content.DayContent, error) {
				return nil, store.ErrPlanNotFound
			},
		}

		serve := func(a *fakeAssembler) *httptest.ResponseRecorder {
			h := NewDayHandler(a, &fakeGrader{})
			req := authedRequest(t, http.MethodGet, "/plans/"+planID.String()+"/days/1", userID, nil)
			w := httptest.NewRecorder()
			dayRouter(h).ServeHTTP(w, req)
			return w
		}

		foreignResp := serve(foreign)
		missingResp := serve(missing)

		assert.Equal(t, http.StatusNotFound, foreignResp.Code)
		assert.Equal(t, missingResp.Code, foreignResp.Code)

		var foreignBody, missingBody shared.ErrorResponse
		require.NoError(t, json.NewDecoder(foreignResp.Body).Decode(&foreignBody))
		require.NoError(t, json.NewDecoder(missingResp.Body).Decode(&missingBody))
		assert.Equal(t, missingBody.Error, foreignBody.Error)
	})

	t.Run("maps locked day to 400", func(t *testing.T) {
		t.Parallel()

		assembler := &fakeAssembler{
			fn: func(ctx context.Context, _, _ uuid.UUID, _ int, _ string) (*content.DayContent, error) {
				return nil, progression.ErrDayLocked
			},
		}
		h := NewDayHandler(assembler, &fakeGrader{})

		req := authedRequest(t, http.MethodGet, "/plans/"+planID.String()+"/days/5", userID, nil)
		w := httptest.NewRecorder()
		dayRouter(h).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects unauthenticated request", func(t *testing.T) {
		t.Parallel()

		h := NewDayHandler(&fakeAssembler{}, &fakeGrader{})

		req := httptest.NewRequest(http.MethodGet, "/plans/"+planID.String()+"/days/1", nil)
		w := httptest.NewRecorder()
		dayRouter(h).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestGradeDay(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	planID := uuid.New()

	gradeURL := "/plans/" + planID.String() + "/days/1/grade"

	t.Run("returns outcome", func(t *testing.T) {
		t.Parallel()

		grader := &fakeGrader{
			fn: func(ctx context.Context, gotUser, gotPlan uuid.UUID, dayNumber int, answers []string, resourcesCompleted bool, lang string) (*progression.GradeOutcome, error) {
				assert.Equal(t, userID, gotUser)
				assert.Equal(t, planID, gotPlan)
				assert.Equal(t, 1, dayNumber)
				assert.Equal(t, []string{"4", "m/s", "e"}, answers)
				assert.True(t, resourcesCompleted)
				assert.Equal(t, "en", lang)
				return &progression.GradeOutcome{Score: 3, Total: 3, Passed: true, Streak: 1, NextDayNumber: 2}, nil
			},
		}
		h := NewDayHandler(&fakeAssembler{}, grader)

		req := authedRequest(t, http.MethodPost, gradeURL, userID, GradeRequest{
			Answers:            []string{"4", "m/s", "e"},
			ResourcesCompleted: true,
		})
		w := httptest.NewRecorder()
		dayRouter(h).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var outcome progression.GradeOutcome
		require.NoError(t, json.NewDecoder(w.Body).Decode(&outcome))
		assert.True(t, outcome.Passed)
		assert.Equal(t, 2, outcome.NextDayNumber)
	})

	t.Run("rejects empty answers without calling engine", func(t *testing.T) {
		t.Parallel()

		grader := &fakeGrader{}
		h := NewDayHandler(&fakeAssembler{}, grader)

		req := authedRequest(t, http.MethodPost, gradeURL, userID, GradeRequest{Answers: []string{}})
		w := httptest.NewRecorder()
		dayRouter(h).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Zero(t, grader.calls)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		t.Parallel()

		h := NewDayHandler(&fakeAssembler{}, &fakeGrader{})

		req := httptest.NewRequest(http.MethodPost, gradeURL, bytes.NewBufferString("nope"))
		req = req.WithContext(context.WithValue(req.Context(), shared.UserIDContextKey, userID))
		w := httptest.NewRecorder()
		dayRouter(h).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("maps update conflict to 409", func(t *testing.T) {
		t.Parallel()

		grader := &fakeGrader{
			fn: func(ctx context.Context, _, _ uuid.UUID, _ int, _ []string, _ bool, _ string) (*progression.GradeOutcome, error) {
				return nil, store.ErrUpdateConflict
			},
		}
		h := NewDayHandler(&fakeAssembler{}, grader)

		req := authedRequest(t, http.MethodPost, gradeURL, userID, GradeRequest{Answers: []string{"a"}})
		w := httptest.NewRecorder()
		dayRouter(h).ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
