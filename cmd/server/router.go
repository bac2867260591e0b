package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pathwise/pathwise-api/internal/api"
	apiMiddleware "github.com/pathwise/pathwise-api/internal/api/middleware"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	planHandler := api.NewPlanHandler(app.planService)
	dayHandler := api.NewDayHandler(app.contentCache, app.engine)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/plans", planHandler.CreatePlan)
			r.Get("/plans/current", planHandler.GetCurrentPlan)
			r.Get("/plans/{planID}/days/{dayNumber}", dayHandler.GetDay)
			r.Post("/plans/{planID}/days/{dayNumber}/grade", dayHandler.GradeDay)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
