package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/sungwon/mailvet/internal/auth"
)

// NewRouter creates a chi.Mux with all routes, middleware, and handlers
// configured. The pinger is optional; pass nil when the job store has
// no external dependency to check.
func NewRouter(svc *Service, keys *auth.Keychain, pinger Pinger, log zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(CorrelationIDMiddleware)
	r.Use(LoggingMiddleware(log))
	r.Use(RecoverMiddleware(log))

	// Operational endpoints (no auth required)
	r.Get("/healthz", HealthzHandler())
	r.Get("/readyz", ReadyzHandler(pinger))
	r.Handle("/metrics", promhttp.Handler())

	// API routes (auth required)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.BearerAuth(keys))

		r.Post("/validations", StartValidationHandler(svc))
		r.Get("/validations/{id}", GetValidationHandler(svc))
		r.Get("/validations/{id}/report", GetValidationReportHandler(svc))
	})

	return r
}
