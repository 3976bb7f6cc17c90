package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/maksimkurb/hostconf/src/internal/domain"
)

// NewRouter creates a new HTTP router with all API endpoints.
func NewRouter(deps *domain.AppDependencies, version VersionInfo) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(Recovery)
	r.Use(Logger)
	r.Use(JSONContentType)

	// Create handler
	h := NewHandler(deps.ConfigService(), deps.Interfaces(), version)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/services/{kind}", func(r chi.Router) {
			r.Get("/config", h.GetConfig)
			r.Put("/config", h.PutConfig)
			r.Post("/validate", h.ValidateConfig)
			r.Post("/preview", h.PreviewConfig)
			r.Get("/status", h.GetServiceStatus)
			r.Post("/actions/{action}", h.ControlService)
			r.Get("/backups", h.GetBackups)
		})

		// Status of every managed service
		r.Get("/status", h.GetStatus)

		// Interfaces endpoint
		r.Get("/interfaces", h.GetInterfaces)
	})

	r.Get("/health", h.CheckHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
