package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/user/careerscan/internal/delivery/http/handler"
	"github.com/user/careerscan/internal/delivery/http/middleware"
)

func New(h *handler.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)
	r.Use(chimiddleware.Recoverer)

	r.Get("/api/health", h.HandleHealthCheck)

	r.Route("/api/search", func(r chi.Router) {
		r.Post("/", h.HandleSubmitSearch)
		r.Get("/{id}", h.HandleGetSearch)
		r.Get("/{id}/results", h.HandleGetResults)
		r.Get("/{id}/failures", h.HandleGetFailures)
		r.Get("/{id}/download", h.HandleDownload)
	})

	// Prometheus metrics endpoint
	r.Handle("/metrics", promhttp.Handler())

	return r
}
