package api

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router builds the chi router for the server, wiring middleware, metrics
// and all API routes. registry backs the /metrics endpoint.
func (s *Server) Router(registry *prometheus.Registry) chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(requestIDMiddleware)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// API key authentication middleware for protected routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.metrics.InstrumentAuthMiddleware(apiKeyMiddleware(s.config.APIKey)))

		// Health check
		r.Get("/health", s.metrics.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))

		// KV operations
		r.Get("/kv", s.metrics.InstrumentHandler("GET", "/api/v1/kv", s.handleList))
		r.Get("/kv/{key}", s.metrics.InstrumentHandler("GET", "/api/v1/kv/{key}", s.handleGet))
		r.Put("/kv/{key}", s.metrics.InstrumentHandler("PUT", "/api/v1/kv/{key}", s.handleSet))
		r.Delete("/kv/{key}", s.metrics.InstrumentHandler("DELETE", "/api/v1/kv/{key}", s.handleDelete))

		// Persistence and secret management
		r.Post("/save", s.metrics.InstrumentHandler("POST", "/api/v1/save", s.handleSave))
		r.Post("/secret", s.metrics.InstrumentHandler("POST", "/api/v1/secret", s.handleRotateSecret))

		// Diagnostics
		r.Get("/stats", s.metrics.InstrumentHandler("GET", "/api/v1/stats", s.handleStats))
	})

	return r
}

// StartServer starts the HTTP server with all routes configured. It blocks
// until the listener fails.
func StartServer(store IConfigStore, config ServerConfig) error {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	server := NewServer(store, config, metrics)
	metrics.UpdateStoreStats(store.Count())

	addr := fmt.Sprintf("%s:%d", config.Bind, config.Port)
	log.Printf("mconf API listening on %s", addr)

	return http.ListenAndServe(addr, server.Router(registry))
}
