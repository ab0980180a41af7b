// ShopMind - E-Commerce Product Recommendation Platform
// Copyright 2026 ShopMind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmind/shopmind

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shopmind/shopmind/internal/config"
	"github.com/shopmind/shopmind/internal/metrics"
	"github.com/shopmind/shopmind/internal/middleware"
)

// NewRouter assembles the chi route tree. Global middleware first
// (request IDs, panic recovery, CORS, gzip), then the /api/v1 group
// with per-IP rate limiting and Prometheus instrumentation. /metrics
// is served outside the group so scrapes are never rate limited.
func NewRouter(h *Handler, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(corsHandler(cfg))
	r.Use(middleware.Compression)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.PrometheusMetrics)
		api.Use(h.perfMon.Middleware)

		// Probes get a lax limit so orchestrators are never throttled.
		api.Group(func(health chi.Router) {
			health.Use(rateLimiter(1000, time.Minute))
			health.Get("/health", h.Health)
			health.Get("/health/live", h.HealthLive)
			health.Get("/health/ready", h.HealthReady)
		})

		api.Group(func(v1 chi.Router) {
			v1.Use(rateLimiter(requestLimit(cfg)))

			v1.Get("/stats", h.Stats)
			v1.Get("/model", h.Model)
			v1.Get("/performance", h.Performance)

			v1.Get("/users/{userID}/recommendations", h.GetRecommendations)
			v1.Get("/users/{userID}/similar", h.GetSimilarUsers)
			v1.Get("/users/{userID}/profile", h.GetUserProfile)

			v1.Get("/products/popular", h.GetPopularProducts)
			v1.Get("/products/{productID}/similar", h.GetSimilarProducts)

			v1.Post("/predict", h.Predict)
			v1.Post("/ratings", h.Rate)
			v1.Post("/train", h.Train)
		})
	})

	return r
}

// requestLimit resolves the configured rate limit with safe defaults.
func requestLimit(cfg *config.Config) (int, time.Duration) {
	reqs, window := 100, time.Minute
	if cfg != nil {
		if cfg.Server.RateLimitReqs > 0 {
			reqs = cfg.Server.RateLimitReqs
		}
		if cfg.Server.RateLimitWindow > 0 {
			window = cfg.Server.RateLimitWindow
		}
	}
	return reqs, window
}

// rateLimiter builds a per-IP limiter that answers 429 in the standard
// error envelope and counts the hit.
func rateLimiter(reqs int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(reqs, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.APIRateLimitHits.WithLabelValues(r.URL.Path).Inc()
			respondError(w, http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED",
				"Too many requests, slow down", nil)
		}),
	)
}

// corsHandler builds the CORS middleware from configured origins.
// No configured origins means same-origin deployments only.
func corsHandler(cfg *config.Config) func(http.Handler) http.Handler {
	var origins []string
	if cfg != nil {
		origins = cfg.Server.CORSOrigins
	}
	if len(origins) == 0 {
		origins = []string{""}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}
