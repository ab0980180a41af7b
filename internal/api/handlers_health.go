// ShopMind - E-Commerce Product Recommendation Platform
// Copyright 2026 ShopMind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmind/shopmind

package api

import (
	"net/http"
	"time"

	"github.com/shopmind/shopmind/internal/middleware"
	"github.com/shopmind/shopmind/internal/recommend"
)

// Health handles GET /api/v1/health.
// Degraded when the database is unreachable or the model is untrained;
// the process still answers so operators can see which half is down.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	dbConnected := h.store != nil && h.store.Ping(r.Context()) == nil
	modelTrained := h.rec != nil && h.rec.IsTrained()

	status := "healthy"
	if !dbConnected || !modelTrained {
		status = "degraded"
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"status":             status,
		"database_connected": dbConnected,
		"model_trained":      modelTrained,
		"uptime_seconds":     time.Since(h.startTime).Seconds(),
	}, start)
}

// HealthLive handles GET /api/v1/health/live (Kubernetes-style).
// Returns 200 OK if the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"alive":          true,
		"uptime_seconds": time.Since(h.startTime).Seconds(),
	}, start)
}

// HealthReady handles GET /api/v1/health/ready (Kubernetes-style).
// Ready means the database answers and a model has been fitted, so
// recommendation traffic will not be bounced with MODEL_NOT_READY.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	dbConnected := h.store != nil && h.store.Ping(r.Context()) == nil
	modelTrained := h.rec != nil && h.rec.IsTrained()
	ready := dbConnected && modelTrained

	statusCode := http.StatusOK
	if !ready {
		statusCode = http.StatusServiceUnavailable
	}

	respondSuccess(w, statusCode, map[string]interface{}{
		"ready":              ready,
		"database_connected": dbConnected,
		"model_trained":      modelTrained,
	}, start)
}

// Stats handles GET /api/v1/stats: store row counts plus the fitted
// model description when one exists.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	stats, err := h.store.GetStats(r.Context())
	if err != nil {
		respondStoreError(w, err, "Failed to read store statistics")
		return
	}

	var model *recommend.ModelInfo
	if info, err := h.rec.ModelInfo(); err == nil {
		model = &info
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"store": stats,
		"model": model,
	}, start)
}

// Model handles GET /api/v1/model: the fitted model description.
func (h *Handler) Model(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	info, err := h.rec.ModelInfo()
	if err != nil {
		respondEngineError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, info, start)
}

// Performance handles GET /api/v1/performance: per-endpoint latency
// percentiles from the in-process monitor.
func (h *Handler) Performance(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	stats := h.perfMon.GetStats()
	if stats == nil {
		stats = []middleware.EndpointStats{}
	}

	cacheStats := h.cache.GetStats()

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"endpoints": stats,
		"cache": map[string]interface{}{
			"hits":       cacheStats.Hits,
			"misses":     cacheStats.Misses,
			"evictions":  cacheStats.Evictions,
			"total_keys": cacheStats.TotalKeys,
			"hit_rate":   h.cache.HitRate(),
		},
	}, start)
}
