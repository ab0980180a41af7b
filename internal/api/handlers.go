// ShopMind - E-Commerce Product Recommendation Platform
// Copyright 2026 ShopMind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmind/shopmind

// Package api exposes the recommendation service over HTTP.
//
// All endpoints live under /api/v1 and answer with the
// models.APIResponse envelope. Handler methods are split across files:
//
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: response and parameter helpers
//   - handlers_health.go: health, stats and model endpoints
//   - handlers_users.go: per-user recommendation endpoints
//   - handlers_products.go: product similarity and popularity
//   - handlers_ratings.go: rating ingestion, prediction, training
//   - router.go: chi route tree and middleware stack
package api

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/shopmind/shopmind/internal/cache"
	"github.com/shopmind/shopmind/internal/config"
	"github.com/shopmind/shopmind/internal/middleware"
	"github.com/shopmind/shopmind/internal/recommend"
	"github.com/shopmind/shopmind/internal/store"
)

// TrainFunc retrains the model from the current rating table. The
// trainer service provides the implementation so manual /train requests
// share its metrics and gauge updates.
type TrainFunc func(ctx context.Context) (recommend.ModelInfo, error)

// Handler carries the dependencies shared by all API handlers.
type Handler struct {
	store     *store.Store
	rec       *recommend.Recommender
	cfg       *config.Config
	train     TrainFunc
	cache     *cache.Cache
	perfMon   *middleware.PerformanceMonitor
	startTime time.Time
	training  atomic.Bool
}

// NewHandler creates the API handler. train may be nil, in which case
// POST /api/v1/train responds 503.
func NewHandler(st *store.Store, rec *recommend.Recommender, cfg *config.Config, train TrainFunc) *Handler {
	return &Handler{
		store:     st,
		rec:       rec,
		cfg:       cfg,
		train:     train,
		cache:     cache.New(time.Minute),
		perfMon:   middleware.NewPerformanceMonitor(1000),
		startTime: time.Now(),
	}
}

// maxRecommendations returns the configured upper bound for the n
// parameter on recommendation endpoints.
func (h *Handler) maxRecommendations() int {
	if h.cfg != nil && h.cfg.API.MaxRecommendations > 0 {
		return h.cfg.API.MaxRecommendations
	}
	return 100
}

func (h *Handler) defaultRecommendations() int {
	if h.cfg != nil && h.cfg.API.DefaultRecommendations > 0 {
		return h.cfg.API.DefaultRecommendations
	}
	return 10
}

func (h *Handler) maxSimilar() int {
	if h.cfg != nil && h.cfg.API.MaxSimilar > 0 {
		return h.cfg.API.MaxSimilar
	}
	return 50
}

func (h *Handler) defaultSimilar() int {
	if h.cfg != nil && h.cfg.API.DefaultSimilar > 0 {
		return h.cfg.API.DefaultSimilar
	}
	return 10
}
