// ShopMind - E-Commerce Product Recommendation Platform
// Copyright 2026 ShopMind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmind/shopmind

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/shopmind/shopmind/internal/logging"
	"github.com/shopmind/shopmind/internal/metrics"
	"github.com/shopmind/shopmind/internal/models"
)

// Predict handles POST /api/v1/predict: a single rating prediction for
// a (user, product) pair. Unknown users or products take the cold path
// and get the global mean, still a 200.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.PredictRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	predicted, err := h.rec.Predict(req.UserID, req.ProductID)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	metrics.RecordPrediction(string(h.rec.Config().Mode))

	respondSuccess(w, http.StatusOK, models.PredictResponse{
		UserID:          req.UserID,
		ProductID:       req.ProductID,
		PredictedRating: predicted,
	}, start)
}

// Rate handles POST /api/v1/ratings: records or replaces one user's
// rating of a product. Both sides of the pair must exist; the new value
// reaches the model on the next retrain.
func (h *Handler) Rate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req models.RateRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	if _, err := h.store.GetUser(r.Context(), req.UserID); err != nil {
		respondStoreError(w, err, "User not found")
		return
	}
	if _, err := h.store.GetProduct(r.Context(), req.ProductID); err != nil {
		respondStoreError(w, err, "Product not found")
		return
	}

	rating := models.Rating{
		UserID:    req.UserID,
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Review:    req.Review,
		Timestamp: time.Now().UTC(),
	}
	if err := h.store.UpsertRating(r.Context(), &rating); err != nil {
		respondStoreError(w, err, "Failed to store rating")
		return
	}

	// The popularity ranking is derived from the rating table.
	h.cache.Clear()

	respondSuccess(w, http.StatusCreated, rating, start)
}

// Train handles POST /api/v1/train: kicks off a full retrain in the
// background. A second request while one is running gets 409.
func (h *Handler) Train(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.train == nil {
		respondError(w, http.StatusServiceUnavailable, "TRAINING_UNAVAILABLE",
			"Training is not wired up on this instance", nil)
		return
	}

	if !h.training.CompareAndSwap(false, true) {
		respondError(w, http.StatusConflict, "TRAINING_IN_PROGRESS",
			"Training is already in progress", nil)
		return
	}

	go func() {
		defer h.training.Store(false)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		info, err := h.train(ctx)
		if err != nil {
			logging.Error().Err(err).Msg("Manual training failed")
			return
		}
		logging.Info().
			Int("version", info.Version).
			Int("n_users", info.NumUsers).
			Int("n_products", info.NumItems).
			Msg("Manual training completed")
	}()

	respondSuccess(w, http.StatusAccepted, map[string]string{
		"message": "Training started",
	}, start)
}
