// ShopMind - E-Commerce Product Recommendation Platform
// Copyright 2026 ShopMind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmind/shopmind

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shopmind/shopmind/internal/logging"
	"github.com/shopmind/shopmind/internal/metrics"
	"github.com/shopmind/shopmind/internal/models"
)

// GetRecommendations handles GET /api/v1/users/{userID}/recommendations.
// Personalized top-N product ranking; users the model does not know get
// the popularity fallback with fallback: true in the payload.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, err := pathID(chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid user ID", err)
		return
	}

	n, err := countParam(r, "n", h.defaultRecommendations(), h.maxRecommendations())
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	excludeRated := boolParam(r, "exclude_rated", true)
	includeMetadata := boolParam(r, "include_metadata", true)

	recs, fallback, err := h.rec.Recommend(userID, n, excludeRated)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	mode := string(h.rec.Config().Mode)
	metrics.RecordRecommendation(mode)
	if fallback {
		metrics.PopularityFallbacks.Inc()
		logging.Debug().Int("user_id", userID).Msg("Serving popularity fallback for unknown user")
	}

	items := make([]models.RecommendedProduct, 0, len(recs))
	if includeMetadata {
		ids := make([]int, 0, len(recs))
		for _, rec := range recs {
			ids = append(ids, rec.ItemID)
		}
		catalog, err := h.store.GetProductsByIDs(r.Context(), ids)
		if err != nil {
			respondStoreError(w, err, "Failed to load product metadata")
			return
		}
		for _, rec := range recs {
			item := models.RecommendedProduct{
				ProductID:       rec.ItemID,
				PredictedRating: rec.PredictedRating,
			}
			if p, ok := catalog[rec.ItemID]; ok {
				item.Name = p.Name
				item.Category = p.Category
				item.Brand = p.Brand
				item.Price = p.Price
			}
			items = append(items, item)
		}
	} else {
		for _, rec := range recs {
			items = append(items, models.RecommendedProduct{
				ProductID:       rec.ItemID,
				PredictedRating: rec.PredictedRating,
			})
		}
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"user_id":         userID,
		"recommendations": items,
		"count":           len(items),
		"fallback":        fallback,
		"mode":            mode,
	}, start)
}

// GetSimilarUsers handles GET /api/v1/users/{userID}/similar.
// Only answerable by a user_based model.
func (h *Handler) GetSimilarUsers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, err := pathID(chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid user ID", err)
		return
	}

	n, err := countParam(r, "n", h.defaultSimilar(), h.maxSimilar())
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	neighbors, err := h.rec.SimilarUsers(userID, n)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	metrics.RecordSimilarityQuery("user")

	ids := make([]int, 0, len(neighbors))
	for _, nb := range neighbors {
		ids = append(ids, nb.ID)
	}
	known, err := h.store.GetUsersByIDs(r.Context(), ids)
	if err != nil {
		respondStoreError(w, err, "Failed to load user metadata")
		return
	}

	similar := make([]models.SimilarUser, 0, len(neighbors))
	for _, nb := range neighbors {
		su := models.SimilarUser{UserID: nb.ID, Similarity: nb.Similarity}
		if u, ok := known[nb.ID]; ok {
			su.Name = u.Name
		}
		similar = append(similar, su)
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"user_id":       userID,
		"similar_users": similar,
		"count":         len(similar),
	}, start)
}

// GetUserProfile handles GET /api/v1/users/{userID}/profile.
func (h *Handler) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, err := pathID(chi.URLParam(r, "userID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid user ID", err)
		return
	}

	profile, err := h.store.GetUserProfile(r.Context(), userID)
	if err != nil {
		respondStoreError(w, err, "User not found")
		return
	}

	ratings, err := h.store.GetRatingsForUser(r.Context(), userID)
	if err != nil {
		respondStoreError(w, err, "Failed to load user ratings")
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"profile": profile,
		"ratings": ratings,
	}, start)
}
