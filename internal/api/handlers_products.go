// ShopMind - E-Commerce Product Recommendation Platform
// Copyright 2026 ShopMind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmind/shopmind

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shopmind/shopmind/internal/cache"
	"github.com/shopmind/shopmind/internal/metrics"
	"github.com/shopmind/shopmind/internal/models"
)

// GetSimilarProducts handles GET /api/v1/products/{productID}/similar.
// Only answerable by an item_based model.
func (h *Handler) GetSimilarProducts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	productID, err := pathID(chi.URLParam(r, "productID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid product ID", err)
		return
	}

	n, err := countParam(r, "n", h.defaultSimilar(), h.maxSimilar())
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	neighbors, err := h.rec.SimilarItems(productID, n)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	metrics.RecordSimilarityQuery("product")

	ids := make([]int, 0, len(neighbors))
	for _, nb := range neighbors {
		ids = append(ids, nb.ID)
	}
	catalog, err := h.store.GetProductsByIDs(r.Context(), ids)
	if err != nil {
		respondStoreError(w, err, "Failed to load product metadata")
		return
	}

	similar := make([]models.SimilarProduct, 0, len(neighbors))
	for _, nb := range neighbors {
		sp := models.SimilarProduct{ProductID: nb.ID, Similarity: nb.Similarity}
		if p, ok := catalog[nb.ID]; ok {
			sp.Name = p.Name
			sp.Category = p.Category
		}
		similar = append(similar, sp)
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"product_id":       productID,
		"similar_products": similar,
		"count":            len(similar),
	}, start)
}

// GetPopularProducts handles GET /api/v1/products/popular.
// Ranking is mean rating scaled by ln(1 + rating count), computed in
// SQL over the full rating table.
func (h *Handler) GetPopularProducts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	n, err := countParam(r, "n", h.defaultRecommendations(), h.maxRecommendations())
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	// The ranking scans the whole rating table; cache it briefly.
	key := cache.GenerateKey("products:popular", n)
	if cached, ok := h.cache.Get(key); ok {
		if popular, ok := cached.([]models.PopularProduct); ok {
			respondSuccess(w, http.StatusOK, map[string]interface{}{
				"products": popular,
				"count":    len(popular),
				"cached":   true,
			}, start)
			return
		}
	}

	popular, err := h.store.GetPopularProducts(r.Context(), n)
	if err != nil {
		respondStoreError(w, err, "Failed to rank popular products")
		return
	}
	h.cache.Set(key, popular)

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"products": popular,
		"count":    len(popular),
	}, start)
}
