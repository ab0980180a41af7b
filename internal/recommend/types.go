// ShopMind - E-Commerce Product Recommendation Platform
// Copyright 2026 ShopMind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmind/shopmind

// Package recommend implements the k-nearest-neighbor collaborative
// filtering engine behind ShopMind's product recommendations.
//
// The engine pivots (user, product, rating) observations into a dense
// interaction matrix, builds a brute-force neighbor index over
// mean-centered row vectors, and answers rating predictions, top-N
// recommendation queries, and similar-user/similar-product lookups.
//
// # Thread Safety
//
// Fitting builds a complete replacement snapshot and swaps it in under
// an exclusive lock. Queries read the current snapshot under a shared
// lock and may run concurrently with each other but never observe a
// half-built model.
package recommend

import "time"

// Mode selects whether similarity is computed between user rating
// profiles or between product rating profiles.
type Mode string

const (
	ModeUserBased Mode = "user_based"
	ModeItemBased Mode = "item_based"
)

// Metric identifies the distance function used by the neighbor index.
type Metric string

const (
	MetricCosine    Metric = "cosine"
	MetricEuclidean Metric = "euclidean"
	MetricManhattan Metric = "manhattan"
)

// RatingRecord is a single (user, product, rating) observation.
// Ratings are strictly positive, in [1, 5].
type RatingRecord struct {
	UserID  int
	ItemID  int
	Rating  float64
	RatedAt time.Time
}

// Config contains the engine's construction parameters.
type Config struct {
	// Mode is user_based or item_based.
	Mode Mode

	// K is the number of neighbors consulted per prediction.
	// Typical range: 5-50.
	K int

	// Metric is the distance function: cosine, euclidean or manhattan.
	Metric Metric

	// MinRatings is the minimum number of ratings a user or product
	// needs to be retained in the interaction matrix.
	MinRatings int
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		Mode:       ModeUserBased,
		K:          5,
		Metric:     MetricCosine,
		MinRatings: 5,
	}
}

// Recommendation is a ranked product with its predicted rating.
type Recommendation struct {
	ItemID          int     `json:"product_id"`
	PredictedRating float64 `json:"predicted_rating"`
}

// SimilarEntity is a user or product with its similarity to the query
// entity.
type SimilarEntity struct {
	ID         int     `json:"id"`
	Similarity float64 `json:"similarity"`
}

// ModelInfo describes the currently fitted model for observability.
type ModelInfo struct {
	Mode          Mode      `json:"mode"`
	Metric        Metric    `json:"metric"`
	K             int       `json:"k"`
	MinRatings    int       `json:"min_ratings"`
	NumUsers      int       `json:"n_users"`
	NumItems      int       `json:"n_items"`
	NumRatings    int       `json:"n_ratings"`
	MatrixDensity float64   `json:"matrix_density"`
	GlobalMean    float64   `json:"global_mean_rating"`
	Version       int       `json:"version"`
	LastTrainedAt time.Time `json:"last_trained_at"`
}

// Rating bounds. Predictions are clipped to this range.
const (
	MinRating = 1.0
	MaxRating = 5.0
)
