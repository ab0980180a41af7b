// ShopMind - E-Commerce Product Recommendation Platform
// Copyright 2026 ShopMind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmind/shopmind

package recommend

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/shopmind/shopmind/internal/logging"
)

// Recommender is the KNN collaborative filtering engine.
//
// A fit builds a complete snapshot (matrix, means, neighbor index) off
// to the side and publishes it under the write lock as the last step,
// so a failed refit leaves the previous model serving and readers
// never see partial state.
type Recommender struct {
	cfg Config

	mu            sync.RWMutex
	snap          *snapshot
	version       int
	lastTrainedAt time.Time
}

// snapshot is the immutable fitted state. All query logic lives on
// snapshot methods so it cannot accidentally touch mutable Recommender
// fields.
type snapshot struct {
	cfg    Config
	matrix *interactionMatrix
	index  *neighborIndex
}

// NewRecommender validates the configuration and returns an untrained
// engine.
func NewRecommender(cfg Config) (*Recommender, error) {
	switch cfg.Mode {
	case ModeUserBased, ModeItemBased:
	default:
		return nil, fmt.Errorf("unknown mode %q: %w", cfg.Mode, ErrInvalidConfig)
	}
	switch cfg.Metric {
	case MetricCosine, MetricEuclidean, MetricManhattan:
	default:
		return nil, fmt.Errorf("unknown metric %q: %w", cfg.Metric, ErrInvalidConfig)
	}
	if cfg.K < 1 {
		return nil, fmt.Errorf("k must be >= 1, got %d: %w", cfg.K, ErrInvalidConfig)
	}
	if cfg.MinRatings < 1 {
		return nil, fmt.Errorf("min ratings must be >= 1, got %d: %w", cfg.MinRatings, ErrInvalidConfig)
	}
	return &Recommender{cfg: cfg}, nil
}

// Config returns the construction parameters.
func (r *Recommender) Config() Config {
	return r.cfg
}

// IsTrained reports whether a fit has completed successfully.
func (r *Recommender) IsTrained() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap != nil
}

// Fit rebuilds the model from the full rating table. On error the
// previously fitted model, if any, keeps serving.
func (r *Recommender) Fit(records []RatingRecord) (ModelInfo, error) {
	start := time.Now()

	matrix, err := buildInteractionMatrix(records, r.cfg.MinRatings)
	if err != nil {
		return ModelInfo{}, fmt.Errorf("fit: %w", err)
	}

	var vectors [][]float64
	if r.cfg.Mode == ModeUserBased {
		vectors = matrix.centeredUserRows()
	} else {
		vectors = matrix.centeredItemRows()
	}

	snap := &snapshot{
		cfg:    r.cfg,
		matrix: matrix,
		index:  newNeighborIndex(vectors, r.cfg.Metric),
	}

	r.mu.Lock()
	r.snap = snap
	r.version++
	r.lastTrainedAt = time.Now()
	info := r.modelInfoLocked()
	r.mu.Unlock()

	logging.Info().
		Str("mode", string(r.cfg.Mode)).
		Str("metric", string(r.cfg.Metric)).
		Int("users", info.NumUsers).
		Int("products", info.NumItems).
		Int("ratings", info.NumRatings).
		Float64("density", info.MatrixDensity).
		Dur("elapsed", time.Since(start)).
		Msg("Recommendation model fitted")

	return info, nil
}

// Predict returns the predicted rating for a (user, product) pair,
// always within [1, 5]. Unknown users or products take the cold path
// and return the global mean rather than an error.
func (r *Recommender) Predict(userID, itemID int) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.snap == nil {
		return 0, ErrNotFitted
	}
	return r.snap.predict(userID, itemID), nil
}

// Recommend returns the top n products for a user ordered by predicted
// rating descending, product id ascending on ties. Users unknown to
// the model get the popularity fallback ranking instead; the second
// return value reports whether that fallback was taken, decided on the
// same snapshot that served the query.
func (r *Recommender) Recommend(userID, n int, excludeRated bool) ([]Recommendation, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.snap == nil {
		return nil, false, ErrNotFitted
	}
	recs, fallback := r.snap.recommend(userID, n, excludeRated)
	return recs, fallback, nil
}

// SimilarUsers returns up to n users most similar to the given user.
// Valid only for user-based models; unknown users yield an empty list.
func (r *Recommender) SimilarUsers(userID, n int) ([]SimilarEntity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.snap == nil {
		return nil, ErrNotFitted
	}
	if r.cfg.Mode != ModeUserBased {
		return nil, fmt.Errorf("similar users require a user_based model: %w", ErrModeMismatch)
	}
	return r.snap.similar(r.snap.matrix.userIdx, r.snap.matrix.userIDs, userID, n), nil
}

// SimilarItems returns up to n products most similar to the given
// product. Valid only for item-based models; unknown products yield an
// empty list.
func (r *Recommender) SimilarItems(itemID, n int) ([]SimilarEntity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.snap == nil {
		return nil, ErrNotFitted
	}
	if r.cfg.Mode != ModeItemBased {
		return nil, fmt.Errorf("similar products require an item_based model: %w", ErrModeMismatch)
	}
	return r.snap.similar(r.snap.matrix.itemIdx, r.snap.matrix.itemIDs, itemID, n), nil
}

// ModelInfo describes the fitted model.
func (r *Recommender) ModelInfo() (ModelInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.snap == nil {
		return ModelInfo{}, ErrNotFitted
	}
	return r.modelInfoLocked(), nil
}

// modelInfoLocked requires r.mu held (read or write) and r.snap non-nil.
func (r *Recommender) modelInfoLocked() ModelInfo {
	m := r.snap.matrix
	return ModelInfo{
		Mode:          r.cfg.Mode,
		Metric:        r.cfg.Metric,
		K:             r.cfg.K,
		MinRatings:    r.cfg.MinRatings,
		NumUsers:      len(m.userIDs),
		NumItems:      len(m.itemIDs),
		NumRatings:    m.numRatings,
		MatrixDensity: m.density(),
		GlobalMean:    m.globalMean,
		Version:       r.version,
		LastTrainedAt: r.lastTrainedAt,
	}
}

// ========== Query implementation (immutable snapshot) ==========

func (s *snapshot) predict(userID, itemID int) float64 {
	if s.cfg.Mode == ModeUserBased {
		return s.predictUserBased(userID, itemID)
	}
	return s.predictItemBased(userID, itemID)
}

func (s *snapshot) predictUserBased(userID, itemID int) float64 {
	m := s.matrix
	ui, uok := m.userIdx[userID]
	ii, iok := m.itemIdx[itemID]
	if !uok || !iok {
		return m.globalMean
	}

	// First hit is the query user itself.
	hits := s.index.queryRow(ui, s.effectiveK())
	hits = hits[1:]

	var weightedSum, weightSum float64
	contributed := false
	for _, h := range hits {
		original := m.ratings[h.Index][ii]
		if original == 0 {
			continue
		}
		centered := original - m.userMeans[h.Index]
		w := s.cfg.Metric.similarity(h.Distance)
		weightedSum += w * centered
		weightSum += w
		contributed = true
	}

	if !contributed || weightSum == 0 {
		return m.globalMean
	}
	return clipRating(m.userMeans[ui] + weightedSum/weightSum)
}

func (s *snapshot) predictItemBased(userID, itemID int) float64 {
	m := s.matrix
	ui, uok := m.userIdx[userID]
	ii, iok := m.itemIdx[itemID]
	if !uok || !iok {
		return m.globalMean
	}

	// Neighbors are products here; the contribution is the query
	// user's own rating of each neighbor product.
	hits := s.index.queryRow(ii, s.effectiveK())
	hits = hits[1:]

	var weightedSum, weightSum float64
	contributed := false
	for _, h := range hits {
		original := m.ratings[ui][h.Index]
		if original == 0 {
			continue
		}
		centered := original - m.itemMeans[h.Index]
		w := s.cfg.Metric.similarity(h.Distance)
		weightedSum += w * centered
		weightSum += w
		contributed = true
	}

	if !contributed || weightSum == 0 {
		return m.globalMean
	}
	return clipRating(m.itemMeans[ii] + weightedSum/weightSum)
}

func (s *snapshot) recommend(userID, n int, excludeRated bool) ([]Recommendation, bool) {
	m := s.matrix
	ui, known := m.userIdx[userID]
	if !known {
		return s.popularItems(n), true
	}

	recs := make([]Recommendation, 0, len(m.itemIDs))
	for col, itemID := range m.itemIDs {
		if excludeRated && m.userRated(ui, col) {
			continue
		}
		recs = append(recs, Recommendation{
			ItemID:          itemID,
			PredictedRating: s.predict(userID, itemID),
		})
	}

	sort.Slice(recs, func(a, b int) bool {
		if recs[a].PredictedRating != recs[b].PredictedRating {
			return recs[a].PredictedRating > recs[b].PredictedRating
		}
		// Predictions collide exactly at the clip boundaries, so sort
		// stability alone would not make the order deterministic.
		return recs[a].ItemID < recs[b].ItemID
	})

	if n < len(recs) {
		recs = recs[:n]
	}
	return recs, false
}

// popularItems ranks every rated product by mean rating damped by the
// log of the rating count, so one five-star outlier cannot outrank a
// broadly validated product. Depends only on the rating table, never
// on k or the metric.
func (s *snapshot) popularItems(n int) []Recommendation {
	m := s.matrix

	recs := make([]Recommendation, 0, len(m.itemIDs))
	for col, itemID := range m.itemIDs {
		var sum float64
		var count int
		for row := range m.ratings {
			if v := m.ratings[row][col]; v != 0 {
				sum += v
				count++
			}
		}
		if count == 0 {
			continue
		}
		popularity := (sum / float64(count)) * math.Log(1+float64(count))
		recs = append(recs, Recommendation{ItemID: itemID, PredictedRating: popularity})
	}

	sort.Slice(recs, func(a, b int) bool {
		if recs[a].PredictedRating != recs[b].PredictedRating {
			return recs[a].PredictedRating > recs[b].PredictedRating
		}
		return recs[a].ItemID < recs[b].ItemID
	})

	if n < len(recs) {
		recs = recs[:n]
	}
	return recs
}

// similar resolves a neighbor query for whichever axis the model was
// fitted on. Unknown ids return an empty list, not an error.
func (s *snapshot) similar(idx map[int]int, ids []int, id, n int) []SimilarEntity {
	row, ok := idx[id]
	if !ok {
		return []SimilarEntity{}
	}

	hits := s.index.queryRow(row, s.effectiveK())
	hits = hits[1:]

	out := make([]SimilarEntity, 0, len(hits))
	for _, h := range hits {
		out = append(out, SimilarEntity{
			ID:         ids[h.Index],
			Similarity: s.cfg.Metric.similarity(h.Distance),
		})
	}

	if n < len(out) {
		out = out[:n]
	}
	return out
}

// effectiveK is the internal neighbor count: one extra so the query
// point can be dropped after retrieval, capped by the population.
func (s *snapshot) effectiveK() int {
	k := s.cfg.K + 1
	if size := s.index.size(); k > size {
		k = size
	}
	return k
}

func clipRating(v float64) float64 {
	if v < MinRating {
		return MinRating
	}
	if v > MaxRating {
		return MaxRating
	}
	return v
}
