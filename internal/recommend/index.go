// ShopMind - E-Commerce Product Recommendation Platform
// Copyright 2026 ShopMind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmind/shopmind

package recommend

import (
	"math"
	"sort"
)

// neighborHit is one result of a nearest-neighbor query.
type neighborHit struct {
	Index    int
	Distance float64
}

// neighborIndex is a brute-force nearest-neighbor search over the
// centered row vectors. Exact search keeps results deterministic;
// approximate structures trade that away for speed the matrix sizes
// here do not need.
type neighborIndex struct {
	vectors [][]float64
	metric  Metric
}

func newNeighborIndex(vectors [][]float64, metric Metric) *neighborIndex {
	return &neighborIndex{vectors: vectors, metric: metric}
}

func (ix *neighborIndex) size() int {
	return len(ix.vectors)
}

// queryRow returns the n nearest rows to the fitted row at the given
// index, ascending by distance, the query row itself first. Distance
// ties order the query row ahead of everything else and remaining rows
// by ascending row index, which makes repeated queries deterministic.
func (ix *neighborIndex) queryRow(row, n int) []neighborHit {
	hits := make([]neighborHit, 0, len(ix.vectors))
	q := ix.vectors[row]
	for i, v := range ix.vectors {
		// The query row is exactly distance 0 from itself. Computing it
		// would leave cosine rounding noise (~1e-16) that can sort a
		// parallel neighbor ahead of the row itself.
		if i == row {
			hits = append(hits, neighborHit{Index: i, Distance: 0})
			continue
		}
		hits = append(hits, neighborHit{Index: i, Distance: ix.metric.distance(q, v)})
	}

	sort.Slice(hits, func(a, b int) bool {
		if hits[a].Distance != hits[b].Distance {
			return hits[a].Distance < hits[b].Distance
		}
		if hits[a].Index == row {
			return true
		}
		if hits[b].Index == row {
			return false
		}
		return hits[a].Index < hits[b].Index
	})

	if n < len(hits) {
		hits = hits[:n]
	}
	return hits
}

// distance computes the metric's distance between two equal-length
// vectors.
func (m Metric) distance(a, b []float64) float64 {
	switch m {
	case MetricEuclidean:
		var sum float64
		for i := range a {
			d := a[i] - b[i]
			sum += d * d
		}
		return math.Sqrt(sum)
	case MetricManhattan:
		var sum float64
		for i := range a {
			sum += math.Abs(a[i] - b[i])
		}
		return sum
	default: // MetricCosine
		return cosineDistance(a, b)
	}
}

// cosineDistance is 1 - cosine_similarity. Two zero vectors are
// treated as identical (distance 0) so an all-zero centered row still
// matches itself; a single zero vector is treated as orthogonal
// (distance 1).
func cosineDistance(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 && normB == 0 {
		return 0
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}

// similarity converts a distance under this metric into the
// non-negative weight used for prediction. Each metric's conversion
// lives next to its distance function so a new metric cannot ship with
// only half the pair.
func (m Metric) similarity(distance float64) float64 {
	if m == MetricCosine {
		return 1 - distance
	}
	return 1 / (1 + distance)
}
