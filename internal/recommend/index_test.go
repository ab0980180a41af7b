// ShopMind - E-Commerce Product Recommendation Platform
// Copyright 2026 ShopMind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmind/shopmind

package recommend

import (
	"math"
	"testing"
)

func TestMetric_Distance(t *testing.T) {
	tests := []struct {
		name   string
		metric Metric
		a, b   []float64
		want   float64
	}{
		{"euclidean 3-4-5", MetricEuclidean, []float64{0, 0}, []float64{3, 4}, 5},
		{"euclidean identical", MetricEuclidean, []float64{1, 2, 3}, []float64{1, 2, 3}, 0},
		{"manhattan", MetricManhattan, []float64{0, 0}, []float64{3, -4}, 7},
		{"cosine identical", MetricCosine, []float64{1, 2}, []float64{1, 2}, 0},
		{"cosine parallel scaled", MetricCosine, []float64{1, 1}, []float64{3, 3}, 0},
		{"cosine orthogonal", MetricCosine, []float64{1, 0}, []float64{0, 1}, 1},
		{"cosine opposite", MetricCosine, []float64{1, 0}, []float64{-1, 0}, 2},
		{"cosine one zero vector", MetricCosine, []float64{0, 0}, []float64{1, 1}, 1},
		{"cosine both zero vectors", MetricCosine, []float64{0, 0}, []float64{0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.metric.distance(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("distance(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestMetric_Similarity(t *testing.T) {
	tests := []struct {
		name     string
		metric   Metric
		distance float64
		want     float64
	}{
		{"cosine zero distance", MetricCosine, 0, 1},
		{"cosine half distance", MetricCosine, 0.5, 0.5},
		{"cosine opposite", MetricCosine, 2, -1},
		{"euclidean zero distance", MetricEuclidean, 0, 1},
		{"euclidean unit distance", MetricEuclidean, 1, 0.5},
		{"manhattan distance three", MetricManhattan, 3, 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.metric.similarity(tt.distance)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("similarity(%v) = %v, want %v", tt.distance, got, tt.want)
			}
		})
	}
}

func TestNeighborIndex_QueryRow(t *testing.T) {
	vectors := [][]float64{
		{0, 0},
		{3, 4},
		{1, 0},
		{0, 2},
	}
	ix := newNeighborIndex(vectors, MetricEuclidean)

	hits := ix.queryRow(0, 3)
	if len(hits) != 3 {
		t.Fatalf("len(hits) = %d, want 3", len(hits))
	}
	if hits[0].Index != 0 || hits[0].Distance != 0 {
		t.Errorf("hits[0] = %+v, want self at distance 0", hits[0])
	}
	if hits[1].Index != 2 {
		t.Errorf("hits[1].Index = %d, want 2 (distance 1)", hits[1].Index)
	}
	if hits[2].Index != 3 {
		t.Errorf("hits[2].Index = %d, want 3 (distance 2)", hits[2].Index)
	}
}

func TestNeighborIndex_QueryRow_TieBreaks(t *testing.T) {
	// Rows 0, 1 and 2 are identical, so every pairwise distance among
	// them is 0. Queries from row 1 must put row 1 first and order the
	// rest by row index.
	vectors := [][]float64{
		{1, 1},
		{1, 1},
		{1, 1},
		{5, 5},
	}
	ix := newNeighborIndex(vectors, MetricEuclidean)

	hits := ix.queryRow(1, 4)
	wantOrder := []int{1, 0, 2, 3}
	for i, want := range wantOrder {
		if hits[i].Index != want {
			t.Errorf("hits[%d].Index = %d, want %d", i, hits[i].Index, want)
		}
	}
}

func TestNeighborIndex_QueryRow_CosineSelfFirst(t *testing.T) {
	// Row 1 is a scaled copy of row 0, so its cosine distance from row 0
	// is exactly 0, while computing row 0 against itself leaves a
	// floating-point residue around 1e-16. The query row must still sort
	// first, at distance exactly 0.
	vectors := [][]float64{
		{1, 2, 3},
		{2, 4, 6},
		{3, -1, 0},
	}
	ix := newNeighborIndex(vectors, MetricCosine)

	hits := ix.queryRow(0, 3)
	if hits[0].Index != 0 || hits[0].Distance != 0 {
		t.Fatalf("hits[0] = %+v, want query row at distance 0", hits[0])
	}
	if hits[1].Index != 1 {
		t.Errorf("hits[1].Index = %d, want 1 (parallel row)", hits[1].Index)
	}
}

func TestNeighborIndex_QueryRow_TruncatesToPopulation(t *testing.T) {
	vectors := [][]float64{{1}, {2}}
	ix := newNeighborIndex(vectors, MetricManhattan)

	hits := ix.queryRow(0, 2)
	if len(hits) != 2 {
		t.Errorf("len(hits) = %d, want 2", len(hits))
	}
}
