// ShopMind - E-Commerce Product Recommendation Platform
// Copyright 2026 ShopMind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmind/shopmind

package recommend

import (
	"fmt"
	"sort"
)

// interactionMatrix is the dense user x product rating matrix together
// with its derived statistics. A cell value of 0 means "no rating";
// the sentinel is safe only because real ratings are in [1, 5].
//
// The matrix is built wholesale on every fit and never mutated
// afterwards, so concurrent readers need no synchronization of their
// own.
type interactionMatrix struct {
	// ratings[row][col] holds the original (non-centered) rating.
	// Rows are users, columns are products, both in ascending id order.
	ratings [][]float64

	userIDs []int // row index -> user id
	itemIDs []int // column index -> product id
	userIdx map[int]int
	itemIdx map[int]int

	// userMeans and itemMeans average over every cell of the row or
	// column, zero fill included. That matches the pivoted-table
	// semantics the prediction formula was tuned against; switching to
	// rated-cells-only would shift every prediction.
	userMeans []float64
	itemMeans []float64

	// globalMean averages the retained input records themselves, so a
	// duplicate (user, product) pair counts once per record even though
	// the pivot keeps only the last value.
	globalMean float64

	// numRatings counts non-zero cells.
	numRatings int
}

// buildInteractionMatrix pivots the rating table into a dense matrix.
//
// Users and products are filtered independently against the unfiltered
// table: a user survives with >= minRatings total ratings even if some
// of those ratings land on products that get dropped, leaving the
// retained row sparser than minRatings. That asymmetry is intentional
// and load-bearing for result compatibility.
//
// Duplicate (user, product) pairs resolve last-record-wins.
func buildInteractionMatrix(records []RatingRecord, minRatings int) (*interactionMatrix, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("empty rating table: %w", ErrInsufficientData)
	}

	userCounts := make(map[int]int)
	itemCounts := make(map[int]int)
	for i := range records {
		userCounts[records[i].UserID]++
		itemCounts[records[i].ItemID]++
	}

	userIDs := retainIDs(userCounts, minRatings)
	itemIDs := retainIDs(itemCounts, minRatings)
	if len(userIDs) == 0 || len(itemIDs) == 0 {
		return nil, fmt.Errorf("no users or products with at least %d ratings: %w",
			minRatings, ErrInsufficientData)
	}

	userIdx := make(map[int]int, len(userIDs))
	for i, id := range userIDs {
		userIdx[id] = i
	}
	itemIdx := make(map[int]int, len(itemIDs))
	for i, id := range itemIDs {
		itemIdx[id] = i
	}

	ratings := make([][]float64, len(userIDs))
	for i := range ratings {
		ratings[i] = make([]float64, len(itemIDs))
	}

	var ratingSum float64
	var recordCount int
	for i := range records {
		ui, ok := userIdx[records[i].UserID]
		if !ok {
			continue
		}
		ii, ok := itemIdx[records[i].ItemID]
		if !ok {
			continue
		}
		ratings[ui][ii] = records[i].Rating
		ratingSum += records[i].Rating
		recordCount++
	}
	if recordCount == 0 {
		// Every retained user rated only dropped products and vice
		// versa. The matrix would be all zeros.
		return nil, fmt.Errorf("retained users and products share no ratings: %w",
			ErrInsufficientData)
	}

	m := &interactionMatrix{
		ratings:    ratings,
		userIDs:    userIDs,
		itemIDs:    itemIDs,
		userIdx:    userIdx,
		itemIdx:    itemIdx,
		globalMean: ratingSum / float64(recordCount),
	}
	m.computeMeans()
	return m, nil
}

// retainIDs returns the ids whose count meets the threshold, in
// ascending order so row and column layout is deterministic.
func retainIDs(counts map[int]int, minRatings int) []int {
	ids := make([]int, 0, len(counts))
	for id, n := range counts {
		if n >= minRatings {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

func (m *interactionMatrix) computeMeans() {
	nRows := len(m.ratings)
	nCols := len(m.itemIDs)

	m.userMeans = make([]float64, nRows)
	m.itemMeans = make([]float64, nCols)
	colSums := make([]float64, nCols)

	for r, row := range m.ratings {
		var rowSum float64
		for c, v := range row {
			rowSum += v
			colSums[c] += v
			if v != 0 {
				m.numRatings++
			}
		}
		m.userMeans[r] = rowSum / float64(nCols)
	}
	for c, s := range colSums {
		m.itemMeans[c] = s / float64(nRows)
	}
}

// density is the fraction of cells holding a rating.
func (m *interactionMatrix) density() float64 {
	total := len(m.userIDs) * len(m.itemIDs)
	if total == 0 {
		return 0
	}
	return float64(m.numRatings) / float64(total)
}

// centeredUserRows returns one vector per user: the user's row minus
// the user's mean.
func (m *interactionMatrix) centeredUserRows() [][]float64 {
	rows := make([][]float64, len(m.ratings))
	for r, row := range m.ratings {
		centered := make([]float64, len(row))
		for c, v := range row {
			centered[c] = v - m.userMeans[r]
		}
		rows[r] = centered
	}
	return rows
}

// centeredItemRows returns one vector per product: the transposed
// column minus the product's mean.
func (m *interactionMatrix) centeredItemRows() [][]float64 {
	rows := make([][]float64, len(m.itemIDs))
	for c := range m.itemIDs {
		centered := make([]float64, len(m.ratings))
		for r := range m.ratings {
			centered[r] = m.ratings[r][c] - m.itemMeans[c]
		}
		rows[c] = centered
	}
	return rows
}

// userRated reports whether the user's row has a rating for the given
// column. A cell of exactly 0 reads as "not rated"; that conflation is
// safe only while ratings stay within [1, 5].
func (m *interactionMatrix) userRated(row, col int) bool {
	return m.ratings[row][col] != 0
}
