// ShopMind - E-Commerce Product Recommendation Platform
// Copyright 2026 ShopMind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmind/shopmind

package recommend

import "errors"

// Sentinel errors returned by the engine. Callers should test with
// errors.Is because fit and query paths wrap them with context.
var (
	// ErrInvalidConfig indicates bad constructor arguments (unknown mode
	// or metric, k < 1, min ratings < 1). Fatal at construction.
	ErrInvalidConfig = errors.New("invalid recommender configuration")

	// ErrInsufficientData indicates a fit produced zero retained users or
	// items after filtering. The previously fitted model, if any, stays
	// in place.
	ErrInsufficientData = errors.New("insufficient rating data")

	// ErrNotFitted indicates a query was issued before a successful fit.
	ErrNotFitted = errors.New("model not fitted")

	// ErrModeMismatch indicates a similarity query that requires the
	// other fitting mode (similar users on an item-based model or vice
	// versa).
	ErrModeMismatch = errors.New("query incompatible with fitted mode")
)
