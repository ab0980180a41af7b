// ShopMind - E-Commerce Product Recommendation Platform
// Copyright 2026 ShopMind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmind/shopmind

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/shopmind/shopmind/internal/metrics"
	"github.com/shopmind/shopmind/internal/models"
)

// AllRatings retrieves every rating ordered by user then product ID.
// This feeds model training, so ordering is kept deterministic.
func (s *Store) AllRatings(ctx context.Context) ([]models.Rating, error) {
	ctx, cancel := s.ensureContext(ctx)
	defer cancel()

	query := `
	SELECT user_id, product_id, rating, timestamp
	FROM ratings
	ORDER BY user_id ASC, product_id ASC`

	start := time.Now()
	rows, err := s.conn.QueryContext(ctx, query)
	metrics.RecordDBQuery("SELECT", "ratings", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()

	var ratings []models.Rating
	for rows.Next() {
		var r models.Rating
		if err := rows.Scan(&r.UserID, &r.ProductID, &r.Rating, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ratings: %w", err)
	}

	return ratings, nil
}

// UpsertRating stores a rating, replacing any prior rating the user gave
// the same product. The latest value always wins.
func (s *Store) UpsertRating(ctx context.Context, r *models.Rating) error {
	ctx, cancel := s.ensureContext(ctx)
	defer cancel()

	query := `
	INSERT INTO ratings (user_id, product_id, rating, review, timestamp)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT (user_id, product_id)
	DO UPDATE SET rating = excluded.rating, review = excluded.review,
	              timestamp = excluded.timestamp`

	stmt, err := s.getStmt(ctx, query)
	if err != nil {
		return err
	}

	ts := r.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	start := time.Now()
	_, err = stmt.ExecContext(ctx, r.UserID, r.ProductID, r.Rating, r.Review, ts)
	metrics.RecordDBQuery("INSERT", "ratings", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to upsert rating (%d, %d): %w", r.UserID, r.ProductID, err)
	}

	metrics.RatingsIngested.Inc()
	return nil
}

// GetRatingsForUser retrieves all ratings submitted by one user.
func (s *Store) GetRatingsForUser(ctx context.Context, userID int) ([]models.Rating, error) {
	ctx, cancel := s.ensureContext(ctx)
	defer cancel()

	query := `
	SELECT user_id, product_id, rating, COALESCE(review, ''), timestamp
	FROM ratings
	WHERE user_id = ?
	ORDER BY product_id ASC`

	start := time.Now()
	rows, err := s.conn.QueryContext(ctx, query, userID)
	metrics.RecordDBQuery("SELECT", "ratings", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query user ratings: %w", err)
	}
	defer rows.Close()

	ratings := []models.Rating{}
	for rows.Next() {
		var r models.Rating
		if err := rows.Scan(&r.UserID, &r.ProductID, &r.Rating, &r.Review, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ratings: %w", err)
	}

	return ratings, nil
}

// GetStats returns row counts for the stats endpoint.
func (s *Store) GetStats(ctx context.Context) (*models.StoreStats, error) {
	ctx, cancel := s.ensureContext(ctx)
	defer cancel()

	stats := &models.StoreStats{}
	start := time.Now()

	err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&stats.Users)
	if err != nil {
		metrics.RecordDBQuery("SELECT", "users", time.Since(start), err)
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	err = s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&stats.Products)
	if err != nil {
		metrics.RecordDBQuery("SELECT", "products", time.Since(start), err)
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	err = s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM ratings`).Scan(&stats.Ratings)
	metrics.RecordDBQuery("SELECT", "ratings", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to count ratings: %w", err)
	}

	return stats, nil
}
