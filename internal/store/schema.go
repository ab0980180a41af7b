// ShopMind - E-Commerce Product Recommendation Platform
// Copyright 2026 ShopMind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmind/shopmind

package store

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables and indexes
func (s *Store) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			age INTEGER,
			gender TEXT,
			city TEXT,
			registration_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS products (
			product_id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			brand TEXT,
			price DOUBLE NOT NULL,
			in_stock BOOLEAN DEFAULT true,
			created_date TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		// One rating per (user, product); re-rating replaces the old value.
		`CREATE TABLE IF NOT EXISTS ratings (
			user_id INTEGER NOT NULL,
			product_id INTEGER NOT NULL,
			rating DOUBLE NOT NULL CHECK (rating >= 1 AND rating <= 5),
			review TEXT,
			timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, product_id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_ratings_user ON ratings(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ratings_product ON ratings(product_id)`,
		`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category)`,
	}

	for _, query := range queries {
		if _, err := s.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}
