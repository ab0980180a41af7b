// ShopMind - E-Commerce Product Recommendation Platform
// Copyright 2026 ShopMind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmind/shopmind

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopmind/shopmind/internal/metrics"
	"github.com/shopmind/shopmind/internal/models"
)

// GetProduct retrieves a single product by ID.
// Returns ErrNotFound if the product does not exist.
func (s *Store) GetProduct(ctx context.Context, productID int) (*models.Product, error) {
	ctx, cancel := s.ensureContext(ctx)
	defer cancel()

	query := `
	SELECT product_id, name, category, COALESCE(brand, ''), price, in_stock, created_date
	FROM products
	WHERE product_id = ?`

	start := time.Now()
	var p models.Product
	err := s.conn.QueryRowContext(ctx, query, productID).Scan(
		&p.ProductID, &p.Name, &p.Category, &p.Brand, &p.Price, &p.InStock, &p.CreatedAt,
	)
	metrics.RecordDBQuery("SELECT", "products", time.Since(start), ignoreNoRows(err))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %d: %w", productID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// InsertProduct inserts a product, replacing any existing row with the same ID.
func (s *Store) InsertProduct(ctx context.Context, p *models.Product) error {
	ctx, cancel := s.ensureContext(ctx)
	defer cancel()

	query := `
	INSERT OR REPLACE INTO products (product_id, name, category, brand, price, in_stock, created_date)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	_, err := s.conn.ExecContext(ctx, query,
		p.ProductID, p.Name, p.Category, p.Brand, p.Price, p.InStock, p.CreatedAt,
	)
	metrics.RecordDBQuery("INSERT", "products", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to insert product %d: %w", p.ProductID, err)
	}
	return nil
}

// GetProductsByIDs retrieves products for the given IDs, keyed by product ID.
// Missing IDs are simply absent from the result.
func (s *Store) GetProductsByIDs(ctx context.Context, ids []int) (map[int]models.Product, error) {
	products := make(map[int]models.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	ctx, cancel := s.ensureContext(ctx)
	defer cancel()

	query, args := buildInQuery(`
	SELECT product_id, name, category, COALESCE(brand, ''), price, in_stock, created_date
	FROM products
	WHERE product_id IN`, ids)

	start := time.Now()
	rows, err := s.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("SELECT", "products", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ProductID, &p.Name, &p.Category, &p.Brand, &p.Price, &p.InStock, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products[p.ProductID] = p
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetPopularProducts retrieves the top products ranked by the popularity
// score mean_rating * ln(1 + rating_count). Products without ratings are
// not returned. Ties break toward the lower product ID.
func (s *Store) GetPopularProducts(ctx context.Context, limit int) ([]models.PopularProduct, error) {
	ctx, cancel := s.ensureContext(ctx)
	defer cancel()

	if limit <= 0 {
		limit = 10
	}

	query := `
	SELECT
		p.product_id,
		p.name,
		p.category,
		AVG(r.rating) AS average_rating,
		COUNT(*) AS rating_count,
		AVG(r.rating) * LN(1 + COUNT(*)) AS popularity
	FROM products p
	JOIN ratings r ON p.product_id = r.product_id
	GROUP BY p.product_id, p.name, p.category
	ORDER BY popularity DESC, p.product_id ASC
	LIMIT ?`

	start := time.Now()
	rows, err := s.conn.QueryContext(ctx, query, limit)
	metrics.RecordDBQuery("SELECT", "ratings", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query popular products: %w", err)
	}
	defer rows.Close()

	// Empty slice instead of nil for consistent JSON serialization.
	popular := []models.PopularProduct{}
	for rows.Next() {
		var p models.PopularProduct
		if err := rows.Scan(&p.ProductID, &p.Name, &p.Category, &p.AverageRating, &p.RatingCount, &p.Popularity); err != nil {
			return nil, fmt.Errorf("failed to scan popular product: %w", err)
		}
		popular = append(popular, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating popular products: %w", err)
	}

	return popular, nil
}

// buildInQuery expands an IN clause with one placeholder per ID.
func buildInQuery(prefix string, ids []int) (string, []interface{}) {
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	return fmt.Sprintf("%s (%s)", prefix, strings.Join(placeholders, ",")), args
}
