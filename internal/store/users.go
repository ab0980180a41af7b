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
	"time"

	"github.com/shopmind/shopmind/internal/metrics"
	"github.com/shopmind/shopmind/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("record not found")

// GetUser retrieves a single user by ID.
// Returns ErrNotFound if the user does not exist.
func (s *Store) GetUser(ctx context.Context, userID int) (*models.User, error) {
	ctx, cancel := s.ensureContext(ctx)
	defer cancel()

	query := `
	SELECT user_id, name, email, COALESCE(age, 0), COALESCE(gender, ''), COALESCE(city, ''), registration_date
	FROM users
	WHERE user_id = ?`

	start := time.Now()
	var u models.User
	err := s.conn.QueryRowContext(ctx, query, userID).Scan(
		&u.UserID, &u.Name, &u.Email, &u.Age, &u.Gender, &u.City, &u.RegisteredAt,
	)
	metrics.RecordDBQuery("SELECT", "users", time.Since(start), ignoreNoRows(err))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &u, nil
}

// GetUserProfile retrieves a user together with their rating activity.
func (s *Store) GetUserProfile(ctx context.Context, userID int) (*models.UserProfile, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := s.ensureContext(ctx)
	defer cancel()

	query := `
	SELECT COUNT(*), COALESCE(AVG(rating), 0)
	FROM ratings
	WHERE user_id = ?`

	start := time.Now()
	profile := &models.UserProfile{User: *user}
	err = s.conn.QueryRowContext(ctx, query, userID).Scan(&profile.RatingCount, &profile.AverageRating)
	metrics.RecordDBQuery("SELECT", "ratings", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query user profile: %w", err)
	}

	return profile, nil
}

// InsertUser inserts a user, replacing any existing row with the same ID.
func (s *Store) InsertUser(ctx context.Context, u *models.User) error {
	ctx, cancel := s.ensureContext(ctx)
	defer cancel()

	query := `
	INSERT OR REPLACE INTO users (user_id, name, email, age, gender, city, registration_date)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	_, err := s.conn.ExecContext(ctx, query,
		u.UserID, u.Name, u.Email, u.Age, u.Gender, u.City, u.RegisteredAt,
	)
	metrics.RecordDBQuery("INSERT", "users", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to insert user %d: %w", u.UserID, err)
	}
	return nil
}

// GetUsersByIDs retrieves users for the given IDs, keyed by user ID.
// Missing IDs are simply absent from the result.
func (s *Store) GetUsersByIDs(ctx context.Context, ids []int) (map[int]models.User, error) {
	users := make(map[int]models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	ctx, cancel := s.ensureContext(ctx)
	defer cancel()

	query, args := buildInQuery(`
	SELECT user_id, name, email, COALESCE(age, 0), COALESCE(gender, ''), COALESCE(city, ''), registration_date
	FROM users
	WHERE user_id IN`, ids)

	start := time.Now()
	rows, err := s.conn.QueryContext(ctx, query, args...)
	metrics.RecordDBQuery("SELECT", "users", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.UserID, &u.Name, &u.Email, &u.Age, &u.Gender, &u.City, &u.RegisteredAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users[u.UserID] = u
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// ignoreNoRows keeps sql.ErrNoRows out of the DB error metrics; a lookup
// miss is an expected outcome, not a query failure.
func ignoreNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}
