// ShopMind - E-Commerce Product Recommendation Platform
// Copyright 2026 ShopMind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmind/shopmind

// Package models defines the shared API and domain types exchanged
// between the store, engine and HTTP layers.
package models

import "time"

// User is a registered shopper.
type User struct {
	UserID       int       `json:"user_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Age          int       `json:"age,omitempty"`
	Gender       string    `json:"gender,omitempty"`
	City         string    `json:"city,omitempty"`
	RegisteredAt time.Time `json:"registration_date"`
}

// Product is a catalog entry.
type Product struct {
	ProductID int       `json:"product_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Brand     string    `json:"brand,omitempty"`
	Price     float64   `json:"price"`
	InStock   bool      `json:"in_stock"`
	CreatedAt time.Time `json:"created_date"`
}

// Rating is a single user rating of a product, in [1, 5].
type Rating struct {
	UserID    int       `json:"user_id"`
	ProductID int       `json:"product_id"`
	Rating    float64   `json:"rating"`
	Review    string    `json:"review,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// RecommendedProduct joins an engine recommendation with catalog
// metadata for display.
type RecommendedProduct struct {
	ProductID       int     `json:"product_id"`
	Name            string  `json:"name,omitempty"`
	Category        string  `json:"category,omitempty"`
	Brand           string  `json:"brand,omitempty"`
	Price           float64 `json:"price,omitempty"`
	PredictedRating float64 `json:"predicted_rating"`
}

// SimilarProduct joins an engine similarity hit with catalog metadata.
type SimilarProduct struct {
	ProductID  int     `json:"product_id"`
	Name       string  `json:"name,omitempty"`
	Category   string  `json:"category,omitempty"`
	Similarity float64 `json:"similarity"`
}

// SimilarUser is a neighbor user with their similarity score.
type SimilarUser struct {
	UserID     int     `json:"user_id"`
	Name       string  `json:"name,omitempty"`
	Similarity float64 `json:"similarity"`
}

// UserProfile summarizes one user's rating activity.
type UserProfile struct {
	User          User    `json:"user"`
	RatingCount   int     `json:"rating_count"`
	AverageRating float64 `json:"average_rating"`
}

// PopularProduct is a catalog entry ranked by the popularity score
// mean_rating * ln(1 + rating_count).
type PopularProduct struct {
	ProductID     int     `json:"product_id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	AverageRating float64 `json:"average_rating"`
	RatingCount   int     `json:"rating_count"`
	Popularity    float64 `json:"popularity"`
}

// StoreStats summarizes the rating table for the stats endpoint.
type StoreStats struct {
	Users    int `json:"n_users"`
	Products int `json:"n_products"`
	Ratings  int `json:"n_ratings"`
}

// PredictRequest is the body of POST /api/v1/predict.
type PredictRequest struct {
	UserID    int `json:"user_id" validate:"required,min=1"`
	ProductID int `json:"product_id" validate:"required,min=1"`
}

// PredictResponse is the payload returned for a rating prediction.
type PredictResponse struct {
	UserID          int     `json:"user_id"`
	ProductID       int     `json:"product_id"`
	PredictedRating float64 `json:"predicted_rating"`
}

// RateRequest is the body of POST /api/v1/ratings.
type RateRequest struct {
	UserID    int     `json:"user_id" validate:"required,min=1"`
	ProductID int     `json:"product_id" validate:"required,min=1"`
	Rating    float64 `json:"rating" validate:"required,min=1,max=5"`
	Review    string  `json:"review,omitempty" validate:"omitempty,max=2000"`
}
