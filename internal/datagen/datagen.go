// ShopMind - E-Commerce Product Recommendation Platform
// Copyright 2026 ShopMind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmind/shopmind

// Package datagen seeds the database with synthetic but realistic
// e-commerce data for demos and local development. Generation is
// deterministic for a given seed: users get a stable category affinity,
// and ratings are drawn higher for products in a user's preferred
// categories so the trained model has real structure to find.
package datagen

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/shopmind/shopmind/internal/config"
	"github.com/shopmind/shopmind/internal/logging"
	"github.com/shopmind/shopmind/internal/models"
	"github.com/shopmind/shopmind/internal/store"
)

var categories = []string{
	"Electronics", "Home & Kitchen", "Sports", "Books",
	"Clothing", "Beauty", "Toys", "Garden",
}

var brandsByCategory = map[string][]string{
	"Electronics":    {"Voltix", "Nexara", "Circuitry", "Lumen Labs"},
	"Home & Kitchen": {"Brew", "Casamia", "SteelCraft", "Hearth"},
	"Sports":         {"Stride", "Peakform", "Vantage", "Momentum"},
	"Books":          {"Northlight Press", "Quill & Ink", "Folio House"},
	"Clothing":       {"Loom", "Meridian Wear", "Fable Thread"},
	"Beauty":         {"Glow Atelier", "Petal", "Veda Skin"},
	"Toys":           {"Brickwise", "Wondertide", "PlayForge"},
	"Garden":         {"Verdant", "Bloomfield", "Terra Root"},
}

var productNouns = []string{
	"Speaker", "Kettle", "Backpack", "Journal", "Hoodie", "Serum",
	"Puzzle", "Planter", "Headphones", "Blender", "Mat", "Lamp",
	"Charger", "Grinder", "Bottle", "Notebook", "Jacket", "Cream",
	"Blocks", "Trowel", "Monitor", "Pan", "Gloves", "Atlas",
}

var adjectives = []string{
	"Compact", "Premium", "Classic", "Ultra", "Essential", "Deluxe",
	"Portable", "Eco", "Pro", "Smart", "Vintage", "Everyday",
}

var firstNames = []string{
	"Alice", "Bob", "Charlie", "Diana", "Emma", "Frank", "Grace",
	"Henry", "Iris", "Jack", "Kate", "Liam", "Mia", "Noah", "Olivia",
	"Pavel", "Quinn", "Rosa", "Sam", "Tara", "Umar", "Vera", "Wes",
	"Ximena", "Yusuf", "Zoe",
}

var lastNames = []string{
	"Anders", "Brooks", "Castillo", "Dias", "Eriksen", "Fontaine",
	"Garcia", "Hoffman", "Ito", "Johansson", "Kim", "Lindqvist",
	"Morales", "Nakamura", "Okafor", "Petrov", "Quinn", "Rossi",
	"Silva", "Tanaka", "Ueda", "Vargas", "Weber", "Xu", "Yilmaz", "Zhang",
}

var cities = []string{
	"New York", "London", "Berlin", "Tokyo", "Sydney", "Toronto",
	"Amsterdam", "Barcelona", "Singapore", "Mumbai", "Stockholm",
	"Seoul", "Dublin", "Lisbon", "Warsaw", "Austin",
}

// Generator produces deterministic synthetic catalog and rating data.
type Generator struct {
	cfg config.DatagenConfig
	rng *rand.Rand
}

// New creates a generator seeded from the configuration.
func New(cfg config.DatagenConfig) *Generator {
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Seed populates the store with users, products and ratings. It is a
// no-op when the store already contains ratings, so restarting the
// server never duplicates or reshuffles data.
func (g *Generator) Seed(ctx context.Context, s *store.Store) error {
	stats, err := s.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to check existing data: %w", err)
	}
	if stats.Ratings > 0 {
		logging.Info().
			Int("ratings", stats.Ratings).
			Msg("Database already seeded, skipping data generation")
		return nil
	}

	logging.Info().
		Int64("seed", g.cfg.Seed).
		Int("users", g.cfg.Users).
		Int("products", g.cfg.Products).
		Int("ratings", g.cfg.Ratings).
		Msg("Seeding database with synthetic data...")

	start := time.Now()

	products, err := g.seedProducts(ctx, s)
	if err != nil {
		return err
	}

	affinities, err := g.seedUsers(ctx, s)
	if err != nil {
		return err
	}

	inserted, err := g.seedRatings(ctx, s, products, affinities)
	if err != nil {
		return err
	}

	logging.Info().
		Int("users", g.cfg.Users).
		Int("products", g.cfg.Products).
		Int("ratings", inserted).
		Dur("elapsed", time.Since(start)).
		Msg("Synthetic data seeded")

	return nil
}

// seedProducts inserts the product catalog and returns it for rating
// generation.
func (g *Generator) seedProducts(ctx context.Context, s *store.Store) ([]models.Product, error) {
	now := time.Now().UTC()
	products := make([]models.Product, 0, g.cfg.Products)

	for i := 0; i < g.cfg.Products; i++ {
		category := categories[g.rng.Intn(len(categories))]
		brands := brandsByCategory[category]

		p := models.Product{
			ProductID: i + 1,
			Name: fmt.Sprintf("%s %s",
				adjectives[g.rng.Intn(len(adjectives))],
				productNouns[g.rng.Intn(len(productNouns))]),
			Category:  category,
			Brand:     brands[g.rng.Intn(len(brands))],
			Price:     round2(5 + g.rng.Float64()*495),
			InStock:   g.rng.Float64() < 0.9,
			CreatedAt: now.AddDate(0, 0, -g.rng.Intn(730)),
		}

		if err := s.InsertProduct(ctx, &p); err != nil {
			return nil, fmt.Errorf("failed to seed product %d: %w", p.ProductID, err)
		}
		products = append(products, p)
	}

	return products, nil
}

// seedUsers inserts users and returns each user's preferred categories.
func (g *Generator) seedUsers(ctx context.Context, s *store.Store) (map[int]map[string]bool, error) {
	now := time.Now().UTC()
	affinities := make(map[int]map[string]bool, g.cfg.Users)

	for i := 0; i < g.cfg.Users; i++ {
		userID := i + 1
		first := firstNames[g.rng.Intn(len(firstNames))]
		last := lastNames[g.rng.Intn(len(lastNames))]

		gender := ""
		switch g.rng.Intn(3) {
		case 0:
			gender = "female"
		case 1:
			gender = "male"
		}

		u := models.User{
			UserID:       userID,
			Name:         first + " " + last,
			Email:        fmt.Sprintf("%s.%s.%d@example.com", lower(first), lower(last), userID),
			Age:          18 + g.rng.Intn(55),
			Gender:       gender,
			City:         cities[g.rng.Intn(len(cities))],
			RegisteredAt: now.AddDate(0, 0, -g.rng.Intn(1095)),
		}

		if err := s.InsertUser(ctx, &u); err != nil {
			return nil, fmt.Errorf("failed to seed user %d: %w", userID, err)
		}

		// Two or three preferred categories per user.
		prefs := make(map[string]bool)
		for len(prefs) < 2+g.rng.Intn(2) {
			prefs[categories[g.rng.Intn(len(categories))]] = true
		}
		affinities[userID] = prefs
	}

	return affinities, nil
}

// seedRatings draws (user, product) pairs and rates preferred categories
// high and others low, which gives the neighborhood model real signal.
func (g *Generator) seedRatings(ctx context.Context, s *store.Store, products []models.Product, affinities map[int]map[string]bool) (int, error) {
	now := time.Now().UTC()
	inserted := 0
	seen := make(map[[2]int]bool, g.cfg.Ratings)

	// Cap attempts so a tiny users*products grid cannot loop forever.
	maxAttempts := g.cfg.Ratings * 4

	for attempt := 0; inserted < g.cfg.Ratings && attempt < maxAttempts; attempt++ {
		userID := 1 + g.rng.Intn(g.cfg.Users)
		product := products[g.rng.Intn(len(products))]

		key := [2]int{userID, product.ProductID}
		if seen[key] {
			continue
		}
		seen[key] = true

		rating := g.drawRating(affinities[userID][product.Category])
		r := models.Rating{
			UserID:    userID,
			ProductID: product.ProductID,
			Rating:    rating,
			Timestamp: now.Add(-time.Duration(g.rng.Intn(365*24)) * time.Hour),
		}

		if err := s.UpsertRating(ctx, &r); err != nil {
			return inserted, fmt.Errorf("failed to seed rating (%d, %d): %w", userID, product.ProductID, err)
		}
		inserted++
	}

	return inserted, nil
}

// drawRating samples a 0.5-step rating in [1, 5], skewed high for
// preferred categories and low otherwise.
func (g *Generator) drawRating(preferred bool) float64 {
	var base float64
	if preferred {
		base = 3.5 + g.rng.Float64()*1.5
	} else {
		base = 1 + g.rng.Float64()*2.5
	}

	// Snap to half-star steps and clamp.
	rating := float64(int(base*2+0.5)) / 2
	if rating < 1 {
		rating = 1
	}
	if rating > 5 {
		rating = 5
	}
	return rating
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
