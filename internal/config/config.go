// ShopMind - E-Commerce Product Recommendation Platform
// Copyright 2026 ShopMind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmind/shopmind

// Package config loads and validates the ShopMind service
// configuration from layered sources: built-in defaults, an optional
// YAML file, and environment variables, in ascending precedence.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the service.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Engine   EngineConfig   `koanf:"engine"`
	Training TrainingConfig `koanf:"training"`
	API      APIConfig      `koanf:"api"`
	Logging  LoggingConfig  `koanf:"logging"`
	Datagen  DatagenConfig  `koanf:"datagen"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
}

// DatabaseConfig holds the DuckDB settings.
type DatabaseConfig struct {
	// Path is the database file; empty means in-memory.
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	// Threads caps DuckDB worker threads; 0 uses runtime.NumCPU().
	Threads int `koanf:"threads"`
}

// EngineConfig holds the recommendation engine parameters.
type EngineConfig struct {
	// Mode is user_based or item_based.
	Mode string `koanf:"mode"`
	// K is the neighbor count per prediction.
	K int `koanf:"k"`
	// Metric is cosine, euclidean or manhattan.
	Metric string `koanf:"metric"`
	// MinRatings is the retention threshold for users and products.
	MinRatings int `koanf:"min_ratings"`
}

// TrainingConfig controls the background trainer service.
type TrainingConfig struct {
	OnStartup bool          `koanf:"on_startup"`
	Interval  time.Duration `koanf:"interval"`
}

// APIConfig holds request limits for the HTTP API.
type APIConfig struct {
	DefaultRecommendations int `koanf:"default_recommendations"`
	MaxRecommendations     int `koanf:"max_recommendations"`
	DefaultSimilar         int `koanf:"default_similar"`
	MaxSimilar             int `koanf:"max_similar"`
}

// LoggingConfig holds the logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// DatagenConfig controls synthetic data seeding for empty databases.
type DatagenConfig struct {
	Enabled  bool  `koanf:"enabled"`
	Seed     int64 `koanf:"seed"`
	Users    int   `koanf:"users"`
	Products int   `koanf:"products"`
	Ratings  int   `koanf:"ratings"`
}

// Validate checks cross-field constraints beyond what unmarshaling can
// express. It returns the first violation found.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range [1, 65535]", c.Server.Port)
	}
	if c.Server.RateLimitReqs < 1 {
		return fmt.Errorf("server.rate_limit_reqs must be >= 1, got %d", c.Server.RateLimitReqs)
	}

	switch c.Engine.Mode {
	case "user_based", "item_based":
	default:
		return fmt.Errorf("engine.mode must be user_based or item_based, got %q", c.Engine.Mode)
	}
	switch c.Engine.Metric {
	case "cosine", "euclidean", "manhattan":
	default:
		return fmt.Errorf("engine.metric must be cosine, euclidean or manhattan, got %q", c.Engine.Metric)
	}
	if c.Engine.K < 1 {
		return fmt.Errorf("engine.k must be >= 1, got %d", c.Engine.K)
	}
	if c.Engine.MinRatings < 1 {
		return fmt.Errorf("engine.min_ratings must be >= 1, got %d", c.Engine.MinRatings)
	}

	if c.Training.Interval < time.Minute {
		return fmt.Errorf("training.interval must be >= 1m, got %s", c.Training.Interval)
	}

	if c.API.MaxRecommendations < c.API.DefaultRecommendations {
		return fmt.Errorf("api.max_recommendations %d below default %d",
			c.API.MaxRecommendations, c.API.DefaultRecommendations)
	}
	if c.API.MaxSimilar < c.API.DefaultSimilar {
		return fmt.Errorf("api.max_similar %d below default %d",
			c.API.MaxSimilar, c.API.DefaultSimilar)
	}

	if c.Datagen.Enabled {
		if c.Datagen.Users < 1 || c.Datagen.Products < 1 || c.Datagen.Ratings < 1 {
			return fmt.Errorf("datagen requires positive users/products/ratings, got %d/%d/%d",
				c.Datagen.Users, c.Datagen.Products, c.Datagen.Ratings)
		}
	}

	return nil
}
