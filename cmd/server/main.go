// ShopMind - E-Commerce Product Recommendation Platform
// Copyright 2026 ShopMind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmind/shopmind

// Package main is the entry point for the ShopMind recommendation
// server.
//
// The server initializes components in the following order:
//
//  1. Configuration: layered Koanf v2 sources (env > config file > defaults)
//  2. Database: DuckDB-backed store for users, products and ratings
//  3. Synthetic data: optional deterministic seeding of an empty store
//  4. Engine: the k-NN collaborative filtering recommender
//  5. Supervisor tree: trainer service plus the HTTP API server
//
// # Configuration
//
// Environment variables use the SHOPMIND_ prefix with underscores for
// nesting, e.g. SHOPMIND_SERVER_PORT=8080, SHOPMIND_ENGINE_MODE=item_based.
// A config.yaml in the working directory is read when present.
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the HTTP server drains
// in-flight requests, the trainer stops, and the database checkpoints
// before closing.
//
// # Example Usage
//
// Development with an in-memory database and synthetic data:
//
//	export SHOPMIND_DATAGEN_ENABLED=true
//	export SHOPMIND_TRAINING_ON_STARTUP=true
//	./shopmind
//
// Production with a persistent database file:
//
//	export SHOPMIND_DATABASE_PATH=/var/lib/shopmind/shopmind.db
//	export SHOPMIND_ENGINE_MODE=user_based
//	export SHOPMIND_ENGINE_K=10
//	./shopmind
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopmind/shopmind/internal/api"
	"github.com/shopmind/shopmind/internal/config"
	"github.com/shopmind/shopmind/internal/datagen"
	"github.com/shopmind/shopmind/internal/logging"
	"github.com/shopmind/shopmind/internal/recommend"
	"github.com/shopmind/shopmind/internal/store"
	"github.com/shopmind/shopmind/internal/supervisor"
	"github.com/shopmind/shopmind/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("mode", cfg.Engine.Mode).
		Int("k", cfg.Engine.K).
		Str("metric", cfg.Engine.Metric).
		Str("db_path", cfg.Database.Path).
		Msg("Starting ShopMind")

	st, err := store.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open database")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	if cfg.Datagen.Enabled {
		gen := datagen.New(cfg.Datagen)
		if err := gen.Seed(context.Background(), st); err != nil {
			logging.Fatal().Err(err).Msg("Failed to seed synthetic data")
		}
	}

	rec, err := recommend.NewRecommender(recommend.Config{
		Mode:       recommend.Mode(cfg.Engine.Mode),
		K:          cfg.Engine.K,
		Metric:     recommend.Metric(cfg.Engine.Metric),
		MinRatings: cfg.Engine.MinRatings,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Invalid engine configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// zerolog bridged to slog for sutureslog.
	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	trainer := services.NewTrainerService(rec, ratingLoader(st), services.TrainerConfig{
		TrainOnStartup: cfg.Training.OnStartup,
		TrainInterval:  cfg.Training.Interval,
	}, logging.Logger())
	tree.AddModelService(trainer)

	handler := api.NewHandler(st, rec, cfg, trainer.TrainNow)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Drain until the supervisor has fully stopped.
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}

// ratingLoader adapts the store's rating table to engine training
// records.
func ratingLoader(st *store.Store) services.RatingLoader {
	return func(ctx context.Context) ([]recommend.RatingRecord, error) {
		ctx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()

		rows, err := st.AllRatings(ctx)
		if err != nil {
			return nil, err
		}

		records := make([]recommend.RatingRecord, 0, len(rows))
		for _, r := range rows {
			records = append(records, recommend.RatingRecord{
				UserID:  r.UserID,
				ItemID:  r.ProductID,
				Rating:  r.Rating,
				RatedAt: r.Timestamp,
			})
		}
		return records, nil
	}
}
