// ShopMind - E-Commerce Product Recommendation Platform
// Copyright 2026 ShopMind Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopmind/shopmind

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopmind/shopmind/internal/metrics"
	"github.com/shopmind/shopmind/internal/recommend"
)

// TrainerConfig holds the trainer service configuration.
type TrainerConfig struct {
	// TrainOnStartup fits the model as soon as the service starts.
	TrainOnStartup bool

	// TrainInterval is how often to refit from the rating table.
	// Default: 1h.
	TrainInterval time.Duration

	// TrainTimeout bounds a single fit. Default: 10m.
	TrainTimeout time.Duration
}

// TrainerService periodically refits the recommendation model from the
// rating table. Manual retrains via TrainNow share the same path, so
// training metrics and model gauges stay consistent either way.
type TrainerService struct {
	rec    *recommend.Recommender
	loader RatingLoader
	config TrainerConfig
	logger zerolog.Logger
	name   string
}

// RatingLoader loads training records from storage.
type RatingLoader func(ctx context.Context) ([]recommend.RatingRecord, error)

// NewTrainerService creates the trainer.
func NewTrainerService(rec *recommend.Recommender, loader RatingLoader, cfg TrainerConfig, logger zerolog.Logger) *TrainerService {
	if cfg.TrainInterval <= 0 {
		cfg.TrainInterval = time.Hour
	}
	if cfg.TrainTimeout <= 0 {
		cfg.TrainTimeout = 10 * time.Minute
	}
	return &TrainerService{
		rec:    rec,
		loader: loader,
		config: cfg,
		logger: logger.With().Str("service", "trainer").Logger(),
		name:   "trainer-service",
	}
}

// Serve implements suture.Service: optional startup fit, then a refit
// on every tick until the context is canceled.
func (s *TrainerService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("train_on_startup", s.config.TrainOnStartup).
		Dur("train_interval", s.config.TrainInterval).
		Msg("Trainer service starting")

	if s.config.TrainOnStartup {
		if _, err := s.TrainNow(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("Startup training failed (will retry on schedule)")
		}
	}

	ticker := time.NewTicker(s.config.TrainInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Trainer service shutting down")
			return ctx.Err()

		case <-ticker.C:
			if _, err := s.TrainNow(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("Scheduled training failed")
			}
		}
	}
}

// TrainNow loads the rating table and refits the model. On failure the
// previously fitted model keeps serving. Safe for concurrent callers;
// the recommender serializes fits internally.
func (s *TrainerService) TrainNow(ctx context.Context) (recommend.ModelInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.TrainTimeout)
	defer cancel()

	start := time.Now()

	records, err := s.loader(ctx)
	if err != nil {
		metrics.RecordTraining(time.Since(start), err)
		s.logger.Error().Err(err).Msg("Failed to load ratings for training")
		return recommend.ModelInfo{}, err
	}

	info, err := s.rec.Fit(records)
	metrics.RecordTraining(time.Since(start), err)
	if err != nil {
		return recommend.ModelInfo{}, err
	}

	metrics.UpdateModelGauges(info.Version, info.NumUsers, info.NumItems, info.NumRatings, info.MatrixDensity)

	s.logger.Info().
		Int("version", info.Version).
		Int("n_users", info.NumUsers).
		Int("n_products", info.NumItems).
		Int("n_ratings", info.NumRatings).
		Float64("density", info.MatrixDensity).
		Dur("duration", time.Since(start)).
		Msg("Model training complete")

	return info, nil
}

// String returns the service name for logging.
func (s *TrainerService) String() string {
	return s.name
}
