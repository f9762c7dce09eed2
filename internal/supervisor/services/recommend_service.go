// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// Trainer runs one training cycle. *recommend.Engine implements it.
type Trainer interface {
	Train(ctx context.Context) error
}

// RecommendServiceConfig holds configuration for the training service.
type RecommendServiceConfig struct {
	// TrainOnStartup runs a cycle as soon as the service starts.
	TrainOnStartup bool

	// TrainInterval is the time between scheduled cycles. Default: 1h.
	TrainInterval time.Duration

	// TrainTimeout bounds a single cycle. Default: 10m.
	TrainTimeout time.Duration
}

// RecommendService keeps the recommendation model fresh. A failed cycle is
// logged and retried on the next tick; the engine keeps serving the last
// good model meanwhile.
type RecommendService struct {
	trainer Trainer
	config  RecommendServiceConfig
	logger  zerolog.Logger
	name    string
}

// NewRecommendService creates the training service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRecommendService(trainer Trainer, cfg RecommendServiceConfig, logger zerolog.Logger) *RecommendService {
	if cfg.TrainInterval <= 0 {
		cfg.TrainInterval = time.Hour
	}
	if cfg.TrainTimeout <= 0 {
		cfg.TrainTimeout = 10 * time.Minute
	}
	return &RecommendService{
		trainer: trainer,
		config:  cfg,
		logger:  logger.With().Str("service", "recommend").Logger(),
		name:    "recommend-service",
	}
}

// Serve implements suture.Service.
func (s *RecommendService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("train_on_startup", s.config.TrainOnStartup).
		Dur("train_interval", s.config.TrainInterval).
		Msg("recommendation service starting")

	if s.config.TrainOnStartup {
		s.train(ctx, "startup")
	}

	ticker := time.NewTicker(s.config.TrainInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("recommendation service shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.train(ctx, "schedule")
		}
	}
}

// train runs one cycle and logs the outcome. Errors never stop the service.
func (s *RecommendService) train(ctx context.Context, trigger string) {
	trainCtx, cancel := context.WithTimeout(ctx, s.config.TrainTimeout)
	defer cancel()

	start := time.Now()
	err := s.trainer.Train(trainCtx)

	switch {
	case err == nil:
		s.logger.Info().
			Str("trigger", trigger).
			Dur("duration", time.Since(start)).
			Msg("model training complete")
	case errors.Is(err, recommend.ErrTrainingInProgress):
		s.logger.Debug().Str("trigger", trigger).Msg("training already running, skipping cycle")
	case ctx.Err() != nil:
		// shutting down
	case errors.Is(err, recommend.ErrEmptyTable):
		s.logger.Warn().Str("trigger", trigger).Msg("no interactions in store, engine stays on previous model")
	default:
		s.logger.Error().Err(err).Str("trigger", trigger).Msg("model training failed, will retry on schedule")
	}
}

// String returns the service name for supervisor events.
func (s *RecommendService) String() string {
	return s.name
}
