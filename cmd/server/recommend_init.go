// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/hybridrec/internal/config"
	"github.com/tomtom215/hybridrec/internal/database"
	"github.com/tomtom215/hybridrec/internal/recommend"
	"github.com/tomtom215/hybridrec/internal/recommend/algorithms"
	"github.com/tomtom215/hybridrec/internal/snapshot"
	"github.com/tomtom215/hybridrec/internal/supervisor"
	"github.com/tomtom215/hybridrec/internal/supervisor/services"
)

// RecommendComponents holds the recommendation engine and what it owns.
type RecommendComponents struct {
	Engine   *recommend.Engine
	Service  *services.RecommendService
	Snapshot *snapshot.Store
}

// Close releases the snapshot store, if one was opened.
func (c *RecommendComponents) Close() error {
	if c.Snapshot == nil {
		return nil
	}
	return c.Snapshot.Close()
}

// newInteractionSource builds the engine's data provider chain:
// store, then circuit breaker, then (when enabled) the snapshot fallback.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func newInteractionSource(cfg *config.Config, db *database.DB, logger zerolog.Logger) (recommend.DataProvider, *snapshot.Store, error) {
	breaker := database.NewBreakerProvider(db, cfg.Breaker)

	if !cfg.Snapshot.Enabled {
		logger.Info().Msg("Interaction snapshot disabled")
		return breaker, nil, nil
	}

	store, err := snapshot.Open(cfg.Snapshot, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open snapshot store: %w", err)
	}
	logger.Info().
		Str("path", cfg.Snapshot.Path).
		Bool("in_memory", cfg.Snapshot.InMemory).
		Msg("Interaction snapshot enabled")

	return snapshot.NewFallbackProvider(breaker, store, logger), store, nil
}

// initRecommend creates the engine and registers its training service with
// the data layer of the supervisor tree.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(cfg *config.Config, db *database.DB, logger zerolog.Logger, tree *supervisor.SupervisorTree) (*RecommendComponents, error) {
	engineCfg := cfg.Recommend.EngineConfig()

	logger.Info().
		Int("rich_threshold", engineCfg.Policy.RichThreshold).
		Int("neighbors", engineCfg.Similarity.Neighbors).
		Int("factors", engineCfg.LatentFactor.Factors).
		Dur("train_interval", cfg.Recommend.TrainInterval).
		Bool("train_on_startup", cfg.Recommend.TrainOnStartup).
		Msg("Initializing recommendation engine")

	source, store, err := newInteractionSource(cfg, db, logger)
	if err != nil {
		return nil, err
	}

	engine, err := recommend.NewEngine(
		engineCfg,
		algorithms.NewFactory(engineCfg, logger),
		logger,
		recommend.WithDataProvider(source),
	)
	if err != nil {
		if store != nil {
			_ = store.Close()
		}
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}

	service := services.NewRecommendService(engine, services.RecommendServiceConfig{
		TrainOnStartup: cfg.Recommend.TrainOnStartup,
		TrainInterval:  cfg.Recommend.TrainInterval,
		TrainTimeout:   engineCfg.TrainTimeout,
	}, logger)
	tree.AddDataService(service)
	logger.Info().Msg("Recommendation service added to supervisor tree")

	return &RecommendComponents{
		Engine:   engine,
		Service:  service,
		Snapshot: store,
	}, nil
}
