// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

// Package algorithms implements the scoring models of the hybrid engine.
//
//   - SimilarityIndex: brute-force cosine neighbors over binary purchase rows
//   - LatentFactor: biased matrix factorization trained with SGD
//   - Popularity: total purchase strength per item
//
// # Thread Safety
//
// Models are built once per training cycle and never mutated afterwards, so
// all read methods are safe for concurrent use without locking.
package algorithms

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// Compile-time interface checks.
var (
	_ recommend.ModelFactory    = (*Factory)(nil)
	_ recommend.NeighborIndex   = (*SimilarityIndex)(nil)
	_ recommend.AffinityModel   = (*LatentFactor)(nil)
	_ recommend.PopularityModel = (*Popularity)(nil)
)

// Factory builds the engine's models from engine configuration.
type Factory struct {
	similarity SimilarityConfig
	latent     LatentFactorConfig
	logger     zerolog.Logger
}

// NewFactory creates a model factory from the engine configuration.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewFactory(cfg *recommend.Config, logger zerolog.Logger) *Factory {
	if cfg == nil {
		cfg = recommend.DefaultConfig()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = 42
	}

	return &Factory{
		similarity: SimilarityConfig{
			MinSimilarity: cfg.Similarity.MinSimilarity,
		},
		latent: LatentFactorConfig{
			Factors:         cfg.LatentFactor.Factors,
			Epochs:          cfg.LatentFactor.Epochs,
			LearningRate:    cfg.LatentFactor.LearningRate,
			Regularization:  cfg.LatentFactor.Regularization,
			InitStdDev:      cfg.LatentFactor.InitStdDev,
			HoldoutFraction: cfg.LatentFactor.HoldoutFraction,
			Seed:            seed,
		},
		logger: logger.With().Str("component", "algorithms").Logger(),
	}
}

// BuildNeighborIndex builds the cosine similarity index.
func (f *Factory) BuildNeighborIndex(ctx context.Context, table *recommend.Table) (recommend.NeighborIndex, error) {
	return NewSimilarityIndex(ctx, table, f.similarity)
}

// FitAffinityModel fits the latent factor model.
func (f *Factory) FitAffinityModel(ctx context.Context, table *recommend.Table) (recommend.AffinityModel, error) {
	lf, err := FitLatentFactor(ctx, table, f.latent)
	if err != nil {
		return nil, err
	}

	f.logger.Debug().
		Int("factors", f.latent.Factors).
		Int("epochs", f.latent.Epochs).
		Int("train_records", lf.trainSize).
		Int("holdout_records", lf.holdoutSize).
		Float64("validation_rmse", lf.ValidationRMSE()).
		Msg("latent factor model fitted")

	return lf, nil
}

// BuildPopularity builds the popularity ranking.
func (f *Factory) BuildPopularity(ctx context.Context, table *recommend.Table) (recommend.PopularityModel, error) {
	if ContextCancelled(ctx) {
		return nil, ctx.Err()
	}
	return NewPopularity(table), nil
}

// ContextCancelled checks if the context has been cancelled.
// Returns true if cancelled, false otherwise.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
