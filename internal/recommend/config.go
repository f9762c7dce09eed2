// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Similarity contains parameters for the user similarity index.
	Similarity SimilarityConfig `json:"similarity"`

	// LatentFactor contains parameters for the latent factor scorer.
	LatentFactor LatentFactorConfig `json:"latent_factor"`

	// Policy contains tier selection and list shaping parameters.
	Policy PolicyConfig `json:"policy"`

	// TrainTimeout bounds a single training cycle.
	TrainTimeout time.Duration `json:"train_timeout"`

	// Seed is the random seed for model fitting and per-request shuffling.
	// If zero, a fixed default seed is used.
	Seed int64 `json:"seed"`
}

// SimilarityConfig contains parameters for the cosine neighbor index.
type SimilarityConfig struct {
	// Neighbors is the number of neighbors consulted on the sparse tier.
	Neighbors int `json:"neighbors"`

	// MinSimilarity drops neighbors below this cosine similarity.
	// Zero keeps every neighbor, including orthogonal ones.
	MinSimilarity float64 `json:"min_similarity"`
}

// LatentFactorConfig contains parameters for the SGD matrix factorization.
type LatentFactorConfig struct {
	// Factors is the embedding dimension.
	Factors int `json:"factors"`

	// Epochs is the number of passes over the training split.
	Epochs int `json:"epochs"`

	// LearningRate is the SGD step size.
	LearningRate float64 `json:"learning_rate"`

	// Regularization is the L2 penalty on factors and biases.
	Regularization float64 `json:"regularization"`

	// InitStdDev is the standard deviation of the initial factors.
	InitStdDev float64 `json:"init_std_dev"`

	// HoldoutFraction is the share of records held out for the validation
	// RMSE. Zero disables validation.
	HoldoutFraction float64 `json:"holdout_fraction"`
}

// PolicyConfig contains parameters of the hybrid tier policy.
type PolicyConfig struct {
	// RichThreshold is the interaction count at which a user is rich.
	RichThreshold int `json:"rich_threshold"`

	// DefaultLimit replaces non-positive request limits.
	DefaultLimit int `json:"default_limit"`

	// DefaultMaxPerCategory replaces non-positive per-category caps.
	DefaultMaxPerCategory int `json:"default_max_per_category"`

	// MaxLimit caps the list length a request may ask for.
	MaxLimit int `json:"max_limit"`

	// DiversifyRich applies the category cap to the rich tier by default.
	DiversifyRich bool `json:"diversify_rich"`
}

// DefaultConfig returns a configuration with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Similarity: SimilarityConfig{
			Neighbors:     10,
			MinSimilarity: 0,
		},
		LatentFactor: LatentFactorConfig{
			Factors:         50,
			Epochs:          20,
			LearningRate:    0.005,
			Regularization:  0.02,
			InitStdDev:      0.1,
			HoldoutFraction: 0.2,
		},
		Policy: PolicyConfig{
			RichThreshold:         5,
			DefaultLimit:          30,
			DefaultMaxPerCategory: 2,
			MaxLimit:              500,
			DiversifyRich:         false,
		},
		TrainTimeout: 30 * time.Minute,
		Seed:         42,
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if err := c.validateSimilarity(); err != nil {
		return err
	}
	if err := c.validateLatentFactor(); err != nil {
		return err
	}
	if err := c.validatePolicy(); err != nil {
		return err
	}
	if c.TrainTimeout < 0 {
		return fmt.Errorf("train_timeout must be non-negative, got %v", c.TrainTimeout)
	}
	return nil
}

func (c *Config) validateSimilarity() error {
	if c.Similarity.Neighbors < 1 {
		return fmt.Errorf("similarity.neighbors must be at least 1, got %d", c.Similarity.Neighbors)
	}
	if c.Similarity.MinSimilarity < 0 || c.Similarity.MinSimilarity > 1 {
		return fmt.Errorf("similarity.min_similarity must be in [0, 1], got %f", c.Similarity.MinSimilarity)
	}
	return nil
}

func (c *Config) validateLatentFactor() error {
	lf := c.LatentFactor
	if lf.Factors < 1 {
		return fmt.Errorf("latent_factor.factors must be positive, got %d", lf.Factors)
	}
	if lf.Epochs < 1 {
		return fmt.Errorf("latent_factor.epochs must be positive, got %d", lf.Epochs)
	}
	if lf.LearningRate <= 0 {
		return fmt.Errorf("latent_factor.learning_rate must be positive, got %f", lf.LearningRate)
	}
	if lf.Regularization < 0 {
		return fmt.Errorf("latent_factor.regularization must be non-negative, got %f", lf.Regularization)
	}
	if lf.InitStdDev < 0 {
		return fmt.Errorf("latent_factor.init_std_dev must be non-negative, got %f", lf.InitStdDev)
	}
	if lf.HoldoutFraction < 0 || lf.HoldoutFraction >= 1 {
		return fmt.Errorf("latent_factor.holdout_fraction must be in [0, 1), got %f", lf.HoldoutFraction)
	}
	return nil
}

func (c *Config) validatePolicy() error {
	p := c.Policy
	if p.RichThreshold < 1 {
		return fmt.Errorf("policy.rich_threshold must be at least 1, got %d", p.RichThreshold)
	}
	if p.DefaultLimit < 1 {
		return fmt.Errorf("policy.default_limit must be positive, got %d", p.DefaultLimit)
	}
	if p.DefaultMaxPerCategory < 1 {
		return fmt.Errorf("policy.default_max_per_category must be positive, got %d", p.DefaultMaxPerCategory)
	}
	if p.MaxLimit < p.DefaultLimit {
		return fmt.Errorf("policy.max_limit (%d) must be >= policy.default_limit (%d)", p.MaxLimit, p.DefaultLimit)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
