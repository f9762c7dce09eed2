// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package algorithms

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// LatentFactorConfig contains configuration for the latent factor model.
type LatentFactorConfig struct {
	// Factors is the number of latent dimensions.
	// Typical range: 20-200.
	Factors int

	// Epochs is the number of SGD passes over the training split.
	Epochs int

	// LearningRate is the SGD step size.
	LearningRate float64

	// Regularization is the L2 penalty on biases and factors.
	Regularization float64

	// InitStdDev is the standard deviation of the initial factors.
	InitStdDev float64

	// HoldoutFraction is the share of records held out for validation.
	// Zero trains on every record and skips validation.
	HoldoutFraction float64

	// Seed makes the split and initialization reproducible.
	Seed int64
}

// DefaultLatentFactorConfig returns default latent factor configuration.
func DefaultLatentFactorConfig() LatentFactorConfig {
	return LatentFactorConfig{
		Factors:         50,
		Epochs:          20,
		LearningRate:    0.005,
		Regularization:  0.02,
		InitStdDev:      0.1,
		HoldoutFraction: 0.2,
		Seed:            42,
	}
}

// LatentFactor is a biased matrix factorization model fitted with SGD on
// purchase strengths:
//
//	r̂(u, i) = mu + b_u + b_i + p_u · q_i
//
// Predictions are clipped to the rating scale [1, max observed strength].
// Rankings use the unclipped estimate so that items above the scale stay
// ordered.
type LatentFactor struct {
	config LatentFactorConfig

	mu       float64
	minScale float64
	maxScale float64

	userIndex map[int]int
	itemIndex map[int]int
	userBias  []float64
	itemBias  []float64
	userVecs  [][]float64
	itemVecs  [][]float64

	// items is every item in the table, including those only seen in the
	// held-out split.
	items []int

	trainSize      int
	holdoutSize    int
	validationRMSE float64
}

type rating struct {
	user  int
	item  int
	value float64
}

// FitLatentFactor splits the table into training and held-out records,
// fits the model on the training split and evaluates RMSE on the rest.
func FitLatentFactor(ctx context.Context, table *recommend.Table, cfg LatentFactorConfig) (*LatentFactor, error) {
	if cfg.Factors < 1 || cfg.Epochs < 1 {
		return nil, fmt.Errorf("latent factor: factors and epochs must be positive")
	}

	records := table.Records()
	if len(records) == 0 {
		return nil, recommend.ErrEmptyTable
	}

	maxScale := float64(table.MaxStrength())
	if maxScale < 1 {
		maxScale = 1
	}

	m := &LatentFactor{
		config:    cfg,
		minScale:  1,
		maxScale:  maxScale,
		userIndex: make(map[int]int),
		itemIndex: make(map[int]int),
		items:     table.Items(),
	}

	//nolint:gosec // G404: math/rand is acceptable for ML initialization (not security)
	rng := rand.New(rand.NewSource(cfg.Seed))

	train, holdout := splitRecords(records, cfg.HoldoutFraction, rng)
	m.trainSize = len(train)
	m.holdoutSize = len(holdout)

	m.initParams(train, rng)

	if err := m.sgd(ctx, train, rng); err != nil {
		return nil, err
	}

	if len(holdout) > 0 {
		m.validationRMSE = m.rmse(holdout)
	}

	return m, nil
}

// splitRecords shuffles a copy of records and holds out the first
// ceil(fraction * n) of them. At least one record is kept for training.
func splitRecords(records []recommend.Interaction, fraction float64, rng *rand.Rand) (train, holdout []rating) {
	all := make([]rating, len(records))
	for i, r := range records {
		all[i] = rating{user: r.UserID, item: r.ItemID, value: float64(r.Strength)}
	}

	rng.Shuffle(len(all), func(i, j int) {
		all[i], all[j] = all[j], all[i]
	})

	n := 0
	if fraction > 0 {
		n = int(math.Ceil(fraction * float64(len(all))))
		if n >= len(all) {
			n = len(all) - 1
		}
	}

	return all[n:], all[:n]
}

// initParams indexes the training users and items and draws initial factors.
func (m *LatentFactor) initParams(train []rating, rng *rand.Rand) {
	sum := 0.0
	for _, r := range train {
		sum += r.value
		if _, ok := m.userIndex[r.user]; !ok {
			m.userIndex[r.user] = len(m.userIndex)
		}
		if _, ok := m.itemIndex[r.item]; !ok {
			m.itemIndex[r.item] = len(m.itemIndex)
		}
	}
	m.mu = sum / float64(len(train))

	m.userBias = make([]float64, len(m.userIndex))
	m.itemBias = make([]float64, len(m.itemIndex))
	m.userVecs = randomMatrix(len(m.userIndex), m.config.Factors, m.config.InitStdDev, rng)
	m.itemVecs = randomMatrix(len(m.itemIndex), m.config.Factors, m.config.InitStdDev, rng)
}

func randomMatrix(rows, cols int, stdDev float64, rng *rand.Rand) [][]float64 {
	out := make([][]float64, rows)
	for i := range out {
		out[i] = make([]float64, cols)
		for f := range out[i] {
			out[i][f] = rng.NormFloat64() * stdDev
		}
	}
	return out
}

// sgd runs the configured number of epochs over the training split.
func (m *LatentFactor) sgd(ctx context.Context, train []rating, rng *rand.Rand) error {
	lr := m.config.LearningRate
	reg := m.config.Regularization

	for epoch := 0; epoch < m.config.Epochs; epoch++ {
		if ContextCancelled(ctx) {
			return ctx.Err()
		}

		// Shuffle training records each epoch
		rng.Shuffle(len(train), func(i, j int) {
			train[i], train[j] = train[j], train[i]
		})

		for _, r := range train {
			u := m.userIndex[r.user]
			i := m.itemIndex[r.item]
			pu := m.userVecs[u]
			qi := m.itemVecs[i]

			err := r.value - (m.mu + m.userBias[u] + m.itemBias[i] + dot(pu, qi))

			m.userBias[u] += lr * (err - reg*m.userBias[u])
			m.itemBias[i] += lr * (err - reg*m.itemBias[i])

			for f := range pu {
				puf, qif := pu[f], qi[f]
				pu[f] += lr * (err*qif - reg*puf)
				qi[f] += lr * (err*puf - reg*qif)
			}
		}
	}

	return nil
}

// estimate returns the unclipped prediction. Unknown users and items
// contribute no bias and no factors.
func (m *LatentFactor) estimate(userID, itemID int) float64 {
	est := m.mu
	u, knownUser := m.userIndex[userID]
	i, knownItem := m.itemIndex[itemID]

	if knownUser {
		est += m.userBias[u]
	}
	if knownItem {
		est += m.itemBias[i]
	}
	if knownUser && knownItem {
		est += dot(m.userVecs[u], m.itemVecs[i])
	}
	return est
}

func (m *LatentFactor) clip(v float64) float64 {
	return math.Max(m.minScale, math.Min(m.maxScale, v))
}

// rmse computes the root mean squared error of clipped predictions.
func (m *LatentFactor) rmse(ratings []rating) float64 {
	var sum float64
	for _, r := range ratings {
		diff := r.value - m.clip(m.estimate(r.user, r.item))
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(ratings)))
}

// Predict returns the estimated strength clipped to the rating scale.
// Items without training data are scored from the global mean and the
// user bias.
func (m *LatentFactor) Predict(userID, itemID int) (float64, error) {
	if _, ok := m.userIndex[userID]; !ok {
		return 0, recommend.ErrUnknownUser
	}
	return m.clip(m.estimate(userID, itemID)), nil
}

// RankCandidates scores every item not in exclude and returns the topN best
// by unclipped estimate descending, ties by item ID ascending. A
// non-positive topN returns every candidate.
func (m *LatentFactor) RankCandidates(userID int, exclude map[int]struct{}, topN int) ([]recommend.ScoredItem, error) {
	if _, ok := m.userIndex[userID]; !ok {
		return nil, recommend.ErrUnknownUser
	}

	scored := make([]recommend.ScoredItem, 0, len(m.items))
	for _, itemID := range m.items {
		if _, skip := exclude[itemID]; skip {
			continue
		}
		scored = append(scored, recommend.ScoredItem{
			ItemID: itemID,
			Score:  m.estimate(userID, itemID),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].ItemID < scored[j].ItemID
	})

	if topN > 0 && len(scored) > topN {
		scored = scored[:topN]
	}
	return scored, nil
}

// ValidationRMSE returns the held-out RMSE, or 0 when no split was held out.
func (m *LatentFactor) ValidationRMSE() float64 {
	return m.validationRMSE
}

// KnowsUser reports whether the user was part of the training split.
func (m *LatentFactor) KnowsUser(userID int) bool {
	_, ok := m.userIndex[userID]
	return ok
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
