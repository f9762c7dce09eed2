// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/hybridrec/internal/metrics"
)

// modelSet is the immutable output of one training cycle.
type modelSet struct {
	table      *Table
	neighbors  NeighborIndex
	affinity   AffinityModel
	popularity PopularityModel
	version    int
	trainedAt  time.Time
}

// Engine selects a scoring tier per user and produces recommendation lists
// from the current model set. It is safe for concurrent use.
type Engine struct {
	config  *Config
	logger  zerolog.Logger
	factory ModelFactory

	dataProvider DataProvider

	// Training is exclusive. The model set is swapped under modelMu.
	trainMu  sync.Mutex
	modelMu  sync.RWMutex
	models   *modelSet
	statusMu sync.RWMutex
	status   TrainingStatus

	seedSource func() int64

	requestCount     atomic.Int64
	errorCount       atomic.Int64
	fallbackCount    atomic.Int64
	trainingRuns     atomic.Int64
	trainingFailures atomic.Int64
	tierCounts       [3]atomic.Int64
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeedSource sets the function that seeds each request's random source.
func WithSeedSource(fn func() int64) Option {
	return func(e *Engine) {
		if fn != nil {
			e.seedSource = fn
		}
	}
}

// WithDataProvider sets the training data provider.
func WithDataProvider(dp DataProvider) Option {
	return func(e *Engine) {
		e.dataProvider = dp
	}
}

// NewEngine creates a new recommendation engine. The engine serves nothing
// until the first successful Train.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, factory ModelFactory, logger zerolog.Logger, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if factory == nil {
		return nil, fmt.Errorf("model factory is required")
	}

	e := &Engine{
		config:  cfg.Clone(),
		logger:  logger.With().Str("component", "recommend").Logger(),
		factory: factory,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.seedSource == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = 42
		}
		master := rand.New(rand.NewSource(seed)) //nolint:gosec // math/rand is fine for recommendation shuffling
		var mu sync.Mutex
		e.seedSource = func() int64 {
			mu.Lock()
			defer mu.Unlock()
			return master.Int63()
		}
	}

	return e, nil
}

// SetDataProvider sets the data provider for training.
func (e *Engine) SetDataProvider(dp DataProvider) {
	e.trainMu.Lock()
	defer e.trainMu.Unlock()
	e.dataProvider = dp
}

// Train loads the interaction table, builds a complete model set and swaps
// it in. Returns ErrTrainingInProgress if another cycle is running. On
// failure the previous model set, if any, keeps serving.
func (e *Engine) Train(ctx context.Context) error {
	if !e.trainMu.TryLock() {
		return ErrTrainingInProgress
	}
	defer e.trainMu.Unlock()

	if e.dataProvider == nil {
		return ErrNoDataProvider
	}

	start := time.Now()
	e.setTraining(true)
	e.logger.Info().Msg("starting model training")

	if e.config.TrainTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.TrainTimeout)
		defer cancel()
	}

	ms, err := e.buildModelSet(ctx)
	duration := time.Since(start)
	e.trainingRuns.Add(1)

	if err != nil {
		e.trainingFailures.Add(1)
		e.finishTraining(nil, duration, err)
		metrics.RecordTraining("failure", duration)
		e.logger.Error().Err(err).Dur("duration", duration).Msg("model training failed")
		return err
	}

	e.modelMu.Lock()
	if e.models != nil {
		ms.version = e.models.version + 1
	} else {
		ms.version = 1
	}
	e.models = ms
	e.modelMu.Unlock()

	e.finishTraining(ms, duration, nil)
	metrics.RecordTraining("success", duration)
	metrics.SetModelStats(ms.version, len(ms.table.Records()), ms.table.NumUsers(), ms.table.NumItems(), ms.affinity.ValidationRMSE())

	e.logger.Info().
		Int("version", ms.version).
		Int("users", ms.table.NumUsers()).
		Int("items", ms.table.NumItems()).
		Int("interactions", len(ms.table.Records())).
		Float64("validation_rmse", ms.affinity.ValidationRMSE()).
		Int64("duration_ms", duration.Milliseconds()).
		Msg("model training complete")

	return nil
}

// buildModelSet loads data and fits the three models in parallel.
func (e *Engine) buildModelSet(ctx context.Context) (*modelSet, error) {
	interactions, err := e.dataProvider.LoadInteractions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load interactions: %w", err)
	}

	table, err := NewTable(interactions)
	if err != nil {
		return nil, fmt.Errorf("build interaction table: %w", err)
	}

	e.logger.Info().
		Int("raw_interactions", len(interactions)).
		Int("records", len(table.Records())).
		Int("users", table.NumUsers()).
		Int("items", table.NumItems()).
		Msg("loaded training data")

	if table.NumUsers() < 2 {
		e.logger.Warn().
			Int("users", table.NumUsers()).
			Msg("fewer than two users, similarity tier will return empty lists")
	}

	ms := &modelSet{table: table, trainedAt: time.Now()}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		idx, err := e.factory.BuildNeighborIndex(gctx, table)
		if err != nil {
			return fmt.Errorf("build similarity index: %w", err)
		}
		ms.neighbors = idx
		return nil
	})
	g.Go(func() error {
		model, err := e.factory.FitAffinityModel(gctx, table)
		if err != nil {
			return fmt.Errorf("fit latent factor model: %w", err)
		}
		ms.affinity = model
		return nil
	})
	g.Go(func() error {
		pop, err := e.factory.BuildPopularity(gctx, table)
		if err != nil {
			return fmt.Errorf("build popularity ranking: %w", err)
		}
		ms.popularity = pop
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return ms, nil
}

func (e *Engine) setTraining(training bool) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	e.status.IsTraining = training
}

func (e *Engine) finishTraining(ms *modelSet, duration time.Duration, err error) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()

	e.status.IsTraining = false
	e.status.LastTrainingDurationMS = duration.Milliseconds()
	if err != nil {
		e.status.LastError = err.Error()
		return
	}

	e.status.LastError = ""
	e.status.LastTrainedAt = ms.trainedAt
	e.status.ModelVersion = ms.version
	e.status.InteractionCount = len(ms.table.Records())
	e.status.UserCount = ms.table.NumUsers()
	e.status.ItemCount = ms.table.NumItems()
	e.status.ValidationRMSE = ms.affinity.ValidationRMSE()
}

// current returns the model set in use, or nil before the first cycle.
func (e *Engine) current() *modelSet {
	e.modelMu.RLock()
	defer e.modelMu.RUnlock()
	return e.models
}

// Recommend produces a recommendation list for a user. The tier is decided
// from the user's interaction count on every call.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	ms := e.current()
	if ms == nil {
		e.errorCount.Add(1)
		metrics.RecordRecommendationError("unavailable")
		return nil, ErrEngineUnavailable
	}

	if err := ctx.Err(); err != nil {
		e.errorCount.Add(1)
		return nil, err
	}

	req = e.prepareRequest(req)
	logger := e.createRequestLogger(req)

	count := ms.table.InteractionCount(req.UserID)
	tier := ClassifyTier(count, e.config.Policy.RichThreshold)
	rng := rand.New(rand.NewSource(e.seedSource())) //nolint:gosec // math/rand is fine for recommendation shuffling

	items, servedBy, diversified, err := e.serve(ms, tier, req, rng, logger)
	if err != nil {
		e.errorCount.Add(1)
		metrics.RecordRecommendationError("internal")
		return nil, err
	}

	if items == nil {
		items = []Candidate{}
	}
	if servedBy != tier {
		e.fallbackCount.Add(1)
	}
	e.tierCounts[servedBy].Add(1)

	latency := time.Since(start)
	metrics.RecordRecommendation(tier.String(), servedBy.String(), latency)

	logger.Debug().
		Int("interaction_count", count).
		Str("tier", tier.String()).
		Str("served_by", servedBy.String()).
		Int("returned", len(items)).
		Msg("recommendation complete")

	return &Response{
		UserID:       req.UserID,
		Items:        items,
		Tier:         tier,
		ServedBy:     servedBy,
		Diversified:  diversified,
		ModelVersion: ms.version,
		TrainedAt:    ms.trainedAt,
		RequestID:    req.RequestID,
		LatencyMS:    latency.Milliseconds(),
	}, nil
}

// serve runs the tier strategy, falling back one tier at a time when the
// strategy cannot serve the user.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) serve(ms *modelSet, tier Tier, req Request, rng *rand.Rand, logger zerolog.Logger) ([]Candidate, Tier, bool, error) {
	for t := tier; ; t-- {
		switch t {
		case TierRich:
			diversify := req.Diversify || e.config.Policy.DiversifyRich
			topN := req.Limit
			if diversify {
				topN = 0
			}

			cands, err := richCandidates(ms, req.UserID, topN)
			if err == nil {
				if diversify {
					// Groups in first-appearance order keep score order.
					return SelectDiverse(cands, req.Limit, req.MaxPerCategory, nil), TierRich, true, nil
				}
				return dedupe(cands, req.Limit), TierRich, false, nil
			}
			if !errors.Is(err, ErrUnknownUser) {
				return nil, t, false, err
			}
			logger.Debug().Err(err).Msg("latent factor model cannot score user, falling back to sparse tier")

		case TierSparse:
			cands, err := sparseCandidates(ms, req.UserID, e.config.Similarity.Neighbors)
			if err == nil {
				return SelectDiverse(cands, req.Limit, req.MaxPerCategory, rng), TierSparse, true, nil
			}
			logger.Debug().Err(err).Msg("similarity index cannot serve user, falling back to cold start")

		default:
			return coldStartCandidates(ms, req.Limit), TierColdStart, false, nil
		}
	}
}

// RecommendIDs returns only the ordered item IDs for a user.
func (e *Engine) RecommendIDs(ctx context.Context, userID, limit, maxPerCategory int) ([]int, error) {
	resp, err := e.Recommend(ctx, Request{
		UserID:         userID,
		Limit:          limit,
		MaxPerCategory: maxPerCategory,
	})
	if err != nil {
		return nil, err
	}
	return resp.IDs(), nil
}

// prepareRequest applies defaults and generates a request ID if needed.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) Request {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	if req.Limit <= 0 {
		req.Limit = e.config.Policy.DefaultLimit
	}
	if req.Limit > e.config.Policy.MaxLimit {
		req.Limit = e.config.Policy.MaxLimit
	}
	if req.MaxPerCategory <= 0 {
		req.MaxPerCategory = e.config.Policy.DefaultMaxPerCategory
	}
	return req
}

// createRequestLogger creates a logger with request context.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) createRequestLogger(req Request) zerolog.Logger {
	return e.logger.With().
		Str("request_id", req.RequestID).
		Int("user_id", req.UserID).
		Int("limit", req.Limit).
		Logger()
}

// PopularItems returns the n most popular items of the current model set.
// A non-positive n uses the default limit.
func (e *Engine) PopularItems(n int) ([]ScoredItem, error) {
	ms := e.current()
	if ms == nil {
		return nil, ErrEngineUnavailable
	}
	if n <= 0 {
		n = e.config.Policy.DefaultLimit
	}
	return ms.popularity.TopN(n), nil
}

// Neighbors returns the k users most similar to userID. A non-positive k
// uses the configured neighbor count.
func (e *Engine) Neighbors(userID, k int) ([]Neighbor, error) {
	ms := e.current()
	if ms == nil {
		return nil, ErrEngineUnavailable
	}
	if k <= 0 {
		k = e.config.Similarity.Neighbors
	}
	return ms.neighbors.Neighbors(userID, k), nil
}

// Tier returns the tier a user would be served from and the interaction
// count it was decided on.
func (e *Engine) Tier(userID int) (Tier, int, error) {
	ms := e.current()
	if ms == nil {
		return TierColdStart, 0, ErrEngineUnavailable
	}
	count := ms.table.InteractionCount(userID)
	return ClassifyTier(count, e.config.Policy.RichThreshold), count, nil
}

// Ready reports whether a model set is loaded.
func (e *Engine) Ready() bool {
	return e.current() != nil
}

// GetStatus returns the current training status.
func (e *Engine) GetStatus() TrainingStatus {
	e.statusMu.RLock()
	defer e.statusMu.RUnlock()
	return e.status
}

// GetMetrics returns the engine counters.
func (e *Engine) GetMetrics() Metrics {
	m := Metrics{
		RequestCount:     e.requestCount.Load(),
		ErrorCount:       e.errorCount.Load(),
		FallbackCount:    e.fallbackCount.Load(),
		TrainingRuns:     e.trainingRuns.Load(),
		TrainingFailures: e.trainingFailures.Load(),
		TierCounts:       make(map[string]int64, len(e.tierCounts)),
	}
	for t := range e.tierCounts {
		m.TierCounts[Tier(t).String()] = e.tierCounts[t].Load()
	}
	return m
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}
