// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import (
	"time"
)

// Interaction is a single user-item purchase record as loaded from the store.
type Interaction struct {
	// UserID identifies the purchasing user.
	UserID int `json:"user_id"`

	// ItemID identifies the purchased product.
	ItemID int `json:"item_id"`

	// CategoryID is the product category. Nil when the product has none.
	CategoryID *int `json:"category_id,omitempty"`

	// Strength is the number of times the pair was observed. Values below 1
	// are treated as 1.
	Strength int `json:"strength"`
}

// Candidate is an item proposed for a recommendation list.
type Candidate struct {
	// ItemID identifies the candidate item.
	ItemID int `json:"item_id"`

	// CategoryID is the item category, nil when unknown.
	CategoryID *int `json:"category_id,omitempty"`

	// Score is the tier-specific score. Nil when the tier produces no score.
	Score *float64 `json:"score,omitempty"`
}

// ScoredItem is an item with a ranking score.
type ScoredItem struct {
	ItemID int     `json:"item_id"`
	Score  float64 `json:"score"`
}

// Neighbor is a similar user with its cosine similarity.
type Neighbor struct {
	UserID     int     `json:"user_id"`
	Similarity float64 `json:"similarity"`
}

// Tier is the data-sufficiency tier that selects the scoring strategy.
type Tier int

const (
	// TierColdStart serves the global popularity ranking.
	TierColdStart Tier = iota

	// TierSparse serves items purchased by similar users.
	TierSparse

	// TierRich serves latent factor predictions.
	TierRich
)

// String returns the string representation of the tier.
func (t Tier) String() string {
	switch t {
	case TierColdStart:
		return "cold_start"
	case TierSparse:
		return "sparse"
	case TierRich:
		return "rich"
	default:
		return "unknown"
	}
}

// MarshalText encodes the tier by name.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Request contains parameters for a recommendation request.
type Request struct {
	// UserID is the user to recommend for.
	UserID int `json:"user_id"`

	// Limit is the maximum list length. Non-positive values use the
	// configured default.
	Limit int `json:"limit"`

	// MaxPerCategory caps items per category when diversity applies.
	// Non-positive values use the configured default.
	MaxPerCategory int `json:"max_per_category"`

	// Diversify applies the category cap to the rich tier as well.
	Diversify bool `json:"diversify,omitempty"`

	// RequestID is used for log correlation. Generated when empty.
	RequestID string `json:"request_id,omitempty"`
}

// Response contains a recommendation list and how it was produced.
type Response struct {
	// UserID echoes the requested user.
	UserID int `json:"user_id"`

	// Items is the ordered recommendation list.
	Items []Candidate `json:"items"`

	// Tier is the tier decided from the interaction count.
	Tier Tier `json:"tier"`

	// ServedBy is the tier that actually produced Items. It differs from
	// Tier when a fallback occurred.
	ServedBy Tier `json:"served_by"`

	// Diversified reports whether the category cap was applied.
	Diversified bool `json:"diversified"`

	// ModelVersion is the version of the model set used.
	ModelVersion int `json:"model_version"`

	// TrainedAt is when that model set was built.
	TrainedAt time.Time `json:"trained_at"`

	// RequestID is the correlation ID of the request.
	RequestID string `json:"request_id"`

	// LatencyMS is the time spent producing the response.
	LatencyMS int64 `json:"latency_ms"`
}

// IDs returns the item IDs of the response in order.
func (r *Response) IDs() []int {
	ids := make([]int, len(r.Items))
	for i, c := range r.Items {
		ids[i] = c.ItemID
	}
	return ids
}

// TrainingStatus describes the state of the training cycle.
type TrainingStatus struct {
	// IsTraining indicates whether a cycle is running.
	IsTraining bool `json:"is_training"`

	// LastTrainedAt is when the last successful cycle finished.
	LastTrainedAt time.Time `json:"last_trained_at"`

	// LastTrainingDurationMS is how long the last cycle took.
	LastTrainingDurationMS int64 `json:"last_training_duration_ms"`

	// LastError is the error of the last failed cycle, if any.
	LastError string `json:"last_error,omitempty"`

	InteractionCount int `json:"interaction_count"`
	UserCount        int `json:"user_count"`
	ItemCount        int `json:"item_count"`

	// ValidationRMSE is the held-out error of the latent factor model.
	ValidationRMSE float64 `json:"validation_rmse"`

	// ModelVersion is the current model set version. Zero means no model.
	ModelVersion int `json:"model_version"`
}

// Metrics contains engine counters for the status endpoint.
type Metrics struct {
	RequestCount  int64 `json:"request_count"`
	ErrorCount    int64 `json:"error_count"`
	FallbackCount int64 `json:"fallback_count"`

	// TierCounts counts requests by the tier that served them.
	TierCounts map[string]int64 `json:"tier_counts"`

	TrainingRuns     int64 `json:"training_runs"`
	TrainingFailures int64 `json:"training_failures"`
}
