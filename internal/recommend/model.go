// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import (
	"context"
)

// Note: This package does not import the algorithms package. Models are
// built through ModelFactory so the algorithms can depend on Table without
// creating circular imports.

// NeighborIndex finds users with similar purchase histories.
type NeighborIndex interface {
	// Neighbors returns up to k users most similar to userID, nearest first.
	// The user itself is never returned. Unknown users yield nil.
	Neighbors(userID, k int) []Neighbor

	// Contains reports whether the user is part of the index.
	Contains(userID int) bool

	// NumUsers returns the number of indexed users.
	NumUsers() int
}

// AffinityModel predicts user-item affinity from latent factors.
type AffinityModel interface {
	// Predict returns the estimated strength clipped to the rating scale.
	// Returns ErrUnknownUser when the user was not part of training.
	Predict(userID, itemID int) (float64, error)

	// RankCandidates scores every known item not in exclude and returns the
	// topN best by score descending, ties by item ID ascending.
	RankCandidates(userID int, exclude map[int]struct{}, topN int) ([]ScoredItem, error)

	// ValidationRMSE returns the error on the held-out split, or 0 when no
	// split was evaluated.
	ValidationRMSE() float64
}

// PopularityModel ranks items by total interaction strength.
type PopularityModel interface {
	// TopN returns the n most popular items, ties by item ID ascending.
	TopN(n int) []ScoredItem
}

// ModelFactory builds the per-cycle models from an interaction table.
type ModelFactory interface {
	BuildNeighborIndex(ctx context.Context, table *Table) (NeighborIndex, error)
	FitAffinityModel(ctx context.Context, table *Table) (AffinityModel, error)
	BuildPopularity(ctx context.Context, table *Table) (PopularityModel, error)
}

// DataProvider loads training data. Implemented by the database layer.
type DataProvider interface {
	// LoadInteractions returns every user-item interaction in the store.
	LoadInteractions(ctx context.Context) ([]Interaction, error)
}
