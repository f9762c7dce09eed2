// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package algorithms

import (
	"context"
	"math"
	"sort"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// SimilarityConfig contains configuration for the similarity index.
type SimilarityConfig struct {
	// MinSimilarity drops neighbors below this cosine similarity.
	// Zero keeps all users, including those with no common item.
	MinSimilarity float64
}

// SimilarityIndex finds nearest users by cosine similarity of their binary
// purchase rows. Search is brute force over all users.
//
// For users u and v with item sets A and B:
//
//	sim(u, v) = |A ∩ B| / sqrt(|A| * |B|)
type SimilarityIndex struct {
	config SimilarityConfig

	users []int

	// rowSize is |A| per user.
	rowSize map[int]int

	// rows and itemUsers form the presence matrix and its transpose.
	rows      map[int][]int
	itemUsers map[int][]int
}

// NewSimilarityIndex builds the presence matrix from a table.
func NewSimilarityIndex(ctx context.Context, table *recommend.Table, cfg SimilarityConfig) (*SimilarityIndex, error) {
	idx := &SimilarityIndex{
		config:    cfg,
		users:     table.Users(),
		rowSize:   make(map[int]int, table.NumUsers()),
		rows:      make(map[int][]int, table.NumUsers()),
		itemUsers: make(map[int][]int, table.NumItems()),
	}

	for i, userID := range idx.users {
		if i%1000 == 0 && ContextCancelled(ctx) {
			return nil, ctx.Err()
		}

		items := table.UserItems(userID)
		idx.rows[userID] = items
		idx.rowSize[userID] = len(items)
		for _, itemID := range items {
			idx.itemUsers[itemID] = append(idx.itemUsers[itemID], userID)
		}
	}

	return idx, nil
}

// Contains reports whether the user has a row in the index.
func (s *SimilarityIndex) Contains(userID int) bool {
	_, ok := s.rows[userID]
	return ok
}

// NumUsers returns the number of indexed users.
func (s *SimilarityIndex) NumUsers() int {
	return len(s.users)
}

// Neighbors returns up to k other users ordered by similarity descending,
// ties by user ID ascending. k is clamped to the number of other users.
// Unknown users, k < 1 and an index with fewer than two users yield nil.
func (s *SimilarityIndex) Neighbors(userID, k int) []recommend.Neighbor {
	if !s.Contains(userID) || len(s.users) < 2 || k < 1 {
		return nil
	}
	if k > len(s.users)-1 {
		k = len(s.users) - 1
	}

	overlap := make(map[int]int)
	for _, itemID := range s.rows[userID] {
		for _, other := range s.itemUsers[itemID] {
			if other != userID {
				overlap[other]++
			}
		}
	}

	size := float64(s.rowSize[userID])
	out := make([]recommend.Neighbor, 0, len(s.users)-1)
	for _, other := range s.users {
		if other == userID {
			continue
		}

		sim := 0.0
		if common := overlap[other]; common > 0 {
			sim = float64(common) / math.Sqrt(size*float64(s.rowSize[other]))
		}
		if s.config.MinSimilarity > 0 && sim < s.config.MinSimilarity {
			continue
		}

		out = append(out, recommend.Neighbor{UserID: other, Similarity: sim})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		return out[i].UserID < out[j].UserID
	})

	if len(out) > k {
		out = out[:k]
	}
	return out
}

// Similarity returns the cosine similarity between two users, or 0 when
// either is unknown.
func (s *SimilarityIndex) Similarity(a, b int) float64 {
	rowA, okA := s.rows[a]
	rowB, okB := s.rows[b]
	if !okA || !okB || len(rowA) == 0 || len(rowB) == 0 {
		return 0
	}

	// Rows are sorted ascending.
	common := 0
	for i, j := 0, 0; i < len(rowA) && j < len(rowB); {
		switch {
		case rowA[i] == rowB[j]:
			common++
			i++
			j++
		case rowA[i] < rowB[j]:
			i++
		default:
			j++
		}
	}

	return float64(common) / math.Sqrt(float64(len(rowA))*float64(len(rowB)))
}
