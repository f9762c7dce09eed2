// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import (
	"errors"
	"fmt"
)

// errNotIndexed signals that the sparse tier cannot serve a user.
var errNotIndexed = errors.New("user not in similarity index")

// ClassifyTier returns the tier for a user with the given interaction count.
func ClassifyTier(count, richThreshold int) Tier {
	switch {
	case count <= 0:
		return TierColdStart
	case count >= richThreshold:
		return TierRich
	default:
		return TierSparse
	}
}

// richCandidates ranks every unseen item with the latent factor model.
// A non-positive topN ranks all of them.
func richCandidates(ms *modelSet, userID, topN int) ([]Candidate, error) {
	if ms.affinity == nil {
		return nil, fmt.Errorf("latent factor model: %w", ErrUnknownUser)
	}

	scored, err := ms.affinity.RankCandidates(userID, ms.table.UserItemSet(userID), topN)
	if err != nil {
		return nil, fmt.Errorf("rank candidates: %w", err)
	}

	out := make([]Candidate, len(scored))
	for i, s := range scored {
		score := s.Score
		out[i] = Candidate{
			ItemID:     s.ItemID,
			CategoryID: ms.table.Category(s.ItemID),
			Score:      &score,
		}
	}
	return out, nil
}

// sparseCandidates collects items bought by the user's nearest neighbors,
// nearest first, skipping items the user already has. Each candidate is
// scored with the similarity of the neighbor that contributed it.
func sparseCandidates(ms *modelSet, userID, k int) ([]Candidate, error) {
	if ms.neighbors == nil || !ms.neighbors.Contains(userID) {
		return nil, errNotIndexed
	}

	own := ms.table.UserItemSet(userID)
	var out []Candidate

	for _, n := range ms.neighbors.Neighbors(userID, k) {
		for _, itemID := range ms.table.UserItems(n.UserID) {
			if _, mine := own[itemID]; mine {
				continue
			}
			sim := n.Similarity
			out = append(out, Candidate{
				ItemID:     itemID,
				CategoryID: ms.table.Category(itemID),
				Score:      &sim,
			})
		}
	}

	return out, nil
}

// coldStartCandidates returns the global popularity prefix.
func coldStartCandidates(ms *modelSet, limit int) []Candidate {
	top := ms.popularity.TopN(limit)
	out := make([]Candidate, len(top))
	for i, s := range top {
		score := s.Score
		out[i] = Candidate{
			ItemID:     s.ItemID,
			CategoryID: ms.table.Category(s.ItemID),
			Score:      &score,
		}
	}
	return out
}
