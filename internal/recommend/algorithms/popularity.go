// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package algorithms

import (
	"sort"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// Popularity ranks items by their total purchase strength across all users.
// It is the cold-start strategy and is always available for a non-empty
// table.
//
//	score(item) = sum(strength) over all users
type Popularity struct {
	ranked []recommend.ScoredItem
}

// NewPopularity builds the ranking from a table. Ties are broken by item ID
// ascending.
func NewPopularity(table *recommend.Table) *Popularity {
	items := table.Items()
	ranked := make([]recommend.ScoredItem, len(items))
	for i, id := range items {
		ranked[i] = recommend.ScoredItem{
			ItemID: id,
			Score:  float64(table.ItemStrength(id)),
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ItemID < ranked[j].ItemID
	})

	return &Popularity{ranked: ranked}
}

// TopN returns a copy of the n most popular items.
func (p *Popularity) TopN(n int) []recommend.ScoredItem {
	if n <= 0 {
		return nil
	}
	if n > len(p.ranked) {
		n = len(p.ranked)
	}
	out := make([]recommend.ScoredItem, n)
	copy(out, p.ranked[:n])
	return out
}

// Len returns the number of ranked items.
func (p *Popularity) Len() int {
	return len(p.ranked)
}
