// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import (
	"math/rand"
)

// groupKey identifies a category group. Items without a category each get
// their own group keyed by item ID.
type groupKey struct {
	category int
	itemID   int
	hasCat   bool
}

func keyFor(c Candidate) groupKey {
	if c.CategoryID == nil {
		return groupKey{itemID: c.ItemID}
	}
	return groupKey{category: *c.CategoryID, hasCat: true}
}

// SelectDiverse builds a list of at most limit candidates with no duplicate
// items and at most maxPerCategory items from any one category.
//
// Candidates are deduplicated by item ID, keeping the first occurrence, then
// grouped by category. Groups are visited in first-appearance order, shuffled
// by rng when it is non-nil. Items within a group keep their input order.
// A non-positive limit or maxPerCategory yields nil.
func SelectDiverse(candidates []Candidate, limit, maxPerCategory int, rng *rand.Rand) []Candidate {
	if limit <= 0 || maxPerCategory <= 0 || len(candidates) == 0 {
		return nil
	}

	seen := make(map[int]struct{}, len(candidates))
	groups := make(map[groupKey][]Candidate)
	var order []groupKey

	for _, c := range candidates {
		if _, dup := seen[c.ItemID]; dup {
			continue
		}
		seen[c.ItemID] = struct{}{}

		key := keyFor(c)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], c)
	}

	if rng != nil {
		rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	}

	out := make([]Candidate, 0, min(limit, len(seen)))
	for _, key := range order {
		group := groups[key]
		if len(group) > maxPerCategory {
			group = group[:maxPerCategory]
		}
		for _, c := range group {
			out = append(out, c)
			if len(out) >= limit {
				return out
			}
		}
	}

	return out
}

// dedupe removes repeated item IDs, keeping the first occurrence.
func dedupe(candidates []Candidate, limit int) []Candidate {
	seen := make(map[int]struct{}, len(candidates))
	out := make([]Candidate, 0, min(limit, len(candidates)))
	for _, c := range candidates {
		if _, dup := seen[c.ItemID]; dup {
			continue
		}
		seen[c.ItemID] = struct{}{}
		out = append(out, c)
		if len(out) >= limit {
			break
		}
	}
	return out
}
