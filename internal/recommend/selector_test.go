// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import (
	"math/rand"
	"testing"
)

func cand(item int, category *int) Candidate {
	return Candidate{ItemID: item, CategoryID: category}
}

func ids(cs []Candidate) []int {
	out := make([]int, len(cs))
	for i, c := range cs {
		out[i] = c.ItemID
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSelectDiverse_Deterministic(t *testing.T) {
	c1, c2 := intPtr(1), intPtr(2)

	tests := []struct {
		name   string
		input  []Candidate
		limit  int
		maxPer int
		want   []int
	}{
		{
			name:   "caps each category",
			input:  []Candidate{cand(1, c1), cand(2, c1), cand(3, c1), cand(4, c2), cand(5, c2)},
			limit:  10,
			maxPer: 2,
			want:   []int{1, 2, 4, 5},
		},
		{
			name:   "stops at limit",
			input:  []Candidate{cand(1, c1), cand(2, c1), cand(3, c2), cand(4, c2)},
			limit:  3,
			maxPer: 2,
			want:   []int{1, 2, 3},
		},
		{
			name:   "dedupes keeping first occurrence",
			input:  []Candidate{cand(1, c1), cand(1, c2), cand(2, c2)},
			limit:  10,
			maxPer: 1,
			want:   []int{1, 2},
		},
		{
			name:   "null category is its own group",
			input:  []Candidate{cand(1, nil), cand(2, nil), cand(3, c1), cand(4, c1)},
			limit:  10,
			maxPer: 1,
			want:   []int{1, 2, 3},
		},
		{
			name:   "zero limit",
			input:  []Candidate{cand(1, c1)},
			limit:  0,
			maxPer: 2,
			want:   []int{},
		},
		{
			name:   "zero max per category",
			input:  []Candidate{cand(1, c1)},
			limit:  5,
			maxPer: 0,
			want:   []int{},
		},
		{
			name:   "empty input",
			input:  nil,
			limit:  5,
			maxPer: 2,
			want:   []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(SelectDiverse(tt.input, tt.limit, tt.maxPer, nil))
			if !equalInts(got, tt.want) {
				t.Errorf("SelectDiverse() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelectDiverse_Properties(t *testing.T) {
	rng := rand.New(rand.NewSource(7)) //nolint:gosec // test data

	for trial := 0; trial < 200; trial++ {
		n := rng.Intn(40)
		input := make([]Candidate, n)
		for i := range input {
			var category *int
			if rng.Intn(5) > 0 {
				category = intPtr(rng.Intn(4))
			}
			input[i] = cand(rng.Intn(30), category)
		}
		limit := rng.Intn(12)
		maxPer := 1 + rng.Intn(3)

		out := SelectDiverse(input, limit, maxPer, rand.New(rand.NewSource(int64(trial)))) //nolint:gosec // test data

		if len(out) > limit {
			t.Fatalf("trial %d: len = %d, want <= %d", trial, len(out), limit)
		}

		seen := make(map[int]bool)
		perCat := make(map[int]int)
		for _, c := range out {
			if seen[c.ItemID] {
				t.Fatalf("trial %d: duplicate item %d", trial, c.ItemID)
			}
			seen[c.ItemID] = true
			if c.CategoryID != nil {
				perCat[*c.CategoryID]++
				if perCat[*c.CategoryID] > maxPer {
					t.Fatalf("trial %d: category %d has %d items, want <= %d", trial, *c.CategoryID, perCat[*c.CategoryID], maxPer)
				}
			}
		}
	}
}

func TestSelectDiverse_SameSeedSameOutput(t *testing.T) {
	input := make([]Candidate, 0, 20)
	for i := 0; i < 20; i++ {
		input = append(input, cand(i, intPtr(i%5)))
	}

	a := ids(SelectDiverse(input, 6, 2, rand.New(rand.NewSource(99)))) //nolint:gosec // test data
	b := ids(SelectDiverse(input, 6, 2, rand.New(rand.NewSource(99)))) //nolint:gosec // test data

	if !equalInts(a, b) {
		t.Errorf("SelectDiverse() with same seed = %v and %v, want equal", a, b)
	}
}

func TestSelectDiverse_KeepsOrderWithinGroup(t *testing.T) {
	c := intPtr(1)
	input := []Candidate{cand(5, c), cand(3, c), cand(9, c)}

	for seed := int64(0); seed < 10; seed++ {
		got := ids(SelectDiverse(input, 10, 2, rand.New(rand.NewSource(seed)))) //nolint:gosec // test data
		if !equalInts(got, []int{5, 3}) {
			t.Errorf("seed %d: SelectDiverse() = %v, want [5 3]", seed, got)
		}
	}
}

func TestDedupe(t *testing.T) {
	input := []Candidate{cand(1, nil), cand(2, nil), cand(1, nil), cand(3, nil)}

	if got := ids(dedupe(input, 10)); !equalInts(got, []int{1, 2, 3}) {
		t.Errorf("dedupe() = %v, want [1 2 3]", got)
	}
	if got := ids(dedupe(input, 2)); !equalInts(got, []int{1, 2}) {
		t.Errorf("dedupe(limit=2) = %v, want [1 2]", got)
	}
}

func TestClassifyTier(t *testing.T) {
	tests := []struct {
		count     int
		threshold int
		want      Tier
	}{
		{count: 0, threshold: 5, want: TierColdStart},
		{count: 1, threshold: 5, want: TierSparse},
		{count: 4, threshold: 5, want: TierSparse},
		{count: 5, threshold: 5, want: TierRich},
		{count: 50, threshold: 5, want: TierRich},
		{count: 1, threshold: 1, want: TierRich},
	}

	for _, tt := range tests {
		if got := ClassifyTier(tt.count, tt.threshold); got != tt.want {
			t.Errorf("ClassifyTier(%d, %d) = %v, want %v", tt.count, tt.threshold, got, tt.want)
		}
	}
}

func TestTier_String(t *testing.T) {
	tests := []struct {
		tier Tier
		want string
	}{
		{TierColdStart, "cold_start"},
		{TierSparse, "sparse"},
		{TierRich, "rich"},
		{Tier(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.tier.String(); got != tt.want {
			t.Errorf("Tier(%d).String() = %q, want %q", tt.tier, got, tt.want)
		}
		text, err := tt.tier.MarshalText()
		if err != nil || string(text) != tt.want {
			t.Errorf("Tier(%d).MarshalText() = %q, %v, want %q", tt.tier, text, err, tt.want)
		}
	}
}
