// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package algorithms

import (
	"testing"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

func intPtr(v int) *int {
	return &v
}

// buildTable builds a table from (user, item, strength) triples.
func buildTable(t *testing.T, triples ...[3]int) *recommend.Table {
	t.Helper()

	interactions := make([]recommend.Interaction, len(triples))
	for i, tr := range triples {
		interactions[i] = recommend.Interaction{
			UserID:     tr[0],
			ItemID:     tr[1],
			CategoryID: intPtr(tr[1] / 100),
			Strength:   tr[2],
		}
	}

	table, err := recommend.NewTable(interactions)
	if err != nil {
		t.Fatalf("NewTable() error = %v", err)
	}
	return table
}
