// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/hybridrec/internal/recommend"
	"github.com/tomtom215/hybridrec/internal/recommend/algorithms"
)

type staticProvider []recommend.Interaction

func (p staticProvider) LoadInteractions(context.Context) ([]recommend.Interaction, error) {
	return p, nil
}

func purchase(user, item, strength int) recommend.Interaction {
	category := item / 100
	return recommend.Interaction{UserID: user, ItemID: item, CategoryID: &category, Strength: strength}
}

func trainedEngine(t *testing.T, data []recommend.Interaction, modify func(*recommend.Config), opts ...recommend.Option) *recommend.Engine {
	t.Helper()

	cfg := recommend.DefaultConfig()
	cfg.LatentFactor.Epochs = 10
	if modify != nil {
		modify(cfg)
	}

	opts = append(opts, recommend.WithDataProvider(staticProvider(data)))
	e, err := recommend.NewEngine(cfg, algorithms.NewFactory(cfg, zerolog.Nop()), zerolog.Nop(), opts...)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	if err := e.Train(context.Background()); err != nil {
		t.Fatalf("Train() error = %v", err)
	}
	return e
}

// shopData has sparse user 1 (items 1 and 2), five neighbors sharing item 1
// who each bought one item in each of six categories, and a heavy buyer 7.
func shopData() []recommend.Interaction {
	data := []recommend.Interaction{
		purchase(1, 1, 1),
		purchase(1, 2, 1),
	}
	for v := 2; v <= 6; v++ {
		data = append(data, purchase(v, 1, 1))
		for c := 1; c <= 6; c++ {
			data = append(data, purchase(v, 100*c+v, 1))
		}
	}
	data = append(data,
		purchase(7, 101, 2),
		purchase(7, 202, 2),
		purchase(7, 303, 2),
	)
	return data
}

func TestScenario_EmptyTableIsFatal(t *testing.T) {
	cfg := recommend.DefaultConfig()
	e, err := recommend.NewEngine(cfg, algorithms.NewFactory(cfg, zerolog.Nop()), zerolog.Nop(),
		recommend.WithDataProvider(staticProvider(nil)))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	if err := e.Train(context.Background()); !errors.Is(err, recommend.ErrEmptyTable) {
		t.Errorf("Train() error = %v, want ErrEmptyTable", err)
	}

	resp, err := e.Recommend(context.Background(), recommend.Request{UserID: 1, Limit: 5})
	if !errors.Is(err, recommend.ErrEngineUnavailable) {
		t.Errorf("Recommend() error = %v, want ErrEngineUnavailable", err)
	}
	if resp != nil {
		t.Errorf("Recommend() = %+v, want no partial result", resp)
	}
}

func TestScenario_SingleUserSparseIsEmpty(t *testing.T) {
	e := trainedEngine(t, []recommend.Interaction{purchase(1, 101, 1), purchase(1, 202, 1)}, nil)

	resp, err := e.Recommend(context.Background(), recommend.Request{UserID: 1, Limit: 10, MaxPerCategory: 2})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if resp.Tier != recommend.TierSparse {
		t.Errorf("Tier = %v, want sparse", resp.Tier)
	}
	if len(resp.Items) != 0 {
		t.Errorf("Items = %v, want empty", resp.IDs())
	}
}

func TestScenario_RichUserExcludesOwnItems(t *testing.T) {
	e := trainedEngine(t, shopData(), func(c *recommend.Config) {
		c.LatentFactor.HoldoutFraction = 0
	})

	resp, err := e.Recommend(context.Background(), recommend.Request{UserID: 7, Limit: 10})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if resp.Tier != recommend.TierRich || resp.ServedBy != recommend.TierRich {
		t.Errorf("Tier/ServedBy = %v/%v, want rich/rich", resp.Tier, resp.ServedBy)
	}
	if len(resp.Items) != 10 {
		t.Errorf("len(Items) = %d, want 10", len(resp.Items))
	}
	for _, id := range resp.IDs() {
		if id == 101 || id == 202 || id == 303 {
			t.Errorf("own item %d recommended", id)
		}
	}
}

func TestScenario_SparseUserDiversified(t *testing.T) {
	e := trainedEngine(t, shopData(), nil)

	for i := 0; i < 20; i++ {
		resp, err := e.Recommend(context.Background(), recommend.Request{UserID: 1, Limit: 10, MaxPerCategory: 2})
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		if resp.ServedBy != recommend.TierSparse {
			t.Fatalf("ServedBy = %v, want sparse", resp.ServedBy)
		}
		if len(resp.Items) != 10 {
			t.Errorf("len(Items) = %d, want 10", len(resp.Items))
		}

		perCategory := make(map[int]int)
		seen := make(map[int]bool)
		for _, c := range resp.Items {
			if c.ItemID == 1 || c.ItemID == 2 {
				t.Errorf("own item %d recommended", c.ItemID)
			}
			if seen[c.ItemID] {
				t.Errorf("duplicate item %d", c.ItemID)
			}
			seen[c.ItemID] = true
			perCategory[*c.CategoryID]++
			if perCategory[*c.CategoryID] > 2 {
				t.Errorf("category %d has %d items, want <= 2", *c.CategoryID, perCategory[*c.CategoryID])
			}
		}
	}
}

func TestScenario_UnknownUserGetsPopularity(t *testing.T) {
	e := trainedEngine(t, shopData(), nil)

	ids, err := e.RecommendIDs(context.Background(), 99999, 5, 2)
	if err != nil {
		t.Fatalf("RecommendIDs() error = %v", err)
	}

	popular, err := e.PopularItems(5)
	if err != nil {
		t.Fatalf("PopularItems() error = %v", err)
	}
	if len(ids) != len(popular) {
		t.Fatalf("RecommendIDs() = %v, want %d items", ids, len(popular))
	}
	for i := range ids {
		if ids[i] != popular[i].ItemID {
			t.Errorf("RecommendIDs()[%d] = %d, want %d", i, ids[i], popular[i].ItemID)
		}
	}
	// Item 1 is bought by six users and leads the ranking.
	if ids[0] != 1 {
		t.Errorf("RecommendIDs()[0] = %d, want 1", ids[0])
	}
}

func TestProperty_FixedSeedIsIdempotent(t *testing.T) {
	seed := recommend.WithSeedSource(func() int64 { return 7 })
	a := trainedEngine(t, shopData(), nil, seed)
	b := trainedEngine(t, shopData(), nil, seed)

	for _, user := range []int{1, 2, 7, 99999} {
		idsA, errA := a.RecommendIDs(context.Background(), user, 8, 2)
		idsB, errB := b.RecommendIDs(context.Background(), user, 8, 2)
		if errA != nil || errB != nil {
			t.Fatalf("RecommendIDs(%d) errors = %v, %v", user, errA, errB)
		}
		if len(idsA) != len(idsB) {
			t.Fatalf("RecommendIDs(%d) = %v and %v, want equal", user, idsA, idsB)
		}
		for i := range idsA {
			if idsA[i] != idsB[i] {
				t.Errorf("RecommendIDs(%d) = %v and %v, want equal", user, idsA, idsB)
				break
			}
		}
	}
}

func TestProperty_LimitAndOwnItems(t *testing.T) {
	data := shopData()
	e := trainedEngine(t, data, nil)

	owned := make(map[int]map[int]bool)
	for _, in := range data {
		if owned[in.UserID] == nil {
			owned[in.UserID] = make(map[int]bool)
		}
		owned[in.UserID][in.ItemID] = true
	}

	for user := 1; user <= 8; user++ {
		for _, limit := range []int{1, 3, 7, 50} {
			ids, err := e.RecommendIDs(context.Background(), user, limit, 2)
			if err != nil {
				t.Fatalf("RecommendIDs(%d, %d) error = %v", user, limit, err)
			}
			if len(ids) > limit {
				t.Errorf("RecommendIDs(%d, %d) returned %d items", user, limit, len(ids))
			}
			seen := make(map[int]bool)
			for _, id := range ids {
				if owned[user][id] {
					t.Errorf("RecommendIDs(%d) includes own item %d", user, id)
				}
				if seen[id] {
					t.Errorf("RecommendIDs(%d) includes %d twice", user, id)
				}
				seen[id] = true
			}
		}
	}
}
