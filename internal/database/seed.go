// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package database

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/tomtom215/hybridrec/internal/logging"
)

// Demo shop dimensions
const (
	demoCategories          = 6
	demoProductsPerCategory = 8
	demoUncategorized       = 2
	demoUsers               = 40
	demoSeed                = 20260101
)

var demoCategoryNames = []string{"Books", "Electronics", "Garden", "Kitchen", "Sports", "Toys"}

// SeedDemoData fills an empty store with a small demo shop for local runs.
// Heavy buyers, occasional buyers, and one-off buyers are all present, so
// every recommendation tier has users. A store that already has orders is
// left untouched. The data is deterministic.
func (db *DB) SeedDemoData(ctx context.Context) error {
	existing, err := db.CountOrders(ctx)
	if err != nil {
		return err
	}
	if existing > 0 {
		logging.Info().Int("orders", existing).Msg("Store already has orders, skipping demo seed")
		return nil
	}

	products := demoProducts()
	if err := db.InsertProducts(ctx, products); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}

	orders := demoOrders(newDemoRand())
	if err := db.InsertOrders(ctx, orders); err != nil {
		return fmt.Errorf("seed orders: %w", err)
	}

	logging.Info().
		Int("products", len(products)).
		Int("orders", len(orders)).
		Int("users", demoUsers).
		Msg("Seeded demo shop")
	return nil
}

func newDemoRand() *rand.Rand {
	return rand.New(rand.NewSource(demoSeed)) //nolint:gosec // demo data
}

// demoProducts numbers products 100*category+n so the category is readable
// from the id. Uncategorized products use ids 900 and up.
func demoProducts() []Product {
	products := make([]Product, 0, demoCategories*demoProductsPerCategory+demoUncategorized)
	for c := 1; c <= demoCategories; c++ {
		category := c
		for n := 1; n <= demoProductsPerCategory; n++ {
			products = append(products, Product{
				ID:         100*c + n,
				Name:       fmt.Sprintf("%s item %d", demoCategoryNames[c-1], n),
				CategoryID: &category,
			})
		}
	}
	for n := 0; n < demoUncategorized; n++ {
		products = append(products, Product{ID: 900 + n, Name: fmt.Sprintf("Gift card %d", n+1)})
	}
	return products
}

// demoOrders gives each user a favourite category. The first quarter of
// users buy a lot, the next half buy a few items, and the rest buy once.
func demoOrders(rng *rand.Rand) []Order {
	var orders []Order
	orderID := 1

	for user := 1; user <= demoUsers; user++ {
		favourite := 1 + (user-1)%demoCategories

		var lines int
		switch {
		case user <= demoUsers/4:
			lines = 8 + rng.Intn(8)
		case user <= 3*demoUsers/4:
			lines = 2 + rng.Intn(3)
		default:
			lines = 1
		}

		for lines > 0 {
			size := min(lines, 1+rng.Intn(3))
			order := Order{ID: orderID, UserID: user}
			for i := 0; i < size; i++ {
				order.ProductIDs = append(order.ProductIDs, demoPick(rng, favourite))
			}
			orders = append(orders, order)
			orderID++
			lines -= size
		}
	}
	return orders
}

// demoPick returns a product from the favourite category most of the time,
// a random category otherwise, and rarely a gift card. Lower-numbered
// products are more popular.
func demoPick(rng *rand.Rand, favourite int) int {
	roll := rng.Float64()
	switch {
	case roll < 0.05:
		return 900 + rng.Intn(demoUncategorized)
	case roll < 0.7:
		return 100*favourite + 1 + popularIndex(rng)
	default:
		return 100*(1+rng.Intn(demoCategories)) + 1 + popularIndex(rng)
	}
}

func popularIndex(rng *rand.Rand) int {
	a, b := rng.Intn(demoProductsPerCategory), rng.Intn(demoProductsPerCategory)
	return min(a, b)
}
