// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

// Package database provides the interaction store for the recommendation
// engine.
//
// # Overview
//
// Purchase history lives in a shop schema of three tables:
//
//	orders(id, user_id, created_at)
//	order_details(order_id, product_id, quantity)
//	products(id, name, category_id)
//
// LoadInteractions joins them and groups by (user, product), so buying a
// product twice yields one interaction of strength 2. DB implements
// recommend.DataProvider.
//
// # Drivers
//
//   - duckdb (default): embedded store, schema created on Open, optional
//     demo seed through SeedDemoData
//   - mysql: an existing shop database, read-only from this service
//
// # Resilience
//
// BreakerProvider wraps any DataProvider in a sony/gobreaker circuit
// breaker. Breaker state and transitions are exported as Prometheus metrics.
//
// # Usage
//
//	db, err := database.Open(&cfg.Database)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	provider := database.NewBreakerProvider(db, cfg.Breaker)
//	engine.SetDataProvider(provider)
package database
