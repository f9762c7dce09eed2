// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

// Package snapshot keeps the last good interaction table in BadgerDB.
//
// The snapshot holds raw interactions, not a trained model. Training from it
// rebuilds the models exactly as a store load would. FallbackProvider writes
// a snapshot after every successful store load and reads it back when the
// store fails:
//
//	store, err := snapshot.Open(cfg.Snapshot, logger)
//	provider := snapshot.NewFallbackProvider(breakerProvider, store, logger)
//	engine.SetDataProvider(provider)
package snapshot
