// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

// Package recommend implements a hybrid product recommendation engine over
// purchase histories.
//
// # Tiers
//
// Every request is classified by the user's interaction count, which is
// the summed strength of the user's purchases:
//
//   - Rich (count >= policy.rich_threshold): latent factor predictions over
//     every item the user has not bought.
//   - Sparse (1 <= count < threshold): items bought by the nearest users in
//     the cosine similarity index, diversified by category.
//   - Cold start (count == 0): the global popularity ranking.
//
// A tier that cannot serve a user falls back one tier. The Response reports
// both the decided tier and the tier that served the list.
//
// # Training
//
// Train loads the interactions from the DataProvider, builds an immutable
// Table and fits the similarity index, the latent factor model and the
// popularity ranking in parallel through a ModelFactory. The finished model
// set replaces the previous one atomically. Only one cycle runs at a time.
//
// # Usage
//
//	engine, err := recommend.NewEngine(cfg, algorithms.NewFactory(cfg, logger), logger,
//	    recommend.WithDataProvider(store))
//	if err := engine.Train(ctx); err != nil {
//	    return err
//	}
//
//	ids, err := engine.RecommendIDs(ctx, userID, 30, 2)
//
// # Thread Safety
//
// Engine is safe for concurrent use. Each Recommend call uses its own random
// source seeded from the engine's seed source, so concurrent requests never
// share shuffling state.
package recommend
