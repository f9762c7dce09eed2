// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/hybridrec/internal/metrics"
	"github.com/tomtom215/hybridrec/internal/recommend"
)

// FallbackProvider loads from a primary provider and keeps the result as
// the last good snapshot. When the primary fails, the snapshot is served
// instead so a restart during a store outage can still train.
type FallbackProvider struct {
	primary recommend.DataProvider
	store   *Store
	logger  zerolog.Logger
}

// NewFallbackProvider wraps primary with a snapshot fallback.
func NewFallbackProvider(primary recommend.DataProvider, store *Store, logger zerolog.Logger) *FallbackProvider {
	return &FallbackProvider{
		primary: primary,
		store:   store,
		logger:  logger.With().Str("component", "snapshot").Logger(),
	}
}

// LoadInteractions implements recommend.DataProvider.
func (p *FallbackProvider) LoadInteractions(ctx context.Context) ([]recommend.Interaction, error) {
	interactions, err := p.primary.LoadInteractions(ctx)
	if err == nil {
		// An empty store is a valid answer but not worth remembering.
		if len(interactions) > 0 {
			saveErr := p.store.Save(ctx, interactions)
			metrics.RecordSnapshotWrite(saveErr)
			if saveErr != nil {
				p.logger.Warn().Err(saveErr).Msg("Failed to save interaction snapshot")
			}
		}
		return interactions, nil
	}

	if ctx.Err() != nil {
		return nil, err
	}

	snap, snapErr := p.store.Load(ctx)
	if snapErr != nil {
		if !errors.Is(snapErr, ErrNoSnapshot) {
			p.logger.Error().Err(snapErr).Msg("Failed to read interaction snapshot")
		}
		return nil, fmt.Errorf("%w (snapshot unavailable: %v)", err, snapErr)
	}

	metrics.RecordSnapshotFallback()
	p.logger.Warn().
		Err(err).
		Time("saved_at", snap.SavedAt).
		Dur("age", time.Since(snap.SavedAt)).
		Int("interactions", len(snap.Interactions)).
		Msg("Store unavailable, training from snapshot")

	return snap.Interactions, nil
}

var _ recommend.DataProvider = (*FallbackProvider)(nil)
