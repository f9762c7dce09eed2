// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import "errors"

var (
	// ErrEmptyTable is returned when a training cycle receives no interactions.
	ErrEmptyTable = errors.New("interaction table is empty")

	// ErrEngineUnavailable is returned by Recommend before any training cycle
	// has produced a model set.
	ErrEngineUnavailable = errors.New("recommendation engine unavailable: no trained model")

	// ErrTrainingInProgress is returned when Train is called while another
	// cycle is still running.
	ErrTrainingInProgress = errors.New("training already in progress")

	// ErrUnknownUser is returned by scorers that have no state for a user.
	ErrUnknownUser = errors.New("unknown user")

	// ErrNoDataProvider is returned by Train when no DataProvider is set.
	ErrNoDataProvider = errors.New("data provider not set")
)
