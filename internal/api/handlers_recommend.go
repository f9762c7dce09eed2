// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/hybridrec/internal/logging"
	"github.com/tomtom215/hybridrec/internal/recommend"
	"github.com/tomtom215/hybridrec/internal/validation"
)

// recommendTimeout bounds a single recommendation request.
const recommendTimeout = 10 * time.Second

// legacyResponse is the body of GET /recommend.
type legacyResponse struct {
	UserID          int   `json:"user_id"`
	Recommendations []int `json:"recommendations"`
}

// legacyError is the error body of GET /recommend.
type legacyError struct {
	Error string `json:"error"`
}

// LegacyRecommend handles GET /recommend?user_id=&limit=&per_category=
//
// The response is a bare object with the ordered product IDs, kept for
// clients of the original storefront integration:
//
//	{"user_id": 42, "recommendations": [101, 205, 102]}
func (h *Handler) LegacyRecommend(w http.ResponseWriter, r *http.Request) {
	params, perr := h.parseRecommendRequest(r, r.URL.Query().Get("user_id"))
	if perr != nil {
		writeJSON(w, http.StatusBadRequest, &legacyError{Error: perr.Message})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), recommendTimeout)
	defer cancel()

	resp, err := h.engine.Recommend(ctx, recommend.Request{
		UserID:         params.UserID,
		Limit:          params.Limit,
		MaxPerCategory: params.PerCategory,
		RequestID:      logging.RequestIDFromContext(r.Context()),
	})
	if err != nil {
		status, _ := engineErrorStatus(err)
		logging.Ctx(r.Context()).Warn().Err(err).Int("user_id", params.UserID).Msg("legacy recommendation failed")
		writeJSON(w, status, &legacyError{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, &legacyResponse{
		UserID:          params.UserID,
		Recommendations: resp.IDs(),
	})
}

// GetRecommendations handles GET /api/v1/recommendations/{userID}
//
// Query parameters: limit, per_category, diversify. The response carries the
// items with scores and categories, the tier decided for the user and the
// tier that actually served the request.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	params, perr := h.parseRecommendRequest(r, chi.URLParam(r, "userID"))
	if perr != nil {
		respondError(w, r, http.StatusBadRequest, perr.Code, perr.Message, perr.Details, nil)
		return
	}
	diversify, err := boolParam(r, "diversify")
	if err != nil {
		info := badParam(err, "diversify")
		respondError(w, r, http.StatusBadRequest, info.Code, info.Message, info.Details, nil)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), recommendTimeout)
	defer cancel()

	resp, err := h.engine.Recommend(ctx, recommend.Request{
		UserID:         params.UserID,
		Limit:          params.Limit,
		MaxPerCategory: params.PerCategory,
		Diversify:      diversify,
		RequestID:      logging.RequestIDFromContext(r.Context()),
	})
	if err != nil {
		status, code := engineErrorStatus(err)
		respondError(w, r, status, code, "Failed to generate recommendations", nil, err)
		return
	}

	respondJSON(w, http.StatusOK, resp, Meta{
		QueryTimeMS:  resp.LatencyMS,
		ModelVersion: resp.ModelVersion,
	})
}

// GetPopular handles GET /api/v1/recommendations/popular?limit=
func (h *Handler) GetPopular(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", h.defaultLimit)
	if err != nil {
		info := badParam(err, "limit")
		respondError(w, r, http.StatusBadRequest, info.Code, info.Message, info.Details, nil)
		return
	}
	req := validation.PopularRequest{Limit: limit}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil)
		return
	}

	items, err := h.engine.PopularItems(req.Limit)
	if err != nil {
		status, code := engineErrorStatus(err)
		respondError(w, r, status, code, "Failed to load popular items", nil, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	}, Meta{ModelVersion: h.engine.GetStatus().ModelVersion})
}

// GetStatus handles GET /api/v1/recommendations/status
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	status := h.engine.GetStatus()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ready":    h.engine.Ready(),
		"training": status,
		"metrics":  h.engine.GetMetrics(),
	}, Meta{ModelVersion: status.ModelVersion})
}

// TriggerTraining handles POST /api/v1/recommendations/train
//
// The cycle runs in the background and outlives the request. 202 means a
// cycle was started; 409 means one is already running.
func (h *Handler) TriggerTraining(w http.ResponseWriter, r *http.Request) {
	if h.engine.GetStatus().IsTraining || !h.training.CompareAndSwap(false, true) {
		respondError(w, r, http.StatusConflict, CodeTrainingInProgress, recommend.ErrTrainingInProgress.Error(), nil, nil)
		return
	}

	requestID := logging.RequestIDFromContext(r.Context())
	ctx := logging.ContextWithRequestID(h.trainCtx, requestID)
	logger := h.logger.With().Str("request_id", requestID).Logger()

	h.trainWG.Add(1)
	go func() {
		defer h.trainWG.Done()
		defer h.training.Store(false)

		trainCtx := ctx
		if h.trainTimeout > 0 {
			var cancel context.CancelFunc
			trainCtx, cancel = context.WithTimeout(ctx, h.trainTimeout)
			defer cancel()
		}

		if err := h.engine.Train(trainCtx); err != nil {
			logger.Error().Err(err).Msg("API-triggered training failed")
			return
		}
		logger.Info().Msg("API-triggered training completed")
	}()

	respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"message": "training started",
	}, Meta{})
}
