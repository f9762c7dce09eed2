// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/hybridrec/internal/recommend"
	"github.com/tomtom215/hybridrec/internal/validation"
)

// Recommender is the part of the recommendation engine the handlers use.
// *recommend.Engine implements it.
type Recommender interface {
	Recommend(ctx context.Context, req recommend.Request) (*recommend.Response, error)
	PopularItems(n int) ([]recommend.ScoredItem, error)
	Train(ctx context.Context) error
	Ready() bool
	GetStatus() recommend.TrainingStatus
	GetMetrics() recommend.Metrics
	GetConfig() *recommend.Config
}

var _ Recommender = (*recommend.Engine)(nil)

// Handler serves the recommendation and health endpoints.
type Handler struct {
	engine    Recommender
	logger    zerolog.Logger
	startTime time.Time

	// defaults applied when limit or per_category are omitted
	defaultLimit       int
	defaultPerCategory int

	trainCtx     context.Context
	trainTimeout time.Duration
	training     atomic.Bool
	trainWG      sync.WaitGroup
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithTrainContext sets the parent context of API-triggered training
// cycles. Cancelling it stops a running cycle; the request context never
// does.
func WithTrainContext(ctx context.Context) HandlerOption {
	return func(h *Handler) {
		h.trainCtx = ctx
	}
}

// NewHandler creates the API handler. Request defaults are read from the
// engine configuration.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(engine Recommender, logger zerolog.Logger, opts ...HandlerOption) *Handler {
	cfg := engine.GetConfig()
	h := &Handler{
		engine:             engine,
		logger:             logger.With().Str("component", "api").Logger(),
		startTime:          time.Now(),
		defaultLimit:       cfg.Policy.DefaultLimit,
		defaultPerCategory: cfg.Policy.DefaultMaxPerCategory,
		trainCtx:           context.Background(),
		trainTimeout:       cfg.TrainTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Wait blocks until every training cycle started through the API has
// finished.
func (h *Handler) Wait() {
	h.trainWG.Wait()
}

// errBadParam reports a query parameter that does not parse.
type errBadParam struct {
	name  string
	want  string
	value string
}

func (e *errBadParam) Error() string {
	return e.name + " must be " + e.want + ", got " + strconv.Quote(e.value)
}

// intParam reads an integer query parameter, returning def when absent.
func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &errBadParam{name: name, want: "an integer", value: raw}
	}
	return v, nil
}

// boolParam reads a boolean query parameter, returning false when absent.
func boolParam(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &errBadParam{name: name, want: "a boolean", value: raw}
	}
	return v, nil
}

// parseRecommendRequest reads and validates user_id, limit, and
// per_category. userRaw is the user ID as given in the path or query.
func (h *Handler) parseRecommendRequest(r *http.Request, userRaw string) (*validation.RecommendRequest, *ErrorInfo) {
	if userRaw == "" {
		return nil, &ErrorInfo{
			Code:    CodeBadRequest,
			Message: "user_id is required",
			Details: map[string]interface{}{"field": "user_id"},
		}
	}
	userID, err := strconv.Atoi(userRaw)
	if err != nil {
		return nil, &ErrorInfo{
			Code:    CodeBadRequest,
			Message: (&errBadParam{name: "user_id", want: "an integer", value: userRaw}).Error(),
			Details: map[string]interface{}{"field": "user_id"},
		}
	}

	limit, err := intParam(r, "limit", h.defaultLimit)
	if err != nil {
		return nil, badParam(err, "limit")
	}
	perCategory, err := intParam(r, "per_category", h.defaultPerCategory)
	if err != nil {
		return nil, badParam(err, "per_category")
	}

	req := &validation.RecommendRequest{UserID: userID, Limit: limit, PerCategory: perCategory}
	if verr := validation.ValidateStruct(req); verr != nil {
		apiErr := verr.ToAPIError()
		return nil, &ErrorInfo{Code: apiErr.Code, Message: apiErr.Message, Details: apiErr.Details}
	}
	return req, nil
}

func badParam(err error, field string) *ErrorInfo {
	return &ErrorInfo{
		Code:    CodeBadRequest,
		Message: err.Error(),
		Details: map[string]interface{}{"field": field},
	}
}

// engineErrorStatus maps engine errors to an HTTP status and error code.
func engineErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, recommend.ErrEngineUnavailable):
		return http.StatusServiceUnavailable, CodeUnavailable
	case errors.Is(err, recommend.ErrTrainingInProgress):
		return http.StatusConflict, CodeTrainingInProgress
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, CodeUnavailable
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}
