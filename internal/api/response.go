// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/hybridrec/internal/logging"
)

// Response is the standard envelope for every /api/v1 endpoint.
//
// Success:
//
//	{
//	  "success": true,
//	  "data": {...},
//	  "meta": {"timestamp": "2026-01-01T12:00:00Z", "model_version": 3}
//	}
//
// Error:
//
//	{
//	  "success": false,
//	  "error": {
//	    "code": "VALIDATION_ERROR",
//	    "message": "limit must be at most 500",
//	    "details": {"field": "limit"},
//	    "request_id": "0b6f..."
//	  },
//	  "meta": {"timestamp": "2026-01-01T12:00:00Z"}
//	}
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Meta    Meta        `json:"meta"`
}

// ErrorInfo is a machine-readable error code plus a human-readable message.
//
// Codes in use:
//   - VALIDATION_ERROR: a query parameter failed validation
//   - BAD_REQUEST: a parameter could not be parsed
//   - SERVICE_UNAVAILABLE: no trained model yet
//   - TRAINING_IN_PROGRESS: a training cycle is already running
//   - RATE_LIMIT_EXCEEDED: too many requests
//   - INTERNAL_ERROR: anything else
type ErrorInfo struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
}

// Meta carries response metadata.
type Meta struct {
	Timestamp    time.Time `json:"timestamp"`
	QueryTimeMS  int64     `json:"query_time_ms,omitempty"`
	ModelVersion int       `json:"model_version,omitempty"`
}

// Error codes
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeBadRequest         = "BAD_REQUEST"
	CodeUnavailable        = "SERVICE_UNAVAILABLE"
	CodeTrainingInProgress = "TRAINING_IN_PROGRESS"
	CodeRateLimited        = "RATE_LIMIT_EXCEEDED"
	CodeInternal           = "INTERNAL_ERROR"
)

// sanitizeLogValue escapes control characters so request input cannot forge
// log lines.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// writeJSON marshals v with goccy/go-json and writes it with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondJSON sends a success envelope.
func respondJSON(w http.ResponseWriter, status int, data interface{}, meta Meta) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now().UTC()
	}
	writeJSON(w, status, &Response{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

// respondError sends an error envelope. err is logged, never returned to the
// client.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]interface{}, err error) {
	requestID := logging.RequestIDFromContext(r.Context())

	if err != nil {
		event := logging.Ctx(r.Context()).Warn()
		if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
			event = logging.Ctx(r.Context()).Error()
		}
		event.
			Str("code", code).
			Str("path", sanitizeLogValue(r.URL.Path)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API error")
	}

	writeJSON(w, status, &Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: requestID,
		},
		Meta: Meta{Timestamp: time.Now().UTC()},
	})
}
