// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package api

import (
	"net/http"
	"time"
)

// HealthLive handles liveness probes. It always returns 200 while the
// process can serve HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, Meta{})
}

// HealthReady handles readiness probes. It returns 503 until the first
// training cycle has produced a model.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ready := h.engine.Ready()
	status := h.engine.GetStatus()

	data := map[string]interface{}{
		"ready":         ready,
		"model_version": status.ModelVersion,
		"is_training":   status.IsTraining,
		"uptime":        time.Since(h.startTime).Seconds(),
	}
	if status.LastError != "" {
		data["last_error"] = status.LastError
	}

	code := http.StatusOK
	if !ready {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, &Response{
		Success: ready,
		Data:    data,
		Meta:    Meta{Timestamp: time.Now().UTC(), ModelVersion: status.ModelVersion},
	})
}
