// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/tomtom215/hybridrec/internal/metrics"
	"github.com/tomtom215/hybridrec/internal/recommend"
	"github.com/tomtom215/hybridrec/internal/recommend/algorithms"
)

type staticProvider []recommend.Interaction

func (p staticProvider) LoadInteractions(context.Context) ([]recommend.Interaction, error) {
	return p, nil
}

func purchase(user, item int) recommend.Interaction {
	category := item / 100
	return recommend.Interaction{UserID: user, ItemID: item, CategoryID: &category, Strength: 1}
}

// newTestEngine returns an untrained engine over a small shop: user 1 is a
// sparse buyer, users 2-4 share item 101 with user 1.
func newTestEngine(t *testing.T) *recommend.Engine {
	t.Helper()

	data := staticProvider{purchase(1, 101), purchase(1, 102)}
	for u := 2; u <= 4; u++ {
		data = append(data, purchase(u, 101), purchase(u, 200+u), purchase(u, 300+u))
	}

	cfg := recommend.DefaultConfig()
	cfg.LatentFactor.Epochs = 5
	engine, err := recommend.NewEngine(cfg, algorithms.NewFactory(cfg, zerolog.Nop()), zerolog.Nop(),
		recommend.WithDataProvider(data))
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return engine
}

func TestRouter_EngineLifecycle(t *testing.T) {
	engine := newTestEngine(t)
	router, _ := setupTestRouter(t, engine)

	if rec := doRequest(t, router, http.MethodGet, "/recommend?user_id=1"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("untrained /recommend status = %d, want 503", rec.Code)
	}
	if rec := doRequest(t, router, http.MethodGet, "/api/v1/health/ready"); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("untrained ready status = %d, want 503", rec.Code)
	}

	if err := engine.Train(context.Background()); err != nil {
		t.Fatalf("Train() error = %v", err)
	}

	rec := doRequest(t, router, http.MethodGet, "/recommend?user_id=1&limit=5")
	if rec.Code != http.StatusOK {
		t.Fatalf("/recommend status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var body legacyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.UserID != 1 {
		t.Errorf("user_id = %d, want 1", body.UserID)
	}
	if len(body.Recommendations) == 0 || len(body.Recommendations) > 5 {
		t.Errorf("recommendations = %v, want 1 to 5 items", body.Recommendations)
	}
	for _, id := range body.Recommendations {
		if id == 101 || id == 102 {
			t.Errorf("recommendations %v include an item user 1 already bought", body.Recommendations)
		}
	}

	// Unknown users are served the popularity ranking.
	rec = doRequest(t, router, http.MethodGet, "/api/v1/recommendations/999?limit=1")
	resp := decodeEnvelope(t, rec)
	if rec.Code != http.StatusOK || !resp.Success {
		t.Fatalf("unknown user status = %d, envelope %+v", rec.Code, resp)
	}
	data, _ := resp.Data.(map[string]interface{})
	if data["tier"] != "cold_start" {
		t.Errorf("tier = %v, want cold_start", data["tier"])
	}

	if rec := doRequest(t, router, http.MethodGet, "/api/v1/health/ready"); rec.Code != http.StatusOK {
		t.Errorf("trained ready status = %d, want 200", rec.Code)
	}
}

func TestRouter_RecordsRouteMetrics(t *testing.T) {
	router, _ := setupTestRouter(t, newFakeRecommender())

	counter := metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/recommendations/{userID}", "200")
	before := testutil.ToFloat64(counter)

	doRequest(t, router, http.MethodGet, "/api/v1/recommendations/11")
	doRequest(t, router, http.MethodGet, "/api/v1/recommendations/12")

	if got := testutil.ToFloat64(counter) - before; got != 2 {
		t.Errorf("api_requests_total delta = %v, want 2", got)
	}
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	router, _ := setupTestRouter(t, newFakeRecommender())

	rec := doRequest(t, router, http.MethodGet, "/metrics")
	if rec.Code != http.StatusOK {
		t.Errorf("/metrics status = %d, want 200", rec.Code)
	}
}
