// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto at
package initialization. Helper functions hide label plumbing from callers.

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

Store Metrics:
  - store_query_duration_seconds: Query execution time (histogram)
    Labels: driver, operation
  - store_query_errors_total: Failed queries (counter)
    Labels: driver, operation, error_type
  - store_rows_loaded: Rows returned by the last load (gauge)

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
  - api_active_requests: In-flight requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - circuit_breaker_requests_total: Labels: name, result
  - circuit_breaker_state_transitions_total: Labels: name, from_state, to_state

Recommendation Metrics:
  - recommend_requests_total: Labels: tier, served_by
  - recommend_errors_total: Labels: reason
  - recommend_duration_seconds: Labels: served_by
  - recommend_training_runs_total: Labels: result
  - recommend_training_duration_seconds
  - recommend_model_version
  - recommend_model_size: Labels: dimension
  - recommend_latent_validation_rmse

Snapshot Metrics:
  - snapshot_writes_total: Labels: result
  - snapshot_fallbacks_total

# Usage

	start := time.Now()
	rows, err := db.QueryContext(ctx, query)
	metrics.RecordDBQuery("duckdb", "load_interactions", time.Since(start), err)

# Thread Safety

All functions are safe for concurrent use. Prometheus collectors handle
their own synchronization.
*/
package metrics
