// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

/*
Package config provides centralized configuration management for Hybridrec.

Configuration is layered with koanf. Struct defaults load first, then an
optional YAML file, then environment variables:

	defaults -> config.yaml (or CONFIG_PATH) -> environment

# Configuration Structure

  - ServerConfig: HTTP listen address and timeout
  - DatabaseConfig: interaction store driver (duckdb or mysql)
  - BreakerConfig: circuit breaker around store loads
  - SnapshotConfig: badger last-good interaction snapshot
  - SecurityConfig: rate limiting and CORS
  - LoggingConfig: zerolog level and format
  - RecommendConfig: training schedule and engine parameters

# Environment Variables

Server:
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - HTTP_PORT: Listen port (default: 5000)
  - HTTP_TIMEOUT: Request timeout (default: 30s)

Interaction store:
  - DB_DRIVER: duckdb or mysql (default: duckdb)
  - DUCKDB_PATH: DuckDB file (default: /data/hybridrec.duckdb)
  - DB_DSN: MySQL DSN, or DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME
  - SEED_DEMO_DATA: Seed a demo shop into an empty DuckDB store

Recommendation engine:
  - RECOMMEND_TRAIN_INTERVAL: Time between training cycles (default: 1h)
  - RECOMMEND_RICH_THRESHOLD: Interactions for the rich tier (default: 5)
  - RECOMMEND_NEIGHBORS: Sparse tier neighbors (default: 10)
  - RECOMMEND_FACTORS, RECOMMEND_EPOCHS: Latent factor size and passes

Comma-separated values are accepted for CORS_ORIGINS.

# Usage Example

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    log.Fatal(err)
	}
	engineCfg := cfg.Recommend.EngineConfig()
*/
package config
