// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

/*
Package main is the entry point for the Hybridrec recommendation server.

Hybridrec serves product recommendations from purchase history. Each user is
assigned a tier from their interaction count: heavy buyers get latent factor
predictions, occasional buyers get category-diversified picks from similar
users, and unknown users get the popularity ranking.

# Application Architecture

	RootSupervisor ("hybridrec")
	├── DataSupervisor ("data-layer")
	│   └── RecommendService (train on startup, then every RECOMMEND_TRAIN_INTERVAL)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService (chi router)

Component initialization order:

 1. Configuration: koanf v2 with defaults, config.yaml and environment variables
 2. Logging: zerolog with JSON or console output
 3. Store: DuckDB (embedded, optional demo seed) or MySQL (existing shop)
 4. Interaction source: circuit breaker around the store, then the badger
    snapshot fallback
 5. Engine: model factory and recommendation engine
 6. Supervisor tree and HTTP server

# Configuration

Common environment variables:

	HTTP_PORT=5000
	DB_DRIVER=duckdb            # or mysql
	DUCKDB_PATH=/data/hybridrec.duckdb
	DB_DSN=user:pw@tcp(db:3306)/shop?parseTime=true
	SEED_DEMO_DATA=true
	RECOMMEND_TRAIN_INTERVAL=1h
	RECOMMEND_RICH_THRESHOLD=5
	LOG_LEVEL=info

Changing logging.level in the config file takes effect without a restart.

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
in-flight requests, a running training cycle is cancelled, and the store
and snapshot are closed.
*/
package main
