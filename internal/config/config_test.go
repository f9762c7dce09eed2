// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package config

import (
	"strings"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{name: "defaults", modify: func(*Config) {}},
		{name: "port out of range", modify: func(c *Config) { c.Server.Port = 70000 }, wantErr: "HTTP_PORT"},
		{name: "unknown environment", modify: func(c *Config) { c.Server.Environment = "qa" }, wantErr: "ENVIRONMENT"},
		{name: "unknown driver", modify: func(c *Config) { c.Database.Driver = "postgres" }, wantErr: "DB_DRIVER"},
		{name: "duckdb without path", modify: func(c *Config) { c.Database.Path = "" }, wantErr: "DUCKDB_PATH"},
		{
			name: "mysql without dsn or host",
			modify: func(c *Config) {
				c.Database.Driver = DriverMySQL
				c.Database.Host = ""
			},
			wantErr: "DB_DSN",
		},
		{
			name: "mysql with dsn",
			modify: func(c *Config) {
				c.Database.Driver = DriverMySQL
				c.Database.DSN = "u:p@tcp(db:3306)/shop"
			},
		},
		{
			name: "mysql with demo seed",
			modify: func(c *Config) {
				c.Database.Driver = DriverMySQL
				c.Database.DSN = "u:p@tcp(db:3306)/shop"
				c.Database.SeedDemoData = true
			},
			wantErr: "SEED_DEMO_DATA",
		},
		{name: "zero query timeout", modify: func(c *Config) { c.Database.QueryTimeout = 0 }, wantErr: "DB_QUERY_TIMEOUT"},
		{name: "zero breaker requests", modify: func(c *Config) { c.Breaker.MaxRequests = 0 }, wantErr: "BREAKER_MAX_REQUESTS"},
		{name: "breaker ratio above one", modify: func(c *Config) { c.Breaker.FailureRatio = 1.5 }, wantErr: "BREAKER_FAILURE_RATIO"},
		{name: "snapshot without path", modify: func(c *Config) { c.Snapshot.Path = "" }, wantErr: "SNAPSHOT_PATH"},
		{
			name: "in-memory snapshot without path",
			modify: func(c *Config) {
				c.Snapshot.Path = ""
				c.Snapshot.InMemory = true
			},
		},
		{name: "zero rate limit", modify: func(c *Config) { c.Security.RateLimitReqs = 0 }, wantErr: "RATE_LIMIT_REQUESTS"},
		{
			name: "zero rate limit when disabled",
			modify: func(c *Config) {
				c.Security.RateLimitReqs = 0
				c.Security.RateLimitDisabled = true
			},
		},
		{name: "bad log level", modify: func(c *Config) { c.Logging.Level = "loud" }, wantErr: "LOG_LEVEL"},
		{name: "bad log format", modify: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "LOG_FORMAT"},
		{name: "negative train interval", modify: func(c *Config) { c.Recommend.TrainInterval = -time.Second }, wantErr: "RECOMMEND_TRAIN_INTERVAL"},
		{name: "invalid engine config", modify: func(c *Config) { c.Recommend.Latent.Factors = 0 }, wantErr: "latent_factor.factors"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestRecommendConfig_EngineConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.Recommend.Similarity.Neighbors = 12
	cfg.Recommend.Latent.Epochs = 7
	cfg.Recommend.Policy.DiversifyRich = true
	cfg.Recommend.Seed = 99

	engine := cfg.Recommend.EngineConfig()

	if engine.Similarity.Neighbors != 12 {
		t.Errorf("Similarity.Neighbors = %d, want 12", engine.Similarity.Neighbors)
	}
	if engine.LatentFactor.Epochs != 7 {
		t.Errorf("LatentFactor.Epochs = %d, want 7", engine.LatentFactor.Epochs)
	}
	if !engine.Policy.DiversifyRich {
		t.Error("Policy.DiversifyRich = false, want true")
	}
	if engine.Seed != 99 {
		t.Errorf("Seed = %d, want 99", engine.Seed)
	}
	if err := engine.Validate(); err != nil {
		t.Errorf("EngineConfig().Validate() error = %v", err)
	}
}

func TestDatabaseConfig_MySQLDSN(t *testing.T) {
	tests := []struct {
		name string
		db   DatabaseConfig
		want string
	}{
		{
			name: "explicit dsn wins",
			db:   DatabaseConfig{DSN: "a:b@tcp(h:1)/d", Host: "ignored"},
			want: "a:b@tcp(h:1)/d",
		},
		{
			name: "built from fields",
			db:   DatabaseConfig{Host: "db", Port: 3306, User: "shop", Password: "pw", Name: "store"},
			want: "shop:pw@tcp(db:3306)/store?parseTime=true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.db.MySQLDSN(); got != tt.want {
				t.Errorf("MySQLDSN() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestServerConfig_Addr(t *testing.T) {
	s := ServerConfig{Host: "0.0.0.0", Port: 5000}
	if got := s.Addr(); got != "0.0.0.0:5000" {
		t.Errorf("Addr() = %q, want 0.0.0.0:5000", got)
	}
}
