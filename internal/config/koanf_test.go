// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaultConfig().Validate() error = %v", err)
	}

	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Database.Driver != DriverDuckDB {
		t.Errorf("Database.Driver = %q, want duckdb", cfg.Database.Driver)
	}
	if cfg.Breaker.FailureRatio != 0.6 {
		t.Errorf("Breaker.FailureRatio = %f, want 0.6", cfg.Breaker.FailureRatio)
	}
	if !cfg.Snapshot.Enabled {
		t.Error("Snapshot.Enabled = false, want true")
	}
	if cfg.Recommend.TrainInterval != time.Hour {
		t.Errorf("Recommend.TrainInterval = %v, want 1h", cfg.Recommend.TrainInterval)
	}
	if cfg.Recommend.Policy.RichThreshold != 5 {
		t.Errorf("Recommend.Policy.RichThreshold = %d, want 5", cfg.Recommend.Policy.RichThreshold)
	}
	if cfg.Recommend.Policy.DefaultLimit != 30 || cfg.Recommend.Policy.DefaultMaxPerCategory != 2 {
		t.Errorf("Recommend.Policy defaults = %d/%d, want 30/2",
			cfg.Recommend.Policy.DefaultLimit, cfg.Recommend.Policy.DefaultMaxPerCategory)
	}
}

func TestLoadFromPath_Layers(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9000
database:
  driver: mysql
  dsn: "shop:secret@tcp(db:3306)/shop"
recommend:
  train_interval: 15m
  policy:
    rich_threshold: 8
security:
  cors_origins:
    - https://shop.example.com
`)

	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("RECOMMEND_NEIGHBORS", "25")
	t.Setenv("RECOMMEND_LEARNING_RATE", "0.01")

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"env overrides file", cfg.Server.Port, 9100},
		{"file overrides default driver", cfg.Database.Driver, DriverMySQL},
		{"file dsn", cfg.Database.DSN, "shop:secret@tcp(db:3306)/shop"},
		{"file duration", cfg.Recommend.TrainInterval, 15 * time.Minute},
		{"file nested int", cfg.Recommend.Policy.RichThreshold, 8},
		{"env nested int", cfg.Recommend.Similarity.Neighbors, 25},
		{"env float", cfg.Recommend.Latent.LearningRate, 0.01},
		{"default kept", cfg.Recommend.Policy.DefaultLimit, 30},
		{"file slice", strings.Join(cfg.Security.CORSOrigins, ","), "https://shop.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestLoadWithKoanf_ConfigPathEnv(t *testing.T) {
	path := writeConfigFile(t, "logging:\n  level: debug\n")
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadFromPath_MissingFile(t *testing.T) {
	if _, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadFromPath() error = nil, want error for missing file")
	}
}

func TestLoadFromPath_InvalidValue(t *testing.T) {
	t.Setenv("RECOMMEND_RICH_THRESHOLD", "0")

	_, err := LoadFromPath("")
	if err == nil || !strings.Contains(err.Error(), "policy.rich_threshold") {
		t.Errorf("LoadFromPath() error = %v, want rich_threshold validation error", err)
	}
}

func TestProcessSliceFields_CommaSeparated(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com,,")

	cfg, err := LoadFromPath("")
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}

	want := []string{"https://a.example.com", "https://b.example.com"}
	if len(cfg.Security.CORSOrigins) != len(want) {
		t.Fatalf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
	for i := range want {
		if cfg.Security.CORSOrigins[i] != want[i] {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, cfg.Security.CORSOrigins[i], want[i])
		}
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"DUCKDB_PATH", "database.path"},
		{"DISABLE_RATE_LIMIT", "security.rate_limit_disabled"},
		{"RECOMMEND_DEFAULT_PER_CATEGORY", "recommend.policy.default_max_per_category"},
		{"log_level", "logging.level"},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := envTransformFunc(tt.key); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}
