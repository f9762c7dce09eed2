// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/hybridrec/config.yaml",
	"/etc/hybridrec/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	engine := recommend.DefaultConfig()

	return &Config{
		Server: ServerConfig{
			Port:        5000,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Database: DatabaseConfig{
			Driver:       DriverDuckDB,
			Path:         "/data/hybridrec.duckdb",
			MaxMemory:    "1GB",
			QueryTimeout: 2 * time.Minute,
			SeedDemoData: false,
			Host:         "127.0.0.1",
			Port:         3306,
		},
		Breaker: BreakerConfig{
			MaxRequests:  1,
			Interval:     time.Minute,
			Timeout:      30 * time.Second,
			MinRequests:  3,
			FailureRatio: 0.6,
		},
		Snapshot: SnapshotConfig{
			Enabled:  true,
			Path:     "/data/snapshot",
			InMemory: false,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Recommend: RecommendConfig{
			TrainInterval:  time.Hour,
			TrainOnStartup: true,
			TrainTimeout:   engine.TrainTimeout,
			Seed:           engine.Seed,
			Similarity: SimilaritySettings{
				Neighbors:     engine.Similarity.Neighbors,
				MinSimilarity: engine.Similarity.MinSimilarity,
			},
			Latent: LatentSettings{
				Factors:         engine.LatentFactor.Factors,
				Epochs:          engine.LatentFactor.Epochs,
				LearningRate:    engine.LatentFactor.LearningRate,
				Regularization:  engine.LatentFactor.Regularization,
				InitStdDev:      engine.LatentFactor.InitStdDev,
				HoldoutFraction: engine.LatentFactor.HoldoutFraction,
			},
			Policy: PolicySettings{
				RichThreshold:         engine.Policy.RichThreshold,
				DefaultLimit:          engine.Policy.DefaultLimit,
				DefaultMaxPerCategory: engine.Policy.DefaultMaxPerCategory,
				MaxLimit:              engine.Policy.MaxLimit,
				DiversifyRich:         engine.Policy.DiversifyRich,
			},
		},
	}
}

// LoadWithKoanf loads configuration using Koanf with layered sources.
// Priority order (highest to lowest):
//  1. Environment variables
//  2. Config file (config.yaml, or CONFIG_PATH)
//  3. Default values
func LoadWithKoanf() (*Config, error) {
	return load(FindConfigFile())
}

// LoadFromPath loads configuration like LoadWithKoanf but reads the given
// file instead of searching the default paths. An empty path means no file.
func LoadFromPath(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}
	return load(path)
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// HTTP_PORT -> server.port
	// RECOMMEND_RICH_THRESHOLD -> recommend.policy.rich_threshold
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// FindConfigFile returns the config file LoadWithKoanf would read:
// CONFIG_PATH if it exists, else the first of DefaultConfigPaths found.
func FindConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated env values into string slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_host":    "server.host",
	"http_port":    "server.port",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	// Interaction store
	"db_driver":         "database.driver",
	"db_dsn":            "database.dsn",
	"duckdb_path":       "database.path",
	"duckdb_max_memory": "database.max_memory",
	"db_query_timeout":  "database.query_timeout",
	"seed_demo_data":    "database.seed_demo_data",
	"db_host":           "database.host",
	"db_port":           "database.port",
	"db_user":           "database.user",
	"db_password":       "database.password",
	"db_name":           "database.name",

	// Circuit breaker
	"breaker_max_requests":  "breaker.max_requests",
	"breaker_interval":      "breaker.interval",
	"breaker_timeout":       "breaker.timeout",
	"breaker_min_requests":  "breaker.min_requests",
	"breaker_failure_ratio": "breaker.failure_ratio",

	// Snapshot
	"snapshot_enabled":   "snapshot.enabled",
	"snapshot_path":      "snapshot.path",
	"snapshot_in_memory": "snapshot.in_memory",

	// Security
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Recommendation engine
	"recommend_train_interval":       "recommend.train_interval",
	"recommend_train_on_startup":     "recommend.train_on_startup",
	"recommend_train_timeout":        "recommend.train_timeout",
	"recommend_seed":                 "recommend.seed",
	"recommend_neighbors":            "recommend.similarity.neighbors",
	"recommend_min_similarity":       "recommend.similarity.min_similarity",
	"recommend_factors":              "recommend.latent.factors",
	"recommend_epochs":               "recommend.latent.epochs",
	"recommend_learning_rate":        "recommend.latent.learning_rate",
	"recommend_regularization":       "recommend.latent.regularization",
	"recommend_init_std_dev":         "recommend.latent.init_std_dev",
	"recommend_holdout_fraction":     "recommend.latent.holdout_fraction",
	"recommend_rich_threshold":       "recommend.policy.rich_threshold",
	"recommend_default_limit":        "recommend.policy.default_limit",
	"recommend_default_per_category": "recommend.policy.default_max_per_category",
	"recommend_max_limit":            "recommend.policy.max_limit",
	"recommend_diversify_rich":       "recommend.policy.diversify_rich",
}

// envTransformFunc maps environment variable names to koanf config paths.
// Unmapped variables return an empty string and are skipped.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

// WatchConfigFile watches a config file for changes and invokes the callback
// on each change. The callback is responsible for reloading and applying the
// settings it cares about.
func WatchConfigFile(path string, callback func()) error {
	return file.Provider(path).Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
