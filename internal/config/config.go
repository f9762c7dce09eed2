// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// Database drivers
const (
	DriverDuckDB = "duckdb"
	DriverMySQL  = "mysql"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Breaker   BreakerConfig   `koanf:"breaker"`
	Snapshot  SnapshotConfig  `koanf:"snapshot"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
	Recommend RecommendConfig `koanf:"recommend"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // "development", "staging", "production" (default: "development")
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// DatabaseConfig holds the interaction store settings.
//
// The store is DuckDB by default. Setting DB_DRIVER=mysql reads purchase
// history from an existing shop database instead, either through DB_DSN or
// through the discrete DB_HOST/DB_PORT/DB_USER/DB_PASSWORD/DB_NAME fields.
type DatabaseConfig struct {
	Driver       string        `koanf:"driver"`
	DSN          string        `koanf:"dsn"`
	Path         string        `koanf:"path"`
	MaxMemory    string        `koanf:"max_memory"`
	QueryTimeout time.Duration `koanf:"query_timeout"`

	// SeedDemoData fills an empty DuckDB store with a small demo shop.
	SeedDemoData bool `koanf:"seed_demo_data"`

	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Name     string `koanf:"name"`
}

// MySQLDSN returns the DSN for the mysql driver. An explicit DSN wins over
// the discrete connection fields.
func (d DatabaseConfig) MySQLDSN() string {
	if d.DSN != "" {
		return d.DSN
	}
	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
	mc.User = d.User
	mc.Passwd = d.Password
	mc.DBName = d.Name
	mc.ParseTime = true
	return mc.FormatDSN()
}

// BreakerConfig holds the circuit breaker settings that guard the store.
type BreakerConfig struct {
	MaxRequests  uint32        `koanf:"max_requests"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout"`
	MinRequests  uint32        `koanf:"min_requests"`
	FailureRatio float64       `koanf:"failure_ratio"`
}

// SnapshotConfig holds the last-good interaction snapshot settings.
type SnapshotConfig struct {
	Enabled  bool   `koanf:"enabled"`
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// SecurityConfig holds rate limiting and CORS settings
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging configuration.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// RecommendConfig holds the recommendation engine and training schedule.
//
// Environment Variables:
//   - RECOMMEND_TRAIN_INTERVAL: Time between training cycles (default: 1h)
//   - RECOMMEND_TRAIN_ON_STARTUP: Train before serving (default: true)
//   - RECOMMEND_RICH_THRESHOLD: Interactions needed for the rich tier (default: 5)
//   - RECOMMEND_NEIGHBORS: Neighbors consulted on the sparse tier (default: 10)
type RecommendConfig struct {
	TrainInterval  time.Duration `koanf:"train_interval"`
	TrainOnStartup bool          `koanf:"train_on_startup"`
	TrainTimeout   time.Duration `koanf:"train_timeout"`
	Seed           int64         `koanf:"seed"`

	Similarity SimilaritySettings `koanf:"similarity"`
	Latent     LatentSettings     `koanf:"latent"`
	Policy     PolicySettings     `koanf:"policy"`
}

// SimilaritySettings configures the neighbor index.
type SimilaritySettings struct {
	Neighbors     int     `koanf:"neighbors"`
	MinSimilarity float64 `koanf:"min_similarity"`
}

// LatentSettings configures the latent factor scorer.
type LatentSettings struct {
	Factors         int     `koanf:"factors"`
	Epochs          int     `koanf:"epochs"`
	LearningRate    float64 `koanf:"learning_rate"`
	Regularization  float64 `koanf:"regularization"`
	InitStdDev      float64 `koanf:"init_std_dev"`
	HoldoutFraction float64 `koanf:"holdout_fraction"`
}

// PolicySettings configures tier selection and list shaping.
type PolicySettings struct {
	RichThreshold         int  `koanf:"rich_threshold"`
	DefaultLimit          int  `koanf:"default_limit"`
	DefaultMaxPerCategory int  `koanf:"default_max_per_category"`
	MaxLimit              int  `koanf:"max_limit"`
	DiversifyRich         bool `koanf:"diversify_rich"`
}

// EngineConfig converts the recommend section into the engine configuration.
func (r RecommendConfig) EngineConfig() *recommend.Config {
	return &recommend.Config{
		Similarity: recommend.SimilarityConfig{
			Neighbors:     r.Similarity.Neighbors,
			MinSimilarity: r.Similarity.MinSimilarity,
		},
		LatentFactor: recommend.LatentFactorConfig{
			Factors:         r.Latent.Factors,
			Epochs:          r.Latent.Epochs,
			LearningRate:    r.Latent.LearningRate,
			Regularization:  r.Latent.Regularization,
			InitStdDev:      r.Latent.InitStdDev,
			HoldoutFraction: r.Latent.HoldoutFraction,
		},
		Policy: recommend.PolicyConfig{
			RichThreshold:         r.Policy.RichThreshold,
			DefaultLimit:          r.Policy.DefaultLimit,
			DefaultMaxPerCategory: r.Policy.DefaultMaxPerCategory,
			MaxLimit:              r.Policy.MaxLimit,
			DiversifyRich:         r.Policy.DiversifyRich,
		},
		TrainTimeout: r.TrainTimeout,
		Seed:         r.Seed,
	}
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// String summarizes the configuration without credentials.
func (c *Config) String() string {
	return fmt.Sprintf("server=%s driver=%s snapshot=%t train_interval=%s",
		c.Server.Addr(), c.Database.Driver, c.Snapshot.Enabled, c.Recommend.TrainInterval)
}
