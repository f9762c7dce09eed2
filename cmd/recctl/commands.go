// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tomtom215/hybridrec/internal/config"
	"github.com/tomtom215/hybridrec/internal/database"
	"github.com/tomtom215/hybridrec/internal/logging"
	"github.com/tomtom215/hybridrec/internal/recommend"
	"github.com/tomtom215/hybridrec/internal/recommend/algorithms"
)

// Output formats
const (
	outputJSON = "json"
	outputYAML = "yaml"
)

// options holds the persistent flags shared by every command.
type options struct {
	configPath string
	output     string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "recctl",
		Short:         "Inspect the hybrid recommendation engine",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch opts.output {
			case outputJSON, outputYAML:
				return nil
			default:
				return fmt.Errorf("--output must be json or yaml, got %q", opts.output)
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: search config.yaml)")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", outputJSON, "output format: json or yaml")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level written to stderr")

	root.AddCommand(
		newRecommendCmd(opts),
		newPopularCmd(opts),
		newNeighborsCmd(opts),
		newTierCmd(opts),
		newTrainCmd(opts),
	)
	return root
}

// --- recommend ---

func newRecommendCmd(opts *options) *cobra.Command {
	var (
		userID      int
		limit       int
		perCategory int
		diversify   bool
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Print the recommendation list for a user",
		Long: `Print the recommendation list for a user.

Examples:
  recctl recommend --user 42
  recctl recommend --user 42 --limit 5 --per-category 1 --diversify`,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, closeFn, err := opts.trainedEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			resp, err := engine.Recommend(cmd.Context(), recommend.Request{
				UserID:         userID,
				Limit:          limit,
				MaxPerCategory: perCategory,
				Diversify:      diversify,
			})
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), opts.output, resp)
		},
	}

	cmd.Flags().IntVar(&userID, "user", 0, "user ID")
	cmd.Flags().IntVar(&limit, "limit", 0, "list length (default from config)")
	cmd.Flags().IntVar(&perCategory, "per-category", 0, "items per category (default from config)")
	cmd.Flags().BoolVar(&diversify, "diversify", false, "apply the category cap to rich users")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// --- popular ---

func newPopularCmd(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "popular",
		Short: "Print the global popularity ranking",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, closeFn, err := opts.trainedEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			items, err := engine.PopularItems(limit)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), opts.output, map[string]any{
				"items": items,
				"count": len(items),
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "number of items (default from config)")
	return cmd
}

// --- neighbors ---

func newNeighborsCmd(opts *options) *cobra.Command {
	var userID, k int

	cmd := &cobra.Command{
		Use:   "neighbors",
		Short: "Print the users most similar to a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, closeFn, err := opts.trainedEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			neighbors, err := engine.Neighbors(userID, k)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), opts.output, map[string]any{
				"user_id":   userID,
				"neighbors": neighbors,
			})
		},
	}

	cmd.Flags().IntVar(&userID, "user", 0, "user ID")
	cmd.Flags().IntVar(&k, "k", 10, "number of neighbors")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// --- tier ---

func newTierCmd(opts *options) *cobra.Command {
	var userID int

	cmd := &cobra.Command{
		Use:   "tier",
		Short: "Print the tier a user is served from",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, closeFn, err := opts.trainedEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			tier, count, err := engine.Tier(userID)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), opts.output, map[string]any{
				"user_id":           userID,
				"tier":              tier,
				"interaction_count": count,
				"rich_threshold":    engine.GetConfig().Policy.RichThreshold,
			})
		},
	}

	cmd.Flags().IntVar(&userID, "user", 0, "user ID")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// --- train ---

func newTrainCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Train once and print the training status",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, closeFn, err := opts.trainedEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			return writeOutput(cmd.OutOrStdout(), opts.output, engine.GetStatus())
		},
	}
}

// trainedEngine loads the configuration, opens the store, and runs one
// training cycle. The returned func closes the store.
//
// The snapshot store is not opened: badger holds a directory lock, and a
// running server owns it.
func (o *options) trainedEngine(ctx context.Context) (*recommend.Engine, func(), error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, nil, err
	}

	logging.Init(logging.Config{
		Level:  o.logLevel,
		Format: "console",
		Output: os.Stderr,
	})
	logger := logging.WithComponent("recctl")

	db, err := database.Open(&cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := db.Close(); err != nil {
			logger.Warn().Err(err).Msg("Error closing database")
		}
	}

	if cfg.Database.SeedDemoData {
		if err := db.SeedDemoData(ctx); err != nil {
			closeFn()
			return nil, nil, err
		}
	}

	engineCfg := cfg.Recommend.EngineConfig()
	engine, err := recommend.NewEngine(
		engineCfg,
		algorithms.NewFactory(engineCfg, logger),
		logger,
		recommend.WithDataProvider(database.NewBreakerProvider(db, cfg.Breaker)),
	)
	if err != nil {
		closeFn()
		return nil, nil, err
	}

	trainCtx, cancel := context.WithTimeout(ctx, engineCfg.TrainTimeout)
	defer cancel()
	if err := engine.Train(trainCtx); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("training failed: %w", err)
	}
	return engine, closeFn, nil
}

func (o *options) loadConfig() (*config.Config, error) {
	if o.configPath != "" {
		return config.LoadFromPath(o.configPath)
	}
	return config.LoadWithKoanf()
}

// writeOutput prints v as indented JSON or as YAML. YAML is produced from
// the JSON form so both formats share the json field names.
func writeOutput(w io.Writer, format string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}

	if format != outputYAML {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return enc.Close()
}
