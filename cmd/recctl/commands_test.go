// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

const demoConfig = `
database:
  driver: duckdb
  path: ":memory:"
  seed_demo_data: true
snapshot:
  enabled: false
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(demoConfig), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestWriteOutput(t *testing.T) {
	v := map[string]any{"user_id": 7, "items": []int{3, 1}}

	tests := []struct {
		name   string
		format string
		decode func([]byte, any) error
	}{
		{"json", outputJSON, json.Unmarshal},
		{"yaml", outputYAML, yaml.Unmarshal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := writeOutput(&buf, tt.format, v); err != nil {
				t.Fatalf("writeOutput() error = %v", err)
			}

			var got struct {
				UserID int   `json:"user_id" yaml:"user_id"`
				Items  []int `json:"items" yaml:"items"`
			}
			if err := tt.decode(buf.Bytes(), &got); err != nil {
				t.Fatalf("decode %s output: %v\n%s", tt.format, err, buf.String())
			}
			if got.UserID != 7 || len(got.Items) != 2 || got.Items[0] != 3 {
				t.Errorf("decoded = %+v, want user_id 7 and items [3 1]", got)
			}
		})
	}
}

func TestRootCmd_InvalidOutput(t *testing.T) {
	_, err := execute(t, "popular", "--output", "xml", "--config", writeConfig(t))
	if err == nil || !strings.Contains(err.Error(), "--output") {
		t.Errorf("error = %v, want --output error", err)
	}
}

func TestRootCmd_MissingUser(t *testing.T) {
	for _, cmd := range []string{"recommend", "neighbors", "tier"} {
		t.Run(cmd, func(t *testing.T) {
			if _, err := execute(t, cmd, "--config", writeConfig(t)); err == nil {
				t.Errorf("%s without --user: error = nil, want required flag error", cmd)
			}
		})
	}
}

func TestCommands_DemoStore(t *testing.T) {
	if testing.Short() {
		t.Skip("trains against an embedded DuckDB store")
	}
	cfgPath := writeConfig(t)

	t.Run("popular", func(t *testing.T) {
		out, err := execute(t, "popular", "--limit", "3", "--config", cfgPath, "--log-level", "disabled")
		if err != nil {
			t.Fatalf("popular error = %v", err)
		}
		var got struct {
			Count int `json:"count"`
		}
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("decode: %v\n%s", err, out)
		}
		if got.Count != 3 {
			t.Errorf("count = %d, want 3", got.Count)
		}
	})

	t.Run("tier of unknown user", func(t *testing.T) {
		out, err := execute(t, "tier", "--user", "999", "--config", cfgPath, "--log-level", "disabled", "-o", "yaml")
		if err != nil {
			t.Fatalf("tier error = %v", err)
		}
		var got struct {
			Tier  string `yaml:"tier"`
			Count int    `yaml:"interaction_count"`
		}
		if err := yaml.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("decode: %v\n%s", err, out)
		}
		if got.Tier != "cold_start" || got.Count != 0 {
			t.Errorf("tier = %q count = %d, want cold_start and 0", got.Tier, got.Count)
		}
	})

	t.Run("recommend", func(t *testing.T) {
		out, err := execute(t, "recommend", "--user", "1", "--limit", "4", "--config", cfgPath, "--log-level", "disabled")
		if err != nil {
			t.Fatalf("recommend error = %v", err)
		}
		var got struct {
			UserID int `json:"user_id"`
			Items  []struct {
				ItemID int `json:"item_id"`
			} `json:"items"`
		}
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("decode: %v\n%s", err, out)
		}
		if got.UserID != 1 {
			t.Errorf("user_id = %d, want 1", got.UserID)
		}
		if len(got.Items) == 0 || len(got.Items) > 4 {
			t.Errorf("len(items) = %d, want 1..4", len(got.Items))
		}
	})

	t.Run("train", func(t *testing.T) {
		out, err := execute(t, "train", "--config", cfgPath, "--log-level", "disabled")
		if err != nil {
			t.Fatalf("train error = %v", err)
		}
		if !strings.Contains(out, `"model_version": 1`) {
			t.Errorf("output missing model_version 1:\n%s", out)
		}
	})
}
