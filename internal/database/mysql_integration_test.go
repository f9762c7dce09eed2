// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

//go:build integration

package database

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/hybridrec/internal/config"
	"github.com/tomtom215/hybridrec/internal/testinfra"
)

func TestMySQL_LoadInteractions_Integration(t *testing.T) {
	testinfra.SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	mysqlC, err := testinfra.NewMySQLContainer(ctx)
	if err != nil {
		t.Fatalf("NewMySQLContainer() error = %v", err)
	}
	defer testinfra.CleanupContainer(t, ctx, mysqlC)

	db, err := Open(&config.DatabaseConfig{
		Driver:       config.DriverMySQL,
		DSN:          mysqlC.DSN,
		QueryTimeout: 30 * time.Second,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema() error = %v", err)
	}
	if err := db.InsertProducts(ctx, []Product{
		{ID: 1, Name: "mug", CategoryID: intPtr(4)},
		{ID: 2, Name: "gift card"},
	}); err != nil {
		t.Fatalf("InsertProducts() error = %v", err)
	}
	if err := db.InsertOrders(ctx, []Order{
		{ID: 1, UserID: 10, ProductIDs: []int{1, 1, 2}},
		{ID: 2, UserID: 11, ProductIDs: []int{2}},
	}); err != nil {
		t.Fatalf("InsertOrders() error = %v", err)
	}

	got, err := db.LoadInteractions(ctx)
	if err != nil {
		t.Fatalf("LoadInteractions() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("LoadInteractions() returned %d rows, want 3: %+v", len(got), got)
	}
	if got[0].UserID != 10 || got[0].ItemID != 1 || got[0].Strength != 2 {
		t.Errorf("row 0 = %+v, want user 10 item 1 strength 2", got[0])
	}
	if got[0].CategoryID == nil || *got[0].CategoryID != 4 {
		t.Errorf("row 0 category = %v, want 4", got[0].CategoryID)
	}
	if got[1].CategoryID != nil {
		t.Errorf("row 1 category = %d, want nil", *got[1].CategoryID)
	}
}
