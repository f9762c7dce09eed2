// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

// Package testinfra provides test infrastructure for integration testing with containers.
//
// This package uses testcontainers-go to manage Docker containers for
// integration tests. Everything except this file is built only with the
// integration tag:
//
//	go test -tags integration ./internal/database/...
//
// # MySQL Container
//
// MySQLContainer runs a MySQL server with an empty shop database, for
// exercising the mysql interaction store against a real server:
//
//	func TestMySQLStore(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    mysqlC, err := testinfra.NewMySQLContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, mysqlC)
//	    // open the store with mysqlC.DSN
//	}
//
// # CI Considerations
//
// These tests require Docker and network access. They are skipped
// gracefully if Docker is unavailable. The first run downloads the image.
package testinfra
