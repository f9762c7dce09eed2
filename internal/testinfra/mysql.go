// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultMySQLImage is the MySQL image used for store tests
	DefaultMySQLImage = "mysql:8.4"

	// DefaultMySQLPort is the MySQL protocol port
	DefaultMySQLPort = "3306"

	defaultMySQLDatabase = "shop"
	defaultMySQLUser     = "shop"
	defaultMySQLPassword = "shop-test-password"
)

// MySQLContainer is a running MySQL server holding an empty shop database.
type MySQLContainer struct {
	testcontainers.Container
	DSN string
}

// MySQLOption configures the MySQL container.
type MySQLOption func(*mysqlConfig)

type mysqlConfig struct {
	image        string
	database     string
	startTimeout time.Duration
}

// WithMySQLImage sets a custom MySQL Docker image.
func WithMySQLImage(image string) MySQLOption {
	return func(c *mysqlConfig) {
		c.image = image
	}
}

// WithMySQLDatabase sets the name of the database created at startup.
func WithMySQLDatabase(name string) MySQLOption {
	return func(c *mysqlConfig) {
		c.database = name
	}
}

// WithMySQLStartTimeout sets the timeout for waiting for MySQL to start.
func WithMySQLStartTimeout(timeout time.Duration) MySQLOption {
	return func(c *mysqlConfig) {
		c.startTimeout = timeout
	}
}

// NewMySQLContainer creates and starts a MySQL container.
//
// Example:
//
//	mysqlC, err := testinfra.NewMySQLContainer(ctx)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer testinfra.CleanupContainer(t, ctx, mysqlC)
//
//	db, err := database.Open(&config.DatabaseConfig{Driver: "mysql", DSN: mysqlC.DSN})
func NewMySQLContainer(ctx context.Context, opts ...MySQLOption) (*MySQLContainer, error) {
	cfg := &mysqlConfig{
		image:        DefaultMySQLImage,
		database:     defaultMySQLDatabase,
		startTimeout: 2 * time.Minute,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	req := testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{DefaultMySQLPort + "/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": defaultMySQLPassword,
			"MYSQL_DATABASE":      cfg.database,
			"MYSQL_USER":          defaultMySQLUser,
			"MYSQL_PASSWORD":      defaultMySQLPassword,
		},
		// The entrypoint starts a temporary server first, so the readiness
		// line appears twice.
		WaitingFor: wait.ForAll(
			wait.ForLog("ready for connections").WithOccurrence(2),
			wait.ForListeningPort(DefaultMySQLPort+"/tcp"),
		).WithStartupTimeout(cfg.startTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create mysql container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, DefaultMySQLPort)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	return &MySQLContainer{
		Container: container,
		DSN: fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
			defaultMySQLUser, defaultMySQLPassword, host, port.Port(), cfg.database),
	}, nil
}
