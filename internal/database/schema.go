// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tomtom215/hybridrec/internal/config"
)

// The shop schema: an order belongs to a user and has one line per product
// bought. Buying the same product twice yields two lines.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY,
		name VARCHAR(255) NOT NULL DEFAULT '',
		category_id INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id INTEGER PRIMARY KEY,
		user_id INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS order_details (
		order_id INTEGER NOT NULL,
		product_id INTEGER NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 1
	)`,
}

// MySQL has no CREATE INDEX IF NOT EXISTS, and shop databases carry their own.
var duckdbIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_orders_user ON orders(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_order_details_order ON order_details(order_id)`,
	`CREATE INDEX IF NOT EXISTS idx_order_details_product ON order_details(product_id)`,
}

// EnsureSchema creates the shop tables if they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	statements := schemaStatements
	if db.driver == config.DriverDuckDB {
		statements = append(append([]string{}, schemaStatements...), duckdbIndexes...)
	}
	for _, stmt := range statements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// Product is a catalog entry. CategoryID may be nil.
type Product struct {
	ID         int
	Name       string
	CategoryID *int
}

// Order is a purchase by one user of one or more products.
type Order struct {
	ID         int
	UserID     int
	ProductIDs []int
}

// InsertProducts adds catalog entries in one transaction.
func (db *DB) InsertProducts(ctx context.Context, products []Product) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO products (id, name, category_id) VALUES (?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare product insert: %w", err)
		}
		defer closeQuietly(stmt)

		for _, p := range products {
			var category sql.NullInt64
			if p.CategoryID != nil {
				category = sql.NullInt64{Int64: int64(*p.CategoryID), Valid: true}
			}
			if _, err := stmt.ExecContext(ctx, p.ID, p.Name, category); err != nil {
				return fmt.Errorf("insert product %d: %w", p.ID, err)
			}
		}
		return nil
	})
}

// InsertOrders adds orders and their lines in one transaction.
func (db *DB) InsertOrders(ctx context.Context, orders []Order) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		orderStmt, err := tx.PrepareContext(ctx, `INSERT INTO orders (id, user_id) VALUES (?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare order insert: %w", err)
		}
		defer closeQuietly(orderStmt)

		lineStmt, err := tx.PrepareContext(ctx, `INSERT INTO order_details (order_id, product_id) VALUES (?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare order line insert: %w", err)
		}
		defer closeQuietly(lineStmt)

		for _, o := range orders {
			if _, err := orderStmt.ExecContext(ctx, o.ID, o.UserID); err != nil {
				return fmt.Errorf("insert order %d: %w", o.ID, err)
			}
			for _, productID := range o.ProductIDs {
				if _, err := lineStmt.ExecContext(ctx, o.ID, productID); err != nil {
					return fmt.Errorf("insert line %d/%d: %w", o.ID, productID, err)
				}
			}
		}
		return nil
	})
}

// CountOrders returns the number of orders in the store.
func (db *DB) CountOrders(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

func (db *DB) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
