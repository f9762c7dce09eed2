// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/hybridrec/internal/metrics"
	"github.com/tomtom215/hybridrec/internal/recommend"
)

// interactionsQuery turns purchase history into (user, product, category,
// strength) rows. Strength is the number of order lines for the pair.
const interactionsQuery = `
	SELECT
		o.user_id,
		od.product_id,
		MIN(p.category_id) AS category_id,
		COUNT(*) AS strength
	FROM orders o
	JOIN order_details od ON o.id = od.order_id
	JOIN products p ON od.product_id = p.id
	GROUP BY o.user_id, od.product_id
	ORDER BY o.user_id, od.product_id
`

// LoadInteractions implements recommend.DataProvider over the shop schema.
func (db *DB) LoadInteractions(ctx context.Context) (interactions []recommend.Interaction, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery(db.driver, "load_interactions", time.Since(start), err)
		if err == nil {
			metrics.DBRowsLoaded.WithLabelValues(db.driver).Set(float64(len(interactions)))
		}
	}()

	ctx, cancel := db.queryContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, interactionsQuery)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer rows.Close()

	interactions = make([]recommend.Interaction, 0, 1024)
	for rows.Next() {
		var (
			in       recommend.Interaction
			category sql.NullInt64
		)
		if err := rows.Scan(&in.UserID, &in.ItemID, &category, &in.Strength); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		if category.Valid {
			c := int(category.Int64)
			in.CategoryID = &c
		}
		interactions = append(interactions, in)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}

	return interactions, nil
}

var _ recommend.DataProvider = (*DB)(nil)
