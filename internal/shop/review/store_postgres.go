// Copyright (c) 2026 Souqly. All rights reserved.

package review

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/souqly/backend/internal/platform/dberr"
)

// PostgresStore holds the rating aggregation; the row-level CRUD lives in
// the generic resource repository.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed review store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

/*
RecalcProductRating recomputes the denormalized rating aggregate on the
reviewed product.

Description: Average and count are derived from the surviving reviews in one
statement, so a product with no reviews left resets to zero rather than
keeping a stale aggregate.

Parameters:
  - context: context.Context
  - productID: string

Returns:
  - error: Storage failures
*/
func (store *PostgresStore) RecalcProductRating(context context.Context, productID string) error {
	_, err := store.db.Exec(context,
		`UPDATE shop.product SET
		     ratingaverage = COALESCE((SELECT AVG(rating) FROM shop.review WHERE productid = $1), 0),
		     ratingcount   = (SELECT COUNT(*) FROM shop.review WHERE productid = $1),
		     updatedat     = now()
		 WHERE id = $1`, productID)
	if err != nil {
		return dberr.Wrap(err, "product")
	}

	return nil
}
