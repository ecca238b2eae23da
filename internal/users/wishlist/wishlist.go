// Copyright (c) 2026 Souqly. All rights reserved.

/*
Package wishlist lets a customer bookmark catalog products.

The collection is a plain join table; adding is idempotent (re-adding an
already saved product is a no-op) and listing returns the saved products
themselves, not the join rows.
*/
package wishlist

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/souqly/backend/internal/platform/dberr"
)

// Entry is one saved product, as returned by List.
type Entry = map[string]any

// PostgresStore persists wishlist membership in the users.wishlist join table.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed wishlist store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Add bookmarks a product. The insert is idempotent; re-adding is not an
// error. A nonexistent product surfaces as NotFound via the foreign key.
func (store *PostgresStore) Add(context context.Context, userID, productID string) error {
	// The FK violation on a missing product maps through dberr; a duplicate
	// bookmark is absorbed by ON CONFLICT.
	_, err := store.db.Exec(context,
		`INSERT INTO users.wishlist (userid, productid, createdat)
		 VALUES ($1, $2, now())
		 ON CONFLICT (userid, productid) DO NOTHING`,
		userID, productID)
	if err != nil {
		return dberr.Wrap(err, "product")
	}

	return nil
}

// Remove drops a bookmark. Removing an absent bookmark succeeds; the end
// state is the same.
func (store *PostgresStore) Remove(context context.Context, userID, productID string) error {
	_, err := store.db.Exec(context,
		`DELETE FROM users.wishlist WHERE userid = $1 AND productid = $2`,
		userID, productID)
	if err != nil {
		return dberr.Wrap(err, "wishlist")
	}

	return nil
}

// List returns the customer's saved products, newest bookmark first.
func (store *PostgresStore) List(context context.Context, userID string) ([]Entry, error) {
	rows, err := store.db.Query(context,
		`SELECT p.id, p.name, p.slug, p.price, p.quantity, p.imagecover
		 FROM users.wishlist w
		 JOIN shop.product p ON p.id = w.productid
		 WHERE w.userid = $1
		 ORDER BY w.createdat DESC`,
		userID)
	if err != nil {
		return nil, dberr.Wrap(err, "wishlist")
	}

	entries, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, dberr.Wrap(err, "wishlist")
	}

	return entries, nil
}
