// Copyright (c) 2026 Souqly. All rights reserved.

package order

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/souqly/backend/internal/platform/apperr"
	"github.com/souqly/backend/internal/platform/dberr"
	"github.com/souqly/backend/pkg/uuid"
)

// PostgresStore implements the transactional order operations. The plain
// reads live in the generic resource repository; only the flows that touch
// more than one row belong here.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed order store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

/*
Checkout prices the requested lines from the catalog and creates the order
inside one transaction.

Description: Each line decrements product stock with a guarded update; a
line whose product lacks stock aborts the whole transaction. Prices come
from the product rows at this moment, never from the client.

Parameters:
  - context: context.Context
  - input: CheckoutInput

Returns:
  - *Order: Persisted order with computed totals
  - error: BadRequest (empty cart or insufficient stock), NotFound, or
    storage failures
*/
func (store *PostgresStore) Checkout(context context.Context, input CheckoutInput) (*Order, error) {
	if len(input.Lines) == 0 {
		return nil, apperr.BadRequest("Cart is empty")
	}

	transaction, err := store.db.Begin(context)
	if err != nil {
		return nil, dberr.Wrap(err, "order")
	}
	defer func() { _ = transaction.Rollback(context) }()

	// ── 1. Price and reserve each line ────────────────────────────────────
	items := make([]Item, 0, len(input.Lines))
	var itemsTotal float64

	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return nil, apperr.BadRequest("Item quantity must be positive")
		}

		var name string
		var price float64
		err := transaction.QueryRow(context,
			`SELECT name, price FROM shop.product WHERE id = $1`, line.ProductID).
			Scan(&name, &price)
		if err != nil {
			return nil, dberr.Wrap(err, "product")
		}

		// Guarded decrement: fails the line when stock is short, without a
		// separate read-check-write window.
		tag, err := transaction.Exec(context,
			`UPDATE shop.product
			 SET quantity = quantity - $1, sold = sold + $1, updatedat = now()
			 WHERE id = $2 AND quantity >= $1`,
			line.Quantity, line.ProductID)
		if err != nil {
			return nil, dberr.Wrap(err, "product")
		}
		if tag.RowsAffected() == 0 {
			return nil, apperr.BadRequest(fmt.Sprintf("Insufficient stock for %s", name))
		}

		items = append(items, Item{
			ProductID: line.ProductID,
			Name:      name,
			Price:     price,
			Quantity:  line.Quantity,
		})
		itemsTotal += price * float64(line.Quantity)
	}

	// ── 2. Persist the order ──────────────────────────────────────────────
	order := &Order{
		ID:            uuid.New(),
		UserID:        input.UserID,
		Items:         items,
		TaxPrice:      TaxPrice,
		ShippingPrice: ShippingPrice,
		TotalPrice:    itemsTotal + TaxPrice + ShippingPrice,
		PaymentMethod: input.PaymentMethod,
		Address:       input.Address,
		Phone:         input.Phone,
		CreatedAt:     time.Now().UTC(),
	}

	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return nil, fmt.Errorf("order_store_items_encode_failed: %w", err)
	}

	_, err = transaction.Exec(context,
		`INSERT INTO shop.order
		 (id, userid, items, taxprice, shippingprice, totalprice,
		  paymentmethod, ispaid, isdelivered, address, phone, createdat, updatedat)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, false, false, $8, $9, $10, $10)`,
		order.ID, order.UserID, itemsJSON, order.TaxPrice, order.ShippingPrice,
		order.TotalPrice, order.PaymentMethod, order.Address, order.Phone, order.CreatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "order")
	}

	if err := transaction.Commit(context); err != nil {
		return nil, dberr.Wrap(err, "order")
	}

	return order, nil
}

// MarkPaid stamps the payment flags on an order.
func (store *PostgresStore) MarkPaid(context context.Context, id string) error {
	return store.stamp(context, id, "ispaid", "paidat")
}

// MarkDelivered stamps the delivery flags on an order.
func (store *PostgresStore) MarkDelivered(context context.Context, id string) error {
	return store.stamp(context, id, "isdelivered", "deliveredat")
}

// stamp flips one state flag and its timestamp. The column names come from
// the two callers above, never from request input.
func (store *PostgresStore) stamp(context context.Context, id, flagColumn, timeColumn string) error {
	query := fmt.Sprintf(
		`UPDATE shop.order SET %s = true, %s = now(), updatedat = now() WHERE id = $1`,
		flagColumn, timeColumn)

	tag, err := store.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "order")
	}

	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "order")
	}

	return nil
}
