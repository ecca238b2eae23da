// Copyright (c) 2026 Souqly. All rights reserved.

/*
Package order implements checkout and order tracking.

Reads ride the generic [resource] pipeline: customers are transparently
restricted to their own orders, while staff see the whole collection.
Creation is the one genuinely transactional flow in the shop — pricing is
recomputed server-side and stock is decremented atomically, so a sold-out
item can never be oversold by concurrent checkouts.
*/
package order

import (
	"time"

	"github.com/souqly/backend/pkg/query"
)

// Pricing constants applied at checkout. Flat rates for now; a carrier
// integration would replace ShippingPrice with a computed quote.
const (
	TaxPrice      = 100.0
	ShippingPrice = 0.0
)

// Options describes the queryable shape of the order collection.
var Options = query.Options{
	Table: "shop.order",
	Columns: []string{
		"id", "userid", "items", "taxprice", "shippingprice", "totalprice",
		"paymentmethod", "ispaid", "paidat", "isdelivered", "deliveredat",
		"address", "phone", "createdat", "updatedat",
	},
	SearchColumns:  []string{"address"},
	NumericColumns: []string{"taxprice", "shippingprice", "totalprice"},
	BoolColumns:    []string{"ispaid", "isdelivered"},
	DefaultSort:    "createdat DESC",
}

// Item is one purchased line, priced at checkout time from the catalog.
type Item struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Order is a completed checkout.
type Order struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	Items         []Item     `json:"items"`
	TaxPrice      float64    `json:"taxPrice"`
	ShippingPrice float64    `json:"shippingPrice"`
	TotalPrice    float64    `json:"totalPrice"`
	PaymentMethod string     `json:"paymentMethod"`
	IsPaid        bool       `json:"isPaid"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
	IsDelivered   bool       `json:"isDelivered"`
	DeliveredAt   *time.Time `json:"deliveredAt,omitempty"`
	Address       string     `json:"address"`
	Phone         string     `json:"phone"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// CheckoutInput is what the customer submits; everything money-related is
// recomputed on the server.
type CheckoutInput struct {
	UserID        string
	PaymentMethod string
	Address       string
	Phone         string
	Lines         []CheckoutLine
}

// CheckoutLine references a catalog product and a desired quantity.
type CheckoutLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}
