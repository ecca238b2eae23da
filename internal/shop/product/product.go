// Copyright (c) 2026 Souqly. All rights reserved.

/*
Package product exposes the sellable-item collection.

Products ride the generic [resource] pipeline for reads and writes, with
two additions of their own: free-text search spans the description as well
as the name, and a single Get eagerly attaches the owning category.
*/
package product

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/souqly/backend/internal/platform/dberr"
	requestutil "github.com/souqly/backend/internal/platform/request"
	"github.com/souqly/backend/internal/platform/resource"
	"github.com/souqly/backend/internal/platform/validate"
	"github.com/souqly/backend/pkg/query"
	"github.com/souqly/backend/pkg/slug"
)

// Options describes the queryable shape of the product collection.
var Options = query.Options{
	Table: "shop.product",
	Columns: []string{
		"id", "name", "slug", "description", "price", "quantity", "sold",
		"imagecover", "categoryid", "ratingaverage", "ratingcount",
		"createdat", "updatedat",
	},
	SearchColumns:  []string{"name", "description"},
	NumericColumns: []string{"price", "quantity", "sold", "ratingaverage", "ratingcount"},
	DefaultSort:    "createdat DESC",
}

type payload struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	ImageCover  string  `json:"imageCover"`
	CategoryID  string  `json:"category"`
}

// CreatePayload validates a new product document.
func CreatePayload(request *http.Request) (resource.Document, error) {
	var input payload
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required("name", input.Name).
		MinLen("name", input.Name, 3).
		MaxLen("name", input.Name, 100).
		Required("description", input.Description).
		MinLen("description", input.Description, 20).
		Positive("price", input.Price).
		Required("category", input.CategoryID).
		UUID("category", input.CategoryID).
		Custom("quantity", input.Quantity < 0, "must not be negative")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	return resource.Document{
		"name":        input.Name,
		"slug":        slug.From(input.Name),
		"description": input.Description,
		"price":       input.Price,
		"quantity":    input.Quantity,
		"sold":        0,
		"imagecover":  input.ImageCover,
		"categoryid":  input.CategoryID,
	}, nil
}

// UpdatePayload validates a partial product document.
func UpdatePayload(request *http.Request) (resource.Document, error) {
	var input payload
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	doc := resource.Document{}

	if input.Name != "" {
		validator.MinLen("name", input.Name, 3).MaxLen("name", input.Name, 100)
		doc["name"] = input.Name
		doc["slug"] = slug.From(input.Name)
	}
	if input.Description != "" {
		validator.MinLen("description", input.Description, 20)
		doc["description"] = input.Description
	}
	if input.Price != 0 {
		validator.Positive("price", input.Price)
		doc["price"] = input.Price
	}
	if input.Quantity != 0 {
		validator.Custom("quantity", input.Quantity < 0, "must not be negative")
		doc["quantity"] = input.Quantity
	}
	if input.ImageCover != "" {
		doc["imagecover"] = input.ImageCover
	}
	if input.CategoryID != "" {
		validator.UUID("category", input.CategoryID)
		doc["categoryid"] = input.CategoryID
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	return doc, nil
}

// AttachCategory replaces the raw categoryid on a product document with the
// embedded category row, mirroring what catalog consumers expect on a
// single-product view.
func AttachCategory(ctx context.Context, db *pgxpool.Pool, doc resource.Document) (resource.Document, error) {
	categoryID, ok := doc["categoryid"]
	if !ok || categoryID == nil {
		return doc, nil
	}

	rows, err := db.Query(ctx,
		`SELECT id, name, slug, image FROM shop.category WHERE id = $1`, categoryID)
	if err != nil {
		return nil, dberr.Wrap(err, "category")
	}

	category, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if err != nil {
		return nil, dberr.Wrap(err, "category")
	}

	delete(doc, "categoryid")
	doc["category"] = category
	return doc, nil
}
