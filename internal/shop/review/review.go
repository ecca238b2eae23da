// Copyright (c) 2026 Souqly. All rights reserved.

/*
Package review exposes product reviews.

Reviews ride the generic [resource] pipeline for reads; writes are wrapped
so that every create, update, and delete recomputes the denormalized
rating aggregate on the reviewed product.
*/
package review

import (
	"net/http"

	requestutil "github.com/souqly/backend/internal/platform/request"
	"github.com/souqly/backend/internal/platform/resource"
	"github.com/souqly/backend/internal/platform/sec"
	"github.com/souqly/backend/internal/platform/validate"
	"github.com/souqly/backend/pkg/query"
)

// Options describes the queryable shape of the review collection. Clients
// scope to one product with ?productid=... like any other filter.
var Options = query.Options{
	Table: "shop.review",
	Columns: []string{
		"id", "userid", "productid", "comment", "rating", "createdat", "updatedat",
	},
	SearchColumns:  []string{"comment"},
	NumericColumns: []string{"rating"},
	DefaultSort:    "createdat DESC",
}

type payload struct {
	Comment   string `json:"comment"`
	Rating    int    `json:"rating"`
	ProductID string `json:"product"`
}

// CreatePayload validates a new review document. The author is stamped by
// the handler from the authenticated identity, never taken from the body.
func CreatePayload(request *http.Request) (resource.Document, error) {
	var input payload
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required("comment", input.Comment).
		MaxLen("comment", input.Comment, 500).
		Custom("rating", input.Rating < 1 || input.Rating > 5, "must be between 1 and 5").
		Required("product", input.ProductID).
		UUID("product", input.ProductID)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	return resource.Document{
		"comment":   input.Comment,
		"rating":    input.Rating,
		"productid": input.ProductID,
	}, nil
}

// UpdatePayload validates a partial review document. Only the comment and
// rating are mutable; a review never moves between products or authors.
func UpdatePayload(request *http.Request) (resource.Document, error) {
	var input payload
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	doc := resource.Document{}

	if input.Comment != "" {
		validator.MaxLen("comment", input.Comment, 500)
		doc["comment"] = input.Comment
	}
	if input.Rating != 0 {
		validator.Custom("rating", input.Rating < 1 || input.Rating > 5, "must be between 1 and 5")
		doc["rating"] = input.Rating
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	return doc, nil
}

// canModify reports whether user may change the given review: its author,
// or staff.
func canModify(user *sec.AuthUser, doc resource.Document) bool {
	if user.Role != sec.RoleUser {
		return true
	}
	return doc["userid"] == user.ID
}
