// Copyright (c) 2026 Souqly. All rights reserved.

/*
Package category exposes the product-category collection.

Categories are a pure catalog resource: the generic machinery in
[resource] provides the whole read pipeline and the writes, and this
package only contributes the collection shape, payload validation, and
the role split (public reads, manager/admin writes).
*/
package category

import (
	"net/http"

	requestutil "github.com/souqly/backend/internal/platform/request"
	"github.com/souqly/backend/internal/platform/resource"
	"github.com/souqly/backend/internal/platform/validate"
	"github.com/souqly/backend/pkg/query"
	"github.com/souqly/backend/pkg/slug"
)

// Options describes the queryable shape of the category collection.
var Options = query.Options{
	Table:         "shop.category",
	Columns:       []string{"id", "name", "slug", "image", "createdat", "updatedat"},
	SearchColumns: []string{"name"},
	DefaultSort:   "createdat DESC",
}

type payload struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// CreatePayload validates a new category document. The slug is derived from
// the name and regenerated on every rename.
func CreatePayload(request *http.Request) (resource.Document, error) {
	var input payload
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required("name", input.Name).
		MinLen("name", input.Name, 3).
		MaxLen("name", input.Name, 32)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	doc := resource.Document{
		"name": input.Name,
		"slug": slug.From(input.Name),
	}
	if input.Image != "" {
		doc["image"] = input.Image
	}

	return doc, nil
}

// UpdatePayload validates a partial category document.
func UpdatePayload(request *http.Request) (resource.Document, error) {
	var input payload
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		return nil, err
	}

	doc := resource.Document{}
	if input.Name != "" {
		validator := &validate.Validator{}
		validator.MinLen("name", input.Name, 3).MaxLen("name", input.Name, 32)
		if err := validator.Err(); err != nil {
			return nil, err
		}
		doc["name"] = input.Name
		doc["slug"] = slug.From(input.Name)
	}
	if input.Image != "" {
		doc["image"] = input.Image
	}

	return doc, nil
}
