// Copyright (c) 2026 Souqly. All rights reserved.

package resource

import (
	"net/http"

	requestutil "github.com/souqly/backend/internal/platform/request"
	"github.com/souqly/backend/internal/platform/respond"
)

// FilterFunc derives a mandatory server-side filter from the request,
// typically from the authenticated identity. A nil or empty result means
// no restriction.
type FilterFunc func(request *http.Request) Document

// PayloadFunc decodes and validates the write payload of a create or
// update request into a column document. It owns validation: a returned
// error aborts the operation before any storage access.
type PayloadFunc func(request *http.Request) (Document, error)

// Handler serves the generic CRUD endpoints of one collection.
//
// The zero hooks are usable defaults: no pre-filter, and writes rejected
// (collections that only support reads simply leave the payload hooks nil).
type Handler struct {
	repository Repository

	// ListFilter restricts List to rows the caller may see.
	ListFilter FilterFunc

	// CreatePayload and UpdatePayload build the write documents.
	CreatePayload PayloadFunc
	UpdatePayload PayloadFunc
}

func NewHandler(repository Repository) *Handler {
	return &Handler{repository: repository}
}

// List serves GET /, the full read pipeline: filter, search, sort,
// projection, pagination.
func (handler *Handler) List(writer http.ResponseWriter, request *http.Request) {
	var pre Document
	if handler.ListFilter != nil {
		pre = handler.ListFilter(request)
	}

	docs, meta, err := handler.repository.List(request.Context(), request.URL.Query(), pre)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.List(writer, len(docs), meta, docs)
}

// Get serves GET /{id}.
func (handler *Handler) Get(writer http.ResponseWriter, request *http.Request) {
	doc, err := handler.repository.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, doc)
}

// Create serves POST /.
func (handler *Handler) Create(writer http.ResponseWriter, request *http.Request) {
	doc, err := handler.CreatePayload(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	stored, err := handler.repository.Create(request.Context(), doc)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, stored)
}

// Update serves PATCH /{id}.
func (handler *Handler) Update(writer http.ResponseWriter, request *http.Request) {
	doc, err := handler.UpdatePayload(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	stored, err := handler.repository.Update(request.Context(), requestutil.ID(request, "id"), doc)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, stored)
}

// Delete serves DELETE /{id}.
func (handler *Handler) Delete(writer http.ResponseWriter, request *http.Request) {
	if err := handler.repository.Delete(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
