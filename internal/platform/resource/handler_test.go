// Copyright (c) 2026 Souqly. All rights reserved.

package resource

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/souqly/backend/internal/platform/apperr"
	"github.com/souqly/backend/pkg/pagination"
)

// stubRepository records the arguments of the last call and returns canned
// results.
type stubRepository struct {
	docs []Document
	meta pagination.Meta
	doc  Document
	err  error

	gotValues url.Values
	gotPre    Document
	gotID     string
	gotDoc    Document
}

func (s *stubRepository) List(_ context.Context, values url.Values, pre Document) ([]Document, pagination.Meta, error) {
	s.gotValues, s.gotPre = values, pre
	return s.docs, s.meta, s.err
}

func (s *stubRepository) Get(_ context.Context, id string) (Document, error) {
	s.gotID = id
	return s.doc, s.err
}

func (s *stubRepository) Create(_ context.Context, doc Document) (Document, error) {
	s.gotDoc = doc
	return s.doc, s.err
}

func (s *stubRepository) Update(_ context.Context, id string, doc Document) (Document, error) {
	s.gotID, s.gotDoc = id, doc
	return s.doc, s.err
}

func (s *stubRepository) Delete(_ context.Context, id string) error {
	s.gotID = id
	return s.err
}

func routerFor(handler *Handler) chi.Router {
	router := chi.NewRouter()
	router.Get("/", handler.List)
	router.Get("/{id}", handler.Get)
	router.Post("/", handler.Create)
	router.Patch("/{id}", handler.Update)
	router.Delete("/{id}", handler.Delete)
	return router
}

func TestHandler_List(t *testing.T) {
	stub := &stubRepository{
		docs: []Document{{"id": "p-1", "name": "Mouse"}, {"id": "p-2", "name": "Keyboard"}},
		meta: pagination.NewMeta(1, 50, 2),
	}
	handler := NewHandler(stub)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/?price[gte]=100&sort=-price", nil)
	routerFor(handler).ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Length     int             `json:"length"`
		Pagination pagination.Meta `json:"pagination"`
		Data       []Document      `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, 2, envelope.Length)
	assert.Equal(t, 1, envelope.Pagination.CurrentPage)
	assert.Len(t, envelope.Data, 2)

	// Raw query parameters reach the repository untouched.
	assert.Equal(t, "100", stub.gotValues.Get("price[gte]"))
	assert.Nil(t, stub.gotPre)
}

func TestHandler_List_PreFilter(t *testing.T) {
	stub := &stubRepository{docs: []Document{}, meta: pagination.NewMeta(1, 50, 0)}
	handler := NewHandler(stub)
	handler.ListFilter = func(*http.Request) Document {
		return Document{"userid": "user-7"}
	}

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	routerFor(handler).ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, Document{"userid": "user-7"}, stub.gotPre)
}

func TestHandler_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		stub := &stubRepository{doc: Document{"id": "p-1", "name": "Mouse"}}
		handler := NewHandler(stub)

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/p-1", nil)
		routerFor(handler).ServeHTTP(recorder, request)

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "p-1", stub.gotID)

		var envelope struct {
			Data Document `json:"data"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
		assert.Equal(t, "Mouse", envelope.Data["name"])
	})

	t.Run("not found", func(t *testing.T) {
		stub := &stubRepository{err: apperr.NotFound("product")}
		handler := NewHandler(stub)

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/missing", nil)
		routerFor(handler).ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestHandler_Create(t *testing.T) {
	t.Run("payload validation failure short-circuits storage", func(t *testing.T) {
		stub := &stubRepository{}
		handler := NewHandler(stub)
		handler.CreatePayload = func(*http.Request) (Document, error) {
			return nil, apperr.ValidationError("name is required")
		}

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
		routerFor(handler).ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Nil(t, stub.gotDoc)
	})

	t.Run("created", func(t *testing.T) {
		stub := &stubRepository{doc: Document{"id": "c-1", "name": "Electronics"}}
		handler := NewHandler(stub)
		handler.CreatePayload = func(*http.Request) (Document, error) {
			return Document{"name": "Electronics"}, nil
		}

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Electronics"}`))
		routerFor(handler).ServeHTTP(recorder, request)

		require.Equal(t, http.StatusCreated, recorder.Code)
		assert.Equal(t, Document{"name": "Electronics"}, stub.gotDoc)
	})
}

func TestHandler_Update(t *testing.T) {
	stub := &stubRepository{doc: Document{"id": "c-1", "name": "Gadgets"}}
	handler := NewHandler(stub)
	handler.UpdatePayload = func(*http.Request) (Document, error) {
		return Document{"name": "Gadgets"}, nil
	}

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPatch, "/c-1", strings.NewReader(`{"name":"Gadgets"}`))
	routerFor(handler).ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "c-1", stub.gotID)
	assert.Equal(t, Document{"name": "Gadgets"}, stub.gotDoc)
}

func TestHandler_Delete(t *testing.T) {
	stub := &stubRepository{}
	handler := NewHandler(stub)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodDelete, "/p-9", nil)
	routerFor(handler).ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "p-9", stub.gotID)
}
