// Copyright (c) 2026 Souqly. All rights reserved.

package review

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/souqly/backend/internal/platform/ctxutil"
	"github.com/souqly/backend/internal/platform/resource"
	"github.com/souqly/backend/internal/platform/sec"
	"github.com/souqly/backend/pkg/pagination"
)

// stubRepository records the arguments of the last call and returns canned
// results.
type stubRepository struct {
	doc resource.Document
	err error

	gotID  string
	gotDoc resource.Document

	deleted bool
}

func (s *stubRepository) List(_ context.Context, _ url.Values, _ resource.Document) ([]resource.Document, pagination.Meta, error) {
	return nil, pagination.Meta{}, s.err
}

func (s *stubRepository) Get(_ context.Context, id string) (resource.Document, error) {
	s.gotID = id
	return s.doc, s.err
}

func (s *stubRepository) Create(_ context.Context, doc resource.Document) (resource.Document, error) {
	s.gotDoc = doc
	return doc, s.err
}

func (s *stubRepository) Update(_ context.Context, id string, doc resource.Document) (resource.Document, error) {
	s.gotID, s.gotDoc = id, doc
	return s.doc, s.err
}

func (s *stubRepository) Delete(_ context.Context, id string) error {
	s.gotID, s.deleted = id, true
	return s.err
}

// stubRecalculator records which products had their aggregate refreshed.
type stubRecalculator struct {
	products []string
}

func (s *stubRecalculator) RecalcProductRating(_ context.Context, productID string) error {
	s.products = append(s.products, productID)
	return nil
}

func handlerFor(repository *stubRepository, ratings *stubRecalculator) *Handler {
	return &Handler{
		repository: repository,
		ratings:    ratings,
		generic:    resource.NewHandler(repository),
	}
}

func routerFor(handler *Handler) chi.Router {
	router := chi.NewRouter()
	router.Post("/", handler.create)
	router.Patch("/{id}", handler.update)
	router.Delete("/{id}", handler.delete)
	return router
}

func asUser(request *http.Request, user *sec.AuthUser) *http.Request {
	return request.WithContext(ctxutil.WithAuthUser(request.Context(), user))
}

func customer(id string) *sec.AuthUser {
	return &sec.AuthUser{ID: id, Role: sec.RoleUser, Active: true}
}

const productID = "0191d3a0-0000-7000-8000-000000000001"

func TestCreate_StampsAuthorAndRecalculatesRating(t *testing.T) {
	repository := &stubRepository{}
	ratings := &stubRecalculator{}
	router := routerFor(handlerFor(repository, ratings))

	body := `{"comment":"Great keyboard","rating":5,"product":"` + productID + `"}`
	request := asUser(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)), customer("user-1"))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, "user-1", repository.gotDoc["userid"])
	assert.Equal(t, productID, repository.gotDoc["productid"])
	assert.Equal(t, []string{productID}, ratings.products)
}

func TestCreate_RejectsOutOfRangeRating(t *testing.T) {
	repository := &stubRepository{}
	ratings := &stubRecalculator{}
	router := routerFor(handlerFor(repository, ratings))

	for _, body := range []string{
		`{"comment":"meh","rating":0,"product":"` + productID + `"}`,
		`{"comment":"meh","rating":6,"product":"` + productID + `"}`,
	} {
		request := asUser(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)), customer("user-1"))
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Nil(t, repository.gotDoc)
		assert.Empty(t, ratings.products)
	}
}

func TestUpdate_OnlyAuthorOrStaff(t *testing.T) {
	tests := []struct {
		name     string
		user     *sec.AuthUser
		wantCode int
	}{
		{"author", customer("user-1"), http.StatusOK},
		{"other_customer", customer("user-2"), http.StatusForbidden},
		{"manager", &sec.AuthUser{ID: "staff-1", Role: sec.RoleManager, Active: true}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repository := &stubRepository{
				doc: resource.Document{"id": "rev-1", "userid": "user-1", "productid": productID},
			}
			ratings := &stubRecalculator{}
			router := routerFor(handlerFor(repository, ratings))

			body := `{"rating":3}`
			request := asUser(httptest.NewRequest(http.MethodPatch, "/rev-1", strings.NewReader(body)), tt.user)
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantCode, recorder.Code)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, []string{productID}, ratings.products)
			} else {
				assert.Empty(t, ratings.products)
			}
		})
	}
}

func TestDelete_RecalculatesRatingOfReviewedProduct(t *testing.T) {
	repository := &stubRepository{
		doc: resource.Document{"id": "rev-1", "userid": "user-1", "productid": productID},
	}
	ratings := &stubRecalculator{}
	router := routerFor(handlerFor(repository, ratings))

	request := asUser(httptest.NewRequest(http.MethodDelete, "/rev-1", nil), customer("user-1"))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusNoContent, recorder.Code)
	assert.True(t, repository.deleted)
	assert.Equal(t, []string{productID}, ratings.products)
}

func TestCanModify(t *testing.T) {
	doc := resource.Document{"userid": "user-1"}

	assert.True(t, canModify(customer("user-1"), doc))
	assert.False(t, canModify(customer("user-2"), doc))
	assert.True(t, canModify(&sec.AuthUser{ID: "staff-1", Role: sec.RoleAdmin}, doc))
	assert.True(t, canModify(&sec.AuthUser{ID: "staff-2", Role: sec.RoleManager}, doc))
}
