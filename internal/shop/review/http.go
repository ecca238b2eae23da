// Copyright (c) 2026 Souqly. All rights reserved.

package review

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/souqly/backend/internal/platform/apperr"
	"github.com/souqly/backend/internal/platform/dberr"
	"github.com/souqly/backend/internal/platform/middleware"
	requestutil "github.com/souqly/backend/internal/platform/request"
	"github.com/souqly/backend/internal/platform/resource"
	"github.com/souqly/backend/internal/platform/respond"
)

// ratingRecalculator refreshes a product's rating aggregate after a review
// write.
type ratingRecalculator interface {
	RecalcProductRating(ctx context.Context, productID string) error
}

// Handler serves the review endpoints.
type Handler struct {
	db         *pgxpool.Pool
	repository resource.Repository
	ratings    ratingRecalculator
	generic    *resource.Handler
}

// NewHandler constructs a new review [Handler].
func NewHandler(db *pgxpool.Pool) *Handler {
	repository := resource.NewPostgresRepository(db, "review", Options)
	return &Handler{
		db:         db,
		repository: repository,
		ratings:    NewPostgresStore(db),
		generic:    resource.NewHandler(repository),
	}
}

// Routes returns a [chi.Router] serving the review collection.
//
// # Routing Strategy
//
//   - Browsing (Public): List and Get are open to all visitors; Get embeds
//     the author.
//   - Writing (Restricted): Creating requires an authenticated, active
//     account; updating and deleting additionally require authorship
//     (staff may moderate any review).
func (handler *Handler) Routes(guard *middleware.Guard) chi.Router {
	router := chi.NewRouter()

	// ## Public Browsing
	router.Get("/", handler.generic.List)
	router.Get("/{id}", handler.get)

	// ## Authoring
	router.Group(func(protected chi.Router) {
		for _, gate := range guard.Protect() {
			protected.Use(gate)
		}

		protected.Post("/", handler.create)
		protected.Patch("/{id}", handler.update)
		protected.Delete("/{id}", handler.delete)
	})

	return router
}

// get serves GET /{id} with the author attached.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	doc, err := handler.repository.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	doc, err = handler.attachAuthor(request, doc)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, doc)
}

// create serves POST /. The author is always the authenticated identity.
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	user, err := requestutil.RequiredAuthUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	doc, err := CreatePayload(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	doc["userid"] = user.ID

	productID, _ := doc["productid"].(string)

	stored, err := handler.repository.Create(request.Context(), doc)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.ratings.RecalcProductRating(request.Context(), productID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, stored)
}

// update serves PATCH /{id}, restricted to the author or staff.
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	user, err := requestutil.RequiredAuthUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	existing, err := handler.repository.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if !canModify(user, existing) {
		respond.Error(writer, request, apperr.Forbidden("Access denied"))
		return
	}

	doc, err := UpdatePayload(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	stored, err := handler.repository.Update(request.Context(), requestutil.ID(request, "id"), doc)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	productID, _ := existing["productid"].(string)
	if err := handler.ratings.RecalcProductRating(request.Context(), productID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, stored)
}

// delete serves DELETE /{id}, restricted to the author or staff.
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	user, err := requestutil.RequiredAuthUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	existing, err := handler.repository.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if !canModify(user, existing) {
		respond.Error(writer, request, apperr.Forbidden("Access denied"))
		return
	}

	if err := handler.repository.Delete(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	productID, _ := existing["productid"].(string)
	if err := handler.ratings.RecalcProductRating(request.Context(), productID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// attachAuthor replaces the raw userid on a review document with the
// embedded author row, mirroring what review consumers expect on a
// single-review view.
func (handler *Handler) attachAuthor(request *http.Request, doc resource.Document) (resource.Document, error) {
	userID, ok := doc["userid"]
	if !ok || userID == nil {
		return doc, nil
	}

	rows, err := handler.db.Query(request.Context(),
		`SELECT id, name FROM users.account WHERE id = $1`, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "user")
	}

	author, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if err != nil {
		return nil, dberr.Wrap(err, "user")
	}

	delete(doc, "userid")
	doc["user"] = author
	return doc, nil
}
