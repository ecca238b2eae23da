// Copyright (c) 2026 Souqly. All rights reserved.

package wishlist

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/souqly/backend/internal/platform/middleware"
	requestutil "github.com/souqly/backend/internal/platform/request"
	"github.com/souqly/backend/internal/platform/respond"
	"github.com/souqly/backend/internal/platform/validate"
)

// Handler serves the wishlist endpoints. Everything here is scoped to the
// authenticated customer.
type Handler struct {
	store *PostgresStore
}

// NewHandler constructs a new wishlist [Handler].
func NewHandler(db *pgxpool.Pool) *Handler {
	return &Handler{store: NewPostgresStore(db)}
}

// Routes returns a [chi.Router] serving the wishlist.
//
// # Endpoints
//   - GET    /              : Saved products, newest first.
//   - POST   /              : Bookmark a product.
//   - DELETE /{productID}   : Drop a bookmark.
func (handler *Handler) Routes(guard *middleware.Guard) chi.Router {
	router := chi.NewRouter()

	router.Group(func(protected chi.Router) {
		for _, gate := range guard.Protect() {
			protected.Use(gate)
		}

		protected.Get("/", handler.list)
		protected.Post("/", handler.add)
		protected.Delete("/{productID}", handler.remove)
	})

	return router
}

type addRequest struct {
	ProductID string `json:"productId"`
}

// listEnvelope is the wishlist's response shape: a length plus the saved
// products. The collection is small by nature, so it is not paginated.
type listEnvelope struct {
	Length int     `json:"length"`
	Data   []Entry `json:"data"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	user, err := requestutil.RequiredAuthUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entries, err := handler.store.List(request.Context(), user.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, listEnvelope{Length: len(entries), Data: entries})
}

func (handler *Handler) add(writer http.ResponseWriter, request *http.Request) {
	user, err := requestutil.RequiredAuthUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input addRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required("productId", input.ProductID).UUID("productId", input.ProductID)
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.store.Add(request.Context(), user.ID, input.ProductID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	user, err := requestutil.RequiredAuthUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.store.Remove(request.Context(), user.ID, requestutil.ID(request, "productID")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
