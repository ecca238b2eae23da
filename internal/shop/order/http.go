// Copyright (c) 2026 Souqly. All rights reserved.

package order

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/souqly/backend/internal/platform/apperr"
	"github.com/souqly/backend/internal/platform/middleware"
	requestutil "github.com/souqly/backend/internal/platform/request"
	"github.com/souqly/backend/internal/platform/resource"
	"github.com/souqly/backend/internal/platform/respond"
	"github.com/souqly/backend/internal/platform/sec"
	"github.com/souqly/backend/internal/platform/validate"
)

// Handler serves the order endpoints.
type Handler struct {
	store      *PostgresStore
	repository resource.Repository
}

// NewHandler constructs a new order [Handler].
func NewHandler(db *pgxpool.Pool) *Handler {
	return &Handler{
		store:      NewPostgresStore(db),
		repository: resource.NewPostgresRepository(db, "order", Options),
	}
}

// Routes returns a [chi.Router] serving the order collection.
//
// # Routing Strategy
//
// Every endpoint requires an authenticated, active account. Customers are
// scoped to their own orders; the pay/deliver stamps are staff-only.
func (handler *Handler) Routes(guard *middleware.Guard) chi.Router {
	router := chi.NewRouter()

	router.Group(func(protected chi.Router) {
		for _, gate := range guard.Protect() {
			protected.Use(gate)
		}

		protected.Get("/", handler.list)
		protected.Get("/{id}", handler.get)
		protected.Post("/", handler.checkout)
	})

	router.Group(func(staff chi.Router) {
		for _, gate := range guard.ProtectRoles(sec.RoleAdmin, sec.RoleManager) {
			staff.Use(gate)
		}

		staff.Patch("/{id}/pay", handler.markPaid)
		staff.Patch("/{id}/deliver", handler.markDelivered)
	})

	return router
}

// # Reads

// list serves GET /, restricted to the caller's own orders unless staff.
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	user, err := requestutil.RequiredAuthUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var pre resource.Document
	if user.Role == sec.RoleUser {
		pre = resource.Document{"userid": user.ID}
	}

	docs, meta, err := handler.repository.List(request.Context(), request.URL.Query(), pre)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.List(writer, len(docs), meta, docs)
}

// get serves GET /{id}. A customer asking for someone else's order gets the
// same NotFound as for a nonexistent one, so order IDs leak nothing.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	user, err := requestutil.RequiredAuthUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	doc, err := handler.repository.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if user.Role == sec.RoleUser && doc["userid"] != user.ID {
		respond.Error(writer, request, apperr.NotFound("order"))
		return
	}

	respond.OK(writer, doc)
}

// # Checkout

type checkoutRequest struct {
	Lines         []CheckoutLine `json:"items"`
	PaymentMethod string         `json:"paymentMethod"`
	Address       string         `json:"address"`
	Phone         string         `json:"phone"`
}

/*
checkout serves POST /, the transactional order creation.

Response:
  - 201: Order with server-computed totals
  - 400: Empty cart, bad quantity, or insufficient stock
  - 404: Unknown product
*/
func (handler *Handler) checkout(writer http.ResponseWriter, request *http.Request) {
	user, err := requestutil.RequiredAuthUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input checkoutRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required("address", input.Address).
		OneOf("paymentMethod", input.PaymentMethod, "cash", "card").
		Custom("items", len(input.Lines) == 0, "must not be empty")
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	order, err := handler.store.Checkout(request.Context(), CheckoutInput{
		UserID:        user.ID,
		PaymentMethod: input.PaymentMethod,
		Address:       input.Address,
		Phone:         input.Phone,
		Lines:         input.Lines,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, order)
}

// # Fulfilment Stamps

func (handler *Handler) markPaid(writer http.ResponseWriter, request *http.Request) {
	if err := handler.store.MarkPaid(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) markDelivered(writer http.ResponseWriter, request *http.Request) {
	if err := handler.store.MarkDelivered(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
