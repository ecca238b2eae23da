// Copyright (c) 2026 Souqly. All rights reserved.

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/souqly/backend/internal/platform/middleware"
	requestutil "github.com/souqly/backend/internal/platform/request"
	"github.com/souqly/backend/internal/platform/resource"
	"github.com/souqly/backend/internal/platform/respond"
	"github.com/souqly/backend/internal/platform/sec"
	"github.com/souqly/backend/internal/platform/validate"
)

// Handler serves the profile and user-administration endpoints.
type Handler struct {
	service *Service
	users   resource.Repository
}

// NewHandler constructs an account [Handler].
func NewHandler(db *pgxpool.Pool, service *Service) *Handler {
	return &Handler{
		service: service,
		users:   resource.NewPostgresRepository(db, "account", Options),
	}
}

// MeRoutes returns the self-service router, mounted at /me.
//
// # Endpoints
//   - GET    / : Own profile.
//   - PATCH  / : Edit name or email.
//   - DELETE / : Deactivate the account.
func (handler *Handler) MeRoutes(guard *middleware.Guard) chi.Router {
	router := chi.NewRouter()

	router.Group(func(protected chi.Router) {
		for _, gate := range guard.Protect() {
			protected.Use(gate)
		}

		protected.Get("/", handler.getMe)
		protected.Patch("/", handler.updateMe)
		protected.Delete("/", handler.deactivateMe)
	})

	return router
}

// AdminRoutes returns the user-administration router, mounted at /users.
//
// # Endpoints
//   - GET   /             : Browse users (full read pipeline).
//   - GET   /{id}         : One user.
//   - PATCH /{id}/role    : Assign a role.
//   - PATCH /{id}/active  : Activate or deactivate.
func (handler *Handler) AdminRoutes(guard *middleware.Guard) chi.Router {
	router := chi.NewRouter()

	router.Group(func(admin chi.Router) {
		for _, gate := range guard.ProtectRoles(sec.RoleAdmin) {
			admin.Use(gate)
		}

		admin.Get("/", handler.listUsers)
		admin.Get("/{id}", handler.getUser)
		admin.Patch("/{id}/role", handler.setRole)
		admin.Patch("/{id}/active", handler.setActive)
	})

	return router
}

// # Self Service

func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	user, err := requestutil.RequiredAuthUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.service.GetProfile(request.Context(), user.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

type updateMeRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	user, err := requestutil.RequiredAuthUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateMeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	if input.Name != nil {
		validator.Required("name", *input.Name).MaxLen("name", *input.Name, 100)
	}
	if input.Email != nil {
		validator.Email("email", *input.Email)
	}
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.service.UpdateProfile(request.Context(), user.ID, UpdateProfileInput{
		Name:  input.Name,
		Email: input.Email,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

func (handler *Handler) deactivateMe(writer http.ResponseWriter, request *http.Request) {
	user, err := requestutil.RequiredAuthUser(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Deactivate(request.Context(), user.ID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Administration

func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	docs, meta, err := handler.users.List(request.Context(), request.URL.Query(), nil)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.List(writer, len(docs), meta, docs)
}

func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	doc, err := handler.users.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, doc)
}

type setRoleRequest struct {
	Role string `json:"role"`
}

func (handler *Handler) setRole(writer http.ResponseWriter, request *http.Request) {
	var input setRoleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required("role", input.Role).
		OneOf("role", input.Role, string(sec.RoleAdmin), string(sec.RoleManager), string(sec.RoleUser))
	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.SetRole(request.Context(), requestutil.ID(request, "id"), input.Role); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

func (handler *Handler) setActive(writer http.ResponseWriter, request *http.Request) {
	var input setActiveRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.SetActive(request.Context(), requestutil.ID(request, "id"), input.Active); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
