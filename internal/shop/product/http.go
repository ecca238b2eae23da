// Copyright (c) 2026 Souqly. All rights reserved.

package product

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/souqly/backend/internal/platform/middleware"
	requestutil "github.com/souqly/backend/internal/platform/request"
	"github.com/souqly/backend/internal/platform/resource"
	"github.com/souqly/backend/internal/platform/respond"
	"github.com/souqly/backend/internal/platform/sec"
)

// Routes returns a [chi.Router] serving the product collection.
//
// # Routing Strategy
//
//   - Browsing (Public): List and Get are open to all visitors; Get embeds
//     the owning category.
//   - Management (Restricted): Writes require [sec.RoleAdmin] or [sec.RoleManager].
func Routes(db *pgxpool.Pool, guard *middleware.Guard) chi.Router {
	repository := resource.NewPostgresRepository(db, "product", Options)
	handler := resource.NewHandler(repository)
	handler.CreatePayload = CreatePayload
	handler.UpdatePayload = UpdatePayload

	router := chi.NewRouter()

	// ## Public Browsing
	router.Get("/", handler.List)
	router.Get("/{id}", getWithCategory(db, repository))

	// ## Catalog Management
	router.Group(func(managed chi.Router) {
		for _, gate := range guard.ProtectRoles(sec.RoleAdmin, sec.RoleManager) {
			managed.Use(gate)
		}

		managed.Post("/", handler.Create)
		managed.Patch("/{id}", handler.Update)
		managed.Delete("/{id}", handler.Delete)
	})

	return router
}

// getWithCategory serves GET /{id} with the category relation attached.
func getWithCategory(db *pgxpool.Pool, repository resource.Repository) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		doc, err := repository.Get(request.Context(), requestutil.ID(request, "id"))
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		doc, err = AttachCategory(request.Context(), db, doc)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		respond.OK(writer, doc)
	}
}
