// Copyright (c) 2026 Souqly. All rights reserved.

package category

import (
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/souqly/backend/internal/platform/middleware"
	"github.com/souqly/backend/internal/platform/resource"
	"github.com/souqly/backend/internal/platform/sec"
)

// Routes returns a [chi.Router] serving the category collection.
//
// # Routing Strategy
//
//   - Browsing (Public): List and Get are open to all visitors.
//   - Management (Restricted): Writes require [sec.RoleAdmin] or [sec.RoleManager].
func Routes(db *pgxpool.Pool, guard *middleware.Guard) chi.Router {
	handler := resource.NewHandler(resource.NewPostgresRepository(db, "category", Options))
	handler.CreatePayload = CreatePayload
	handler.UpdatePayload = UpdatePayload

	router := chi.NewRouter()

	// ## Public Browsing
	router.Get("/", handler.List)
	router.Get("/{id}", handler.Get)

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
