// Copyright (c) 2026 Souqly. All rights reserved.

package sec

import "time"

// AuthUser is the identity resolved by the authenticate gate and attached to
// the request context for downstream gates and handlers.
//
// # Why here and not in the users domain?
//
// Middleware, handlers, and domain services all need this type; defining it
// alongside the other security primitives keeps the dependency graph acyclic
// (domain packages import platform, never the reverse).
type AuthUser struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Active bool   `json:"active"`

	// PasswordChangedAt is nil until the first credential change.
	PasswordChangedAt *time.Time `json:"-"`
}
