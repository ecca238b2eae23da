// Copyright (c) 2026 Souqly. All rights reserved.

/*
Package auth implements the customer identity and credential lifecycle.

It covers account creation, login, the three-step password recovery flow
(code request, code verification, password reset), in-session password
change, and logout via the session revocation list.

# Architecture

  - Service: Orchestrates the credential flows (Signup, Login, recovery).
  - UserStore: Postgres-backed identity persistence.
  - RevocationStore: Redis-backed revoked-session list.
  - Tokens/Mail: Injected via small interfaces so flows stay testable.
*/
package auth

import (
	"time"

	"github.com/souqly/backend/internal/platform/sec"
)

// # Domain Entity

// Identity is a registered Souqly account, including the credential state
// that never leaves the server.
type Identity struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         sec.Role  `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// PasswordChangedAt invalidates every session token issued before it.
	PasswordChangedAt *time.Time `json:"-"`

	// Recovery state. The code itself is never stored — only its hash —
	// and ResetCodeVerified gates the final password overwrite.
	ResetCodeHash      string     `json:"-"`
	ResetCodeExpiresAt *time.Time `json:"-"`
	ResetCodeVerified  bool       `json:"-"`
}

// AuthUser projects the identity into the request-scoped view the gates and
// handlers consume.
func (identity *Identity) AuthUser() *sec.AuthUser {
	return &sec.AuthUser{
		ID:                identity.ID,
		Name:              identity.Name,
		Email:             identity.Email,
		Role:              identity.Role,
		Active:            identity.Active,
		PasswordChangedAt: identity.PasswordChangedAt,
	}
}

// # Field Identifiers

// Field names used for validation messages in the credential flows.
const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldPasswordConfirm = "passwordConfirm"
	FieldResetCode       = "resetCode"
	FieldCurrentPassword = "currentPassword"
	FieldNewPassword     = "newPassword"
)
