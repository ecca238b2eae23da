// Copyright (c) 2026 Souqly. All rights reserved.

package auth

import (
	"context"
	"time"
)

// # Identity Data Access

// UserStore defines the persistence contract for customer accounts.
type UserStore interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Identity: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*Identity, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *Identity: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByEmail(context context.Context, email string) (*Identity, error)

	/*
		Create persists a brand-new account.

		Parameters:
		  - context: context.Context
		  - identity: *Identity

		Returns:
		  - error: apperr.Conflict on a duplicate email, or storage failures
	*/
	Create(context context.Context, identity *Identity) error

	/*
		SetResetCode stores the hashed recovery code, its expiry, and resets
		the verified flag in one write.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - codeHash: string
		  - expiresAt: time.Time

		Returns:
		  - error: Persistence failures
	*/
	SetResetCode(context context.Context, userID, codeHash string, expiresAt time.Time) error

	/*
		MarkResetCodeVerified flips the verified flag after a successful code
		comparison.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Persistence failures
	*/
	MarkResetCodeVerified(context context.Context, userID string) error

	/*
		UpdatePassword replaces the password hash and stamps
		passwordchangedat, invalidating every previously issued token. It
		also clears any pending recovery state.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - passwordHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, userID, passwordHash string) error
}

// # Session Revocation

// RevocationStore defines the revoked-session list consulted on every
// authenticated request and written by logout.
type RevocationStore interface {

	/*
		Revoke marks a token hash as revoked until its natural expiry.

		Parameters:
		  - context: context.Context
		  - tokenHash: string
		  - timeToLive: time.Duration

		Returns:
		  - error: Persistence failures
	*/
	Revoke(context context.Context, tokenHash string, timeToLive time.Duration) error

	/*
		IsRevoked reports whether the token hash is on the list.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - bool: Revocation state
		  - error: Connectivity failures
	*/
	IsRevoked(context context.Context, tokenHash string) (bool, error)
}
