// Copyright (c) 2026 Souqly. All rights reserved.

/*
Package account manages user profiles and staff-side user administration.

It splits into two surfaces:

  - Self service (/me): the authenticated customer reads and edits their own
    profile, or deactivates their account.
  - Administration (/users): admins browse the user base through the generic
    resource pipeline and adjust roles and active flags.

Credential changes never happen here; they belong to the auth package.
*/
package account

import (
	"context"

	"github.com/souqly/backend/pkg/query"
)

// Options describes the queryable shape of the user collection for the
// admin surface. Credential and recovery columns are deliberately absent.
var Options = query.Options{
	Table:         "users.account",
	Columns:       []string{"id", "name", "email", "role", "active", "createdat", "updatedat"},
	SearchColumns: []string{"name", "email"},
	BoolColumns:   []string{"active"},
	DefaultSort:   "createdat DESC",
}

// UpdateProfileInput is the mutable subset of a customer's own profile.
// Nil means "leave unchanged".
type UpdateProfileInput struct {
	Name  *string
	Email *string
}

// Profile is the self-service view of an account.
type Profile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Active bool   `json:"active"`
}

// # Data Access

// AccountStore defines the profile-level persistence contract.
type AccountStore interface {

	/*
		FindProfile returns the self-service view of an account.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Profile: Hydrated view
		  - error: apperr.NotFound or storage failures
	*/
	FindProfile(context context.Context, id string) (*Profile, error)

	/*
		UpdateProfile applies a partial profile change.

		Parameters:
		  - context: context.Context
		  - id: string
		  - input: UpdateProfileInput

		Returns:
		  - *Profile: Updated view
		  - error: apperr.Conflict on a taken email, or storage failures
	*/
	UpdateProfile(context context.Context, id string, input UpdateProfileInput) (*Profile, error)

	/*
		SetActive flips the account's active flag.

		Parameters:
		  - context: context.Context
		  - id: string
		  - active: bool

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	SetActive(context context.Context, id string, active bool) error

	/*
		SetRole assigns a new role to the account.

		Parameters:
		  - context: context.Context
		  - id: string
		  - role: string

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	SetRole(context context.Context, id string, role string) error
}
