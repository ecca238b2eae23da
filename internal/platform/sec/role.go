// Copyright (c) 2026 Souqly. All rights reserved.

package sec

// # User Roles

// Role represents the authorization level granted to an identity.
type Role string

const (
	// Unrestricted system access
	RoleAdmin Role = "admin"

	// Can manage the catalogue and fulfil orders
	RoleManager Role = "manager"

	// Default role for registered customers
	RoleUser Role = "user"
)

// In reports whether the role is a member of the given allow-list.
//
// It is a pure predicate: route gates pass the roles a route permits and the
// decision depends on nothing but the two operands.
func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

// Valid reports whether the role is one of the known enumerated values.
func (r Role) Valid() bool {
	return r.In(RoleAdmin, RoleManager, RoleUser)
}
