// Copyright (c) 2026 Souqly. All rights reserved.

// Package pointer provides small generic helpers for optional values.
//
// Nullable columns (passwordChangedAt, reset-code state) surface as pointer
// fields on entities; these helpers remove the boilerplate around them.
package pointer

// To returns a pointer to the provided value.
func To[T any](v T) *T {
	return &v
}

// Val safely dereferences a pointer.
// If the pointer is nil, it returns the zero value of the underlying type.
func Val[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
