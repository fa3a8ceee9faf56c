// Copyright (c) 2026 TeamHub. All rights reserved.

/*
Package pointer provides generic helpers for optional values.

Partial-update inputs across the API model "field not provided" as a nil
pointer; these helpers cut the boilerplate of taking the address of a
literal or dereferencing a possibly-nil field.
*/
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

// Fallback safely dereferences a pointer.
// If the pointer is nil, it returns the provided fallback value instead.
func Fallback[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
