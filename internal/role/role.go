// Copyright (c) 2026 TeamHub. All rights reserved.

/*
Package role implements named permission bundles assignable to users.

A role is a set of opaque permission tags (e.g. "task_create"). A user's
effective permission set is the union of the permissions of all roles attached
to the account; the authorization gate (internal/authz) resolves that union on
every check, so edits to a role take effect immediately.
*/
package role

import "time"

// # Domain Entities

// Role represents a named bundle of permission tags.
type Role struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasPermission reports whether the role grants the given permission tag.
func (r *Role) HasPermission(permission string) bool {
	for _, p := range r.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// # Field Identifiers

// Global field names for validation in the role domain.
const (
	FieldID          = "id"
	FieldName        = "name"
	FieldPermissions = "permissions"
)
