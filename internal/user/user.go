// Copyright (c) 2026 TeamHub. All rights reserved.

/*
Package user implements account management for TeamHub members.

An account carries identity (name, email), a bcrypt password hash, and the
set of role IDs that feed the authorization gate. The session authority
(internal/auth) and the chat boundary both resolve principals through this
package's store.
*/
package user

import "time"

// # Domain Entities

// User represents a TeamHub member account.
//
// PasswordHash is never serialized; JSON responses expose identity and role
// assignments only.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	RoleIDs      []string  `json:"role_ids"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// # Field Identifiers

// Global field names for validation in the user domain.
const (
	FieldID       = "id"
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldRoles    = "roles"
)
