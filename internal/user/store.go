// Copyright (c) 2026 TeamHub. All rights reserved.

package user

import "context"

// # User Data Access

// Store defines the data access contract for member accounts.
//
// Every read hydrates RoleIDs alongside the identity columns — the session
// authority builds principals from these records on each validated request.
type Store interface {
	// List returns all accounts ordered by creation time.
	List(ctx context.Context) ([]User, error)

	// FindByID returns the account with the given ID.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail returns the account with the given email, used by login.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Create persists a new account together with its role assignments.
	Create(ctx context.Context, user *User) error

	// Update persists identity changes and replaces the role assignment set.
	Update(ctx context.Context, user *User) error

	// UpdatePassword replaces the stored bcrypt hash.
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// Delete removes the account and its role assignments.
	Delete(ctx context.Context, id string) error
}
