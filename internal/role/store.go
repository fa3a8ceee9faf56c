// Copyright (c) 2026 TeamHub. All rights reserved.

package role

import "context"

// # Role Data Access

// Store defines the data access contract for roles.
//
// FindByIDs is on the hot path: the authorization gate calls it for every
// permission check, REST and websocket alike.
type Store interface {
	// List returns all roles ordered by creation time.
	List(ctx context.Context) ([]Role, error)

	// FindByID returns the role with the given ID.
	FindByID(ctx context.Context, id string) (*Role, error)

	// FindByIDs returns the roles matching the given IDs. Missing IDs are
	// silently skipped — a principal may reference a role that was deleted
	// after the session token was issued.
	FindByIDs(ctx context.Context, ids []string) ([]Role, error)

	// FindByName returns the role with the given unique name.
	FindByName(ctx context.Context, name string) (*Role, error)

	// FindByNames returns the roles matching the given names.
	FindByNames(ctx context.Context, names []string) ([]Role, error)

	// Create persists a brand-new role.
	Create(ctx context.Context, role *Role) error

	// Update persists changes to the role's name and permission set.
	Update(ctx context.Context, role *Role) error

	// Delete removes the role permanently.
	Delete(ctx context.Context, id string) error
}
