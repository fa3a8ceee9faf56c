// Copyright (c) 2026 TeamHub. All rights reserved.

package sec

// # Authenticated Identity

// Principal is the identity attached to a request or live connection after a
// successful session validation.
//
// It is loaded fresh from the credential store on every authentication and is
// never cached beyond a single request or connection lifetime, so role changes
// take effect on the very next authenticated call.
type Principal struct {
	// ID is the user's unique identifier (UUIDv7).
	ID string `json:"id"`
	// Name is the user's display name.
	Name string `json:"name"`
	// Email is the user's login email.
	Email string `json:"email"`
	// RoleIDs are the identifiers of the roles attached to the user. The
	// authorization gate resolves these to permission tags on every check.
	RoleIDs []string `json:"role_ids"`
}
