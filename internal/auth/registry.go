// Copyright (c) 2026 TeamHub. All rights reserved.

/*
Package auth implements the session authority.

TeamHub enforces a single active session per user: issuing a new token
overwrites the previous one in the token registry, so the older token fails
validation on its next use even though its signature and expiry are still
good. Validation is therefore always a two-step check — cryptographic
verification first, registry membership second.
*/
package auth

import "context"

// # Token Registry

// TokenRegistry records the one currently-valid token per user.
//
// The registry is the source of truth for session liveness. Entries expire
// together with the token TTL so Redis garbage-collects stale sessions on
// its own.
type TokenRegistry interface {
	// Put stores token as the single active session for the user,
	// replacing whatever was there before.
	Put(ctx context.Context, userID, token string, ttlSeconds int) error

	// Get returns the active token for the user, or "" when no session
	// exists (never logged in, expired, or revoked).
	Get(ctx context.Context, userID string) (string, error)

	// Delete removes the user's session entry. It reports whether an
	// entry actually existed, so logout can tell a no-op from a real
	// revocation.
	Delete(ctx context.Context, userID string) (bool, error)
}
