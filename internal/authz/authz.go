// Copyright (c) 2026 TeamHub. All rights reserved.

package authz

import (
	"context"
	"fmt"
	"net/http"

	"github.com/teamhubhq/teamhub/internal/platform/apperr"
	"github.com/teamhubhq/teamhub/internal/platform/ctxutil"
	"github.com/teamhubhq/teamhub/internal/platform/respond"
	"github.com/teamhubhq/teamhub/internal/platform/sec"
	"github.com/teamhubhq/teamhub/internal/role"
)

// # Authorization Gate

// Authorizer answers "may this principal perform this operation?".
//
// It is shared by the REST router and the websocket boundary; both call
// [Authorizer.Authorize] with the same permission tags.
type Authorizer struct {
	roles role.Store
}

// NewAuthorizer constructs an [Authorizer] backed by the given role store.
func NewAuthorizer(roles role.Store) *Authorizer {
	return &Authorizer{roles: roles}
}

/*
Authorize checks whether the principal's effective permission set contains
the required tag.

Description: The effective set is the union of the permissions of all roles
currently attached to the principal. Roles are loaded fresh from storage on
every call; role IDs that no longer resolve (deleted roles) contribute
nothing.

Parameters:
  - context: context.Context
  - principal: *sec.Principal (nil means unauthenticated)
  - permission: Permission tag to check

Returns:
  - error: nil when allowed; apperr.Unauthorized when principal is nil;
    apperr.Forbidden when the tag is missing; storage failures otherwise
*/
func (authorizer *Authorizer) Authorize(context context.Context, principal *sec.Principal, permission Permission) error {

	// ── 1. Authentication Check ───────────────────────────────────────────
	if principal == nil {
		return apperr.Unauthorized("Authentication required")
	}

	// A principal without roles holds the empty permission set
	if len(principal.RoleIDs) == 0 {
		return apperr.Forbidden("Insufficient permissions")
	}

	// ── 2. Fresh Role Resolution ──────────────────────────────────────────
	roles, err := authorizer.roles.FindByIDs(context, principal.RoleIDs)
	if err != nil {
		return fmt.Errorf("authz_role_resolution_failed: %w", err)
	}

	// ── 3. Union Membership Test ──────────────────────────────────────────
	for i := range roles {
		if roles[i].HasPermission(string(permission)) {
			return nil
		}
	}

	return apperr.Forbidden("Insufficient permissions")
}

// # HTTP Middleware

// Require wraps a handler so that only principals holding the permission
// may pass. Must be registered after the authentication middleware.
func (authorizer *Authorizer) Require(permission Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			principal := ctxutil.GetPrincipal(request.Context())

			if err := authorizer.Authorize(request.Context(), principal, permission); err != nil {
				respond.Error(writer, request, err)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
