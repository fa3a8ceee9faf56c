// Copyright (c) 2026 TeamHub. All rights reserved.

// Package middleware provides the HTTP middleware chain for the TeamHub API server.
//
// # Architecture
//
// Middleware intercepts incoming HTTP requests to apply global policies
// before they reach the domain handlers. This includes cross-cutting concerns
// like Logging, AuthN/AuthZ, Rate Limiting, and CORS.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/teamhubhq/teamhub/internal/platform/apperr"
	"github.com/teamhubhq/teamhub/internal/platform/constants"
	"github.com/teamhubhq/teamhub/internal/platform/ctxutil"
	"github.com/teamhubhq/teamhub/internal/platform/respond"
	"github.com/teamhubhq/teamhub/internal/platform/sec"
)

// SessionValidator defines the interface needed to authenticate requests.
//
// # Why an interface?
//
// Defining SessionValidator here decouples the middleware from the session
// authority implementation, allowing us to easily inject fakes during unit
// testing. Validation is the full two-step contract: signature+expiry check
// followed by the registry membership check, then a fresh principal load.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (*sec.Principal, error)
}

// Authenticate extracts and verifies the bearer token from the Authorization header.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous.
//  3. If present, validate the session via the session authority.
//  4. Inject the [*sec.Principal] into the request context for downstream use.
func Authenticate(validator SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 3. Session Validation ─────────────────────────────────────────
			principal, err := validator.Validate(request.Context(), parts[1])
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Session expired or invalid"))
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithPrincipal(request.Context(), principal)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		principal := ctxutil.GetPrincipal(request.Context())
		if principal == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}
