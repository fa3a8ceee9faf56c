// Copyright (c) 2026 TeamHub. All rights reserved.

/*
Package auth provides the HTTP delivery layer for the session authority.

# Security

The login endpoint sits behind the fixed-window admission limiter
(internal/limiter) in addition to the global IP throttle. Logout requires an
authenticated principal.
*/
package auth

import (
	"net/http"

	"github.com/teamhubhq/teamhub/internal/platform/apperr"
	requestutil "github.com/teamhubhq/teamhub/internal/platform/request"
	"github.com/teamhubhq/teamhub/internal/platform/respond"
	"github.com/teamhubhq/teamhub/internal/platform/validate"
)

// Handler implements the HTTP layer for session management.
type Handler struct {
	authService *Service
}

// NewHandler constructs a new auth [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// # Session Endpoints

// loginRequest defines the credential exchange payload.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

/*
POST /api/v1/auth/login.

Request:
  - body: loginRequest

Response:
  - 200: Session: Fresh token plus the authenticated user
  - 400: ErrValidation: Malformed payload
  - 401: ErrUnauthorized: Bad credentials (identical for unknown email and wrong password)
  - 429: ErrRateLimited: Admission window exhausted
*/
func (handler *Handler) Login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required("email", input.Email).Email("email", input.Email)
	v.Required("password", input.Password)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Issue(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}

/*
POST /api/v1/auth/logout.

Description: Revokes the caller's active session. Revoking when no session
exists in the registry is reported as a client error, matching the
idempotency contract at the HTTP boundary.

Response:
  - 200: Session revoked
  - 400: ErrValidation: No active session to revoke
  - 401: ErrUnauthorized: Not authenticated
*/
func (handler *Handler) Logout(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	revoked, err := handler.authService.Revoke(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if !revoked {
		respond.Error(writer, request, apperr.ValidationError("No active session"))
		return
	}

	respond.OKMessage(writer, nil, "Session revoked")
}

/*
GET /api/v1/auth/me.

Response:
  - 200: Principal: The authenticated principal with current role IDs
  - 401: ErrUnauthorized: Not authenticated
*/
func (handler *Handler) Me(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, principal)
}
