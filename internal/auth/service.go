// Copyright (c) 2026 TeamHub. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/teamhubhq/teamhub/internal/platform/apperr"
	"github.com/teamhubhq/teamhub/internal/platform/sec"
	"github.com/teamhubhq/teamhub/internal/user"
)

// # Session Authority

// Session is the result of a successful credential exchange.
type Session struct {
	Token string         `json:"token"`
	User  *sec.Principal `json:"user"`
}

// Service implements issue/validate/revoke for single-session tokens.
//
// # Architecture
//
// A session is valid only while BOTH hold:
//  1. the JWT verifies (signature, expiry), and
//  2. the token is byte-identical to the registry entry for its user.
//
// Issuing overwrites the registry entry, so at most one token per user ever
// satisfies (2).
type Service struct {
	users      user.Store
	tokens     *sec.TokenService
	registry   TokenRegistry
	sessionTTL time.Duration
	logger     *slog.Logger
}

// NewService constructs the session authority.
func NewService(
	users user.Store,
	tokens *sec.TokenService,
	registry TokenRegistry,
	sessionTTL time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:      users,
		tokens:     tokens,
		registry:   registry,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

/*
Issue exchanges credentials for a fresh session token.

Description: Unknown email and wrong password produce the exact same error,
so the endpoint cannot be used to enumerate accounts. On success the new
token displaces any previous session of the same user — the old token will
fail its next registry check.

Returns:
  - *Session: Token plus the authenticated principal
  - error: apperr.Unauthorized on bad credentials, or infrastructure failures
*/
func (service *Service) Issue(context context.Context, email, password string) (*Session, error) {

	// ── 1. Credential Verification ────────────────────────────────────────
	account, err := service.users.FindByEmail(context, email)
	if err != nil {
		// Indistinguishable from a wrong password
		if ae := apperr.As(err); ae != nil && ae.Code == "NOT_FOUND" {
			return nil, apperr.Unauthorized("Invalid email or password")
		}
		return nil, fmt.Errorf("auth_service_issue_lookup_failed: %w", err)
	}

	if !sec.CheckPasswordHash(password, account.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	// ── 2. Token Generation ───────────────────────────────────────────────
	token, err := service.tokens.GenerateSessionToken(account.ID, service.sessionTTL)
	if err != nil {
		return nil, fmt.Errorf("auth_service_issue_sign_failed: %w", err)
	}

	// ── 3. Registry Overwrite (single-session) ────────────────────────────
	ttlSeconds := int(service.sessionTTL / time.Second)
	if err := service.registry.Put(context, account.ID, token, ttlSeconds); err != nil {
		return nil, fmt.Errorf("auth_service_issue_registry_failed: %w", err)
	}

	service.logger.Info("session_issued",
		slog.String("user_id", account.ID),
	)

	return &Session{
		Token: token,
		User:  principalOf(account),
	}, nil
}

/*
Validate performs the full two-step session check and resolves the principal.

Description: Step one verifies the JWT cryptographically. Step two requires
the token to be byte-identical to the registry entry — a token displaced by a
newer login or removed by logout fails here despite a valid signature. The
principal is loaded fresh from storage so role changes apply immediately.

Returns:
  - *sec.Principal: The authenticated principal with current role IDs
  - error: apperr.Unauthorized on any validation failure
*/
func (service *Service) Validate(context context.Context, token string) (*sec.Principal, error) {

	// ── 1. Cryptographic Verification ─────────────────────────────────────
	claims, err := service.tokens.VerifySessionToken(token)
	if err != nil {
		return nil, apperr.Unauthorized("Session expired or invalid")
	}

	// ── 2. Registry Membership ────────────────────────────────────────────
	active, err := service.registry.Get(context, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_validate_registry_failed: %w", err)
	}
	if active == "" || active != token {
		return nil, apperr.Unauthorized("Session expired or invalid")
	}

	// ── 3. Fresh Principal Load ───────────────────────────────────────────
	account, err := service.users.FindByID(context, claims.UserID)
	if err != nil {
		// Deleted accounts keep a dangling registry entry until it expires
		return nil, apperr.Unauthorized("Session expired or invalid")
	}

	return principalOf(account), nil
}

/*
Revoke ends the user's active session, if any.

Description: Idempotent — revoking an already-ended session is not an error
at this layer; the boolean tells the HTTP boundary whether anything was
actually removed.

Returns:
  - bool: true when a session existed and was revoked
  - error: Infrastructure failures only
*/
func (service *Service) Revoke(context context.Context, userID string) (bool, error) {
	revoked, err := service.registry.Delete(context, userID)
	if err != nil {
		return false, fmt.Errorf("auth_service_revoke_failed: %w", err)
	}

	if revoked {
		service.logger.Info("session_revoked", slog.String("user_id", userID))
	}

	return revoked, nil
}

// principalOf projects an account onto the transport-agnostic principal.
func principalOf(account *user.User) *sec.Principal {
	return &sec.Principal{
		ID:      account.ID,
		Name:    account.Name,
		Email:   account.Email,
		RoleIDs: account.RoleIDs,
	}
}
