// Copyright (c) 2026 TeamHub. All rights reserved.

package auth_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamhubhq/teamhub/internal/auth"
	"github.com/teamhubhq/teamhub/internal/platform/apperr"
	"github.com/teamhubhq/teamhub/internal/platform/sec"
	"github.com/teamhubhq/teamhub/internal/user"
)

// memoryRegistry is an in-process [auth.TokenRegistry].
type memoryRegistry struct {
	entries map[string]string
}

func newMemoryRegistry() *memoryRegistry {
	return &memoryRegistry{entries: make(map[string]string)}
}

func (r *memoryRegistry) Put(_ context.Context, userID, token string, _ int) error {
	r.entries[userID] = token
	return nil
}

func (r *memoryRegistry) Get(_ context.Context, userID string) (string, error) {
	return r.entries[userID], nil
}

func (r *memoryRegistry) Delete(_ context.Context, userID string) (bool, error) {
	if _, ok := r.entries[userID]; !ok {
		return false, nil
	}
	delete(r.entries, userID)
	return true, nil
}

// credentialStore serves a single canned account; only the lookup methods
// used by the session authority are live.
type credentialStore struct {
	account *user.User
}

func (s *credentialStore) List(_ context.Context) ([]user.User, error) { return nil, nil }

func (s *credentialStore) FindByID(_ context.Context, id string) (*user.User, error) {
	if s.account != nil && s.account.ID == id {
		clone := *s.account
		return &clone, nil
	}
	return nil, apperr.NotFound("User")
}

func (s *credentialStore) FindByEmail(_ context.Context, email string) (*user.User, error) {
	if s.account != nil && s.account.Email == email {
		clone := *s.account
		return &clone, nil
	}
	return nil, apperr.NotFound("User")
}

func (s *credentialStore) Create(_ context.Context, _ *user.User) error        { return nil }
func (s *credentialStore) Update(_ context.Context, _ *user.User) error        { return nil }
func (s *credentialStore) UpdatePassword(_ context.Context, _, _ string) error { return nil }
func (s *credentialStore) Delete(_ context.Context, _ string) error            { return nil }

func newTestAuthority(t *testing.T) (*auth.Service, *credentialStore, *memoryRegistry) {
	t.Helper()

	hash, err := sec.HashPassword("correct horse")
	require.NoError(t, err)

	store := &credentialStore{account: &user.User{
		ID:           "user-1",
		Name:         "Ada",
		Email:        "ada@teamhub.app",
		PasswordHash: hash,
		RoleIDs:      []string{"role-editor"},
	}}
	registry := newMemoryRegistry()
	tokens := sec.NewTokenService("test-secret-please-rotate", "teamhub.app")

	return auth.NewService(store, tokens, registry, time.Hour, slog.Default()), store, registry
}

/*
TestService_Issue verifies a valid credential exchange produces a token the
authority itself accepts.
*/
func TestService_Issue(t *testing.T) {
	authority, _, _ := newTestAuthority(t)

	session, err := authority.Issue(context.Background(), "ada@teamhub.app", "correct horse")
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)
	assert.Equal(t, "user-1", session.User.ID)

	principal, err := authority.Validate(context.Background(), session.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", principal.ID)
	assert.Equal(t, []string{"role-editor"}, principal.RoleIDs)
}

/*
TestService_Issue_BadCredentials checks that unknown email and wrong password
are indistinguishable to the caller.
*/
func TestService_Issue_BadCredentials(t *testing.T) {
	authority, _, _ := newTestAuthority(t)

	_, unknownErr := authority.Issue(context.Background(), "nobody@teamhub.app", "whatever")
	_, wrongErr := authority.Issue(context.Background(), "ada@teamhub.app", "wrong horse")

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)

	unknownAE := apperr.As(unknownErr)
	wrongAE := apperr.As(wrongErr)
	require.NotNil(t, unknownAE)
	require.NotNil(t, wrongAE)

	assert.Equal(t, unknownAE.Code, wrongAE.Code)
	assert.Equal(t, unknownAE.Message, wrongAE.Message)
	assert.Equal(t, unknownAE.HTTPStatus, wrongAE.HTTPStatus)
}

/*
TestService_SingleSession verifies a second login displaces the first token.
*/
func TestService_SingleSession(t *testing.T) {
	authority, _, _ := newTestAuthority(t)

	first, err := authority.Issue(context.Background(), "ada@teamhub.app", "correct horse")
	require.NoError(t, err)

	second, err := authority.Issue(context.Background(), "ada@teamhub.app", "correct horse")
	require.NoError(t, err)
	require.NotEqual(t, first.Token, second.Token)

	// The displaced token still has a valid signature but fails validation
	_, err = authority.Validate(context.Background(), first.Token)
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)

	// The newest token is the only valid session
	_, err = authority.Validate(context.Background(), second.Token)
	assert.NoError(t, err)
}

/*
TestService_Revoke verifies logout semantics and idempotency reporting.
*/
func TestService_Revoke(t *testing.T) {
	authority, _, _ := newTestAuthority(t)

	session, err := authority.Issue(context.Background(), "ada@teamhub.app", "correct horse")
	require.NoError(t, err)

	revoked, err := authority.Revoke(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// The revoked token fails validation despite its valid signature
	_, err = authority.Validate(context.Background(), session.Token)
	require.Error(t, err)

	// Second revocation is a clean no-op
	revoked, err = authority.Revoke(context.Background(), "user-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

/*
TestService_Validate_Garbage rejects strings that are not tokens at all.
*/
func TestService_Validate_Garbage(t *testing.T) {
	authority, _, _ := newTestAuthority(t)

	_, err := authority.Validate(context.Background(), "not-a-jwt")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}

/*
TestService_Validate_FreshRoles verifies role edits are visible on the very
next validation without reissuing the token.
*/
func TestService_Validate_FreshRoles(t *testing.T) {
	authority, store, _ := newTestAuthority(t)

	session, err := authority.Issue(context.Background(), "ada@teamhub.app", "correct horse")
	require.NoError(t, err)

	store.account.RoleIDs = []string{"role-admin"}

	principal, err := authority.Validate(context.Background(), session.Token)
	require.NoError(t, err)
	assert.Equal(t, []string{"role-admin"}, principal.RoleIDs)
}
