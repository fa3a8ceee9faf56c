// Copyright (c) 2026 TeamHub. All rights reserved.

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamhubhq/teamhub/internal/platform/sec"
)

/*
TestTokenService_RoundTrip verifies that a generated token can be verified
and carries the embedded user ID.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service := sec.NewTokenService("test-secret", "teamhub.test")

	token, err := service.GenerateSessionToken("user-123", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifySessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "teamhub.test", claims.Issuer)
}

/*
TestTokenService_Expired verifies that an expired token fails verification.
*/
func TestTokenService_Expired(t *testing.T) {
	service := sec.NewTokenService("test-secret", "teamhub.test")

	token, err := service.GenerateSessionToken("user-123", -time.Minute)
	require.NoError(t, err)

	_, err = service.VerifySessionToken(token)
	assert.Error(t, err)
}

/*
TestTokenService_WrongSecret verifies that a token signed with a different
secret is rejected.
*/
func TestTokenService_WrongSecret(t *testing.T) {
	signer := sec.NewTokenService("secret-a", "teamhub.test")
	verifier := sec.NewTokenService("secret-b", "teamhub.test")

	token, err := signer.GenerateSessionToken("user-123", time.Hour)
	require.NoError(t, err)

	_, err = verifier.VerifySessionToken(token)
	assert.Error(t, err)
}

/*
TestTokenService_Garbage verifies that a malformed string is rejected.
*/
func TestTokenService_Garbage(t *testing.T) {
	service := sec.NewTokenService("test-secret", "teamhub.test")

	_, err := service.VerifySessionToken("not-a-jwt")
	assert.Error(t, err)
}
