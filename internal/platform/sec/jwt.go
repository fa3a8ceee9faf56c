// Copyright (c) 2026 TeamHub. All rights reserved.

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// session authority via the [auth.TokenProvider] interface.
package sec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/teamhubhq/teamhub/pkg/uuidv7"
)

// SessionClaims represents the payload embedded inside a session JWT.
//
// Only the user ID travels inside the token. The full principal (name, email,
// roles) is always loaded fresh from the credential store during validation,
// because a signed token can outlive a role change or a forced logout — the
// token registry, not the signature, is the source of truth for liveness.
type SessionClaims struct {
	jwt.RegisteredClaims

	// UserID identifies the account the session belongs to.
	UserID string `json:"uid"`
}

// TokenService handles generation and verification of session JWTs using HS256.
type TokenService struct {
	secret []byte
	issuer string
}

// NewTokenService creates a new TokenService signing with the given shared secret.
func NewTokenService(secret, issuer string) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// GenerateSessionToken creates a new signed session token for a user.
func (service *TokenService) GenerateSessionToken(userID string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			// A unique jti guarantees two logins in the same second still
			// produce distinct tokens, so registry displacement is real.
			ID:        uuidv7.New(),
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		UserID: userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifySessionToken checks the signature and expiry of a session JWT string.
//
// A passing verification proves only cryptographic validity. Callers that need
// liveness (logout, single-session eviction) must additionally consult the
// token registry — see the session authority's Validate.
func (service *TokenService) VerifySessionToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid token claims")
	}

	return claims, nil
}
