// Copyright (c) 2026 TeamHub. All rights reserved.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/teamhubhq/teamhub/internal/platform/constants"
)

// # Redis Registry

// RedisTokenRegistry implements [TokenRegistry] on Redis string keys.
//
// # Key Layout
//
//	auth:session:<userID> -> <jwt>  (TTL = session TTL)
//
// One key per user gives single-session semantics for free: SET replaces the
// previous token atomically, and key expiry tracks the token's own lifetime.
type RedisTokenRegistry struct {
	client *redis.Client
}

// NewRedisTokenRegistry constructs a registry on the shared Redis client.
func NewRedisTokenRegistry(client *redis.Client) *RedisTokenRegistry {
	return &RedisTokenRegistry{client: client}
}

// sessionKey builds the registry key for a user.
func sessionKey(userID string) string {
	return constants.RedisPrefixSession + userID
}

/*
Put stores the token as the user's single active session.

Description: A plain SET with TTL. Any previously stored token is replaced,
which is exactly the displacement behavior the session authority wants.
*/
func (registry *RedisTokenRegistry) Put(context context.Context, userID, token string, ttlSeconds int) error {
	err := registry.client.Set(context, sessionKey(userID), token, time.Duration(ttlSeconds)*time.Second).Err()
	if err != nil {
		return fmt.Errorf("redis_token_registry_put_failed: %w", err)
	}
	return nil
}

/*
Get returns the user's active token, or "" when no session exists.
*/
func (registry *RedisTokenRegistry) Get(context context.Context, userID string) (string, error) {
	token, err := registry.client.Get(context, sessionKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("redis_token_registry_get_failed: %w", err)
	}
	return token, nil
}

/*
Delete removes the user's session entry.

Returns:
  - bool: true when an entry existed and was removed
  - error: Redis failures
*/
func (registry *RedisTokenRegistry) Delete(context context.Context, userID string) (bool, error) {
	removed, err := registry.client.Del(context, sessionKey(userID)).Result()
	if err != nil {
		return false, fmt.Errorf("redis_token_registry_delete_failed: %w", err)
	}
	return removed > 0, nil
}
