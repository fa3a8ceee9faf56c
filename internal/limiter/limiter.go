// Copyright (c) 2026 TeamHub. All rights reserved.

/*
Package limiter implements the fixed-window admission limiter protecting the
authentication endpoints.

Unlike the process-local token bucket guarding the whole API, this limiter
counts in Redis, so the window is shared across every running instance: an
attacker cannot multiply their budget by spraying requests over replicas.

# Algorithm

One counter per (client, route). The first hit in a window creates the
counter with a TTL equal to the window length; subsequent hits increment it.
When the counter exceeds the maximum, requests are rejected until the key
expires — the window is anchored at the first request, not on wall-clock
boundaries.
*/
package limiter

import (
	"context"
	"fmt"
	"net/http"

	"github.com/teamhubhq/teamhub/internal/platform/apperr"
	"github.com/teamhubhq/teamhub/internal/platform/constants"
	"github.com/teamhubhq/teamhub/internal/platform/middleware"
	"github.com/teamhubhq/teamhub/internal/platform/respond"
)

// CounterStore increments admission counters with window expiry.
//
// Hit must be atomic: concurrent callers racing on a fresh key must produce
// exactly one TTL assignment and exact counts.
type CounterStore interface {
	// Hit increments the counter for key, creating it with the window TTL
	// on first use. It returns the post-increment count and the seconds
	// remaining in the current window.
	Hit(ctx context.Context, key string, windowSeconds int) (count int64, retryAfterSeconds int, err error)
}

// Limiter enforces a maximum number of admissions per fixed window.
type Limiter struct {
	store         CounterStore
	max           int64
	windowSeconds int
}

// NewLimiter constructs a [Limiter] allowing max hits per window.
func NewLimiter(store CounterStore, max int, windowSeconds int) *Limiter {
	return &Limiter{
		store:         store,
		max:           int64(max),
		windowSeconds: windowSeconds,
	}
}

/*
Allow records a hit for the client on the route and reports admission.

Description: Counting happens before the decision, so rejected requests
still consume nothing extra — the counter simply sits above the maximum
until the window expires.

Returns:
  - bool: true when the request is admitted
  - int: seconds until the window resets (meaningful on rejection)
  - error: Counter store failures
*/
func (limiter *Limiter) Allow(context context.Context, clientKey, route string) (bool, int, error) {
	key := constants.RedisPrefixRate + clientKey + ":" + route

	count, retryAfter, err := limiter.store.Hit(context, key, limiter.windowSeconds)
	if err != nil {
		return false, 0, fmt.Errorf("limiter_hit_failed: %w", err)
	}

	if count > limiter.max {
		return false, retryAfter, nil
	}

	return true, 0, nil
}

// # HTTP Middleware

// Middleware guards a route with the fixed-window limiter, keyed by client IP.
func (limiter *Limiter) Middleware(route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			clientKey := middleware.RealIP(request)

			allowed, retryAfter, err := limiter.Allow(request.Context(), clientKey, route)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			if !allowed {
				writer.Header().Set(constants.HeaderRetryAfter, fmt.Sprintf("%d", retryAfter))
				respond.Error(writer, request, apperr.RateLimited(retryAfter))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
