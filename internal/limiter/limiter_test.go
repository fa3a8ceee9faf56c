// Copyright (c) 2026 TeamHub. All rights reserved.

package limiter_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamhubhq/teamhub/internal/limiter"
)

// clockCounterStore is an in-process [limiter.CounterStore] driven by a fake
// clock, so window expiry can be tested without sleeping.
type clockCounterStore struct {
	now      time.Time
	counts   map[string]int64
	deadline map[string]time.Time
}

func newClockCounterStore() *clockCounterStore {
	return &clockCounterStore{
		now:      time.Unix(1_700_000_000, 0),
		counts:   make(map[string]int64),
		deadline: make(map[string]time.Time),
	}
}

func (s *clockCounterStore) advance(d time.Duration) { s.now = s.now.Add(d) }

func (s *clockCounterStore) Hit(_ context.Context, key string, windowSeconds int) (int64, int, error) {
	if expiry, ok := s.deadline[key]; ok && !s.now.Before(expiry) {
		delete(s.counts, key)
		delete(s.deadline, key)
	}

	s.counts[key]++
	if s.counts[key] == 1 {
		s.deadline[key] = s.now.Add(time.Duration(windowSeconds) * time.Second)
	}

	return s.counts[key], int(s.deadline[key].Sub(s.now) / time.Second), nil
}

/*
TestLimiter_WindowExhaustion verifies the sixth attempt in a 5-per-window
configuration is rejected with a reset hint.
*/
func TestLimiter_WindowExhaustion(t *testing.T) {
	store := newClockCounterStore()
	guard := limiter.NewLimiter(store, 5, 60)

	for attempt := 1; attempt <= 5; attempt++ {
		allowed, _, err := guard.Allow(context.Background(), "203.0.113.7", "login")
		require.NoError(t, err)
		assert.True(t, allowed, "attempt %d should be admitted", attempt)
	}

	allowed, retryAfter, err := guard.Allow(context.Background(), "203.0.113.7", "login")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, 0)
	assert.LessOrEqual(t, retryAfter, 60)
}

/*
TestLimiter_WindowReset verifies a fresh window opens after expiry.
*/
func TestLimiter_WindowReset(t *testing.T) {
	store := newClockCounterStore()
	guard := limiter.NewLimiter(store, 2, 60)

	for i := 0; i < 2; i++ {
		allowed, _, err := guard.Allow(context.Background(), "203.0.113.7", "login")
		require.NoError(t, err)
		require.True(t, allowed)
	}

	allowed, _, err := guard.Allow(context.Background(), "203.0.113.7", "login")
	require.NoError(t, err)
	require.False(t, allowed)

	// The window is anchored at the first hit; once it lapses, counting restarts
	store.advance(61 * time.Second)

	allowed, _, err = guard.Allow(context.Background(), "203.0.113.7", "login")
	require.NoError(t, err)
	assert.True(t, allowed)
}

/*
TestLimiter_IsolatedKeys verifies clients and routes do not share budgets.
*/
func TestLimiter_IsolatedKeys(t *testing.T) {
	store := newClockCounterStore()
	guard := limiter.NewLimiter(store, 1, 60)

	allowed, _, err := guard.Allow(context.Background(), "203.0.113.7", "login")
	require.NoError(t, err)
	require.True(t, allowed)

	// Same client, same route: budget exhausted
	allowed, _, err = guard.Allow(context.Background(), "203.0.113.7", "login")
	require.NoError(t, err)
	assert.False(t, allowed)

	// Different client on the same route gets its own window
	allowed, _, err = guard.Allow(context.Background(), "198.51.100.4", "login")
	require.NoError(t, err)
	assert.True(t, allowed)

	// Same client on another route gets its own window too
	allowed, _, err = guard.Allow(context.Background(), "203.0.113.7", "register")
	require.NoError(t, err)
	assert.True(t, allowed)
}
