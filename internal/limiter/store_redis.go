// Copyright (c) 2026 TeamHub. All rights reserved.

package limiter

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// # Redis Counter Store

// hitScript increments the counter and assigns the window TTL exactly once,
// atomically. Returns {count, ttl}.
//
// EXPIRE only fires when INCR created the key (count == 1); a key that lost
// its TTL somehow (e.g. manual fiddling) gets one reassigned as a safety net
// via the TTL < 0 branch.
var hitScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
    redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("TTL", KEYS[1])
if ttl < 0 then
    redis.call("EXPIRE", KEYS[1], ARGV[1])
    ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// RedisCounterStore implements [CounterStore] on shared Redis counters.
type RedisCounterStore struct {
	client *redis.Client
}

// NewRedisCounterStore constructs a counter store on the shared Redis client.
func NewRedisCounterStore(client *redis.Client) *RedisCounterStore {
	return &RedisCounterStore{client: client}
}

/*
Hit atomically increments the window counter for the key.

Returns:
  - int64: Post-increment count within the current window
  - int: Seconds remaining until the window resets
  - error: Redis or script execution failures
*/
func (store *RedisCounterStore) Hit(context context.Context, key string, windowSeconds int) (int64, int, error) {
	result, err := hitScript.Run(context, store.client, []string{key}, windowSeconds).Slice()
	if err != nil {
		return 0, 0, fmt.Errorf("redis_counter_store_hit_failed: %w", err)
	}
	if len(result) != 2 {
		return 0, 0, fmt.Errorf("redis_counter_store_hit_failed: unexpected script reply of length %d", len(result))
	}

	count, ok := result[0].(int64)
	if !ok {
		return 0, 0, fmt.Errorf("redis_counter_store_hit_failed: non-integer count %v", result[0])
	}

	ttl, ok := result[1].(int64)
	if !ok {
		return 0, 0, fmt.Errorf("redis_counter_store_hit_failed: non-integer ttl %v", result[1])
	}

	return count, int(ttl), nil
}
