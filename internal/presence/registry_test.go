// Copyright (c) 2026 TeamHub. All rights reserved.

package presence_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teamhubhq/teamhub/internal/presence"
)

/*
TestRegistry_MultiDevice verifies a user stays online until the last
connection goes away.
*/
func TestRegistry_MultiDevice(t *testing.T) {
	registry := presence.NewRegistry()

	assert.False(t, registry.IsOnline("user-1"))

	registry.Register("user-1", "conn-laptop")
	registry.Register("user-1", "conn-phone")
	assert.True(t, registry.IsOnline("user-1"))
	assert.ElementsMatch(t, []string{"conn-laptop", "conn-phone"}, registry.Connections("user-1"))

	// Dropping one device keeps the user online
	registry.Unregister("user-1", "conn-laptop")
	assert.True(t, registry.IsOnline("user-1"))

	// Dropping the last device flips the user offline
	registry.Unregister("user-1", "conn-phone")
	assert.False(t, registry.IsOnline("user-1"))
	assert.Nil(t, registry.Connections("user-1"))
}

/*
TestRegistry_UnregisterUnknown verifies racing disconnects are harmless.
*/
func TestRegistry_UnregisterUnknown(t *testing.T) {
	registry := presence.NewRegistry()

	registry.Unregister("ghost", "conn-1")
	assert.False(t, registry.IsOnline("ghost"))

	registry.Register("user-1", "conn-1")
	registry.Unregister("user-1", "conn-1")
	registry.Unregister("user-1", "conn-1")
	assert.False(t, registry.IsOnline("user-1"))
}

/*
TestRegistry_OnlineUsers verifies the snapshot lists each user exactly once.
*/
func TestRegistry_OnlineUsers(t *testing.T) {
	registry := presence.NewRegistry()

	registry.Register("user-1", "conn-a")
	registry.Register("user-1", "conn-b")
	registry.Register("user-2", "conn-c")

	assert.ElementsMatch(t, []string{"user-1", "user-2"}, registry.OnlineUsers())
}

/*
TestRegistry_Concurrent hammers the registry from many goroutines; run with
-race to catch unsynchronized access.
*/
func TestRegistry_Concurrent(t *testing.T) {
	registry := presence.NewRegistry()

	var wg sync.WaitGroup
	for worker := 0; worker < 16; worker++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			userID := fmt.Sprintf("user-%d", worker%4)
			for i := 0; i < 100; i++ {
				connID := fmt.Sprintf("conn-%d-%d", worker, i)
				registry.Register(userID, connID)
				registry.IsOnline(userID)
				registry.OnlineUsers()
				registry.Unregister(userID, connID)
			}
		}(worker)
	}
	wg.Wait()

	assert.Empty(t, registry.OnlineUsers())
}
