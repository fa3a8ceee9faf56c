// Copyright (c) 2026 TeamHub. All rights reserved.

/*
Package presence tracks which users currently hold live chat connections.

The registry is a process-local map from user ID to the set of connection
IDs. A user is online while at least one connection is registered — multiple
devices map to multiple connection IDs under the same user. The delivery
router consults this registry to decide between live fan-out and offline
persistence.
*/
package presence

import "sync"

// Registry is a concurrency-safe user → connections index.
//
// # Concurrency
//
// Reads vastly outnumber writes (every message send checks presence), so the
// registry uses an RWMutex rather than a plain Mutex.
type Registry struct {
	mu          sync.RWMutex
	connections map[string]map[string]struct{} // userID -> set of connIDs
}

// NewRegistry constructs an empty presence [Registry].
func NewRegistry() *Registry {
	return &Registry{
		connections: make(map[string]map[string]struct{}),
	}
}

// Register records a live connection for the user.
//
// The first connection flips the user to online.
func (registry *Registry) Register(userID, connID string) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	set, ok := registry.connections[userID]
	if !ok {
		set = make(map[string]struct{})
		registry.connections[userID] = set
	}
	set[connID] = struct{}{}
}

// Unregister removes a connection for the user.
//
// Removing the last connection flips the user to offline; unknown pairs are
// ignored so double-unregister on a racing disconnect is harmless.
func (registry *Registry) Unregister(userID, connID string) {
	registry.mu.Lock()
	defer registry.mu.Unlock()

	set, ok := registry.connections[userID]
	if !ok {
		return
	}

	delete(set, connID)
	if len(set) == 0 {
		delete(registry.connections, userID)
	}
}

// IsOnline reports whether the user holds at least one live connection.
func (registry *Registry) IsOnline(userID string) bool {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	return len(registry.connections[userID]) > 0
}

// Connections returns a snapshot of the user's live connection IDs.
func (registry *Registry) Connections(userID string) []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	set := registry.connections[userID]
	if len(set) == 0 {
		return nil
	}

	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}

// OnlineUsers returns a snapshot of all user IDs with a live connection.
func (registry *Registry) OnlineUsers() []string {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	users := make([]string, 0, len(registry.connections))
	for userID := range registry.connections {
		users = append(users, userID)
	}
	return users
}
