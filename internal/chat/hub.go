// Copyright (c) 2026 TeamHub. All rights reserved.

package chat

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/teamhubhq/teamhub/internal/presence"
)

// # Connection Hub

// Hub indexes live connections by user and bridges them to the presence
// registry: registering the first connection marks the user online,
// removing the last marks them offline.
//
// # Concurrency
//
// The hub is locked per operation. Frame writes never block under the lock —
// each connection owns a buffered send channel drained by its write pump; a
// connection too slow to drain its buffer is dropped.
type Hub struct {
	mu       sync.RWMutex
	byUser   map[string]map[string]*Conn // userID -> connID -> conn
	presence *presence.Registry
	logger   *slog.Logger
}

// NewHub constructs an empty connection [Hub].
func NewHub(registry *presence.Registry, logger *slog.Logger) *Hub {
	return &Hub{
		byUser:   make(map[string]map[string]*Conn),
		presence: registry,
		logger:   logger,
	}
}

// Register adds a live connection and flips presence for its user.
func (hub *Hub) Register(conn *Conn) {
	hub.mu.Lock()
	set, ok := hub.byUser[conn.userID]
	if !ok {
		set = make(map[string]*Conn)
		hub.byUser[conn.userID] = set
	}
	set[conn.id] = conn
	hub.mu.Unlock()

	hub.presence.Register(conn.userID, conn.id)

	hub.logger.Info("chat_connection_opened",
		slog.String("user_id", conn.userID),
		slog.String("conn_id", conn.id),
	)
}

// Unregister removes a connection, closing its send channel exactly once.
func (hub *Hub) Unregister(conn *Conn) {
	hub.mu.Lock()
	if set, ok := hub.byUser[conn.userID]; ok {
		if _, live := set[conn.id]; live {
			delete(set, conn.id)
			if len(set) == 0 {
				delete(hub.byUser, conn.userID)
			}
		}
	}
	hub.mu.Unlock()

	hub.presence.Unregister(conn.userID, conn.id)
	conn.closeSend()

	hub.logger.Info("chat_connection_closed",
		slog.String("user_id", conn.userID),
		slog.String("conn_id", conn.id),
	)
}

/*
EmitToUser marshals the event once and queues it on every live connection of
the user.

Returns:
  - bool: true when at least one connection accepted the frame
*/
func (hub *Hub) EmitToUser(userID string, event Event) bool {
	frame, err := json.Marshal(event)
	if err != nil {
		hub.logger.Error("chat_event_marshal_failed",
			slog.String("type", event.Type),
			slog.String("error", err.Error()),
		)
		return false
	}

	hub.mu.RLock()
	conns := make([]*Conn, 0, len(hub.byUser[userID]))
	for _, conn := range hub.byUser[userID] {
		conns = append(conns, conn)
	}
	hub.mu.RUnlock()

	delivered := false
	for _, conn := range conns {
		if conn.queue(frame) {
			delivered = true
		} else {
			// Send buffer full: the connection is too far behind to keep
			hub.Unregister(conn)
		}
	}

	return delivered
}
