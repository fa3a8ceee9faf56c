// Copyright (c) 2026 TeamHub. All rights reserved.

package chat

import (
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamhubhq/teamhub/internal/presence"
)

/*
TestHub_PresenceLifecycle verifies register/unregister drive the presence
registry.
*/
func TestHub_PresenceLifecycle(t *testing.T) {
	registry := presence.NewRegistry()
	hub := NewHub(registry, slog.Default())

	laptop := newConn("conn-laptop", "user-1", nil)
	phone := newConn("conn-phone", "user-1", nil)

	hub.Register(laptop)
	hub.Register(phone)
	assert.True(t, registry.IsOnline("user-1"))

	hub.Unregister(laptop)
	assert.True(t, registry.IsOnline("user-1"))

	hub.Unregister(phone)
	assert.False(t, registry.IsOnline("user-1"))
}

/*
TestHub_EmitToUser verifies fan-out to every connection of the user and the
delivery report.
*/
func TestHub_EmitToUser(t *testing.T) {
	registry := presence.NewRegistry()
	hub := NewHub(registry, slog.Default())

	laptop := newConn("conn-laptop", "user-1", nil)
	phone := newConn("conn-phone", "user-1", nil)
	stranger := newConn("conn-other", "user-2", nil)

	hub.Register(laptop)
	hub.Register(phone)
	hub.Register(stranger)

	delivered := hub.EmitToUser("user-1", Event{Type: EventMessage, Payload: Message{Body: "hi"}})
	assert.True(t, delivered)

	// Both of user-1's connections received the frame; user-2 got nothing
	for _, conn := range []*Conn{laptop, phone} {
		select {
		case frame := <-conn.send:
			var event InboundEvent
			require.NoError(t, json.Unmarshal(frame, &event))
			assert.Equal(t, EventMessage, event.Type)
		default:
			t.Fatalf("connection %s received no frame", conn.id)
		}
	}
	assert.Empty(t, stranger.send)

	// No connections: delivery is honestly reported as failed
	assert.False(t, hub.EmitToUser("user-3", Event{Type: EventMessage}))
}

/*
TestHub_SlowConnectionDropped verifies a connection with a full send buffer
is unregistered instead of blocking the hub.
*/
func TestHub_SlowConnectionDropped(t *testing.T) {
	registry := presence.NewRegistry()
	hub := NewHub(registry, slog.Default())

	slow := newConn("conn-slow", "user-1", nil)
	hub.Register(slow)

	// Saturate the private buffer without draining it
	for i := 0; i < sendBufferSize; i++ {
		require.True(t, slow.queue([]byte("{}")))
	}

	delivered := hub.EmitToUser("user-1", Event{Type: EventMessage})
	assert.False(t, delivered)
	assert.False(t, registry.IsOnline("user-1"))
}

/*
TestHub_UnregisterTwice verifies double-unregister is harmless.
*/
func TestHub_UnregisterTwice(t *testing.T) {
	registry := presence.NewRegistry()
	hub := NewHub(registry, slog.Default())

	conn := newConn("conn-1", "user-1", nil)
	hub.Register(conn)

	hub.Unregister(conn)
	hub.Unregister(conn) // must not panic on the closed send channel

	assert.False(t, registry.IsOnline("user-1"))
}
