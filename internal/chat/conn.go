// Copyright (c) 2026 TeamHub. All rights reserved.

package chat

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Socket timing and sizing.
const (
	// writeWait is the deadline for a single frame write.
	writeWait = 10 * time.Second

	// pongWait is how long a connection may stay silent before it is
	// considered dead. Must exceed pingPeriod.
	pongWait = 60 * time.Second

	// pingPeriod is the keepalive interval.
	pingPeriod = 30 * time.Second

	// maxFrameSize caps inbound frames; generous for a 4000-char body.
	maxFrameSize = 64 << 10

	// sendBufferSize is the per-connection outbound queue depth.
	sendBufferSize = 256
)

// Conn wraps a single websocket connection of an authenticated user.
type Conn struct {
	id     string
	userID string
	socket *websocket.Conn
	send   chan []byte

	closeOnce sync.Once
}

// newConn builds a [Conn] around an upgraded socket.
func newConn(id, userID string, socket *websocket.Conn) *Conn {
	return &Conn{
		id:     id,
		userID: userID,
		socket: socket,
		send:   make(chan []byte, sendBufferSize),
	}
}

// queue enqueues a marshaled frame without blocking.
//
// A full buffer reports failure; the hub treats that as a dead connection.
func (conn *Conn) queue(frame []byte) bool {
	select {
	case conn.send <- frame:
		return true
	default:
		return false
	}
}

// closeSend shuts the outbound channel exactly once, terminating the write
// pump. Safe to call from both the hub and the read pump.
func (conn *Conn) closeSend() {
	conn.closeOnce.Do(func() { close(conn.send) })
}

// sendEvent marshals and enqueues an event for this connection only.
func (conn *Conn) sendEvent(event Event) {
	frame, err := json.Marshal(event)
	if err != nil {
		return
	}
	conn.queue(frame)
}

// # Socket Pumps

// readPump consumes inbound frames, dispatches them to the delivery router,
// and answers each one with an ack on this connection.
//
// It runs on the connection's goroutine; returning unregisters the
// connection and flips presence.
func (conn *Conn) readPump(hub *Hub, router *Router) {
	defer func() {
		hub.Unregister(conn)
		_ = conn.socket.Close()
	}()

	conn.socket.SetReadLimit(maxFrameSize)
	_ = conn.socket.SetReadDeadline(time.Now().Add(pongWait))
	conn.socket.SetPongHandler(func(string) error {
		return conn.socket.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.socket.ReadMessage()
		if err != nil {
			return
		}

		var inbound InboundEvent
		if err := json.Unmarshal(data, &inbound); err != nil {
			conn.sendEvent(Event{Type: EventAck, Payload: Ack{OK: false, Error: "Malformed frame"}})
			continue
		}

		conn.dispatch(router, inbound)
	}
}

// dispatch routes one inbound event by type tag.
func (conn *Conn) dispatch(router *Router, inbound InboundEvent) {
	ctx := context.Background()

	switch inbound.Type {
	case EventMessage:
		var payload SendPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			conn.sendEvent(Event{Type: EventAck, Payload: Ack{OK: false, Error: "Malformed frame"}})
			return
		}
		conn.sendEvent(Event{Type: EventAck, Payload: router.Send(ctx, conn.userID, payload)})

	case EventMessageRead:
		var payload ReadPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			conn.sendEvent(Event{Type: EventAck, Payload: Ack{OK: false, Error: "Malformed frame"}})
			return
		}
		conn.sendEvent(Event{Type: EventAck, Payload: router.Read(ctx, conn.userID, payload)})

	default:
		conn.sendEvent(Event{Type: EventAck, Payload: Ack{OK: false, Error: "Unknown event type"}})
	}
}

// writePump drains the send channel onto the socket and keeps the
// connection alive with periodic pings.
func (conn *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.socket.Close()
	}()

	for {
		select {
		case frame, ok := <-conn.send:
			_ = conn.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.socket.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.socket.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			_ = conn.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.socket.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
