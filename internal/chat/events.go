// Copyright (c) 2026 TeamHub. All rights reserved.

package chat

import "encoding/json"

// # Wire Protocol
//
// Every frame on the chat websocket is a JSON [Event]: a type tag plus a
// type-specific payload. Clients correlate acknowledgements to their own
// sends with a client-chosen ref string.

// Event type tags.
const (
	// EventMessage carries a direct message, both client→server (send) and
	// server→client (live delivery).
	EventMessage = "message"

	// EventMessageRead carries a read receipt, both client→server
	// (acknowledge) and server→client (relay to the original sender).
	EventMessageRead = "message_read"

	// EventUnreadBacklog delivers the stored unread messages right after a
	// connection is established.
	EventUnreadBacklog = "unread_messages"

	// EventAck reports the outcome of a client-initiated event.
	EventAck = "ack"
)

// Event is an outbound frame; Payload is marshaled as-is.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// InboundEvent is a raw frame read off the socket; the payload is decoded
// once the type tag is known.
type InboundEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// # Payloads

// SendPayload is the client→server body of an [EventMessage] frame.
type SendPayload struct {
	// Ref is an optional client-chosen correlation ID echoed in the ack.
	Ref  string `json:"ref,omitempty"`
	To   string `json:"to"`
	Body string `json:"body"`
}

// ReadPayload is the client→server body of an [EventMessageRead] frame.
type ReadPayload struct {
	Ref       string `json:"ref,omitempty"`
	MessageID string `json:"message_id"`
}

// ReadReceipt is the server→client relay of a read acknowledgement,
// delivered to the original sender.
type ReadReceipt struct {
	MessageID string `json:"message_id"`
	ReaderID  string `json:"reader_id"`
}

// Backlog is the body of an [EventUnreadBacklog] frame: all messages stored
// while the user was offline, oldest first.
type Backlog struct {
	Messages []Message `json:"messages"`
	Count    int       `json:"count"`
}

// Ack reports the outcome of a send or read-receipt frame.
//
// For sends, exactly one of Delivered/OfflineSaved is true on success: live
// fan-out and offline persistence are mutually exclusive paths.
type Ack struct {
	Ref          string `json:"ref,omitempty"`
	OK           bool   `json:"ok"`
	MessageID    string `json:"message_id,omitempty"`
	Delivered    bool   `json:"delivered"`
	OfflineSaved bool   `json:"offline_saved"`
	Error        string `json:"error,omitempty"`
}
