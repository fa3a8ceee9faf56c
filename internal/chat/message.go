// Copyright (c) 2026 TeamHub. All rights reserved.

/*
Package chat implements presence-aware direct messaging.

Delivery is routed by recipient presence: messages to online users fan out to
their live connections and are NOT persisted; messages to offline users are
stored unread and replayed as a backlog when the recipient next connects.
History is therefore intentionally partial — the store holds only what was
sent while the recipient was away.
*/
package chat

import "time"

// # Domain Entities

// Message is a single direct message between two users.
//
// Persisted rows always start unread; the read flag flips when the recipient
// acknowledges the message through a read receipt.
type Message struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id"`
	Body        string    `json:"body"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

// # Field Identifiers

// Global field names for validation in the chat domain.
const (
	FieldMessageID = "message_id"
	FieldTo        = "to"
	FieldBody      = "body"
)

// MaxBodyLength caps a single message body (Unicode characters).
const MaxBodyLength = 4000
