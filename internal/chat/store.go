// Copyright (c) 2026 TeamHub. All rights reserved.

package chat

import "context"

// # Message Data Access

// Store defines the data access contract for offline messages.
//
// Only offline traffic reaches this store; live deliveries never touch it.
type Store interface {
	// Create persists a message destined for an offline recipient.
	Create(ctx context.Context, message *Message) error

	// UnreadByRecipient returns the recipient's unread messages in send
	// order (oldest first), the order the backlog is replayed in.
	UnreadByRecipient(ctx context.Context, recipientID string) ([]Message, error)

	// MarkRead flips the read flag on a message owned by the recipient and
	// returns the updated row, so the read receipt can be relayed to the
	// original sender.
	MarkRead(ctx context.Context, messageID, recipientID string) (*Message, error)
}
