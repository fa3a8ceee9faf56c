// Copyright (c) 2026 TeamHub. All rights reserved.

package schema

// ChatMessageTable represents the 'chat.message' table
type ChatMessageTable struct {
	Table       string
	ID          string
	SenderID    string
	RecipientID string
	Body        string
	Read        string
	CreatedAt   string
}

// ChatMessage is the schema definition for chat.message
var ChatMessage = ChatMessageTable{
	Table:       "chat.message",
	ID:          "id",
	SenderID:    "senderid",
	RecipientID: "recipientid",
	Body:        "body",
	Read:        "read",
	CreatedAt:   "createdat",
}

func (t ChatMessageTable) Columns() []string {
	return []string{t.ID, t.SenderID, t.RecipientID, t.Body, t.Read, t.CreatedAt}
}
