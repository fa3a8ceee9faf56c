// Copyright (c) 2026 TeamHub. All rights reserved.

/*
Package chat (Postgres) implements the storage layer for offline messages.

# Schema Table Mapping
  - chat.message: Messages persisted while the recipient was offline.
*/
package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teamhubhq/teamhub/internal/platform/apperr"
	"github.com/teamhubhq/teamhub/internal/platform/database/schema"
	"github.com/teamhubhq/teamhub/internal/platform/dberr"
)

// # Repository Implementation

// PostgresStore implements [Store] using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new Postgres implementation of the message store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

/*
Create inserts a message row for an offline recipient.
*/
func (store *PostgresStore) Create(context context.Context, message *Message) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		schema.ChatMessage.Table,
		schema.ChatMessage.ID, schema.ChatMessage.SenderID, schema.ChatMessage.RecipientID,
		schema.ChatMessage.Body, schema.ChatMessage.Read, schema.ChatMessage.CreatedAt,
	)

	_, err := store.pool.Exec(context, query,
		message.ID,
		message.SenderID,
		message.RecipientID,
		message.Body,
		message.Read,
		message.CreatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Message")
	}

	return nil
}

/*
UnreadByRecipient retrieves the recipient's unread backlog, oldest first.
*/
func (store *PostgresStore) UnreadByRecipient(context context.Context, recipientID string) ([]Message, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s = FALSE
		ORDER BY %s ASC`,
		schema.ChatMessage.ID, schema.ChatMessage.SenderID, schema.ChatMessage.RecipientID,
		schema.ChatMessage.Body, schema.ChatMessage.Read, schema.ChatMessage.CreatedAt,
		schema.ChatMessage.Table,
		schema.ChatMessage.RecipientID, schema.ChatMessage.Read,
		schema.ChatMessage.CreatedAt,
	)

	rows, err := store.pool.Query(context, query, recipientID)
	if err != nil {
		return nil, fmt.Errorf("postgres_message_store_unread_failed: %w", err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var entity Message
		if err := rows.Scan(
			&entity.ID,
			&entity.SenderID,
			&entity.RecipientID,
			&entity.Body,
			&entity.Read,
			&entity.CreatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, entity)
	}

	return messages, rows.Err()
}

/*
MarkRead flips the read flag on a message owned by the recipient.

Description: The recipient filter doubles as an ownership check — a client
cannot acknowledge someone else's mail.

Returns:
  - *Message: The updated row, for relaying the receipt to the sender
  - error: apperr.NotFound when the message does not exist or is not theirs
*/
func (store *PostgresStore) MarkRead(context context.Context, messageID, recipientID string) (*Message, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = TRUE
		WHERE %s = $1 AND %s = $2
		RETURNING %s, %s, %s, %s, %s, %s`,
		schema.ChatMessage.Table,
		schema.ChatMessage.Read,
		schema.ChatMessage.ID, schema.ChatMessage.RecipientID,
		schema.ChatMessage.ID, schema.ChatMessage.SenderID, schema.ChatMessage.RecipientID,
		schema.ChatMessage.Body, schema.ChatMessage.Read, schema.ChatMessage.CreatedAt,
	)

	entity := &Message{}
	err := store.pool.QueryRow(context, query, messageID, recipientID).Scan(
		&entity.ID,
		&entity.SenderID,
		&entity.RecipientID,
		&entity.Body,
		&entity.Read,
		&entity.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Message")
		}
		return nil, fmt.Errorf("postgres_message_store_mark_read_failed: %w", err)
	}

	return entity, nil
}
