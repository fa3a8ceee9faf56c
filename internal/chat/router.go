// Copyright (c) 2026 TeamHub. All rights reserved.

package chat

import (
	"context"
	"log/slog"
	"time"

	"github.com/teamhubhq/teamhub/internal/platform/validate"
	"github.com/teamhubhq/teamhub/internal/presence"
	"github.com/teamhubhq/teamhub/pkg/uuidv7"
)

// # Delivery Router

// Emitter pushes an event to every live connection of a user.
//
// It reports whether at least one connection accepted the frame, which is
// what "delivered" means in the acknowledgement.
type Emitter interface {
	EmitToUser(userID string, event Event) bool
}

// Router decides, per message, between live fan-out and offline persistence.
//
// # Invariants
//
//   - Validation happens before any presence lookup, so malformed frames are
//     rejected identically whether the recipient is online or not.
//   - Live deliveries are never persisted; offline messages always are.
//   - A storage failure surfaces as a failed ack, never as a silent drop.
type Router struct {
	store    Store
	presence *presence.Registry
	emitter  Emitter
	logger   *slog.Logger
}

// NewRouter constructs a delivery [Router].
func NewRouter(store Store, registry *presence.Registry, emitter Emitter, logger *slog.Logger) *Router {
	return &Router{
		store:    store,
		presence: registry,
		emitter:  emitter,
		logger:   logger,
	}
}

/*
Send routes one direct message from the sender and returns the ack.

Description: Online recipients get the message fanned out to every live
connection without persistence. Offline recipients get the message stored
unread for later backlog replay. The recipient presence check happens once;
the chosen path is reported honestly in the ack.
*/
func (router *Router) Send(context context.Context, senderID string, payload SendPayload) Ack {

	// ── 1. Validation (before any presence lookup) ────────────────────────
	v := &validate.Validator{}
	v.Required(FieldTo, payload.To).UUID(FieldTo, payload.To)
	v.Required(FieldBody, payload.Body).MaxLen(FieldBody, payload.Body, MaxBodyLength)
	if v.HasErrors() {
		return Ack{Ref: payload.Ref, OK: false, Error: "Invalid message payload"}
	}

	message := Message{
		ID:          uuidv7.New(),
		SenderID:    senderID,
		RecipientID: payload.To,
		Body:        payload.Body,
		CreatedAt:   time.Now(),
	}

	// ── 2. Live Fan-Out ───────────────────────────────────────────────────
	if router.presence.IsOnline(payload.To) {
		delivered := router.emitter.EmitToUser(payload.To, Event{
			Type:    EventMessage,
			Payload: message,
		})

		// The recipient disconnected between the presence check and the
		// emit; fall through to offline persistence instead of dropping.
		if delivered {
			return Ack{
				Ref:       payload.Ref,
				OK:        true,
				MessageID: message.ID,
				Delivered: true,
			}
		}
	}

	// ── 3. Offline Persistence ────────────────────────────────────────────
	if err := router.store.Create(context, &message); err != nil {
		router.logger.ErrorContext(context, "chat_offline_store_failed",
			slog.String("sender_id", senderID),
			slog.String("recipient_id", payload.To),
			slog.String("error", err.Error()),
		)
		return Ack{Ref: payload.Ref, OK: false, Error: "Message could not be stored"}
	}

	return Ack{
		Ref:          payload.Ref,
		OK:           true,
		MessageID:    message.ID,
		OfflineSaved: true,
	}
}

/*
Read handles a read receipt from the recipient of a stored message.

Description: The read flag is persisted first; only a successful flip is
relayed to the original sender (if online). Receipts for unknown messages or
messages addressed to someone else fail the ack.
*/
func (router *Router) Read(context context.Context, readerID string, payload ReadPayload) Ack {
	v := &validate.Validator{}
	v.Required(FieldMessageID, payload.MessageID).UUID(FieldMessageID, payload.MessageID)
	if v.HasErrors() {
		return Ack{Ref: payload.Ref, OK: false, Error: "Invalid read receipt"}
	}

	message, err := router.store.MarkRead(context, payload.MessageID, readerID)
	if err != nil {
		return Ack{Ref: payload.Ref, OK: false, Error: "Message not found"}
	}

	// Best-effort relay; the sender being offline does not fail the receipt
	router.emitter.EmitToUser(message.SenderID, Event{
		Type: EventMessageRead,
		Payload: ReadReceipt{
			MessageID: message.ID,
			ReaderID:  readerID,
		},
	})

	return Ack{Ref: payload.Ref, OK: true, MessageID: message.ID}
}

/*
FlushBacklog replays the user's unread messages right after connect.

Description: Messages stay unread until the client sends read receipts, so a
crash mid-replay loses nothing — the next connect replays them again.
*/
func (router *Router) FlushBacklog(context context.Context, userID string) {
	messages, err := router.store.UnreadByRecipient(context, userID)
	if err != nil {
		router.logger.ErrorContext(context, "chat_backlog_load_failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return
	}

	if len(messages) == 0 {
		return
	}

	router.emitter.EmitToUser(userID, Event{
		Type: EventUnreadBacklog,
		Payload: Backlog{
			Messages: messages,
			Count:    len(messages),
		},
	})
}
