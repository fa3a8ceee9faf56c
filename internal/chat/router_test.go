// Copyright (c) 2026 TeamHub. All rights reserved.

package chat_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamhubhq/teamhub/internal/chat"
	"github.com/teamhubhq/teamhub/internal/platform/apperr"
	"github.com/teamhubhq/teamhub/internal/presence"
)

// recordingEmitter captures emitted events per user.
type recordingEmitter struct {
	events map[string][]chat.Event
	refuse bool // simulate all connections gone
}

func newRecordingEmitter() *recordingEmitter {
	return &recordingEmitter{events: make(map[string][]chat.Event)}
}

func (e *recordingEmitter) EmitToUser(userID string, event chat.Event) bool {
	if e.refuse {
		return false
	}
	e.events[userID] = append(e.events[userID], event)
	return true
}

// memoryMessageStore is an in-memory [chat.Store].
type memoryMessageStore struct {
	messages  map[string]*chat.Message
	order     []string
	failWrite bool
}

func newMemoryMessageStore() *memoryMessageStore {
	return &memoryMessageStore{messages: make(map[string]*chat.Message)}
}

func (s *memoryMessageStore) Create(_ context.Context, m *chat.Message) error {
	if s.failWrite {
		return errors.New("disk on fire")
	}
	clone := *m
	s.messages[m.ID] = &clone
	s.order = append(s.order, m.ID)
	return nil
}

func (s *memoryMessageStore) UnreadByRecipient(_ context.Context, recipientID string) ([]chat.Message, error) {
	var out []chat.Message
	for _, id := range s.order {
		m := s.messages[id]
		if m.RecipientID == recipientID && !m.Read {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (s *memoryMessageStore) MarkRead(_ context.Context, messageID, recipientID string) (*chat.Message, error) {
	m, ok := s.messages[messageID]
	if !ok || m.RecipientID != recipientID {
		return nil, apperr.NotFound("Message")
	}
	m.Read = true
	clone := *m
	return &clone, nil
}

const (
	senderID    = "0191b3a1-0000-7000-8000-000000000001"
	recipientID = "0191b3a1-0000-7000-8000-000000000002"
)

func newTestRouter() (*chat.Router, *memoryMessageStore, *recordingEmitter, *presence.Registry) {
	store := newMemoryMessageStore()
	emitter := newRecordingEmitter()
	registry := presence.NewRegistry()
	router := chat.NewRouter(store, registry, emitter, slog.Default())
	return router, store, emitter, registry
}

/*
TestRouter_Send_Online verifies live fan-out without persistence.
*/
func TestRouter_Send_Online(t *testing.T) {
	router, store, emitter, registry := newTestRouter()
	registry.Register(recipientID, "conn-1")

	ack := router.Send(context.Background(), senderID, chat.SendPayload{
		Ref: "r1", To: recipientID, Body: "hello",
	})

	assert.True(t, ack.OK)
	assert.True(t, ack.Delivered)
	assert.False(t, ack.OfflineSaved)
	assert.Equal(t, "r1", ack.Ref)

	// Delivered live, so nothing was stored
	assert.Empty(t, store.messages)

	require.Len(t, emitter.events[recipientID], 1)
	event := emitter.events[recipientID][0]
	assert.Equal(t, chat.EventMessage, event.Type)
	message := event.Payload.(chat.Message)
	assert.Equal(t, "hello", message.Body)
	assert.Equal(t, senderID, message.SenderID)
}

/*
TestRouter_Send_Offline verifies offline persistence with an unread flag.
*/
func TestRouter_Send_Offline(t *testing.T) {
	router, store, emitter, _ := newTestRouter()

	ack := router.Send(context.Background(), senderID, chat.SendPayload{
		To: recipientID, Body: "see you tomorrow",
	})

	assert.True(t, ack.OK)
	assert.False(t, ack.Delivered)
	assert.True(t, ack.OfflineSaved)

	require.Len(t, store.messages, 1)
	stored := store.messages[ack.MessageID]
	assert.False(t, stored.Read)
	assert.Equal(t, recipientID, stored.RecipientID)

	assert.Empty(t, emitter.events)
}

/*
TestRouter_Send_ValidationBeforePresence verifies malformed frames are
rejected identically whether or not the recipient is online.
*/
func TestRouter_Send_ValidationBeforePresence(t *testing.T) {
	router, store, _, registry := newTestRouter()

	tests := []struct {
		name    string
		online  bool
		payload chat.SendPayload
	}{
		{"missing_body_offline", false, chat.SendPayload{To: recipientID}},
		{"missing_body_online", true, chat.SendPayload{To: recipientID}},
		{"missing_recipient", false, chat.SendPayload{Body: "hi"}},
		{"bad_recipient_id", false, chat.SendPayload{To: "not-a-uuid", Body: "hi"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.online {
				registry.Register(recipientID, "conn-1")
				defer registry.Unregister(recipientID, "conn-1")
			}

			ack := router.Send(context.Background(), senderID, tt.payload)

			assert.False(t, ack.OK)
			assert.NotEmpty(t, ack.Error)
			assert.Empty(t, store.messages)
		})
	}
}

/*
TestRouter_Send_StorageFailure verifies a failed offline write surfaces in
the ack instead of dropping silently.
*/
func TestRouter_Send_StorageFailure(t *testing.T) {
	router, store, _, _ := newTestRouter()
	store.failWrite = true

	ack := router.Send(context.Background(), senderID, chat.SendPayload{
		To: recipientID, Body: "doomed",
	})

	assert.False(t, ack.OK)
	assert.False(t, ack.Delivered)
	assert.False(t, ack.OfflineSaved)
	assert.NotEmpty(t, ack.Error)
}

/*
TestRouter_Send_RaceFallsBackToStore verifies the disconnect-between-check-
and-emit race falls through to offline persistence.
*/
func TestRouter_Send_RaceFallsBackToStore(t *testing.T) {
	router, store, emitter, registry := newTestRouter()

	// Presence says online, but every connection refuses the frame
	registry.Register(recipientID, "conn-1")
	emitter.refuse = true

	ack := router.Send(context.Background(), senderID, chat.SendPayload{
		To: recipientID, Body: "caught mid-disconnect",
	})

	assert.True(t, ack.OK)
	assert.False(t, ack.Delivered)
	assert.True(t, ack.OfflineSaved)
	assert.Len(t, store.messages, 1)
}

/*
TestRouter_Read verifies the receipt persists the flag and relays to the
sender.
*/
func TestRouter_Read(t *testing.T) {
	router, store, emitter, _ := newTestRouter()

	sendAck := router.Send(context.Background(), senderID, chat.SendPayload{
		To: recipientID, Body: "read me",
	})
	require.True(t, sendAck.OK)

	readAck := router.Read(context.Background(), recipientID, chat.ReadPayload{
		MessageID: sendAck.MessageID,
	})

	assert.True(t, readAck.OK)
	assert.True(t, store.messages[sendAck.MessageID].Read)

	require.Len(t, emitter.events[senderID], 1)
	relay := emitter.events[senderID][0]
	assert.Equal(t, chat.EventMessageRead, relay.Type)
	receipt := relay.Payload.(chat.ReadReceipt)
	assert.Equal(t, sendAck.MessageID, receipt.MessageID)
	assert.Equal(t, recipientID, receipt.ReaderID)
}

/*
TestRouter_Read_NotRecipient verifies only the addressee can acknowledge.
*/
func TestRouter_Read_NotRecipient(t *testing.T) {
	router, store, _, _ := newTestRouter()

	sendAck := router.Send(context.Background(), senderID, chat.SendPayload{
		To: recipientID, Body: "private",
	})
	require.True(t, sendAck.OK)

	// The sender cannot mark their own outbound message as read
	readAck := router.Read(context.Background(), senderID, chat.ReadPayload{
		MessageID: sendAck.MessageID,
	})

	assert.False(t, readAck.OK)
	assert.False(t, store.messages[sendAck.MessageID].Read)
}

/*
TestRouter_FlushBacklog verifies replay order and that replay does not mark
anything read.
*/
func TestRouter_FlushBacklog(t *testing.T) {
	router, store, emitter, _ := newTestRouter()

	for _, body := range []string{"first", "second", "third"} {
		ack := router.Send(context.Background(), senderID, chat.SendPayload{
			To: recipientID, Body: body,
		})
		require.True(t, ack.OK)
	}

	router.FlushBacklog(context.Background(), recipientID)

	require.Len(t, emitter.events[recipientID], 1)
	event := emitter.events[recipientID][0]
	assert.Equal(t, chat.EventUnreadBacklog, event.Type)

	backlog := event.Payload.(chat.Backlog)
	assert.Equal(t, 3, backlog.Count)
	require.Len(t, backlog.Messages, 3)
	assert.Equal(t, "first", backlog.Messages[0].Body)
	assert.Equal(t, "second", backlog.Messages[1].Body)
	assert.Equal(t, "third", backlog.Messages[2].Body)

	// Replay is not a read acknowledgement; a reconnect replays again
	unread, err := store.UnreadByRecipient(context.Background(), recipientID)
	require.NoError(t, err)
	assert.Len(t, unread, 3)
}

/*
TestRouter_FlushBacklog_Empty verifies no frame is sent for an empty backlog.
*/
func TestRouter_FlushBacklog_Empty(t *testing.T) {
	router, _, emitter, _ := newTestRouter()

	router.FlushBacklog(context.Background(), recipientID)

	assert.Empty(t, emitter.events)
}
