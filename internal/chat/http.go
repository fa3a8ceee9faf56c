// Copyright (c) 2026 TeamHub. All rights reserved.

/*
Package chat provides the websocket and REST delivery layers for messaging.

# Security

The websocket upgrade authenticates with the same session authority as the
REST API: the token arrives either as a "token" query parameter (browser
WebSocket clients cannot set headers) or as a standard bearer header. An
invalid session rejects the upgrade before any socket state exists.
*/
package chat

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/teamhubhq/teamhub/internal/platform/apperr"
	"github.com/teamhubhq/teamhub/internal/platform/constants"
	requestutil "github.com/teamhubhq/teamhub/internal/platform/request"
	"github.com/teamhubhq/teamhub/internal/platform/respond"
	"github.com/teamhubhq/teamhub/internal/platform/sec"
	"github.com/teamhubhq/teamhub/internal/platform/validate"
	"github.com/teamhubhq/teamhub/internal/presence"
	"github.com/teamhubhq/teamhub/pkg/uuidv7"
)

// SessionValidator authenticates websocket upgrades.
//
// Same contract as the HTTP authentication middleware; declared locally so
// the chat boundary depends on the session authority's behavior, not its
// package.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (*sec.Principal, error)
}

// OriginPolicy tells the upgrader whether to accept any Origin (development).
type OriginPolicy interface {
	IsDevelopment() bool
}

// Handler implements the websocket upgrade and the chat REST endpoints.
type Handler struct {
	sessions SessionValidator
	hub      *Hub
	router   *Router
	store    Store
	presence *presence.Registry
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler constructs a chat [Handler].
func NewHandler(
	sessions SessionValidator,
	hub *Hub,
	router *Router,
	store Store,
	registry *presence.Registry,
	origins OriginPolicy,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		sessions: sessions,
		hub:      hub,
		router:   router,
		store:    store,
		presence: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(request *http.Request) bool {
				if origins.IsDevelopment() {
					return true
				}
				return strings.HasSuffix(request.Header.Get(constants.HeaderOrigin), "teamhub.app")
			},
		},
		logger: logger,
	}
}

// # Websocket Endpoint

/*
GET /api/v1/ws.

Description: Authenticates, upgrades, registers the connection (flipping the
user online), replays the unread backlog, and starts the socket pumps. The
connection stays open until the client leaves or the keepalive lapses.

Response:
  - 101: Switching Protocols
  - 401: ErrUnauthorized: Missing or invalid session token
*/
func (handler *Handler) ServeWS(writer http.ResponseWriter, request *http.Request) {

	// ── 1. Session Authentication ─────────────────────────────────────────
	token := wsToken(request)
	if token == "" {
		respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
		return
	}

	principal, err := handler.sessions.Validate(request.Context(), token)
	if err != nil {
		respond.Error(writer, request, apperr.Unauthorized("Session expired or invalid"))
		return
	}

	// ── 2. Upgrade ────────────────────────────────────────────────────────
	socket, err := handler.upgrader.Upgrade(writer, request, nil)
	if err != nil {
		// Upgrade already wrote the handshake error
		handler.logger.Warn("chat_upgrade_failed",
			slog.String("user_id", principal.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	// ── 3. Registration & Backlog Replay ──────────────────────────────────
	conn := newConn(uuidv7.New(), principal.ID, socket)
	handler.hub.Register(conn)

	go conn.writePump()

	// The backlog is queued before the first inbound frame is read, so the
	// client sees stored messages ahead of anything sent to it live.
	handler.router.FlushBacklog(request.Context(), principal.ID)

	conn.readPump(handler.hub, handler.router)
}

// wsToken extracts the session token from the query or the bearer header.
func wsToken(request *http.Request) string {
	if token := request.URL.Query().Get("token"); token != "" {
		return token
	}

	header := request.Header.Get(constants.HeaderAuthorization)
	parts := strings.Split(header, " ")
	if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
		return parts[1]
	}

	return ""
}

// # REST Endpoints

/*
GET /api/v1/messages/unread.

Description: Returns the caller's stored unread messages, oldest first,
without marking them read — only websocket read receipts flip the flag.

Response:
  - 200: []Message: The unread backlog
  - 401: ErrUnauthorized: Not authenticated
*/
func (handler *Handler) UnreadMessages(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	messages, err := handler.store.UnreadByRecipient(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, messages)
}

// offlineMessageRequest is the payload for the direct persistence endpoint.
type offlineMessageRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

/*
POST /api/v1/messages/offline.

Description: Persists a message record directly, bypassing the presence
check — a deliberate offline drop. The recipient picks it up through the
unread backlog like any other stored message.

Response:
  - 201: Message: The stored message
  - 400: ErrValidation: Missing or malformed recipient/body
  - 401: ErrUnauthorized: Not authenticated
*/
func (handler *Handler) SaveOffline(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var payload offlineMessageRequest
	if err := requestutil.DecodeJSON(request, &payload); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldTo, payload.To).UUID(FieldTo, payload.To)
	v.Required(FieldBody, payload.Message).MaxLen(FieldBody, payload.Message, MaxBodyLength)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	message := Message{
		ID:          uuidv7.New(),
		SenderID:    userID,
		RecipientID: payload.To,
		Body:        payload.Message,
		CreatedAt:   time.Now(),
	}

	if err := handler.store.Create(request.Context(), &message); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, message)
}

// onlineUsersResponse lists the users currently holding live connections.
type onlineUsersResponse struct {
	UserIDs []string `json:"user_ids"`
	Count   int      `json:"count"`
}

/*
GET /api/v1/presence/online.

Response:
  - 200: onlineUsersResponse: Users with at least one live connection
  - 401: ErrUnauthorized: Not authenticated
*/
func (handler *Handler) OnlineUsers(writer http.ResponseWriter, request *http.Request) {
	if _, err := requestutil.RequiredPrincipal(request); err != nil {
		respond.Error(writer, request, err)
		return
	}

	users := handler.presence.OnlineUsers()
	respond.OK(writer, onlineUsersResponse{
		UserIDs: users,
		Count:   len(users),
	})
}
