// Copyright (c) 2026 TeamHub. All rights reserved.

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.

# Route Table

Every endpoint is declared in one static table carrying its method, path,
handler, and required permission. The table is the single place to audit
which permission guards which operation — no permission checks hide inside
handlers.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/teamhubhq/teamhub/internal/auth"
	"github.com/teamhubhq/teamhub/internal/authz"
	"github.com/teamhubhq/teamhub/internal/chat"
	"github.com/teamhubhq/teamhub/internal/limiter"
	"github.com/teamhubhq/teamhub/internal/platform/config"
	"github.com/teamhubhq/teamhub/internal/platform/constants"
	"github.com/teamhubhq/teamhub/internal/platform/middleware"
	"github.com/teamhubhq/teamhub/internal/role"
	"github.com/teamhubhq/teamhub/internal/task"
	"github.com/teamhubhq/teamhub/internal/user"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here plus rows in [routeTable] — no other change
// to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles the session authority routes (login, logout, me).
	Auth *auth.Handler

	// User handles member account administration.
	User *user.Handler

	// Role handles permission bundle administration.
	Role *role.Handler

	// Task handles the shared task board.
	Task *task.Handler

	// Chat handles the websocket upgrade and messaging REST endpoints.
	Chat *chat.Handler
}

// route is one row of the static route table.
type route struct {
	method  string
	pattern string
	handler http.HandlerFunc

	// permission guards the route via the authorization gate; empty means
	// no permission check.
	permission authz.Permission

	// requireAuth demands an authenticated principal without any specific
	// permission. Implied by a non-empty permission.
	requireAuth bool

	// limited names the fixed-window admission bucket, if any.
	limited string
}

// routeTable declares every API endpoint and its guard in one place.
func routeTable(h Handlers) []route {
	return []route{
		// Session authority
		{method: http.MethodPost, pattern: "/auth/login", handler: h.Auth.Login, limited: "login"},
		{method: http.MethodPost, pattern: "/auth/logout", handler: h.Auth.Logout, requireAuth: true, limited: "logout"},
		{method: http.MethodGet, pattern: "/auth/me", handler: h.Auth.Me, requireAuth: true},

		// Self service
		{method: http.MethodPost, pattern: "/me/password", handler: h.User.ChangePassword, requireAuth: true},

		// User administration
		{method: http.MethodGet, pattern: "/users", handler: h.User.List, permission: authz.UserView},
		{method: http.MethodGet, pattern: "/users/{id}", handler: h.User.Get, permission: authz.UserView},
		{method: http.MethodPost, pattern: "/users", handler: h.User.Create, permission: authz.UserCreate},
		{method: http.MethodPatch, pattern: "/users/{id}", handler: h.User.Update, permission: authz.UserUpdate},
		{method: http.MethodDelete, pattern: "/users/{id}", handler: h.User.Delete, permission: authz.UserDelete},

		// Role administration
		{method: http.MethodGet, pattern: "/roles", handler: h.Role.List, permission: authz.RoleView},
		{method: http.MethodGet, pattern: "/roles/{id}", handler: h.Role.Get, permission: authz.RoleView},
		{method: http.MethodPost, pattern: "/roles", handler: h.Role.Create, permission: authz.RoleCreate},
		{method: http.MethodPatch, pattern: "/roles/{id}", handler: h.Role.Rename, permission: authz.RoleUpdate},
		{method: http.MethodPost, pattern: "/roles/{id}/permissions", handler: h.Role.AddPermissions, permission: authz.RoleUpdate},
		{method: http.MethodDelete, pattern: "/roles/{id}/permissions", handler: h.Role.RemovePermissions, permission: authz.RoleUpdate},
		{method: http.MethodDelete, pattern: "/roles/{id}", handler: h.Role.Delete, permission: authz.RoleDelete},

		// Task board
		{method: http.MethodGet, pattern: "/tasks", handler: h.Task.List, permission: authz.TaskView},
		{method: http.MethodGet, pattern: "/tasks/{id}", handler: h.Task.Get, permission: authz.TaskView},
		{method: http.MethodPost, pattern: "/tasks", handler: h.Task.Create, permission: authz.TaskCreate},
		{method: http.MethodPatch, pattern: "/tasks/{id}", handler: h.Task.Update, permission: authz.TaskUpdate},
		{method: http.MethodDelete, pattern: "/tasks/{id}", handler: h.Task.Delete, permission: authz.TaskDelete},

		// Messaging (the websocket endpoint authenticates during the upgrade)
		{method: http.MethodGet, pattern: "/ws", handler: h.Chat.ServeWS},
		{method: http.MethodGet, pattern: "/messages/unread", handler: h.Chat.UnreadMessages, requireAuth: true},
		{method: http.MethodPost, pattern: "/messages/offline", handler: h.Chat.SaveOffline, requireAuth: true},
		{method: http.MethodGet, pattern: "/presence/online", handler: h.Chat.OnlineUsers, requireAuth: true},
	}
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers the route table.
func NewServer(
	context context.Context,
	cfg *config.Config,
	log *slog.Logger,
	sessions middleware.SessionValidator,
	gate *authz.Authorizer,
	admission *limiter.Limiter,
	h Handlers,
) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.Authenticate(sessions))
	r.Use(middleware.CORS(cfg))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// The static route table mounted under the versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		for _, row := range routeTable(h) {
			handler := http.Handler(row.handler)

			if row.permission != "" {
				handler = gate.Require(row.permission)(handler)
			} else if row.requireAuth {
				handler = middleware.RequireAuth(handler)
			}

			if row.limited != "" {
				handler = admission.Middleware(row.limited)(handler)
			}

			api.Method(row.method, row.pattern, handler)
		}
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
