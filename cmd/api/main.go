// Copyright (c) 2026 TeamHub. All rights reserved.

// Command api is the entry point for the TeamHub HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire domain services, the session authority, and the chat hub.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/teamhubhq/teamhub/internal/api"
	"github.com/teamhubhq/teamhub/internal/auth"
	"github.com/teamhubhq/teamhub/internal/authz"
	"github.com/teamhubhq/teamhub/internal/chat"
	"github.com/teamhubhq/teamhub/internal/limiter"
	"github.com/teamhubhq/teamhub/internal/platform/config"
	"github.com/teamhubhq/teamhub/internal/platform/constants"
	"github.com/teamhubhq/teamhub/internal/platform/migration"
	pgstore "github.com/teamhubhq/teamhub/internal/platform/postgres"
	redisstore "github.com/teamhubhq/teamhub/internal/platform/redis"
	"github.com/teamhubhq/teamhub/internal/platform/sec"
	"github.com/teamhubhq/teamhub/internal/presence"
	"github.com/teamhubhq/teamhub/internal/role"
	"github.com/teamhubhq/teamhub/internal/task"
	"github.com/teamhubhq/teamhub/internal/user"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[TeamHub] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	roleStore := role.NewPostgresStore(pool)
	userStore := user.NewPostgresStore(pool)
	taskStore := task.NewPostgresStore(pool)
	messageStore := chat.NewPostgresStore(pool)

	gate := authz.NewAuthorizer(roleStore)

	roleService := role.NewService(roleStore, authz.All(), log)
	userService := user.NewService(userStore, roleStore, log)
	taskService := task.NewService(taskStore, log)

	// Session authority: HS256 tokens plus the Redis single-session registry.
	tokenService := sec.NewTokenService(cfg.JWTSecret, constants.AuthIssuer)
	tokenRegistry := auth.NewRedisTokenRegistry(rdb)
	authService := auth.NewService(userStore, tokenService, tokenRegistry, cfg.SessionTTL, log)

	// Fixed-window admission limiter shared across instances via Redis.
	admission := limiter.NewLimiter(
		limiter.NewRedisCounterStore(rdb),
		cfg.AuthRateLimitMax,
		int(cfg.AuthRateLimitWindow/time.Second),
	)

	// Chat: presence registry, connection hub, and the delivery router.
	presenceRegistry := presence.NewRegistry()
	hub := chat.NewHub(presenceRegistry, log)
	deliveryRouter := chat.NewRouter(messageStore, presenceRegistry, hub, log)

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService),
		User:      user.NewHandler(userService),
		Role:      role.NewHandler(roleService),
		Task:      task.NewHandler(taskService),
		Chat:      chat.NewHandler(authService, hub, deliveryRouter, messageStore, presenceRegistry, cfg, log),
	}

	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, authService, gate, admission, handlers)

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
