// Copyright (c) 2026 TeamHub. All rights reserved.

// Command seed provisions the bootstrap role and account.
//
// It creates a SuperAdmin role carrying every permission tag plus an initial
// administrator account, then exits. Running it again is harmless: existing
// records are detected by name/email and only the role assignment is
// reconciled. Intended for first deployment and local development setup.
package main

import (
	"context"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/teamhubhq/teamhub/internal/authz"
	"github.com/teamhubhq/teamhub/internal/platform/apperr"
	"github.com/teamhubhq/teamhub/internal/platform/constants"
	"github.com/teamhubhq/teamhub/internal/platform/migration"
	pgstore "github.com/teamhubhq/teamhub/internal/platform/postgres"
	"github.com/teamhubhq/teamhub/internal/platform/sec"
	"github.com/teamhubhq/teamhub/internal/role"
	"github.com/teamhubhq/teamhub/internal/user"
	"github.com/teamhubhq/teamhub/pkg/uuidv7"
)

// superAdminRole is the name of the all-permissions bootstrap role.
const superAdminRole = "SuperAdmin"

// seedConfig is the environment contract of the seeder.
//
// It deliberately does not reuse the server config: the seeder needs no
// Redis or JWT settings, and requiring them here would make bootstrap
// environments carry secrets they never use.
type seedConfig struct {
	DatabaseURL   string `env:"DATABASE_URL,required"`
	MigrationPath string `env:"MIGRATION_PATH"       envDefault:"./data/migrations"`

	AdminName     string `env:"SEED_ADMIN_NAME"     envDefault:"Administrator"`
	AdminEmail    string `env:"SEED_ADMIN_EMAIL"    envDefault:"admin@example.com"`
	AdminPassword string `env:"SEED_ADMIN_PASSWORD,required"`
}

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil)).
		With(slog.String("app", constants.AppName+"-seed"))

	cfg := &seedConfig{}
	must(log, env.Parse(cfg), "parse environment")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer pool.Close()

	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	roles := role.NewPostgresStore(pool)
	users := user.NewPostgresStore(pool)

	adminRole, err := ensureSuperAdminRole(ctx, roles, log)
	must(log, err, "seed SuperAdmin role")

	must(log, ensureAdminAccount(ctx, users, adminRole.ID, cfg, log), "seed admin account")

	log.Info("seed_complete", slog.String("email", cfg.AdminEmail))
}

// ensureSuperAdminRole creates the SuperAdmin role, or refreshes its
// permission set so newly introduced tags reach existing deployments.
func ensureSuperAdminRole(ctx context.Context, roles role.Store, log *slog.Logger) (*role.Role, error) {
	existing, err := roles.FindByName(ctx, superAdminRole)
	if err == nil {
		if slices.Equal(existing.Permissions, authz.All()) {
			log.Info("superadmin_role_current", slog.String("role_id", existing.ID))
			return existing, nil
		}

		existing.Permissions = authz.All()
		existing.UpdatedAt = time.Now()
		if err := roles.Update(ctx, existing); err != nil {
			return nil, err
		}

		log.Info("superadmin_role_refreshed", slog.String("role_id", existing.ID))
		return existing, nil
	}

	if ae := apperr.As(err); ae == nil || ae.Code != "NOT_FOUND" {
		return nil, err
	}

	now := time.Now()
	created := &role.Role{
		ID:          uuidv7.New(),
		Name:        superAdminRole,
		Permissions: authz.All(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := roles.Create(ctx, created); err != nil {
		return nil, err
	}

	log.Info("superadmin_role_created", slog.String("role_id", created.ID))
	return created, nil
}

// ensureAdminAccount creates the administrator account, or attaches the
// SuperAdmin role to an existing account with the seed email.
func ensureAdminAccount(ctx context.Context, users user.Store, roleID string, cfg *seedConfig, log *slog.Logger) error {
	existing, err := users.FindByEmail(ctx, cfg.AdminEmail)
	if err == nil {
		if slices.Contains(existing.RoleIDs, roleID) {
			log.Info("admin_account_current", slog.String("user_id", existing.ID))
			return nil
		}

		existing.RoleIDs = append(existing.RoleIDs, roleID)
		existing.UpdatedAt = time.Now()
		if err := users.Update(ctx, existing); err != nil {
			return err
		}

		log.Info("admin_account_role_attached", slog.String("user_id", existing.ID))
		return nil
	}

	if ae := apperr.As(err); ae == nil || ae.Code != "NOT_FOUND" {
		return err
	}

	hash, err := sec.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	now := time.Now()
	created := &user.User{
		ID:           uuidv7.New(),
		Name:         cfg.AdminName,
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		RoleIDs:      []string{roleID},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := users.Create(ctx, created); err != nil {
		return err
	}

	log.Info("admin_account_created", slog.String("user_id", created.ID))
	return nil
}

// must logs a structured fatal error and terminates the process if err is non-nil.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("seed failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
