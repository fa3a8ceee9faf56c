// Copyright (c) 2026 TeamHub. All rights reserved.

package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/teamhubhq/teamhub/internal/platform/apperr"
	"github.com/teamhubhq/teamhub/internal/platform/sec"
	"github.com/teamhubhq/teamhub/internal/role"
	"github.com/teamhubhq/teamhub/pkg/uuidv7"
)

// # Service Layer

// Service orchestrates business logic for member account management.
//
// Role assignments are accepted by name at the API boundary and resolved to
// role IDs here, so clients never deal with role UUIDs directly.
type Service struct {
	store  Store
	roles  role.Store
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(store Store, roles role.Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		roles:  roles,
		logger: logger,
	}
}

// # Account Queries

/*
List returns every member account.
*/
func (service *Service) List(context context.Context) ([]User, error) {
	users, err := service.store.List(context)
	if err != nil {
		return nil, fmt.Errorf("user_service_list_failed: %w", err)
	}
	return users, nil
}

/*
Get returns a single account by ID.

Returns:
  - *User: The hydrated account
  - error: apperr.NotFound or storage failures
*/
func (service *Service) Get(context context.Context, userID string) (*User, error) {
	entity, err := service.store.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("user_service_get_failed: %w", err)
	}
	return entity, nil
}

// # Account Mutations

// CreateInput carries the fields needed to register a new account.
type CreateInput struct {
	Name     string
	Email    string
	Password string
	Roles    []string // role names, resolved to IDs during creation
}

/*
Create registers a new member account.

Description: The password is bcrypt-hashed before it ever reaches storage.
Role names are resolved against the role catalog; an unknown name fails the
whole operation.

Returns:
  - *User: The created account
  - error: Validation, apperr.Conflict on duplicate email, or storage failures
*/
func (service *Service) Create(context context.Context, input CreateInput) (*User, error) {

	// ── 1. Role Name Resolution ───────────────────────────────────────────
	roleIDs, err := service.resolveRoleNames(context, input.Roles)
	if err != nil {
		return nil, err
	}

	// ── 2. Credential Hashing ─────────────────────────────────────────────
	hash, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("user_service_create_hash_failed: %w", err)
	}

	// ── 3. Persistence ────────────────────────────────────────────────────
	now := time.Now()
	entity := &User{
		ID:           uuidv7.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		RoleIDs:      roleIDs,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := service.store.Create(context, entity); err != nil {
		return nil, fmt.Errorf("user_service_create_failed: %w", err)
	}

	service.logger.Info("user_created",
		slog.String("user_id", entity.ID),
		slog.String("email", entity.Email),
	)

	return entity, nil
}

// UpdateInput defines the mutable subset of account fields.
//
// Nil pointers leave the corresponding field untouched; a non-nil Roles
// pointer replaces the entire assignment set.
type UpdateInput struct {
	Name  *string
	Email *string
	Roles *[]string // role names
}

/*
Update applies a partial set of changes to an account.

Returns:
  - *User: The updated account
  - error: apperr.NotFound, apperr.Conflict on duplicate email, or storage failures
*/
func (service *Service) Update(context context.Context, userID string, input UpdateInput) (*User, error) {
	entity, err := service.store.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("user_service_update_lookup_failed: %w", err)
	}

	// Apply delta updates
	if input.Name != nil {
		entity.Name = *input.Name
	}

	// Apply delta updates
	if input.Email != nil {
		entity.Email = *input.Email
	}

	// Replace the role assignment set when provided
	if input.Roles != nil {
		roleIDs, err := service.resolveRoleNames(context, *input.Roles)
		if err != nil {
			return nil, err
		}
		entity.RoleIDs = roleIDs
	}

	if err := service.store.Update(context, entity); err != nil {
		return nil, fmt.Errorf("user_service_update_failed: %w", err)
	}

	service.logger.Info("user_updated", slog.String("user_id", userID))

	return entity, nil
}

/*
ChangePassword rotates the account credential after verifying the current one.

Returns:
  - error: apperr.Unauthorized on a wrong current password, or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID, currentPassword, newPassword string) error {
	entity, err := service.store.FindByID(context, userID)
	if err != nil {
		return fmt.Errorf("user_service_change_password_lookup_failed: %w", err)
	}

	if !sec.CheckPasswordHash(currentPassword, entity.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	hash, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("user_service_change_password_hash_failed: %w", err)
	}

	if err := service.store.UpdatePassword(context, userID, hash); err != nil {
		return fmt.Errorf("user_service_change_password_failed: %w", err)
	}

	service.logger.Info("user_password_changed", slog.String("user_id", userID))

	return nil
}

/*
Delete removes an account permanently.
*/
func (service *Service) Delete(context context.Context, userID string) error {
	if err := service.store.Delete(context, userID); err != nil {
		return fmt.Errorf("user_service_delete_failed: %w", err)
	}

	service.logger.Info("user_deleted", slog.String("user_id", userID))

	return nil
}

// resolveRoleNames maps role names to IDs, failing on any unknown name.
func (service *Service) resolveRoleNames(context context.Context, names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}

	roles, err := service.roles.FindByNames(context, names)
	if err != nil {
		return nil, fmt.Errorf("user_service_role_resolution_failed: %w", err)
	}

	found := make(map[string]string, len(roles))
	for i := range roles {
		found[roles[i].Name] = roles[i].ID
	}

	roleIDs := make([]string, 0, len(names))
	for _, name := range names {
		id, ok := found[name]
		if !ok {
			return nil, apperr.ValidationError(
				fmt.Sprintf("Unknown role: %s", name),
				apperr.FieldError{Field: FieldRoles, Message: "contains an unrecognized role name"},
			)
		}
		roleIDs = append(roleIDs, id)
	}

	return roleIDs, nil
}
