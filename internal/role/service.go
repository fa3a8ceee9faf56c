// Copyright (c) 2026 TeamHub. All rights reserved.

package role

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/teamhubhq/teamhub/internal/platform/apperr"
	"github.com/teamhubhq/teamhub/pkg/uuidv7"
)

// # Service Layer

// Service orchestrates business logic for role management.
//
// Permission tags attached to roles are validated against the catalog
// injected at construction, so a typo in a tag is rejected instead of
// silently granting nothing.
type Service struct {
	store       Store
	permissions map[string]struct{}
	logger      *slog.Logger
}

// NewService constructs a new [Service].
//
// knownPermissions is the full catalog of valid permission tags; any tag
// outside the catalog is rejected on create and update.
func NewService(store Store, knownPermissions []string, logger *slog.Logger) *Service {
	catalog := make(map[string]struct{}, len(knownPermissions))
	for _, tag := range knownPermissions {
		catalog[tag] = struct{}{}
	}

	return &Service{
		store:       store,
		permissions: catalog,
		logger:      logger,
	}
}

// # Role Queries

/*
List returns every role in the system.

Returns:
  - []Role: All roles ordered by creation time (may be empty)
  - error: Storage failures
*/
func (service *Service) List(context context.Context) ([]Role, error) {
	roles, err := service.store.List(context)
	if err != nil {
		return nil, fmt.Errorf("role_service_list_failed: %w", err)
	}
	return roles, nil
}

/*
Get returns a single role by ID.

Returns:
  - *Role: The hydrated role
  - error: apperr.NotFound or storage failures
*/
func (service *Service) Get(context context.Context, roleID string) (*Role, error) {
	entity, err := service.store.FindByID(context, roleID)
	if err != nil {
		return nil, fmt.Errorf("role_service_get_failed: %w", err)
	}
	return entity, nil
}

// # Role Mutations

/*
Create registers a brand-new role with an initial permission set.

Description: Duplicate tags in the input are collapsed; unknown tags are
rejected with a validation error before any storage call.

Returns:
  - *Role: The created role
  - error: Validation, apperr.Conflict on duplicate name, or storage failures
*/
func (service *Service) Create(context context.Context, name string, permissions []string) (*Role, error) {
	tags, err := service.normalizeTags(permissions)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	entity := &Role{
		ID:          uuidv7.New(),
		Name:        name,
		Permissions: tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := service.store.Create(context, entity); err != nil {
		return nil, fmt.Errorf("role_service_create_failed: %w", err)
	}

	service.logger.Info("role_created",
		slog.String("role_id", entity.ID),
		slog.String("name", entity.Name),
	)

	return entity, nil
}

/*
Rename changes a role's display name.

Returns:
  - *Role: The updated role
  - error: apperr.NotFound, apperr.Conflict on duplicate name, or storage failures
*/
func (service *Service) Rename(context context.Context, roleID, name string) (*Role, error) {
	entity, err := service.store.FindByID(context, roleID)
	if err != nil {
		return nil, fmt.Errorf("role_service_rename_lookup_failed: %w", err)
	}

	entity.Name = name
	if err := service.store.Update(context, entity); err != nil {
		return nil, fmt.Errorf("role_service_rename_failed: %w", err)
	}

	return entity, nil
}

/*
AddPermissions grants additional permission tags to a role.

Description: The resulting permission set is the union of existing and new
tags. Takes effect on the very next authorization check of every user holding
the role; no re-login is required.
*/
func (service *Service) AddPermissions(context context.Context, roleID string, permissions []string) (*Role, error) {
	tags, err := service.normalizeTags(permissions)
	if err != nil {
		return nil, err
	}

	entity, err := service.store.FindByID(context, roleID)
	if err != nil {
		return nil, fmt.Errorf("role_service_add_permissions_lookup_failed: %w", err)
	}

	// Union with the existing set
	for _, tag := range tags {
		if !entity.HasPermission(tag) {
			entity.Permissions = append(entity.Permissions, tag)
		}
	}

	if err := service.store.Update(context, entity); err != nil {
		return nil, fmt.Errorf("role_service_add_permissions_failed: %w", err)
	}

	service.logger.Info("role_permissions_granted",
		slog.String("role_id", roleID),
		slog.Any("permissions", tags),
	)

	return entity, nil
}

/*
RemovePermissions revokes permission tags from a role.

Description: Tags the role does not hold are ignored. Like grants, the
revocation is visible on the next authorization check.
*/
func (service *Service) RemovePermissions(context context.Context, roleID string, permissions []string) (*Role, error) {
	entity, err := service.store.FindByID(context, roleID)
	if err != nil {
		return nil, fmt.Errorf("role_service_remove_permissions_lookup_failed: %w", err)
	}

	revoked := make(map[string]struct{}, len(permissions))
	for _, tag := range permissions {
		revoked[tag] = struct{}{}
	}

	kept := entity.Permissions[:0]
	for _, tag := range entity.Permissions {
		if _, drop := revoked[tag]; !drop {
			kept = append(kept, tag)
		}
	}
	entity.Permissions = kept

	if err := service.store.Update(context, entity); err != nil {
		return nil, fmt.Errorf("role_service_remove_permissions_failed: %w", err)
	}

	service.logger.Info("role_permissions_revoked",
		slog.String("role_id", roleID),
		slog.Any("permissions", permissions),
	)

	return entity, nil
}

/*
Delete removes a role entirely, detaching it from every account.

Description: Users holding the role lose its permissions on their next
authorization check.
*/
func (service *Service) Delete(context context.Context, roleID string) error {
	if err := service.store.Delete(context, roleID); err != nil {
		return fmt.Errorf("role_service_delete_failed: %w", err)
	}

	service.logger.Info("role_deleted", slog.String("role_id", roleID))

	return nil
}

// normalizeTags deduplicates the input and rejects tags outside the catalog.
func (service *Service) normalizeTags(permissions []string) ([]string, error) {
	seen := make(map[string]struct{}, len(permissions))
	tags := make([]string, 0, len(permissions))

	for _, tag := range permissions {
		if _, ok := service.permissions[tag]; !ok {
			return nil, apperr.ValidationError(
				fmt.Sprintf("Unknown permission: %s", tag),
				apperr.FieldError{Field: FieldPermissions, Message: "contains an unrecognized permission tag"},
			)
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	return tags, nil
}
