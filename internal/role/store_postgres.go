// Copyright (c) 2026 TeamHub. All rights reserved.

/*
Package role (Postgres) implements the storage layer for permission bundles.

# Schema Table Mapping
  - users.role: Role identity and permission tags (text[] column).
*/
package role

import (
	"context"
	"errors"
	"fmt"
	"time"

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

// NewPostgresStore creates a new Postgres implementation of the role store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

/*
List retrieves every role ordered by creation time.

Parameters:
  - context: context.Context

Returns:
  - []Role: All roles (possibly empty)
  - error: Database execution failures
*/
func (store *PostgresStore) List(context context.Context) ([]Role, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		ORDER BY %s ASC`,
		schema.UserRole.ID, schema.UserRole.Name, schema.UserRole.Permissions,
		schema.UserRole.CreatedAt, schema.UserRole.UpdatedAt,
		schema.UserRole.Table,
		schema.UserRole.CreatedAt,
	)

	rows, err := store.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_role_store_list_failed: %w", err)
	}
	defer rows.Close()

	return scanRoles(rows)
}

/*
FindByID retrieves a single role by its UUID.

Returns:
  - *Role: Hydrated role entity
  - error: apperr.NotFound or database execution failure
*/
func (store *PostgresStore) FindByID(context context.Context, id string) (*Role, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.UserRole.ID, schema.UserRole.Name, schema.UserRole.Permissions,
		schema.UserRole.CreatedAt, schema.UserRole.UpdatedAt,
		schema.UserRole.Table,
		schema.UserRole.ID,
	)

	entity := &Role{}
	err := store.pool.QueryRow(context, query, id).Scan(
		&entity.ID,
		&entity.Name,
		&entity.Permissions,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Role")
		}
		return nil, fmt.Errorf("postgres_role_store_find_by_id_failed: %w", err)
	}

	return entity, nil
}

/*
FindByIDs retrieves all roles matching the given ID set.

Description: IDs that do not match any row are skipped silently; the result
may therefore be shorter than the input. Called on every authorization check.
*/
func (store *PostgresStore) FindByIDs(context context.Context, ids []string) ([]Role, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = ANY($1)`,
		schema.UserRole.ID, schema.UserRole.Name, schema.UserRole.Permissions,
		schema.UserRole.CreatedAt, schema.UserRole.UpdatedAt,
		schema.UserRole.Table,
		schema.UserRole.ID,
	)

	rows, err := store.pool.Query(context, query, ids)
	if err != nil {
		return nil, fmt.Errorf("postgres_role_store_find_by_ids_failed: %w", err)
	}
	defer rows.Close()

	return scanRoles(rows)
}

/*
FindByName retrieves a single role by its unique name.

Returns:
  - *Role: Hydrated role entity
  - error: apperr.NotFound or database execution failure
*/
func (store *PostgresStore) FindByName(context context.Context, name string) (*Role, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.UserRole.ID, schema.UserRole.Name, schema.UserRole.Permissions,
		schema.UserRole.CreatedAt, schema.UserRole.UpdatedAt,
		schema.UserRole.Table,
		schema.UserRole.Name,
	)

	entity := &Role{}
	err := store.pool.QueryRow(context, query, name).Scan(
		&entity.ID,
		&entity.Name,
		&entity.Permissions,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Role")
		}
		return nil, fmt.Errorf("postgres_role_store_find_by_name_failed: %w", err)
	}

	return entity, nil
}

/*
FindByNames retrieves all roles matching the given unique names.
*/
func (store *PostgresStore) FindByNames(context context.Context, names []string) ([]Role, error) {
	if len(names) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = ANY($1)`,
		schema.UserRole.ID, schema.UserRole.Name, schema.UserRole.Permissions,
		schema.UserRole.CreatedAt, schema.UserRole.UpdatedAt,
		schema.UserRole.Table,
		schema.UserRole.Name,
	)

	rows, err := store.pool.Query(context, query, names)
	if err != nil {
		return nil, fmt.Errorf("postgres_role_store_find_by_names_failed: %w", err)
	}
	defer rows.Close()

	return scanRoles(rows)
}

/*
Create inserts a brand-new role row.

Returns:
  - error: apperr.Conflict on duplicate name, or execution failures
*/
func (store *PostgresStore) Create(context context.Context, role *Role) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)`,
		schema.UserRole.Table,
		schema.UserRole.ID, schema.UserRole.Name, schema.UserRole.Permissions,
		schema.UserRole.CreatedAt, schema.UserRole.UpdatedAt,
	)

	_, err := store.pool.Exec(context, query,
		role.ID,
		role.Name,
		role.Permissions,
		role.CreatedAt,
		role.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Role")
	}

	return nil
}

/*
Update synchronizes the role's name and permission set to storage.
*/
func (store *PostgresStore) Update(context context.Context, role *Role) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4
		WHERE %s = $1`,
		schema.UserRole.Table,
		schema.UserRole.Name, schema.UserRole.Permissions, schema.UserRole.UpdatedAt,
		schema.UserRole.ID,
	)

	tag, err := store.pool.Exec(context, query,
		role.ID,
		role.Name,
		role.Permissions,
		time.Now(),
	)

	if err != nil {
		return dberr.Wrap(err, "Role")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Role")
	}

	return nil
}

/*
Delete removes the role row and its account assignments.
*/
func (store *PostgresStore) Delete(context context.Context, id string) error {
	transaction, err := store.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_role_store_delete_begin_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(context) }()

	// 1. Detach the role from every account that holds it
	unassign := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.UserAccountRole.Table, schema.UserAccountRole.RoleID)
	if _, err := transaction.Exec(context, unassign, id); err != nil {
		return fmt.Errorf("postgres_role_store_delete_unassign_failed: %w", err)
	}

	// 2. Remove the role itself
	remove := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.UserRole.Table, schema.UserRole.ID)
	tag, err := transaction.Exec(context, remove, id)
	if err != nil {
		return fmt.Errorf("postgres_role_store_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Role")
	}

	return transaction.Commit(context)
}

// scanRoles hydrates a slice of roles from an open result set.
func scanRoles(rows pgx.Rows) ([]Role, error) {
	var roles []Role
	for rows.Next() {
		var entity Role
		if err := rows.Scan(
			&entity.ID,
			&entity.Name,
			&entity.Permissions,
			&entity.CreatedAt,
			&entity.UpdatedAt,
		); err != nil {
			return nil, err
		}
		roles = append(roles, entity)
	}

	return roles, rows.Err()
}
