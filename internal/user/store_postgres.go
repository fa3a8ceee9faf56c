// Copyright (c) 2026 TeamHub. All rights reserved.

/*
Package user (Postgres) implements the storage layer for member accounts.

# Schema Table Mapping
  - users.account: Master identity and credential data.
  - users.accountrole: N:M role assignment join table.
*/
package user

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

// NewPostgresStore creates a new Postgres implementation of the user store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// selectWithRoles builds the account query with an aggregated role ID array.
func selectWithRoles(filter string) string {
	return fmt.Sprintf(`
		SELECT a.%s, a.%s, a.%s, a.%s, a.%s, a.%s,
			COALESCE(array_agg(ar.%s) FILTER (WHERE ar.%s IS NOT NULL), '{}')
		FROM %s a
		LEFT JOIN %s ar ON ar.%s = a.%s
		%s
		GROUP BY a.%s
		ORDER BY a.%s ASC`,
		schema.UserAccount.ID, schema.UserAccount.Name, schema.UserAccount.Email,
		schema.UserAccount.Password, schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
		schema.UserAccountRole.RoleID, schema.UserAccountRole.RoleID,
		schema.UserAccount.Table,
		schema.UserAccountRole.Table, schema.UserAccountRole.AccountID, schema.UserAccount.ID,
		filter,
		schema.UserAccount.ID,
		schema.UserAccount.CreatedAt,
	)
}

/*
List retrieves every account with its role assignments.
*/
func (store *PostgresStore) List(context context.Context) ([]User, error) {
	rows, err := store.pool.Query(context, selectWithRoles(""))
	if err != nil {
		return nil, fmt.Errorf("postgres_user_store_list_failed: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var entity User
		if err := scanUser(rows, &entity); err != nil {
			return nil, err
		}
		users = append(users, entity)
	}

	return users, rows.Err()
}

/*
FindByID retrieves a single account by UUID.

Returns:
  - *User: Hydrated account with role IDs
  - error: apperr.NotFound or database execution failure
*/
func (store *PostgresStore) FindByID(context context.Context, id string) (*User, error) {
	query := selectWithRoles(fmt.Sprintf("WHERE a.%s = $1", schema.UserAccount.ID))

	entity := &User{}
	err := scanUser(store.pool.QueryRow(context, query, id), entity)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_store_find_by_id_failed: %w", err)
	}

	return entity, nil
}

/*
FindByEmail retrieves a single account by email address.

Description: Login path. The caller must not leak whether the email exists;
the distinction between NotFound and a bad password stays server-side.
*/
func (store *PostgresStore) FindByEmail(context context.Context, email string) (*User, error) {
	query := selectWithRoles(fmt.Sprintf("WHERE a.%s = $1", schema.UserAccount.Email))

	entity := &User{}
	err := scanUser(store.pool.QueryRow(context, query, email), entity)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_store_find_by_email_failed: %w", err)
	}

	return entity, nil
}

/*
Create inserts the account row and its role assignments in one transaction.

Returns:
  - error: apperr.Conflict on duplicate email, or execution failures
*/
func (store *PostgresStore) Create(context context.Context, user *User) error {
	transaction, err := store.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_user_store_create_begin_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(context) }()

	// ── 1. Identity Row ───────────────────────────────────────────────────
	insert := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.Name, schema.UserAccount.Email,
		schema.UserAccount.Password, schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
	)

	_, err = transaction.Exec(context, insert,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "User")
	}

	// ── 2. Role Assignments ───────────────────────────────────────────────
	if err := insertRoleAssignments(context, transaction, user.ID, user.RoleIDs); err != nil {
		return err
	}

	return transaction.Commit(context)
}

/*
Update synchronizes identity fields and replaces the role assignment set.
*/
func (store *PostgresStore) Update(context context.Context, user *User) error {
	transaction, err := store.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_user_store_update_begin_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(context) }()

	// ── 1. Identity Columns ───────────────────────────────────────────────
	update := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4
		WHERE %s = $1`,
		schema.UserAccount.Table,
		schema.UserAccount.Name, schema.UserAccount.Email, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
	)

	tag, err := transaction.Exec(context, update, user.ID, user.Name, user.Email, time.Now())
	if err != nil {
		return dberr.Wrap(err, "User")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	// ── 2. Replace Role Assignments ───────────────────────────────────────
	clear := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.UserAccountRole.Table, schema.UserAccountRole.AccountID)
	if _, err := transaction.Exec(context, clear, user.ID); err != nil {
		return fmt.Errorf("postgres_user_store_update_clear_roles_failed: %w", err)
	}

	if err := insertRoleAssignments(context, transaction, user.ID, user.RoleIDs); err != nil {
		return err
	}

	return transaction.Commit(context)
}

/*
UpdatePassword replaces the stored bcrypt hash for the account.
*/
func (store *PostgresStore) UpdatePassword(context context.Context, id, passwordHash string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		schema.UserAccount.Table,
		schema.UserAccount.Password, schema.UserAccount.UpdatedAt, schema.UserAccount.ID,
	)

	tag, err := store.pool.Exec(context, query, id, passwordHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_store_update_password_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

/*
Delete removes the account and its role assignments in one transaction.
*/
func (store *PostgresStore) Delete(context context.Context, id string) error {
	transaction, err := store.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_user_store_delete_begin_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(context) }()

	clear := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.UserAccountRole.Table, schema.UserAccountRole.AccountID)
	if _, err := transaction.Exec(context, clear, id); err != nil {
		return fmt.Errorf("postgres_user_store_delete_clear_roles_failed: %w", err)
	}

	remove := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.ID)
	tag, err := transaction.Exec(context, remove, id)
	if err != nil {
		return fmt.Errorf("postgres_user_store_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return transaction.Commit(context)
}

// # Scan Helpers

// rowScanner abstracts pgx.Row and pgx.Rows for shared hydration.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanUser hydrates a single account row including the role ID array.
func scanUser(row rowScanner, entity *User) error {
	return row.Scan(
		&entity.ID,
		&entity.Name,
		&entity.Email,
		&entity.PasswordHash,
		&entity.CreatedAt,
		&entity.UpdatedAt,
		&entity.RoleIDs,
	)
}

// insertRoleAssignments writes one join row per role ID.
func insertRoleAssignments(context context.Context, transaction pgx.Tx, accountID string, roleIDs []string) error {
	if len(roleIDs) == 0 {
		return nil
	}

	insert := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)`,
		schema.UserAccountRole.Table,
		schema.UserAccountRole.AccountID, schema.UserAccountRole.RoleID, schema.UserAccountRole.CreatedAt,
	)

	now := time.Now()
	for _, roleID := range roleIDs {
		if _, err := transaction.Exec(context, insert, accountID, roleID, now); err != nil {
			return dberr.Wrap(err, "Role assignment")
		}
	}

	return nil
}
