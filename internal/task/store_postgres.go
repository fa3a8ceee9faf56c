// Copyright (c) 2026 TeamHub. All rights reserved.

/*
Package task (Postgres) implements the storage layer for the task board.

# Schema Table Mapping
  - tasks.task: Work items with lifecycle status and assignment.
*/
package task

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

// NewPostgresStore creates a new Postgres implementation of the task store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

/*
List retrieves one page of tasks matching the filter, newest first.

Returns:
  - []Task: The requested page (possibly empty)
  - int: Total count of rows matching the filter, for pagination metadata
  - error: Database execution failures
*/
func (store *PostgresStore) List(context context.Context, filter Filter, limit, offset int) ([]Task, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s,
		       COUNT(*) OVER() AS total_count
		FROM %s
		WHERE ($1 = '' OR %s = $1)
		  AND ($2 = '' OR %s::text = $2)
		ORDER BY %s DESC
		LIMIT $3 OFFSET $4`,
		schema.Task.ID, schema.Task.Title, schema.Task.Description, schema.Task.Status,
		schema.Task.AssigneeID, schema.Task.CreatorID, schema.Task.DueAt,
		schema.Task.CreatedAt, schema.Task.UpdatedAt,
		schema.Task.Table,
		schema.Task.Status,
		schema.Task.AssigneeID,
		schema.Task.CreatedAt,
	)

	rows, err := store.pool.Query(context, query, filter.Status, filter.AssigneeID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_task_store_list_failed: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	var totalCount int
	for rows.Next() {
		var entity Task
		if err := rows.Scan(
			&entity.ID,
			&entity.Title,
			&entity.Description,
			&entity.Status,
			&entity.AssigneeID,
			&entity.CreatorID,
			&entity.DueAt,
			&entity.CreatedAt,
			&entity.UpdatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, entity)
	}

	return tasks, totalCount, rows.Err()
}

/*
FindByID retrieves a single task by UUID.

Returns:
  - *Task: Hydrated task entity
  - error: apperr.NotFound or database execution failure
*/
func (store *PostgresStore) FindByID(context context.Context, id string) (*Task, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.Task.ID, schema.Task.Title, schema.Task.Description, schema.Task.Status,
		schema.Task.AssigneeID, schema.Task.CreatorID, schema.Task.DueAt,
		schema.Task.CreatedAt, schema.Task.UpdatedAt,
		schema.Task.Table,
		schema.Task.ID,
	)

	entity := &Task{}
	err := store.pool.QueryRow(context, query, id).Scan(
		&entity.ID,
		&entity.Title,
		&entity.Description,
		&entity.Status,
		&entity.AssigneeID,
		&entity.CreatorID,
		&entity.DueAt,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Task")
		}
		return nil, fmt.Errorf("postgres_task_store_find_by_id_failed: %w", err)
	}

	return entity, nil
}

/*
Create inserts a brand-new task row.
*/
func (store *PostgresStore) Create(context context.Context, task *Task) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		schema.Task.Table,
		schema.Task.ID, schema.Task.Title, schema.Task.Description, schema.Task.Status,
		schema.Task.AssigneeID, schema.Task.CreatorID, schema.Task.DueAt,
		schema.Task.CreatedAt, schema.Task.UpdatedAt,
	)

	_, err := store.pool.Exec(context, query,
		task.ID,
		task.Title,
		task.Description,
		task.Status,
		task.AssigneeID,
		task.CreatorID,
		task.DueAt,
		task.CreatedAt,
		task.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Task")
	}

	return nil
}

/*
Update synchronizes the task's mutable fields to storage.
*/
func (store *PostgresStore) Update(context context.Context, task *Task) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7
		WHERE %s = $1`,
		schema.Task.Table,
		schema.Task.Title, schema.Task.Description, schema.Task.Status,
		schema.Task.AssigneeID, schema.Task.DueAt, schema.Task.UpdatedAt,
		schema.Task.ID,
	)

	tag, err := store.pool.Exec(context, query,
		task.ID,
		task.Title,
		task.Description,
		task.Status,
		task.AssigneeID,
		task.DueAt,
		time.Now(),
	)

	if err != nil {
		return dberr.Wrap(err, "Task")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Task")
	}

	return nil
}

/*
Delete removes the task row.
*/
func (store *PostgresStore) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.Task.Table, schema.Task.ID)

	tag, err := store.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_task_store_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Task")
	}

	return nil
}
