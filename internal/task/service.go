// Copyright (c) 2026 TeamHub. All rights reserved.

package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/teamhubhq/teamhub/pkg/uuidv7"
)

// # Service Layer

// Service orchestrates business logic for the task board.
type Service struct {
	store  Store
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// # Task Queries

/*
List returns one page of tasks matching the optional status/assignee filter.

Returns:
  - []Task: The requested page, newest first
  - int: Total match count across all pages
  - error: Storage failures
*/
func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]Task, int, error) {
	tasks, total, err := service.store.List(context, filter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("task_service_list_failed: %w", err)
	}
	return tasks, total, nil
}

/*
Get returns a single task by ID.

Returns:
  - *Task: The hydrated task
  - error: apperr.NotFound or storage failures
*/
func (service *Service) Get(context context.Context, taskID string) (*Task, error) {
	entity, err := service.store.FindByID(context, taskID)
	if err != nil {
		return nil, fmt.Errorf("task_service_get_failed: %w", err)
	}
	return entity, nil
}

// # Task Mutations

// CreateInput carries the fields needed to open a new task.
type CreateInput struct {
	Title       string
	Description string
	AssigneeID  *string
	DueAt       *time.Time
}

/*
Create opens a new task in the todo state.

Description: The creator is always the authenticated principal; clients
cannot open tasks on behalf of someone else.
*/
func (service *Service) Create(context context.Context, creatorID string, input CreateInput) (*Task, error) {
	now := time.Now()
	entity := &Task{
		ID:          uuidv7.New(),
		Title:       input.Title,
		Description: input.Description,
		Status:      StatusTodo,
		AssigneeID:  input.AssigneeID,
		CreatorID:   creatorID,
		DueAt:       input.DueAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := service.store.Create(context, entity); err != nil {
		return nil, fmt.Errorf("task_service_create_failed: %w", err)
	}

	service.logger.Info("task_created",
		slog.String("task_id", entity.ID),
		slog.String("creator_id", creatorID),
	)

	return entity, nil
}

// UpdateInput defines the mutable subset of task fields.
//
// Nil pointers leave the corresponding field untouched.
type UpdateInput struct {
	Title       *string
	Description *string
	Status      *string
	AssigneeID  *string
	DueAt       *time.Time
}

/*
Update applies a partial set of changes to a task.

Returns:
  - *Task: The updated task
  - error: apperr.NotFound or storage failures
*/
func (service *Service) Update(context context.Context, taskID string, input UpdateInput) (*Task, error) {
	entity, err := service.store.FindByID(context, taskID)
	if err != nil {
		return nil, fmt.Errorf("task_service_update_lookup_failed: %w", err)
	}

	// Apply delta updates
	if input.Title != nil {
		entity.Title = *input.Title
	}

	// Apply delta updates
	if input.Description != nil {
		entity.Description = *input.Description
	}

	// Apply delta updates
	if input.Status != nil {
		entity.Status = *input.Status
	}

	// Apply delta updates
	if input.AssigneeID != nil {
		entity.AssigneeID = input.AssigneeID
	}

	// Apply delta updates
	if input.DueAt != nil {
		entity.DueAt = input.DueAt
	}

	if err := service.store.Update(context, entity); err != nil {
		return nil, fmt.Errorf("task_service_update_failed: %w", err)
	}

	service.logger.Info("task_updated", slog.String("task_id", taskID))

	return entity, nil
}

/*
Delete removes a task permanently.
*/
func (service *Service) Delete(context context.Context, taskID string) error {
	if err := service.store.Delete(context, taskID); err != nil {
		return fmt.Errorf("task_service_delete_failed: %w", err)
	}

	service.logger.Info("task_deleted", slog.String("task_id", taskID))

	return nil
}
