// Copyright (c) 2026 TeamHub. All rights reserved.

package task

import "context"

// # Task Data Access

// Filter narrows task listings; zero values mean "no constraint".
type Filter struct {
	Status     string
	AssigneeID string
}

// Store defines the data access contract for tasks.
type Store interface {
	// List returns one page of tasks matching the filter, newest first,
	// together with the total match count for pagination metadata.
	List(ctx context.Context, filter Filter, limit, offset int) ([]Task, int, error)

	// FindByID returns the task with the given ID.
	FindByID(ctx context.Context, id string) (*Task, error)

	// Create persists a brand-new task.
	Create(ctx context.Context, task *Task) error

	// Update persists changes to a task's mutable fields.
	Update(ctx context.Context, task *Task) error

	// Delete removes the task permanently.
	Delete(ctx context.Context, id string) error
}
