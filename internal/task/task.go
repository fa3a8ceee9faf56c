// Copyright (c) 2026 TeamHub. All rights reserved.

/*
Package task implements the shared task board.

Tasks are plain work items with a three-state lifecycle (todo, in_progress,
done). Every mutation passes the authorization gate via the task_* permission
tags before it reaches this package.
*/
package task

import "time"

// # Status Lifecycle

// Valid task lifecycle states.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

// Statuses returns the ordered set of valid lifecycle states.
func Statuses() []string {
	return []string{StatusTodo, StatusInProgress, StatusDone}
}

// # Domain Entities

// Task represents a single work item on the board.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	AssigneeID  *string    `json:"assignee_id,omitempty"`
	CreatorID   string     `json:"creator_id"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// # Field Identifiers

// Global field names for validation in the task domain.
const (
	FieldID          = "id"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldStatus      = "status"
	FieldAssigneeID  = "assignee_id"
	FieldDueAt       = "due_at"
)
