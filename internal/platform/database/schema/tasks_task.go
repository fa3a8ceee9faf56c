// Copyright (c) 2026 TeamHub. All rights reserved.

package schema

// TaskTable represents the 'tasks.task' table
type TaskTable struct {
	Table       string
	ID          string
	Title       string
	Description string
	Status      string
	AssigneeID  string
	CreatorID   string
	DueAt       string
	CreatedAt   string
	UpdatedAt   string
}

// Task is the schema definition for tasks.task
var Task = TaskTable{
	Table:       "tasks.task",
	ID:          "id",
	Title:       "title",
	Description: "description",
	Status:      "status",
	AssigneeID:  "assigneeid",
	CreatorID:   "creatorid",
	DueAt:       "dueat",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

func (t TaskTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Description, t.Status, t.AssigneeID, t.CreatorID,
		t.DueAt, t.CreatedAt, t.UpdatedAt,
	}
}
