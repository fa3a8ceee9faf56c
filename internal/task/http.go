// Copyright (c) 2026 TeamHub. All rights reserved.

/*
Package task provides the HTTP delivery layer for the task board.

# Security

Every endpoint sits behind the matching task_* permission check registered
in the router's route table.
*/
package task

import (
	"net/http"
	"time"

	requestutil "github.com/teamhubhq/teamhub/internal/platform/request"
	"github.com/teamhubhq/teamhub/internal/platform/respond"
	"github.com/teamhubhq/teamhub/internal/platform/validate"
	"github.com/teamhubhq/teamhub/pkg/pagination"
)

// Handler implements the HTTP layer for task management.
type Handler struct {
	taskService *Service
}

// NewHandler constructs a new task [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{taskService: service}
}

// # Task Endpoints

/*
GET /api/v1/tasks.

Request:
  - query: status (optional lifecycle filter)
  - query: assignee_id (optional assignment filter)
  - query: page, limit (pagination)

Response:
  - 200: []Task: Matching page, newest first, with pagination metadata
*/
func (handler *Handler) List(writer http.ResponseWriter, request *http.Request) {
	filter := Filter{
		Status:     request.URL.Query().Get(FieldStatus),
		AssigneeID: request.URL.Query().Get(FieldAssigneeID),
	}

	v := &validate.Validator{}
	if filter.Status != "" {
		v.OneOf(FieldStatus, filter.Status, Statuses()...)
	}
	if filter.AssigneeID != "" {
		v.UUID(FieldAssigneeID, filter.AssigneeID)
	}
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	paginationParams := pagination.FromRequest(request)

	tasks, total, err := handler.taskService.List(request.Context(), filter,
		paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, tasks,
		pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/tasks/{id}.

Response:
  - 200: Task: The requested task
  - 404: ErrNotFound: Unknown task ID
*/
func (handler *Handler) Get(writer http.ResponseWriter, request *http.Request) {
	taskID := requestutil.Param(request, "id")

	v := &validate.Validator{}
	if err := v.UUID(FieldID, taskID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.taskService.Get(request.Context(), taskID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

// createTaskRequest defines the expected JSON payload for opening a task.
type createTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AssigneeID  *string    `json:"assignee_id"`
	DueAt       *time.Time `json:"due_at"`
}

/*
POST /api/v1/tasks.

Request:
  - body: createTaskRequest

Response:
  - 201: Task: The created task (status "todo")
  - 400: ErrValidation: Missing title or past due date
*/
func (handler *Handler) Create(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createTaskRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldTitle, input.Title).MaxLen(FieldTitle, input.Title, 200)
	v.MaxLen(FieldDescription, input.Description, 5000)
	if input.AssigneeID != nil {
		v.UUID(FieldAssigneeID, *input.AssigneeID)
	}
	if input.DueAt != nil {
		v.NotPast(FieldDueAt, *input.DueAt)
	}
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.taskService.Create(request.Context(), principal.ID, CreateInput{
		Title:       input.Title,
		Description: input.Description,
		AssigneeID:  input.AssigneeID,
		DueAt:       input.DueAt,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entity)
}

// updateTaskRequest defines the expected JSON payload for task updates.
type updateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	AssigneeID  *string    `json:"assignee_id"`
	DueAt       *time.Time `json:"due_at"`
}

/*
PATCH /api/v1/tasks/{id}.

Response:
  - 200: Task: The updated task
  - 400: ErrValidation: Invalid status or fields
  - 404: ErrNotFound: Unknown task ID
*/
func (handler *Handler) Update(writer http.ResponseWriter, request *http.Request) {
	taskID := requestutil.Param(request, "id")

	var input updateTaskRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.UUID(FieldID, taskID)
	if input.Title != nil {
		v.Required(FieldTitle, *input.Title).MaxLen(FieldTitle, *input.Title, 200)
	}
	if input.Description != nil {
		v.MaxLen(FieldDescription, *input.Description, 5000)
	}
	if input.Status != nil {
		v.OneOf(FieldStatus, *input.Status, Statuses()...)
	}
	if input.AssigneeID != nil {
		v.UUID(FieldAssigneeID, *input.AssigneeID)
	}
	if input.DueAt != nil {
		v.NotPast(FieldDueAt, *input.DueAt)
	}
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.taskService.Update(request.Context(), taskID, UpdateInput{
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		AssigneeID:  input.AssigneeID,
		DueAt:       input.DueAt,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

/*
DELETE /api/v1/tasks/{id}.

Response:
  - 204: Task removed
  - 404: ErrNotFound: Unknown task ID
*/
func (handler *Handler) Delete(writer http.ResponseWriter, request *http.Request) {
	taskID := requestutil.Param(request, "id")

	v := &validate.Validator{}
	if err := v.UUID(FieldID, taskID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.taskService.Delete(request.Context(), taskID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
