// Copyright (c) 2026 TeamHub. All rights reserved.

/*
Package role provides the HTTP delivery layer for role administration.

# Security

Every endpoint sits behind the authorization gate: the router wraps the
handlers with the role_* permission checks, so only administrators holding
the matching permission can reach them.
*/
package role

import (
	"net/http"

	requestutil "github.com/teamhubhq/teamhub/internal/platform/request"
	"github.com/teamhubhq/teamhub/internal/platform/respond"
	"github.com/teamhubhq/teamhub/internal/platform/validate"
)

// Handler implements the HTTP layer for role management.
type Handler struct {
	roleService *Service
}

// NewHandler constructs a new role [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{roleService: service}
}

// # Role Endpoints

/*
GET /api/v1/roles.

Response:
  - 200: []Role: All roles in the system
*/
func (handler *Handler) List(writer http.ResponseWriter, request *http.Request) {
	roles, err := handler.roleService.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, roles)
}

/*
GET /api/v1/roles/{id}.

Response:
  - 200: Role: The requested role
  - 404: ErrNotFound: Unknown role ID
*/
func (handler *Handler) Get(writer http.ResponseWriter, request *http.Request) {
	roleID := requestutil.Param(request, "id")

	v := &validate.Validator{}
	if err := v.UUID(FieldID, roleID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.roleService.Get(request.Context(), roleID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

// createRoleRequest defines the expected JSON payload for role creation.
type createRoleRequest struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

/*
POST /api/v1/roles.

Request:
  - body: createRoleRequest

Response:
  - 201: Role: The created role
  - 400: ErrValidation: Missing name or unknown permission tag
  - 409: ErrConflict: Duplicate role name
*/
func (handler *Handler) Create(writer http.ResponseWriter, request *http.Request) {
	var input createRoleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	if err := v.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, 50).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.roleService.Create(request.Context(), input.Name, input.Permissions)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entity)
}

// updateRoleRequest defines the expected JSON payload for role updates.
type updateRoleRequest struct {
	Name string `json:"name"`
}

/*
PATCH /api/v1/roles/{id}.

Response:
  - 200: Role: The renamed role
  - 404: ErrNotFound: Unknown role ID
  - 409: ErrConflict: Duplicate role name
*/
func (handler *Handler) Rename(writer http.ResponseWriter, request *http.Request) {
	roleID := requestutil.Param(request, "id")

	var input updateRoleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	if err := v.UUID(FieldID, roleID).Required(FieldName, input.Name).MaxLen(FieldName, input.Name, 50).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.roleService.Rename(request.Context(), roleID, input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

// permissionsRequest carries permission tags for grant/revoke operations.
type permissionsRequest struct {
	Permissions []string `json:"permissions"`
}

/*
POST /api/v1/roles/{id}/permissions.

Description: Grants the listed permission tags to the role (set union).

Response:
  - 200: Role: The role with its updated permission set
  - 400: ErrValidation: Empty list or unknown permission tag
  - 404: ErrNotFound: Unknown role ID
*/
func (handler *Handler) AddPermissions(writer http.ResponseWriter, request *http.Request) {
	roleID := requestutil.Param(request, "id")

	var input permissionsRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.UUID(FieldID, roleID)
	v.Custom(FieldPermissions, len(input.Permissions) == 0, "Must be a non-empty array")
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.roleService.AddPermissions(request.Context(), roleID, input.Permissions)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

/*
DELETE /api/v1/roles/{id}/permissions.

Description: Revokes the listed permission tags from the role.

Response:
  - 200: Role: The role with its updated permission set
  - 404: ErrNotFound: Unknown role ID
*/
func (handler *Handler) RemovePermissions(writer http.ResponseWriter, request *http.Request) {
	roleID := requestutil.Param(request, "id")

	var input permissionsRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.UUID(FieldID, roleID)
	v.Custom(FieldPermissions, len(input.Permissions) == 0, "Must be a non-empty array")
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.roleService.RemovePermissions(request.Context(), roleID, input.Permissions)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

/*
DELETE /api/v1/roles/{id}.

Response:
  - 204: Role removed and detached from all accounts
  - 404: ErrNotFound: Unknown role ID
*/
func (handler *Handler) Delete(writer http.ResponseWriter, request *http.Request) {
	roleID := requestutil.Param(request, "id")

	v := &validate.Validator{}
	if err := v.UUID(FieldID, roleID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.roleService.Delete(request.Context(), roleID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
