// Copyright (c) 2026 TeamHub. All rights reserved.

/*
Package user provides the HTTP delivery layer for account administration.

# Security

Administration endpoints sit behind the user_* permission checks. The
password change endpoint operates on the authenticated principal only and
requires no administration permission.
*/
package user

import (
	"net/http"

	requestutil "github.com/teamhubhq/teamhub/internal/platform/request"
	"github.com/teamhubhq/teamhub/internal/platform/respond"
	"github.com/teamhubhq/teamhub/internal/platform/validate"
)

// Handler implements the HTTP layer for account management.
type Handler struct {
	userService *Service
}

// NewHandler constructs a new user [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{userService: service}
}

// # User Endpoints

/*
GET /api/v1/users.

Response:
  - 200: []User: All member accounts
*/
func (handler *Handler) List(writer http.ResponseWriter, request *http.Request) {
	users, err := handler.userService.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, users)
}

/*
GET /api/v1/users/{id}.

Response:
  - 200: User: The requested account
  - 404: ErrNotFound: Unknown user ID
*/
func (handler *Handler) Get(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.Param(request, "id")

	v := &validate.Validator{}
	if err := v.UUID(FieldID, userID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.userService.Get(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

// createUserRequest defines the expected JSON payload for registration.
type createUserRequest struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

/*
POST /api/v1/users.

Request:
  - body: createUserRequest

Response:
  - 201: User: The created account
  - 400: ErrValidation: Missing fields or unknown role name
  - 409: ErrConflict: Duplicate email
*/
func (handler *Handler) Create(writer http.ResponseWriter, request *http.Request) {
	var input createUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, 100)
	v.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)
	v.Required(FieldPassword, input.Password).MinLen(FieldPassword, input.Password, 8)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.userService.Create(request.Context(), CreateInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Roles:    input.Roles,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entity)
}

// updateUserRequest defines the expected JSON payload for account updates.
type updateUserRequest struct {
	Name  *string   `json:"name"`
	Email *string   `json:"email"`
	Roles *[]string `json:"roles"`
}

/*
PATCH /api/v1/users/{id}.

Response:
  - 200: User: The updated account
  - 400: ErrValidation: Invalid fields or unknown role name
  - 404: ErrNotFound: Unknown user ID
  - 409: ErrConflict: Duplicate email
*/
func (handler *Handler) Update(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.Param(request, "id")

	var input updateUserRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.UUID(FieldID, userID)
	if input.Name != nil {
		v.Required(FieldName, *input.Name).MaxLen(FieldName, *input.Name, 100)
	}
	if input.Email != nil {
		v.Email(FieldEmail, *input.Email)
	}
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entity, err := handler.userService.Update(request.Context(), userID, UpdateInput{
		Name:  input.Name,
		Email: input.Email,
		Roles: input.Roles,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entity)
}

// changePasswordRequest carries the credential rotation payload.
type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

/*
POST /api/v1/me/password.

Description: Rotates the authenticated principal's own password.

Response:
  - 200: Password changed
  - 401: ErrUnauthorized: Wrong current password or not authenticated
*/
func (handler *Handler) ChangePassword(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required("current_password", input.CurrentPassword)
	v.Required("new_password", input.NewPassword).MinLen("new_password", input.NewPassword, 8)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.userService.ChangePassword(request.Context(), userID, input.CurrentPassword, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OKMessage(writer, nil, "Password changed")
}

/*
DELETE /api/v1/users/{id}.

Response:
  - 204: Account removed
  - 404: ErrNotFound: Unknown user ID
*/
func (handler *Handler) Delete(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.Param(request, "id")

	v := &validate.Validator{}
	if err := v.UUID(FieldID, userID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.userService.Delete(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
