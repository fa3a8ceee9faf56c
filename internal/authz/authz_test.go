// Copyright (c) 2026 TeamHub. All rights reserved.

package authz_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamhubhq/teamhub/internal/authz"
	"github.com/teamhubhq/teamhub/internal/platform/apperr"
	"github.com/teamhubhq/teamhub/internal/platform/sec"
	"github.com/teamhubhq/teamhub/internal/role"
)

// roleStoreStub serves canned roles keyed by ID; only FindByIDs matters here.
type roleStoreStub struct {
	roles map[string]role.Role
}

func (s *roleStoreStub) List(_ context.Context) ([]role.Role, error) { return nil, nil }

func (s *roleStoreStub) FindByID(_ context.Context, id string) (*role.Role, error) {
	if r, ok := s.roles[id]; ok {
		return &r, nil
	}
	return nil, apperr.NotFound("Role")
}

func (s *roleStoreStub) FindByIDs(_ context.Context, ids []string) ([]role.Role, error) {
	var out []role.Role
	for _, id := range ids {
		if r, ok := s.roles[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *roleStoreStub) FindByName(_ context.Context, _ string) (*role.Role, error) {
	return nil, apperr.NotFound("Role")
}

func (s *roleStoreStub) FindByNames(_ context.Context, _ []string) ([]role.Role, error) {
	return nil, nil
}

func (s *roleStoreStub) Create(_ context.Context, r *role.Role) error {
	s.roles[r.ID] = *r
	return nil
}

func (s *roleStoreStub) Update(_ context.Context, r *role.Role) error {
	s.roles[r.ID] = *r
	return nil
}

func (s *roleStoreStub) Delete(_ context.Context, id string) error {
	delete(s.roles, id)
	return nil
}

/*
TestAuthorizer_Authorize covers the union decision across multiple roles.
*/
func TestAuthorizer_Authorize(t *testing.T) {
	store := &roleStoreStub{roles: map[string]role.Role{
		"viewer": {ID: "viewer", Name: "Viewer", Permissions: []string{"task_view"}},
		"editor": {ID: "editor", Name: "Editor", Permissions: []string{"task_create", "task_update"}},
	}}
	gate := authz.NewAuthorizer(store)

	tests := []struct {
		name        string
		principal   *sec.Principal
		permission  authz.Permission
		wantErrCode string
	}{
		{
			name:       "single_role_grants",
			principal:  &sec.Principal{ID: "u1", RoleIDs: []string{"viewer"}},
			permission: authz.TaskView,
		},
		{
			name:       "union_across_roles",
			principal:  &sec.Principal{ID: "u1", RoleIDs: []string{"viewer", "editor"}},
			permission: authz.TaskUpdate,
		},
		{
			name:        "missing_permission_forbidden",
			principal:   &sec.Principal{ID: "u1", RoleIDs: []string{"viewer"}},
			permission:  authz.TaskDelete,
			wantErrCode: "FORBIDDEN",
		},
		{
			name:        "no_roles_forbidden",
			principal:   &sec.Principal{ID: "u1"},
			permission:  authz.TaskView,
			wantErrCode: "FORBIDDEN",
		},
		{
			name:        "deleted_role_contributes_nothing",
			principal:   &sec.Principal{ID: "u1", RoleIDs: []string{"ghost"}},
			permission:  authz.TaskView,
			wantErrCode: "FORBIDDEN",
		},
		{
			name:        "unauthenticated",
			principal:   nil,
			permission:  authz.TaskView,
			wantErrCode: "UNAUTHORIZED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := gate.Authorize(context.Background(), tt.principal, tt.permission)

			if tt.wantErrCode == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, tt.wantErrCode, ae.Code)
		})
	}
}

/*
TestAuthorizer_ImmediateEffect verifies that role edits apply to the next
check without any session refresh.
*/
func TestAuthorizer_ImmediateEffect(t *testing.T) {
	store := &roleStoreStub{roles: map[string]role.Role{
		"editor": {ID: "editor", Name: "Editor", Permissions: []string{"task_view"}},
	}}
	gate := authz.NewAuthorizer(store)
	principal := &sec.Principal{ID: "u1", RoleIDs: []string{"editor"}}

	require.Error(t, gate.Authorize(context.Background(), principal, authz.TaskDelete))

	// Grant the permission on the role; same principal, no new token
	store.roles["editor"] = role.Role{
		ID: "editor", Name: "Editor", Permissions: []string{"task_view", "task_delete"},
	}
	assert.NoError(t, gate.Authorize(context.Background(), principal, authz.TaskDelete))

	// Revoke again; denial is just as immediate
	store.roles["editor"] = role.Role{ID: "editor", Name: "Editor"}
	err := gate.Authorize(context.Background(), principal, authz.TaskDelete)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
}
