// Copyright (c) 2026 TeamHub. All rights reserved.

package role_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamhubhq/teamhub/internal/platform/apperr"
	"github.com/teamhubhq/teamhub/internal/role"
)

// fakeStore is an in-memory [role.Store] for service-level tests.
type fakeStore struct {
	roles map[string]*role.Role
}

func newFakeStore() *fakeStore {
	return &fakeStore{roles: make(map[string]*role.Role)}
}

func (s *fakeStore) List(_ context.Context) ([]role.Role, error) {
	var out []role.Role
	for _, r := range s.roles {
		out = append(out, *r)
	}
	return out, nil
}

func (s *fakeStore) FindByID(_ context.Context, id string) (*role.Role, error) {
	r, ok := s.roles[id]
	if !ok {
		return nil, apperr.NotFound("Role")
	}
	clone := *r
	return &clone, nil
}

func (s *fakeStore) FindByIDs(_ context.Context, ids []string) ([]role.Role, error) {
	var out []role.Role
	for _, id := range ids {
		if r, ok := s.roles[id]; ok {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *fakeStore) FindByName(_ context.Context, name string) (*role.Role, error) {
	for _, r := range s.roles {
		if r.Name == name {
			clone := *r
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Role")
}

func (s *fakeStore) FindByNames(_ context.Context, names []string) ([]role.Role, error) {
	var out []role.Role
	for _, name := range names {
		if r, err := s.FindByName(context.Background(), name); err == nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *fakeStore) Create(_ context.Context, r *role.Role) error {
	for _, existing := range s.roles {
		if existing.Name == r.Name {
			return apperr.Conflict("Role already exists")
		}
	}
	clone := *r
	s.roles[r.ID] = &clone
	return nil
}

func (s *fakeStore) Update(_ context.Context, r *role.Role) error {
	if _, ok := s.roles[r.ID]; !ok {
		return apperr.NotFound("Role")
	}
	clone := *r
	s.roles[r.ID] = &clone
	return nil
}

func (s *fakeStore) Delete(_ context.Context, id string) error {
	if _, ok := s.roles[id]; !ok {
		return apperr.NotFound("Role")
	}
	delete(s.roles, id)
	return nil
}

var testCatalog = []string{
	"task_view", "task_create", "task_update", "task_delete",
	"user_view", "role_view", "role_update",
}

func newTestService(store *fakeStore) *role.Service {
	return role.NewService(store, testCatalog, slog.Default())
}

/*
TestService_Create verifies tag validation and deduplication on creation.
*/
func TestService_Create(t *testing.T) {
	tests := []struct {
		name        string
		roleName    string
		permissions []string
		wantErrCode string
		wantTags    []string
	}{
		{
			name:        "valid_role",
			roleName:    "Editor",
			permissions: []string{"task_view", "task_update"},
			wantTags:    []string{"task_view", "task_update"},
		},
		{
			name:        "duplicate_tags_collapsed",
			roleName:    "Viewer",
			permissions: []string{"task_view", "task_view"},
			wantTags:    []string{"task_view"},
		},
		{
			name:        "unknown_tag_rejected",
			roleName:    "Hacker",
			permissions: []string{"task_view", "server_root"},
			wantErrCode: "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestService(newFakeStore())

			created, err := service.Create(context.Background(), tt.roleName, tt.permissions)

			if tt.wantErrCode != "" {
				require.Error(t, err)
				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, tt.wantErrCode, ae.Code)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, created.ID)
			assert.Equal(t, tt.roleName, created.Name)
			assert.Equal(t, tt.wantTags, created.Permissions)
		})
	}
}

/*
TestService_Create_DuplicateName checks that role names stay unique.
*/
func TestService_Create_DuplicateName(t *testing.T) {
	service := newTestService(newFakeStore())

	_, err := service.Create(context.Background(), "Editor", []string{"task_view"})
	require.NoError(t, err)

	_, err = service.Create(context.Background(), "Editor", []string{"task_update"})
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
}

/*
TestService_AddPermissions verifies the grant operation is a set union.
*/
func TestService_AddPermissions(t *testing.T) {
	service := newTestService(newFakeStore())

	created, err := service.Create(context.Background(), "Editor", []string{"task_view"})
	require.NoError(t, err)

	// Granting an overlapping set must not duplicate existing tags
	updated, err := service.AddPermissions(context.Background(), created.ID, []string{"task_view", "task_update"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"task_view", "task_update"}, updated.Permissions)

	// Unknown tags are rejected without partial application
	_, err = service.AddPermissions(context.Background(), created.ID, []string{"task_delete", "bogus"})
	require.Error(t, err)

	current, err := service.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"task_view", "task_update"}, current.Permissions)
}

/*
TestService_RemovePermissions verifies revocation ignores absent tags.
*/
func TestService_RemovePermissions(t *testing.T) {
	service := newTestService(newFakeStore())

	created, err := service.Create(context.Background(), "Editor", []string{"task_view", "task_update"})
	require.NoError(t, err)

	updated, err := service.RemovePermissions(context.Background(), created.ID, []string{"task_update", "task_delete"})
	require.NoError(t, err)
	assert.Equal(t, []string{"task_view"}, updated.Permissions)
}

/*
TestService_Rename verifies lookups and renames.
*/
func TestService_Rename(t *testing.T) {
	service := newTestService(newFakeStore())

	created, err := service.Create(context.Background(), "Editor", nil)
	require.NoError(t, err)

	renamed, err := service.Rename(context.Background(), created.ID, "Senior Editor")
	require.NoError(t, err)
	assert.Equal(t, "Senior Editor", renamed.Name)

	_, err = service.Rename(context.Background(), "00000000-0000-0000-0000-000000000000", "Ghost")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestService_Delete verifies removal and the not-found path.
*/
func TestService_Delete(t *testing.T) {
	store := newFakeStore()
	service := newTestService(store)

	created, err := service.Create(context.Background(), "Temp", nil)
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), created.ID))
	assert.Empty(t, store.roles)

	err = service.Delete(context.Background(), created.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
