// Copyright (c) 2026 TeamHub. All rights reserved.

package task_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamhubhq/teamhub/internal/platform/apperr"
	"github.com/teamhubhq/teamhub/internal/task"
	"github.com/teamhubhq/teamhub/pkg/pointer"
)

// fakeStore is an in-memory [task.Store] for service-level tests.
type fakeStore struct {
	tasks map[string]*task.Task
}

func newFakeStore() *fakeStore {
	return &fakeStore{tasks: make(map[string]*task.Task)}
}

func (s *fakeStore) List(_ context.Context, filter task.Filter, limit, offset int) ([]task.Task, int, error) {
	var matched []task.Task
	for _, t := range s.tasks {
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.AssigneeID != "" && (t.AssigneeID == nil || *t.AssigneeID != filter.AssigneeID) {
			continue
		}
		matched = append(matched, *t)
	}

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (s *fakeStore) FindByID(_ context.Context, id string) (*task.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return nil, apperr.NotFound("Task")
	}
	clone := *t
	return &clone, nil
}

func (s *fakeStore) Create(_ context.Context, t *task.Task) error {
	clone := *t
	s.tasks[t.ID] = &clone
	return nil
}

func (s *fakeStore) Update(_ context.Context, t *task.Task) error {
	if _, ok := s.tasks[t.ID]; !ok {
		return apperr.NotFound("Task")
	}
	clone := *t
	s.tasks[t.ID] = &clone
	return nil
}

func (s *fakeStore) Delete(_ context.Context, id string) error {
	if _, ok := s.tasks[id]; !ok {
		return apperr.NotFound("Task")
	}
	delete(s.tasks, id)
	return nil
}

/*
TestService_Create verifies new tasks open in the todo state with the
principal as creator.
*/
func TestService_Create(t *testing.T) {
	service := task.NewService(newFakeStore(), slog.Default())

	due := time.Now().Add(48 * time.Hour)
	created, err := service.Create(context.Background(), "creator-1", task.CreateInput{
		Title:       "Ship the release",
		Description: "Cut and tag v1.0",
		DueAt:       &due,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, task.StatusTodo, created.Status)
	assert.Equal(t, "creator-1", created.CreatorID)
	assert.Nil(t, created.AssigneeID)
}

/*
TestService_Update verifies partial updates and the lifecycle transition.
*/
func TestService_Update(t *testing.T) {
	service := task.NewService(newFakeStore(), slog.Default())

	created, err := service.Create(context.Background(), "creator-1", task.CreateInput{
		Title: "Ship the release",
	})
	require.NoError(t, err)

	updated, err := service.Update(context.Background(), created.ID, task.UpdateInput{
		Status:     pointer.To(task.StatusInProgress),
		AssigneeID: pointer.To("user-2"),
	})
	require.NoError(t, err)

	assert.Equal(t, task.StatusInProgress, updated.Status)
	require.NotNil(t, updated.AssigneeID)
	assert.Equal(t, "user-2", *updated.AssigneeID)
	assert.Equal(t, "Ship the release", updated.Title)

	_, err = service.Update(context.Background(), "missing", task.UpdateInput{
		Status: pointer.To(task.StatusInProgress),
	})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestService_List verifies status and assignee filtering.
*/
func TestService_List(t *testing.T) {
	store := newFakeStore()
	service := task.NewService(store, slog.Default())

	first, err := service.Create(context.Background(), "creator-1", task.CreateInput{Title: "One"})
	require.NoError(t, err)
	_, err = service.Create(context.Background(), "creator-1", task.CreateInput{Title: "Two"})
	require.NoError(t, err)

	_, err = service.Update(context.Background(), first.ID, task.UpdateInput{
		Status: pointer.To(task.StatusDone),
	})
	require.NoError(t, err)

	finished, total, err := service.List(context.Background(), task.Filter{Status: task.StatusDone}, 20, 0)
	require.NoError(t, err)
	require.Len(t, finished, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "One", finished[0].Title)

	all, total, err := service.List(context.Background(), task.Filter{}, 20, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, 2, total)

	// A page past the end still reports the full total
	empty, total, err := service.List(context.Background(), task.Filter{}, 20, 40)
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.Equal(t, 2, total)
}

/*
TestService_Delete verifies removal and the not-found path.
*/
func TestService_Delete(t *testing.T) {
	store := newFakeStore()
	service := task.NewService(store, slog.Default())

	created, err := service.Create(context.Background(), "creator-1", task.CreateInput{Title: "Temp"})
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), created.ID))
	assert.Empty(t, store.tasks)

	err = service.Delete(context.Background(), created.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
