package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/taskapi/internal/taskapi/domain"
	"github.com/aussiebroadwan/taskapi/internal/taskapi/store"
)

func TestTaskService_CreateDefaults(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	owner := f.register(t, "Owner", "owner@example.com", "secret1")

	task, err := f.tasks.Create(ctx, owner, NewTask{Title: "  Write docs  "})
	require.NoError(t, err)
	require.Equal(t, "Write docs", task.Title)
	require.Equal(t, domain.TaskTodo, task.Status)
	require.Equal(t, domain.PriorityMedium, task.Priority)
	require.False(t, task.Completed)
	require.Equal(t, owner, task.OwnerID)
}

func TestTaskService_Lifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	owner := f.register(t, "Owner", "owner@example.com", "secret1")
	stranger := f.register(t, "Stranger", "stranger@example.com", "secret2")

	task, err := f.tasks.Create(ctx, owner, NewTask{Title: "Ship", Priority: domain.PriorityHigh})
	require.NoError(t, err)

	_, err = f.tasks.Get(ctx, stranger, task.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	title := "Ship it"
	status := domain.TaskInProgress
	task, err = f.tasks.Update(ctx, owner, task.ID, TaskPatch{Title: &title, Status: &status})
	require.NoError(t, err)
	require.Equal(t, "Ship it", task.Title)
	require.Equal(t, domain.TaskInProgress, task.Status)
	require.Equal(t, domain.PriorityHigh, task.Priority)

	done := true
	task, err = f.tasks.Update(ctx, owner, task.ID, TaskPatch{Completed: &done})
	require.NoError(t, err)
	require.True(t, task.Completed)
	require.Equal(t, domain.TaskDone, task.Status)

	task, err = f.tasks.SetCompleted(ctx, owner, task.ID, false)
	require.NoError(t, err)
	require.False(t, task.Completed)
	require.Equal(t, domain.TaskTodo, task.Status)

	_, err = f.tasks.SetCompleted(ctx, stranger, task.ID, true)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.ErrorIs(t, f.tasks.Delete(ctx, stranger, task.ID), store.ErrNotFound)
	require.NoError(t, f.tasks.Delete(ctx, owner, task.ID))

	tasks, err := f.tasks.List(ctx, owner)
	require.NoError(t, err)
	require.Empty(t, tasks)
}

func TestTaskService_Queries(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	owner := f.register(t, "Owner", "owner@example.com", "secret1")

	yesterday := f.now.Add(-24 * time.Hour)
	tomorrow := f.now.Add(24 * time.Hour)

	late, err := f.tasks.Create(ctx, owner, NewTask{Title: "Pay invoice", Priority: domain.PriorityUrgent, DueDate: &yesterday})
	require.NoError(t, err)
	_, err = f.tasks.Create(ctx, owner, NewTask{Title: "Plan sprint", Description: "next invoice cycle", DueDate: &tomorrow})
	require.NoError(t, err)
	finished, err := f.tasks.Create(ctx, owner, NewTask{Title: "Old release", Priority: domain.PriorityHigh, Status: domain.TaskDone, DueDate: &yesterday})
	require.NoError(t, err)
	require.True(t, finished.Completed)

	overdue, err := f.tasks.ListOverdue(ctx, owner)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	require.Equal(t, late.ID, overdue[0].ID)

	high, err := f.tasks.ListHighPriority(ctx, owner)
	require.NoError(t, err)
	require.Len(t, high, 1)
	require.Equal(t, late.ID, high[0].ID)

	found, err := f.tasks.Search(ctx, owner, "INVOICE")
	require.NoError(t, err)
	require.Len(t, found, 2)

	todo, err := f.tasks.ListByStatus(ctx, owner, domain.TaskTodo)
	require.NoError(t, err)
	require.Len(t, todo, 2)

	all, err := f.tasks.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, all, 3)
}
