package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/taskapi/internal/taskapi/domain"
	"github.com/aussiebroadwan/taskapi/internal/taskapi/store"
	"github.com/aussiebroadwan/taskapi/pkg/idx"
	"github.com/aussiebroadwan/taskapi/pkg/slogx"
)

// NewTask holds the fields of a task being created. Empty Status and
// Priority fall back to TODO and MEDIUM.
type NewTask struct {
	Title       string
	Description string
	Status      domain.TaskStatus
	Priority    domain.TaskPriority
	DueDate     *time.Time
}

// TaskPatch is a partial update; nil fields are left unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
	Priority    *domain.TaskPriority
	DueDate     *time.Time
	Completed   *bool
}

// TaskService manages tasks on behalf of their owner. Every operation is
// scoped to ownerID; another owner's task is reported as store.ErrNotFound.
type TaskService struct {
	Store store.Store

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *TaskService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *TaskService) Create(ctx context.Context, ownerID string, in NewTask) (domain.Task, error) {
	now := s.now()
	t := domain.Task{
		ID:          idx.NewAt(now).String(),
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		CreatedAt:   now,
	}
	if t.Status == "" {
		t.Status = domain.TaskTodo
	}
	if t.Priority == "" {
		t.Priority = domain.PriorityMedium
	}
	t.Completed = t.Status == domain.TaskDone

	if err := s.Store.Tasks().CreateTask(ctx, t); err != nil {
		return domain.Task{}, fmt.Errorf("create task: %w", err)
	}

	slogx.FromContext(ctx).Info("task created", slog.String("task_id", t.ID))
	return s.Store.Tasks().GetTask(ctx, ownerID, t.ID)
}

func (s *TaskService) Get(ctx context.Context, ownerID, id string) (domain.Task, error) {
	id, err := parseID(id)
	if err != nil {
		return domain.Task{}, err
	}
	return s.Store.Tasks().GetTask(ctx, ownerID, id)
}

// Update applies patch. Setting Completed to true also moves the task to DONE.
func (s *TaskService) Update(ctx context.Context, ownerID, id string, patch TaskPatch) (domain.Task, error) {
	return s.mutate(ctx, ownerID, id, func(t *domain.Task) {
		if patch.Title != nil {
			t.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Description != nil {
			t.Description = *patch.Description
		}
		if patch.Status != nil {
			t.Status = *patch.Status
		}
		if patch.Priority != nil {
			t.Priority = *patch.Priority
		}
		if patch.DueDate != nil {
			t.DueDate = patch.DueDate
		}
		if patch.Completed != nil {
			t.Completed = *patch.Completed
			if t.Completed {
				t.Status = domain.TaskDone
			}
		}
	})
}

// SetCompleted marks a task done, or back to pending.
func (s *TaskService) SetCompleted(ctx context.Context, ownerID, id string, done bool) (domain.Task, error) {
	return s.mutate(ctx, ownerID, id, func(t *domain.Task) {
		t.SetCompleted(done)
	})
}

func (s *TaskService) Delete(ctx context.Context, ownerID, id string) error {
	id, err := parseID(id)
	if err != nil {
		return err
	}
	if err := s.Store.Tasks().DeleteTask(ctx, ownerID, id); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("task deleted", slog.String("task_id", id))
	return nil
}

func (s *TaskService) List(ctx context.Context, ownerID string) ([]domain.Task, error) {
	return s.Store.Tasks().ListTasks(ctx, ownerID, store.TaskFilter{})
}

func (s *TaskService) ListByStatus(ctx context.Context, ownerID string, status domain.TaskStatus) ([]domain.Task, error) {
	return s.Store.Tasks().ListTasks(ctx, ownerID, store.TaskFilter{Status: status})
}

// ListOverdue returns incomplete tasks whose due date has passed.
func (s *TaskService) ListOverdue(ctx context.Context, ownerID string) ([]domain.Task, error) {
	return s.Store.Tasks().ListTasks(ctx, ownerID, store.TaskFilter{OverdueAt: s.now()})
}

// ListHighPriority returns HIGH and URGENT tasks that are not yet done.
func (s *TaskService) ListHighPriority(ctx context.Context, ownerID string) ([]domain.Task, error) {
	tasks, err := s.Store.Tasks().ListTasks(ctx, ownerID, store.TaskFilter{HighPriority: true})
	if err != nil {
		return nil, err
	}
	pending := tasks[:0]
	for _, t := range tasks {
		if !t.Completed {
			pending = append(pending, t)
		}
	}
	return pending, nil
}

// Search matches query case-insensitively against title and description.
func (s *TaskService) Search(ctx context.Context, ownerID, query string) ([]domain.Task, error) {
	return s.Store.Tasks().ListTasks(ctx, ownerID, store.TaskFilter{Search: query})
}

func (s *TaskService) mutate(ctx context.Context, ownerID, id string, apply func(*domain.Task)) (domain.Task, error) {
	id, err := parseID(id)
	if err != nil {
		return domain.Task{}, err
	}

	var out domain.Task
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		t, err := tx.Tasks().GetTask(ctx, ownerID, id)
		if err != nil {
			return err
		}
		apply(&t)
		if err := tx.Tasks().UpdateTask(ctx, t); err != nil {
			return err
		}
		out, err = tx.Tasks().GetTask(ctx, ownerID, id)
		return err
	})
	if err != nil {
		return domain.Task{}, err
	}

	slogx.FromContext(ctx).Info("task updated", slog.String("task_id", id), slog.String("status", string(out.Status)))
	return out, nil
}
