package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/aussiebroadwan/taskapi/internal/taskapi/domain"
	"github.com/aussiebroadwan/taskapi/internal/taskapi/store"
	"github.com/aussiebroadwan/taskapi/internal/taskapi/store/drivers/sqlite/gen"
)

type tasksRepo struct {
	q *gen.Queries
}

func (r *tasksRepo) CreateTask(ctx context.Context, t domain.Task) error {
	created := t.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	err := r.q.CreateTask(ctx, gen.CreateTaskParams{
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		DueDate:     mapOptionalTime(t.DueDate),
		Completed:   t.Completed,
		CreatedAt:   created.UTC(),
	})
	return mapConstraint(err)
}

func (r *tasksRepo) GetTask(ctx context.Context, ownerID, id string) (domain.Task, error) {
	row, err := r.q.GetTask(ctx, ownerID, id)
	if err != nil {
		return domain.Task{}, mapNotFound(err)
	}
	return mapTask(row), nil
}

func (r *tasksRepo) UpdateTask(ctx context.Context, t domain.Task) error {
	n, err := r.q.UpdateTask(ctx, gen.UpdateTaskParams{
		OwnerID:     t.OwnerID,
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		DueDate:     mapOptionalTime(t.DueDate),
		Completed:   t.Completed,
		UpdatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *tasksRepo) DeleteTask(ctx context.Context, ownerID, id string) error {
	n, err := r.q.DeleteTask(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *tasksRepo) ListTasks(ctx context.Context, ownerID string, f store.TaskFilter) ([]domain.Task, error) {
	params := gen.ListTasksParams{
		OwnerID:      ownerID,
		Status:       string(f.Status),
		HighPriority: f.HighPriority,
	}
	if !f.OverdueAt.IsZero() {
		params.DueBefore = sql.NullTime{Time: f.OverdueAt.UTC(), Valid: true}
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		params.Pattern = "%" + escapeLike(q) + "%"
	}

	rows, err := r.q.ListTasks(ctx, params)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Task, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapTask(row))
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
