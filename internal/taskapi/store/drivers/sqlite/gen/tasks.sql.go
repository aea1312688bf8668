package gen

import (
	"context"
	"database/sql"
	"time"
)

const taskColumns = `id, owner_id, title, description, status, priority, due_date, completed,
    created_at, updated_at`

func scanTask(row rowScanner) (Task, error) {
	var t Task
	err := row.Scan(
		&t.ID,
		&t.OwnerID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.Priority,
		&t.DueDate,
		&t.Completed,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	return t, err
}

const createTask = `INSERT INTO tasks (
    id, owner_id, title, description, status, priority, due_date, completed, created_at, updated_at
) VALUES (?1, ?2, ?3, ?4, ?5, ?6, ?7, ?8, ?9, ?9)`

type CreateTaskParams struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     sql.NullTime
	Completed   bool
	CreatedAt   time.Time
}

func (q *Queries) CreateTask(ctx context.Context, arg CreateTaskParams) error {
	_, err := q.db.ExecContext(ctx, createTask,
		arg.ID,
		arg.OwnerID,
		arg.Title,
		arg.Description,
		arg.Status,
		arg.Priority,
		arg.DueDate,
		arg.Completed,
		arg.CreatedAt,
	)
	return err
}

const getTask = `SELECT ` + taskColumns + `
FROM tasks
WHERE owner_id = ?1 AND id = ?2`

func (q *Queries) GetTask(ctx context.Context, ownerID, id string) (Task, error) {
	return scanTask(q.db.QueryRowContext(ctx, getTask, ownerID, id))
}

const updateTask = `UPDATE tasks SET
    title       = ?3,
    description = ?4,
    status      = ?5,
    priority    = ?6,
    due_date    = ?7,
    completed   = ?8,
    updated_at  = ?9
WHERE owner_id = ?1 AND id = ?2`

type UpdateTaskParams struct {
	OwnerID     string
	ID          string
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     sql.NullTime
	Completed   bool
	UpdatedAt   time.Time
}

func (q *Queries) UpdateTask(ctx context.Context, arg UpdateTaskParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateTask,
		arg.OwnerID,
		arg.ID,
		arg.Title,
		arg.Description,
		arg.Status,
		arg.Priority,
		arg.DueDate,
		arg.Completed,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteTask = `DELETE FROM tasks WHERE owner_id = ?1 AND id = ?2`

func (q *Queries) DeleteTask(ctx context.Context, ownerID, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteTask, ownerID, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Timestamps are written in UTC so their text form orders chronologically.
const listTasks = `SELECT ` + taskColumns + `
FROM tasks
WHERE owner_id = ?1
  AND (?2 = '' OR status = ?2)
  AND (?3 = 0 OR priority IN ('HIGH', 'URGENT'))
  AND (?4 IS NULL OR (completed = 0 AND due_date IS NOT NULL AND due_date < ?4))
  AND (?5 = '' OR title LIKE ?5 ESCAPE '\' OR description LIKE ?5 ESCAPE '\')
ORDER BY created_at DESC, id DESC`

type ListTasksParams struct {
	OwnerID      string
	Status       string
	HighPriority bool
	DueBefore    sql.NullTime
	Pattern      string
}

func (q *Queries) ListTasks(ctx context.Context, arg ListTasksParams) ([]Task, error) {
	rows, err := q.db.QueryContext(ctx, listTasks,
		arg.OwnerID,
		arg.Status,
		arg.HighPriority,
		arg.DueBefore,
		arg.Pattern,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return items, rows.Err()
}
