package domain

import (
	"errors"
	"strings"
	"time"
)

type TaskStatus string

const (
	TaskTodo       TaskStatus = "TODO"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskReview     TaskStatus = "REVIEW"
	TaskDone       TaskStatus = "DONE"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
	PriorityUrgent TaskPriority = "URGENT"
)

var (
	ErrUnknownStatus   = errors.New("unknown task status")
	ErrUnknownPriority = errors.New("unknown task priority")
)

func ParseTaskStatus(s string) (TaskStatus, error) {
	switch v := TaskStatus(strings.ToUpper(strings.TrimSpace(s))); v {
	case TaskTodo, TaskInProgress, TaskReview, TaskDone:
		return v, nil
	default:
		return "", ErrUnknownStatus
	}
}

func ParseTaskPriority(s string) (TaskPriority, error) {
	switch v := TaskPriority(strings.ToUpper(strings.TrimSpace(s))); v {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return v, nil
	default:
		return "", ErrUnknownPriority
	}
}

// Task is a unit of work owned by a single principal.
type Task struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Status      TaskStatus
	Priority    TaskPriority
	DueDate     *time.Time
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Overdue reports whether the task is incomplete and past its due date.
func (t Task) Overdue(now time.Time) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(now)
}

// SetCompleted toggles completion and keeps Status consistent with it.
func (t *Task) SetCompleted(done bool) {
	t.Completed = done
	switch {
	case done:
		t.Status = TaskDone
	case t.Status == TaskDone:
		t.Status = TaskTodo
	}
}
