package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/taskapi/internal/taskapi/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface implemented by drivers. Work is
// split into sub-repositories; a Tx exposes the same repositories bound to
// one transaction and cannot start another.
type Store interface {
	Principals() Principals
	Tasks() Tasks

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller must Commit or Rollback.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

// Tx is a transactional store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// Principals is the credential store.
type Principals interface {
	// FindPrincipalByEmail returns the principal whose email equals email
	// exactly, or ErrNotFound.
	FindPrincipalByEmail(ctx context.Context, email string) (domain.Principal, error)

	// ExistsPrincipalByEmail reports whether email is registered.
	ExistsPrincipalByEmail(ctx context.Context, email string) (bool, error)

	// SavePrincipal inserts p, or updates the row with the same ID, and
	// returns the stored record. Inserting an email that is already taken
	// fails with ErrAlreadyExists.
	SavePrincipal(ctx context.Context, p domain.Principal) (domain.Principal, error)

	// CountEnabledPrincipals counts principals with Enabled set.
	CountEnabledPrincipals(ctx context.Context) (int, error)

	GetPrincipalByID(ctx context.Context, id string) (domain.Principal, error)

	// ListPrincipals returns every principal, oldest first.
	ListPrincipals(ctx context.Context) ([]domain.Principal, error)

	ListPrincipalsByRole(ctx context.Context, role domain.Role) ([]domain.Principal, error)
}

// Tasks are always addressed through their owner so one principal can never
// read or change another's tasks.
type Tasks interface {
	CreateTask(ctx context.Context, t domain.Task) error
	GetTask(ctx context.Context, ownerID, id string) (domain.Task, error)

	// UpdateTask replaces the mutable fields of an existing task.
	UpdateTask(ctx context.Context, t domain.Task) error
	DeleteTask(ctx context.Context, ownerID, id string) error

	// ListTasks returns the owner's tasks matching filter, newest first.
	ListTasks(ctx context.Context, ownerID string, filter TaskFilter) ([]domain.Task, error)
}

// TaskFilter narrows ListTasks. The zero value matches everything.
type TaskFilter struct {
	Status       domain.TaskStatus
	HighPriority bool      // HIGH or URGENT only
	OverdueAt    time.Time // incomplete tasks due before this instant
	Search       string    // substring of title or description
}
