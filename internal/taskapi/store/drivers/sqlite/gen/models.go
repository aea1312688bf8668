package gen

import (
	"database/sql"
	"time"
)

type Principal struct {
	ID                    string
	Name                  string
	Email                 string
	PasswordHash          string
	Role                  string
	Enabled               bool
	AccountNonExpired     bool
	AccountNonLocked      bool
	CredentialsNonExpired bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

type Task struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     sql.NullTime
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
