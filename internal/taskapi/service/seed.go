package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/taskapi/internal/taskapi/domain"
	"github.com/aussiebroadwan/taskapi/pkg/slogx"
)

// DemoAccount is a principal created by Seed.
type DemoAccount struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// DemoAccounts are the accounts the seed command creates.
var DemoAccounts = []DemoAccount{
	{Name: "Admin User", Email: "admin@example.com", Password: "admin123", Role: domain.RoleAdmin},
	{Name: "John Doe", Email: "john@example.com", Password: "password123", Role: domain.RoleUser},
}

// Seed registers each account that does not exist yet and elevates its role
// when needed. It is safe to run repeatedly and reports how many accounts it
// created.
func Seed(ctx context.Context, auth *AuthService, users *UserService, accounts []DemoAccount) (int, error) {
	l := slogx.FromContext(ctx)

	created := 0
	for _, a := range accounts {
		p, err := auth.Register(ctx, a.Name, a.Email, a.Password)
		switch {
		case errors.Is(err, ErrDuplicateRegistration):
			l.Debug("seed account exists", slog.String("email", a.Email))
			continue
		case err != nil:
			return created, fmt.Errorf("seed %s: %w", a.Email, err)
		}
		created++

		if a.Role != "" && a.Role != p.Role {
			if _, err := users.SetRole(ctx, p.ID, a.Role); err != nil {
				return created, fmt.Errorf("seed %s: %w", a.Email, err)
			}
		}
		l.Info("seed account created", slog.String("email", a.Email), slog.String("role", string(a.Role)))
	}
	return created, nil
}
