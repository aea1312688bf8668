package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/taskapi/internal/taskapi/domain"
	"github.com/aussiebroadwan/taskapi/internal/taskapi/store"
	"github.com/aussiebroadwan/taskapi/pkg/slogx"
)

// UserService backs the admin endpoints and the users CLI.
type UserService struct {
	Store store.Store
}

// GetUserByID fetches a principal by id.
func (s *UserService) GetUserByID(ctx context.Context, id string) (domain.Principal, error) {
	id, err := parseID(id)
	if err != nil {
		return domain.Principal{}, err
	}
	return s.Store.Principals().GetPrincipalByID(ctx, id)
}

// GetUserByEmail fetches a principal by its exact email.
func (s *UserService) GetUserByEmail(ctx context.Context, email string) (domain.Principal, error) {
	return s.Store.Principals().FindPrincipalByEmail(ctx, email)
}

// ListUsers returns every principal, or only those holding role when it is
// non-empty.
func (s *UserService) ListUsers(ctx context.Context, role domain.Role) ([]domain.Principal, error) {
	if role != "" {
		return s.Store.Principals().ListPrincipalsByRole(ctx, role)
	}
	return s.Store.Principals().ListPrincipals(ctx)
}

func (s *UserService) CountEnabled(ctx context.Context) (int, error) {
	return s.Store.Principals().CountEnabledPrincipals(ctx)
}

// ToggleStatus flips the Enabled flag of principal id.
func (s *UserService) ToggleStatus(ctx context.Context, id string) (domain.Principal, error) {
	return s.update(ctx, id, func(p *domain.Principal) {
		p.Enabled = !p.Enabled
	})
}

// SetRole assigns role to principal id. role is matched case-insensitively.
func (s *UserService) SetRole(ctx context.Context, id string, role domain.Role) (domain.Principal, error) {
	parsed, err := domain.ParseRole(string(role))
	if err != nil {
		return domain.Principal{}, err
	}
	return s.update(ctx, id, func(p *domain.Principal) {
		p.Role = parsed
	})
}

func (s *UserService) update(ctx context.Context, id string, mutate func(*domain.Principal)) (domain.Principal, error) {
	id, err := parseID(id)
	if err != nil {
		return domain.Principal{}, err
	}

	var out domain.Principal
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		p, err := tx.Principals().GetPrincipalByID(ctx, id)
		if err != nil {
			return err
		}
		mutate(&p)

		out, err = tx.Principals().SavePrincipal(ctx, p)
		if err != nil {
			return fmt.Errorf("save principal: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Principal{}, err
	}

	slogx.FromContext(ctx).Info("principal updated",
		slog.String("principal_id", out.ID),
		slog.String("role", string(out.Role)),
		slog.Bool("enabled", out.Enabled),
	)
	return out, nil
}
