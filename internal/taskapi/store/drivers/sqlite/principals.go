package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/taskapi/internal/taskapi/domain"
	"github.com/aussiebroadwan/taskapi/internal/taskapi/store/drivers/sqlite/gen"
)

type principalsRepo struct {
	q *gen.Queries
}

func (r *principalsRepo) FindPrincipalByEmail(ctx context.Context, email string) (domain.Principal, error) {
	row, err := r.q.GetPrincipalByEmail(ctx, email)
	if err != nil {
		return domain.Principal{}, mapNotFound(err)
	}
	return mapPrincipal(row), nil
}

func (r *principalsRepo) ExistsPrincipalByEmail(ctx context.Context, email string) (bool, error) {
	return r.q.PrincipalEmailExists(ctx, email)
}

func (r *principalsRepo) SavePrincipal(ctx context.Context, p domain.Principal) (domain.Principal, error) {
	err := r.q.UpsertPrincipal(ctx, gen.UpsertPrincipalParams{
		ID:                    p.ID,
		Name:                  p.Name,
		Email:                 p.Email,
		PasswordHash:          p.PasswordHash,
		Role:                  string(p.Role),
		Enabled:               p.Enabled,
		AccountNonExpired:     p.AccountNonExpired,
		AccountNonLocked:      p.AccountNonLocked,
		CredentialsNonExpired: p.CredentialsNonExpired,
		Now:                   time.Now().UTC(),
	})
	if err != nil {
		return domain.Principal{}, mapConstraint(err)
	}
	return r.GetPrincipalByID(ctx, p.ID)
}

func (r *principalsRepo) CountEnabledPrincipals(ctx context.Context) (int, error) {
	n, err := r.q.CountEnabledPrincipals(ctx)
	return int(n), err
}

func (r *principalsRepo) GetPrincipalByID(ctx context.Context, id string) (domain.Principal, error) {
	row, err := r.q.GetPrincipalByID(ctx, id)
	if err != nil {
		return domain.Principal{}, mapNotFound(err)
	}
	return mapPrincipal(row), nil
}

func (r *principalsRepo) ListPrincipals(ctx context.Context) ([]domain.Principal, error) {
	rows, err := r.q.ListPrincipals(ctx)
	if err != nil {
		return nil, err
	}
	return mapPrincipals(rows), nil
}

func (r *principalsRepo) ListPrincipalsByRole(ctx context.Context, role domain.Role) ([]domain.Principal, error) {
	rows, err := r.q.ListPrincipalsByRole(ctx, string(role))
	if err != nil {
		return nil, err
	}
	return mapPrincipals(rows), nil
}

func mapPrincipals(rows []gen.Principal) []domain.Principal {
	out := make([]domain.Principal, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapPrincipal(row))
	}
	return out
}
