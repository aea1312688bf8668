package gen

import (
	"context"
	"time"
)

const principalColumns = `id, name, email, password_hash, role, enabled, account_non_expired,
    account_non_locked, credentials_non_expired, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPrincipal(row rowScanner) (Principal, error) {
	var p Principal
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Email,
		&p.PasswordHash,
		&p.Role,
		&p.Enabled,
		&p.AccountNonExpired,
		&p.AccountNonLocked,
		&p.CredentialsNonExpired,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

const getPrincipalByEmail = `SELECT ` + principalColumns + `
FROM principals
WHERE email = ?1`

func (q *Queries) GetPrincipalByEmail(ctx context.Context, email string) (Principal, error) {
	return scanPrincipal(q.db.QueryRowContext(ctx, getPrincipalByEmail, email))
}

const getPrincipalByID = `SELECT ` + principalColumns + `
FROM principals
WHERE id = ?1`

func (q *Queries) GetPrincipalByID(ctx context.Context, id string) (Principal, error) {
	return scanPrincipal(q.db.QueryRowContext(ctx, getPrincipalByID, id))
}

const principalEmailExists = `SELECT EXISTS (SELECT 1 FROM principals WHERE email = ?1)`

func (q *Queries) PrincipalEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx, principalEmailExists, email).Scan(&exists)
	return exists, err
}

const upsertPrincipal = `INSERT INTO principals (
    id, name, email, password_hash, role, enabled, account_non_expired,
    account_non_locked, credentials_non_expired, created_at, updated_at
) VALUES (?1, ?2, ?3, ?4, ?5, ?6, ?7, ?8, ?9, ?10, ?10)
ON CONFLICT (id) DO UPDATE SET
    name                    = excluded.name,
    email                   = excluded.email,
    password_hash           = excluded.password_hash,
    role                    = excluded.role,
    enabled                 = excluded.enabled,
    account_non_expired     = excluded.account_non_expired,
    account_non_locked      = excluded.account_non_locked,
    credentials_non_expired = excluded.credentials_non_expired,
    updated_at              = excluded.updated_at`

type UpsertPrincipalParams struct {
	ID                    string
	Name                  string
	Email                 string
	PasswordHash          string
	Role                  string
	Enabled               bool
	AccountNonExpired     bool
	AccountNonLocked      bool
	CredentialsNonExpired bool
	Now                   time.Time
}

func (q *Queries) UpsertPrincipal(ctx context.Context, arg UpsertPrincipalParams) error {
	_, err := q.db.ExecContext(ctx, upsertPrincipal,
		arg.ID,
		arg.Name,
		arg.Email,
		arg.PasswordHash,
		arg.Role,
		arg.Enabled,
		arg.AccountNonExpired,
		arg.AccountNonLocked,
		arg.CredentialsNonExpired,
		arg.Now,
	)
	return err
}

const countEnabledPrincipals = `SELECT COUNT(*) FROM principals WHERE enabled = 1`

func (q *Queries) CountEnabledPrincipals(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countEnabledPrincipals).Scan(&count)
	return count, err
}

const listPrincipals = `SELECT ` + principalColumns + `
FROM principals
ORDER BY created_at, id`

func (q *Queries) ListPrincipals(ctx context.Context) ([]Principal, error) {
	return q.queryPrincipals(ctx, listPrincipals)
}

const listPrincipalsByRole = `SELECT ` + principalColumns + `
FROM principals
WHERE role = ?1
ORDER BY created_at, id`

func (q *Queries) ListPrincipalsByRole(ctx context.Context, role string) ([]Principal, error) {
	return q.queryPrincipals(ctx, listPrincipalsByRole, role)
}

func (q *Queries) queryPrincipals(ctx context.Context, query string, args ...any) ([]Principal, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Principal
	for rows.Next() {
		p, err := scanPrincipal(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return items, rows.Err()
}
