package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/taskapi/internal/taskapi/domain"
	"github.com/aussiebroadwan/taskapi/internal/taskapi/store"
	"github.com/aussiebroadwan/taskapi/pkg/cryptox"
	"github.com/aussiebroadwan/taskapi/pkg/httpx"
	"github.com/aussiebroadwan/taskapi/pkg/idx"
	"github.com/aussiebroadwan/taskapi/pkg/jwtx"
	"github.com/aussiebroadwan/taskapi/pkg/slogx"
)

var (
	ErrBadCredentials           = errors.New("invalid email or password")
	ErrAccountRestricted        = errors.New("account is disabled, locked or expired")
	ErrDuplicateRegistration    = errors.New("email already registered")
	ErrCurrentPasswordIncorrect = errors.New("current password is incorrect")
)

// AuthService authenticates principals and issues their tokens.
type AuthService struct {
	Store  store.Store
	Hasher *cryptox.PasswordHasher
	Tokens *jwtx.Codec

	// Now defaults to time.Now.
	Now func() time.Time

	decoyOnce sync.Once
	decoy     string
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Login checks email and password and returns the matching principal.
//
// Unknown emails and wrong passwords both yield ErrBadCredentials. A correct
// password on a disabled, locked or expired account yields
// ErrAccountRestricted.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Principal, error) {
	l := slogx.FromContext(ctx)

	p, err := s.Store.Principals().FindPrincipalByEmail(ctx, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		// Spend the same hashing time as a real check.
		s.Hasher.Verify(password, s.decoyHash())
		l.Info("login failed", slog.String("email", email), slog.String("reason", "unknown email"))
		return nil, ErrBadCredentials
	case err != nil:
		return nil, fmt.Errorf("find principal: %w", err)
	}

	if !s.Hasher.Verify(password, p.PasswordHash) {
		l.Info("login failed", slog.String("email", email), slog.String("reason", "password mismatch"))
		return nil, ErrBadCredentials
	}

	if !p.Active() {
		l.Info("login refused", slog.String("email", email), slog.String("reason", "account restricted"))
		return nil, ErrAccountRestricted
	}

	l.Info("login succeeded", slog.String("email", email), slog.String("principal_id", p.ID))
	return &p, nil
}

// Register creates a USER principal with every status flag set. It never
// issues a token.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.Principal, error) {
	exists, err := s.Store.Principals().ExistsPrincipalByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateRegistration, email)
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	p, err := s.Store.Principals().SavePrincipal(ctx, domain.Principal{
		ID:                    idx.New().String(),
		Name:                  name,
		Email:                 email,
		PasswordHash:          hash,
		Role:                  domain.RoleUser,
		Enabled:               true,
		AccountNonExpired:     true,
		AccountNonLocked:      true,
		CredentialsNonExpired: true,
	})
	switch {
	case errors.Is(err, store.ErrAlreadyExists):
		// Lost a race with a concurrent registration.
		return nil, fmt.Errorf("%w: %s", ErrDuplicateRegistration, email)
	case err != nil:
		return nil, fmt.Errorf("save principal: %w", err)
	}

	slogx.FromContext(ctx).Info("principal registered", slog.String("principal_id", p.ID), slog.String("email", email))
	return &p, nil
}

// IssueToken signs a token whose subject is the principal's email.
func (s *AuthService) IssueToken(_ context.Context, p *domain.Principal) (string, error) {
	return s.Tokens.Issue(p.Subject(), s.now())
}

// Refresh issues a new token for the principal the request was authenticated
// as. The presented token stays valid until it expires.
func (s *AuthService) Refresh(ctx context.Context, sc *httpx.SecurityContext) (string, error) {
	if sc == nil || sc.Principal == nil {
		return "", ErrBadCredentials
	}
	return s.Tokens.Issue(sc.Principal.Subject(), s.now())
}

// ChangePassword replaces the password of principalID after checking the
// current one.
func (s *AuthService) ChangePassword(ctx context.Context, principalID, current, next string) error {
	p, err := s.Store.Principals().GetPrincipalByID(ctx, principalID)
	if err != nil {
		return err
	}

	if !s.Hasher.Verify(current, p.PasswordHash) {
		return ErrCurrentPasswordIncorrect
	}

	hash, err := s.Hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	p.PasswordHash = hash

	if _, err := s.Store.Principals().SavePrincipal(ctx, p); err != nil {
		return fmt.Errorf("save principal: %w", err)
	}

	slogx.FromContext(ctx).Info("password changed", slog.String("principal_id", p.ID))
	return nil
}

func (s *AuthService) decoyHash() string {
	s.decoyOnce.Do(func() {
		s.decoy, _ = s.Hasher.Hash(idx.New().String())
	})
	return s.decoy
}

// PrincipalResolver looks principals up by token subject for the identity
// middleware.
type PrincipalResolver struct {
	Store store.Store
}

var _ httpx.PrincipalResolver = (*PrincipalResolver)(nil)

func (r *PrincipalResolver) ResolvePrincipal(ctx context.Context, subject string) (httpx.Principal, error) {
	p, err := r.Store.Principals().FindPrincipalByEmail(ctx, subject)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
