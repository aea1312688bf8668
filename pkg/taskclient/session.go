package taskclient

import (
	"context"
	"net/http"
	"sync"
)

// Session is an authenticated view of the API. Refresh swaps the held token
// in place, so a Session is safe for concurrent use.
type Session struct {
	client *Client

	mu    sync.RWMutex
	token string
	user  AuthResponse
}

func newSession(c *Client, auth *AuthResponse) *Session {
	user := *auth
	user.Token = ""
	return &Session{client: c, token: auth.Token, user: user}
}

// Token returns the bearer token currently held.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the account details returned at login.
func (s *Session) User() AuthResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	return s.client.do(ctx, method, path, s.Token(), body)
}

// Profile returns the authenticated principal.
func (s *Session) Profile(ctx context.Context) (*AuthResponse, error) {
	resp, err := s.do(ctx, http.MethodGet, "/api/auth/profile", nil)
	if err != nil {
		return nil, err
	}

	var out AuthResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh obtains a new token for the same subject and keeps it.
func (s *Session) Refresh(ctx context.Context) (*AuthResponse, error) {
	resp, err := s.do(ctx, http.MethodPost, "/api/auth/refresh", nil)
	if err != nil {
		return nil, err
	}

	var out AuthResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.token = out.Token
	s.mu.Unlock()
	return &out, nil
}

// ChangePassword replaces the session user's password. The current token
// remains valid.
func (s *Session) ChangePassword(ctx context.Context, current, next string) error {
	resp, err := s.do(ctx, http.MethodPost, "/api/auth/password", ChangePasswordRequest{
		CurrentPassword: current,
		NewPassword:     next,
	})
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// Logout acknowledges the logout and forgets the token.
func (s *Session) Logout(ctx context.Context) (*AuthResponse, error) {
	out, err := s.client.Logout(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return out, nil
}
