package taskclient

import (
	"context"
	"net/http"
	"net/url"
)

// ListUsers returns every account. Requires the ADMIN role.
func (s *Session) ListUsers(ctx context.Context) ([]UserResponse, error) {
	resp, err := s.do(ctx, http.MethodGet, "/api/admin/users", nil)
	if err != nil {
		return nil, err
	}

	var out []UserResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out, nil
}

// Stats returns account statistics. Requires the ADMIN role.
func (s *Session) Stats(ctx context.Context) (*StatsResponse, error) {
	resp, err := s.do(ctx, http.MethodGet, "/api/admin/stats", nil)
	if err != nil {
		return nil, err
	}

	var out StatsResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ToggleUser flips an account between enabled and disabled.
func (s *Session) ToggleUser(ctx context.Context, id string) (*UserResponse, error) {
	return s.patchUser(ctx, "/api/admin/users/"+url.PathEscape(id)+"/toggle", nil)
}

// SetUserRole assigns role to an account.
func (s *Session) SetUserRole(ctx context.Context, id, role string) (*UserResponse, error) {
	return s.patchUser(ctx, "/api/admin/users/"+url.PathEscape(id)+"/role", RoleRequest{Role: role})
}

func (s *Session) patchUser(ctx context.Context, path string, body any) (*UserResponse, error) {
	resp, err := s.do(ctx, http.MethodPatch, path, body)
	if err != nil {
		return nil, err
	}

	var out UserResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
