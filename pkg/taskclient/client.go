// Package taskclient is a Go client for the task management API.
//
// A Client performs the unauthenticated calls (register, login, health).
// Logging in returns a Session that carries the bearer token for every
// other call.
package taskclient

import (
	"context"
	"net/http"
	"strings"
	"time"
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/auth/register", "", req)
	if err != nil {
		return nil, err
	}

	var out AuthResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a Session.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/auth/login", "", LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	var out AuthResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return newSession(c, &out), nil
}

// NewSession wraps a token obtained elsewhere.
func (c *Client) NewSession(token string) *Session {
	return newSession(c, &AuthResponse{Token: token, Type: TokenType})
}

// Logout acknowledges a client-side logout. Tokens stay valid until they
// expire.
func (c *Client) Logout(ctx context.Context) (*AuthResponse, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/auth/logout", "", nil)
	if err != nil {
		return nil, err
	}

	var out AuthResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
