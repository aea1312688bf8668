package taskclient

import (
	"context"
	"net/http"
	"net/url"
)

// GetLiveness checks if the service is alive.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/livez")
}

// CheckToken asks the liveness probe whether token is well formed, correctly
// signed and unexpired. The answer is in HealthResponse.Token.
func (c *Client) CheckToken(ctx context.Context, token string) (*HealthResponse, error) {
	return c.health(ctx, "/livez?token="+url.QueryEscape(token))
}

// GetReadiness checks if the service is ready.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

// GetServiceHealth calls the public task service health endpoint.
func (c *Client) GetServiceHealth(ctx context.Context) (*ServiceHealthResponse, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/tasks/health", "", nil)
	if err != nil {
		return nil, err
	}

	var health ServiceHealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

func (c *Client) health(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.do(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}
