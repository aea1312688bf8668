//go:build e2e

package taskapi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/taskapi/pkg/taskclient"
)

func TestHealthEndpoints(t *testing.T) {
	client := setupContainer(t)

	live, err := client.GetLiveness(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "ok", live.Status)

	ready, err := client.GetReadiness(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "ok", ready.Status)

	svc, err := client.GetServiceHealth(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "UP", svc.Status)
}

func TestRegisterLoginProfileRefresh(t *testing.T) {
	client := setupContainer(t)

	resp, err := client.Register(t.Context(), taskclient.RegisterRequest{
		Name: "Jane Roe", Email: "jane@example.com", Password: "secret-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "User registered successfully. You can now login.", resp.Message)

	_, err = client.Register(t.Context(), taskclient.RegisterRequest{
		Name: "Jane Again", Email: "jane@example.com", Password: "secret-pass",
	})
	assertStatus(t, err, 400)

	session := login(t, client, "jane@example.com", "secret-pass")
	assert.Equal(t, "USER", session.User().Role)

	profile, err := session.Profile(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", profile.Email)

	checked, err := client.CheckToken(t.Context(), session.Token())
	require.NoError(t, err)
	assert.Equal(t, "valid", checked.Token)

	refreshed, err := session.Refresh(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "Token refreshed successfully", refreshed.Message)
	assert.Equal(t, refreshed.Token, session.Token())

	_, err = session.Logout(t.Context())
	require.NoError(t, err)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	client := setupContainer(t)

	_, err := client.Login(t.Context(), userEmail, "wrong-password")
	assertStatus(t, err, 400)

	_, err = client.Login(t.Context(), "ghost@example.com", userPassword)
	assertStatus(t, err, 400)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	client := setupContainer(t)

	_, err := client.NewSession("not-a-token").ListTasks(t.Context())
	assert.True(t, taskclient.IsUnauthorized(err), "got %v", err)

	user := login(t, client, userEmail, userPassword)
	_, err = user.ListUsers(t.Context())
	assert.True(t, taskclient.IsForbidden(err), "got %v", err)
}

func TestCredentialRateLimit(t *testing.T) {
	client := setupContainerWithDefaultRateLimits(t)

	var limited bool
	for range 20 {
		_, err := client.Login(t.Context(), userEmail, "wrong-password")
		var apiErr *taskclient.APIError
		if assert.ErrorAs(t, err, &apiErr) && apiErr.StatusCode == 429 {
			limited = true
			break
		}
	}
	assert.True(t, limited, "login should be rate limited")
}
