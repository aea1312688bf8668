//go:build e2e

package taskapi_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/aussiebroadwan/taskapi/pkg/taskclient"
)

/*
 * Container setup and shared helpers for the task API end-to-end tests.
 * The image is built once in TestMain; every test gets a fresh container
 * with the demo accounts seeded.
 */

const (
	testImageName = "taskapi-test:latest"

	testSecret    = "e2e-secret-0123456789abcdef0123456789abcdef"
	adminEmail    = "admin@example.com"
	adminPassword = "admin123"
	userEmail     = "john@example.com"
	userPassword  = "password123"
)

// TestMain builds the Docker image once before all tests and removes it after.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Task API Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Task API Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	cmd := exec.CommandContext(context.Background(), "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/taskapi/Dockerfile",
		"../../../")
	cmd.Stdout = os.Stdout
	return cmd.Run()
}

func cleanupDockerImage() {
	cmd := exec.CommandContext(context.Background(), "docker", "rmi", "-f", testImageName)
	_ = cmd.Run()
}

// setupContainer starts the API with relaxed rate limits and returns a client
// pointed at it. The container is terminated when the test finishes.
func setupContainer(t *testing.T) *taskclient.Client {
	t.Helper()
	return startContainer(t, map[string]string{
		"RATE_LIMIT_CREDENTIAL_REQUESTS": "1000",
		"RATE_LIMIT_CREDENTIAL_BURST":    "1000",
		"RATE_LIMIT_API_REQUESTS":        "1000",
		"RATE_LIMIT_API_BURST":           "1000",
	})
}

// setupContainerWithDefaultRateLimits keeps the production limits so the
// limiter itself can be exercised.
func setupContainerWithDefaultRateLimits(t *testing.T) *taskclient.Client {
	t.Helper()
	return startContainer(t, nil)
}

func startContainer(t *testing.T, extraEnv map[string]string) *taskclient.Client {
	t.Helper()
	ctx := context.Background()

	env := map[string]string{
		"AUTH_JWT_SECRET": testSecret,
		"ENV":             "test",
		"LOG_LEVEL":       "info",
		"LOG_FORMAT":      "json",
	}
	for k, v := range extraEnv {
		env[k] = v
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        testImageName,
			Cmd:          []string{"serve", "--seed"},
			ExposedPorts: []string{"8080/tcp"},
			Env:          env,
			WaitingFor: wait.ForHTTP("/livez").
				WithPort("8080/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	return taskclient.NewClient(fmt.Sprintf("http://%s:%s", host, mappedPort.Port()))
}

// login authenticates and fails the test on error.
func login(t *testing.T, client *taskclient.Client, email, password string) *taskclient.Session {
	t.Helper()
	session, err := client.Login(t.Context(), email, password)
	require.NoError(t, err, "login as %s should succeed", email)
	require.NotEmpty(t, session.Token())
	return session
}

// register creates an account and logs into it.
func register(t *testing.T, client *taskclient.Client, name, email, password string) *taskclient.Session {
	t.Helper()
	_, err := client.Register(t.Context(), taskclient.RegisterRequest{Name: name, Email: email, Password: password})
	require.NoError(t, err, "register %s should succeed", email)
	return login(t, client, email, password)
}

// assertStatus checks that err is an API error with the given HTTP status.
func assertStatus(t *testing.T, err error, status int) {
	t.Helper()
	var apiErr *taskclient.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode, "unexpected status: %v", err)
}
