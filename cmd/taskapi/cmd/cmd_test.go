package cmd

import (
	"bytes"
	"encoding/base64"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/taskapi/internal/taskapi/app"
	"github.com/aussiebroadwan/taskapi/internal/taskapi/domain"
	"github.com/aussiebroadwan/taskapi/internal/taskapi/service"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestGenSecret(t *testing.T) {
	out, err := execute(t, "gen-secret", "--bytes", "32")
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Len(t, raw, 32)

	_, err = execute(t, "gen-secret", "--bytes", "8")
	assert.ErrorContains(t, err, "at least")
}

func TestSeedAndPromote(t *testing.T) {
	t.Setenv("AUTH_PASSWORD_HASHER", "bcrypt")
	t.Setenv("LOG_LEVEL", "error")
	db := filepath.Join(t.TempDir(), "cli.db")

	_, err := execute(t, "--db", db, "migrate")
	require.NoError(t, err)

	_, err = execute(t, "--db", db, "seed")
	require.NoError(t, err)
	_, err = execute(t, "--db", db, "seed")
	require.NoError(t, err)

	_, err = execute(t, "--db", db, "users", "promote", "john@example.com")
	require.NoError(t, err)
	_, err = execute(t, "--db", db, "users", "toggle", "john@example.com")
	require.NoError(t, err)

	_, err = execute(t, "--db", db, "users", "promote", "nobody@example.com")
	require.Error(t, err)

	cfg.DatabaseFile = db
	application, err := app.New(cfg)
	require.NoError(t, err)
	defer func() { _ = application.Close() }()

	admins, err := application.UserService.ListUsers(t.Context(), domain.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, admins, len(service.DemoAccounts))

	john, err := application.UserService.GetUserByEmail(t.Context(), "john@example.com")
	require.NoError(t, err)
	assert.False(t, john.Enabled)
}
