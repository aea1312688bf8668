package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/taskapi/internal/taskapi/store"
	"github.com/aussiebroadwan/taskapi/internal/taskapi/store/cache"
	"github.com/aussiebroadwan/taskapi/internal/taskapi/store/drivers/sqlite"
	"github.com/aussiebroadwan/taskapi/pkg/cryptox"
	"github.com/aussiebroadwan/taskapi/pkg/jwtx"
)

const testSecret = "service-test-secret-0123456789abcdef0123"

type fixture struct {
	store store.Store
	auth  *AuthService
	users *UserService
	tasks *TaskService
	codec *jwtx.Codec
	now   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })

	codec, err := jwtx.NewCodec(jwtx.CodecConfig{Secret: testSecret})
	require.NoError(t, err)

	cached := cache.New(s, 16, time.Minute)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	return &fixture{
		store: cached,
		auth: &AuthService{
			Store:  cached,
			Hasher: &cryptox.PasswordHasher{Algorithm: cryptox.Bcrypt, BcryptCost: 4},
			Tokens: codec,
			Now:    clock,
		},
		users: &UserService{Store: cached},
		tasks: &TaskService{Store: cached, Now: clock},
		codec: codec,
		now:   now,
	}
}

func (f *fixture) register(t *testing.T, name, email, password string) string {
	t.Helper()

	p, err := f.auth.Register(context.Background(), name, email, password)
	require.NoError(t, err)
	return p.ID
}
