package jwtx_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/taskapi/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestNewClaims(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	c := jwtx.NewClaims("john@example.com", now, time.Hour)

	require.Equal(t, "john@example.com", c.Subject)
	require.Equal(t, "john@example.com", c.Email)
	require.True(t, c.IssuedAt.Time.Equal(now))
	require.True(t, c.ExpiresAt.Time.Equal(now.Add(time.Hour)))
	require.Nil(t, c.NotBefore)
	require.Empty(t, c.ID)
}

func TestIsExpired(t *testing.T) {
	now := time.Now().UTC()

	t.Run("valid token", func(t *testing.T) {
		c := jwtx.NewClaims("a@example.com", now, time.Minute)
		require.False(t, jwtx.IsExpired(&c, now))
	})

	t.Run("expired token", func(t *testing.T) {
		c := jwtx.NewClaims("a@example.com", now.Add(-2*time.Minute), time.Minute)
		require.True(t, jwtx.IsExpired(&c, now))
	})

	t.Run("zero lifetime", func(t *testing.T) {
		c := jwtx.NewClaims("a@example.com", now, 0)
		require.True(t, jwtx.IsExpired(&c, now))
	})
}
