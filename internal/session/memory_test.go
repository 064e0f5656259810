package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTokenRepository(t *testing.T) {
	repo := NewMemoryTokenRepository()
	ctx := context.Background()

	t.Run("SaveAndResolve", func(t *testing.T) {
		require.NoError(t, repo.SaveToken(ctx, "tok-1", 42, time.Hour))

		userID, err := repo.ResolveToken(ctx, "tok-1")
		require.NoError(t, err)
		assert.Equal(t, int64(42), userID)
	})

	t.Run("ResolveUnknownToken", func(t *testing.T) {
		userID, err := repo.ResolveToken(ctx, "missing")
		require.NoError(t, err)
		assert.Zero(t, userID)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		require.NoError(t, repo.SaveToken(ctx, "tok-expired", 7, -time.Minute))

		userID, err := repo.ResolveToken(ctx, "tok-expired")
		require.NoError(t, err)
		assert.Zero(t, userID)
	})

	t.Run("Revoke", func(t *testing.T) {
		require.NoError(t, repo.SaveToken(ctx, "tok-2", 9, time.Hour))
		require.NoError(t, repo.RevokeToken(ctx, "tok-2"))

		userID, err := repo.ResolveToken(ctx, "tok-2")
		require.NoError(t, err)
		assert.Zero(t, userID)
	})

	t.Run("RateLimit", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			allowed, err := repo.CheckRateLimit(ctx, "k", 3, time.Minute)
			require.NoError(t, err)
			assert.True(t, allowed)
		}

		allowed, err := repo.CheckRateLimit(ctx, "k", 3, time.Minute)
		require.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("RateLimitWindowReset", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			repo.CheckRateLimit(ctx, "reset", 2, -time.Minute)
		}
		// просроченное окно начинается заново
		allowed, err := repo.CheckRateLimit(ctx, "reset", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	})
}
