package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisTokenRepository(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	repo := NewRedisTokenRepository(client)
	ctx := context.Background()

	t.Run("SaveAndResolve", func(t *testing.T) {
		err := repo.SaveToken(ctx, "tok-1", 42, time.Hour)
		require.NoError(t, err)

		userID, err := repo.ResolveToken(ctx, "tok-1")
		require.NoError(t, err)
		assert.Equal(t, int64(42), userID)
	})

	t.Run("ResolveUnknownToken", func(t *testing.T) {
		userID, err := repo.ResolveToken(ctx, "missing")
		require.NoError(t, err)
		assert.Zero(t, userID)
	})

	t.Run("TokenExpires", func(t *testing.T) {
		err := repo.SaveToken(ctx, "tok-ttl", 7, time.Minute)
		require.NoError(t, err)

		s.FastForward(2 * time.Minute)

		userID, err := repo.ResolveToken(ctx, "tok-ttl")
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
			allowed, err := repo.CheckRateLimit(ctx, "login:a@b.c", 3, time.Minute)
			require.NoError(t, err)
			assert.True(t, allowed)
		}

		allowed, err := repo.CheckRateLimit(ctx, "login:a@b.c", 3, time.Minute)
		require.NoError(t, err)
		assert.False(t, allowed)

		// окно истекло, счетчик сбрасывается
		s.FastForward(2 * time.Minute)
		allowed, err = repo.CheckRateLimit(ctx, "login:a@b.c", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	})
}

func TestRedisTokenRepository_NilClient(t *testing.T) {
	repo := NewRedisTokenRepository(nil)
	ctx := context.Background()

	assert.Error(t, repo.SaveToken(ctx, "t", 1, time.Hour))
	_, err := repo.ResolveToken(ctx, "t")
	assert.Error(t, err)
}
