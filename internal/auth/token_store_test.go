package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracker/internal/cache"
)

// Without redis the store degrades to "nothing stored": writes succeed,
// refresh tokens are never found and nothing is blacklisted.
func TestTokenStore_DisabledCache(t *testing.T) {
	store := NewTokenStore(cache.Disabled())
	ctx := context.Background()

	require.NoError(t, store.StoreRefreshToken(ctx, "jti", 1, time.Hour))
	_, err := store.GetRefreshToken(ctx, "jti")
	assert.Error(t, err)
	assert.NoError(t, store.DeleteRefreshToken(ctx, "jti"))

	require.NoError(t, store.BlacklistAccessToken(ctx, "access", time.Minute))
	revoked, err := store.IsAccessTokenBlacklisted(ctx, "access")
	require.NoError(t, err)
	assert.False(t, revoked)

	assert.NoError(t, store.BlacklistAccessToken(ctx, "expired", -time.Second))
}

func TestTokenStore_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := cache.New(mr.Addr(), "", 0, "tracker")
	t.Cleanup(func() { _ = client.Close() })
	store := NewTokenStore(client)
	ctx := context.Background()

	t.Run("refresh token round trip", func(t *testing.T) {
		require.NoError(t, store.StoreRefreshToken(ctx, "jti", 42, time.Hour))
		assert.Equal(t, time.Hour, mr.TTL("tracker:refresh_token:jti"))

		userID, err := store.GetRefreshToken(ctx, "jti")
		require.NoError(t, err)
		assert.Equal(t, uint(42), userID)

		require.NoError(t, store.DeleteRefreshToken(ctx, "jti"))
		_, err = store.GetRefreshToken(ctx, "jti")
		assert.Error(t, err)
	})

	t.Run("refresh token expires", func(t *testing.T) {
		require.NoError(t, store.StoreRefreshToken(ctx, "short", 7, time.Minute))
		mr.FastForward(2 * time.Minute)
		_, err := store.GetRefreshToken(ctx, "short")
		assert.Error(t, err)
	})

	t.Run("corrupt refresh entry", func(t *testing.T) {
		require.NoError(t, mr.Set("tracker:refresh_token:zero", `{"user_id":0}`))
		_, err := store.GetRefreshToken(ctx, "zero")
		assert.Error(t, err)
	})

	t.Run("blacklist until expiry", func(t *testing.T) {
		require.NoError(t, store.BlacklistAccessToken(ctx, "access", time.Minute))
		revoked, err := store.IsAccessTokenBlacklisted(ctx, "access")
		require.NoError(t, err)
		assert.True(t, revoked)

		revoked, err = store.IsAccessTokenBlacklisted(ctx, "other")
		require.NoError(t, err)
		assert.False(t, revoked)

		mr.FastForward(2 * time.Minute)
		revoked, err = store.IsAccessTokenBlacklisted(ctx, "access")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("unreachable blacklist fails open", func(t *testing.T) {
		require.NoError(t, store.BlacklistAccessToken(ctx, "revoked", time.Minute))
		mr.SetError("ERR redis unavailable")
		defer mr.SetError("")

		revoked, err := store.IsAccessTokenBlacklisted(ctx, "revoked")
		require.NoError(t, err)
		assert.False(t, revoked)
	})
}
