package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0, "tracker")
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestDisabledClientIsAlwaysEmpty(t *testing.T) {
	ctx := context.Background()

	for name, c := range map[string]*Client{"disabled": Disabled(), "nil": nil} {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
			data, err := c.Get(ctx, "k")
			assert.NoError(t, err)
			assert.Nil(t, data)

			var out map[string]string
			assert.False(t, c.GetJSON(ctx, "k", &out))
			assert.NoError(t, c.SetJSON(ctx, "k", map[string]string{"a": "b"}, time.Minute))
			assert.NoError(t, c.Delete(ctx, "k", "j"))
			assert.NoError(t, c.Ping(ctx))
			assert.NoError(t, c.Close())
		})
	}
}

func TestKeyNamespace(t *testing.T) {
	assert.Equal(t, "project:1", (&Client{}).key("project:1"))
	assert.Equal(t, "tracker:project:1", (&Client{namespace: "tracker"}).key("project:1"))
}

func TestSetJSON_RejectsUnencodable(t *testing.T) {
	err := Disabled().SetJSON(context.Background(), "k", make(chan int), time.Minute)
	assert.Error(t, err)
}

func TestRedisClient_RoundTrip(t *testing.T) {
	c, mr := newRedisClient(t)
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))
	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	stored, err := mr.Get("tracker:k")
	require.NoError(t, err)
	assert.Equal(t, "v", stored)
	assert.Equal(t, time.Minute, mr.TTL("tracker:k"))

	data, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), data)

	require.NoError(t, c.SetJSON(ctx, "j", map[string]string{"a": "b"}, time.Minute))
	var out map[string]string
	require.True(t, c.GetJSON(ctx, "j", &out))
	assert.Equal(t, "b", out["a"])

	require.NoError(t, c.Delete(ctx, "k"))
	require.NoError(t, c.Invalidate(ctx, "j"))
	assert.False(t, mr.Exists("tracker:k"))
	assert.False(t, mr.Exists("tracker:j"))

	data, err = c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, data)

	require.NoError(t, c.Set(ctx, "short", []byte("v"), time.Second))
	mr.FastForward(2 * time.Second)
	assert.False(t, c.GetJSON(ctx, "short", &out))
}

func TestRedisClient_UndecodableEntryIsMiss(t *testing.T) {
	c, mr := newRedisClient(t)
	require.NoError(t, mr.Set("tracker:bad", "{not json"))

	var out map[string]string
	assert.False(t, c.GetJSON(context.Background(), "bad", &out))
}

func TestRedisClient_FailSafeExceptInvalidate(t *testing.T) {
	c, mr := newRedisClient(t)
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

	mr.SetError("ERR redis unavailable")
	defer mr.SetError("")

	data, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, data)
	assert.NoError(t, c.Set(ctx, "k", []byte("w"), time.Minute))
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.Error(t, c.Invalidate(ctx, "k"))
	assert.Error(t, c.Ping(ctx))
}
