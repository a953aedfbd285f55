package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RoySYH/RAG-based-Agentic-AI/internal/appconfig"
)

func newTestCache(t *testing.T) (*QueryCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewQueryCache(client, time.Minute, "")
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestQueryCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "gemini-1.5-flash", "How to book a meeting room?")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "gemini-1.5-flash", "How to book a meeting room?", Entry{
		Question: "How to book a meeting room?",
		Answer:   "Use the booking system.",
		Route:    "retrieval",
	}))

	entry, ok, err := c.Get(ctx, "gemini-1.5-flash", "How to book a meeting room?")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Use the booking system.", entry.Answer)
	assert.False(t, entry.CachedAt.IsZero())

	_, ok, err = c.Get(ctx, "other-model", "How to book a meeting room?")
	require.NoError(t, err)
	assert.False(t, ok, "a different model must not share cache entries")
}

func TestQueryCacheTTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "m", "q", Entry{Answer: "a"}))
	assert.Equal(t, time.Minute, mr.TTL(c.Key("m", "q")))

	mr.FastForward(2 * time.Minute)
	_, ok, err := c.Get(ctx, "m", "q")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestQueryCacheCorruptEntryIsDropped(t *testing.T) {
	c, mr := newTestCache(t)
	key := c.Key("m", "q")
	require.NoError(t, mr.Set(key, "{not json"))

	_, ok, err := c.Get(context.Background(), "m", "q")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists(key))
}

func TestQueryCacheClear(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, mr.Set("unrelated", "keep"))
	require.NoError(t, c.Set(ctx, "m", "q1", Entry{Answer: "a"}))
	require.NoError(t, c.Set(ctx, "m", "q2", Entry{Answer: "b"}))

	deleted, err := c.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)
	assert.True(t, mr.Exists("unrelated"))
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClient(context.Background(), appconfig.Redis{Addr: mr.Addr()})
	require.NoError(t, err)
	require.NoError(t, client.Close())

	addr := mr.Addr()
	mr.Close()
	_, err = NewClient(context.Background(), appconfig.Redis{Addr: addr})
	assert.Error(t, err)
}
