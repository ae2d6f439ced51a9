package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedPost struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

func useTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestGetSetJSON(t *testing.T) {
	useTestRedis(t)
	ctx := context.Background()

	var missing cachedPost
	found, err := GetJSON(ctx, PostKey(1), &missing)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, PostKey(1), cachedPost{ID: 1, Title: "hello"}, time.Minute))

	var got cachedPost
	found, err = GetJSON(ctx, PostKey(1), &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "hello", got.Title)
}

func TestCacheAside(t *testing.T) {
	useTestRedis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *cachedPost) func() error {
		return func() error {
			calls++
			*dest = cachedPost{ID: 7, Title: "from db"}
			return nil
		}
	}

	var first cachedPost
	require.NoError(t, CacheAside(ctx, PostKey(7), &first, time.Minute, fetch(&first)))
	assert.Equal(t, "from db", first.Title)
	assert.Equal(t, 1, calls)

	// Second read is served from the cache without hitting fetch.
	var second cachedPost
	require.NoError(t, CacheAside(ctx, PostKey(7), &second, time.Minute, fetch(&second)))
	assert.Equal(t, "from db", second.Title)
	assert.Equal(t, 1, calls)

	// After invalidation the fetch runs again.
	InvalidatePost(ctx, 7)
	var third cachedPost
	require.NoError(t, CacheAside(ctx, PostKey(7), &third, time.Minute, fetch(&third)))
	assert.Equal(t, 2, calls)
}

func TestCacheAside_TTLExpiry(t *testing.T) {
	mr := useTestRedis(t)
	ctx := context.Background()

	calls := 0
	var dest cachedPost
	fetch := func() error {
		calls++
		dest = cachedPost{ID: 1, Title: "fresh"}
		return nil
	}

	require.NoError(t, CacheAside(ctx, PostKey(1), &dest, time.Second, fetch))
	require.Equal(t, 1, calls)

	mr.FastForward(2 * time.Second)

	require.NoError(t, CacheAside(ctx, PostKey(1), &dest, time.Second, fetch))
	assert.Equal(t, 2, calls)
}

func TestCacheAside_UnreachableRedisFallsBackToFetch(t *testing.T) {
	mr := useTestRedis(t)
	ctx := context.Background()

	// The client stays set but its server is gone, as in a Redis outage
	// after startup. Reads must degrade to the fetch, not fail.
	mr.Close()

	calls := 0
	var dest cachedPost
	err := CacheAside(ctx, PostKey(3), &dest, time.Minute, func() error {
		calls++
		dest = cachedPost{ID: 3, Title: "from db"}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, "from db", dest.Title)
}

func TestCacheHelpers_NilClientFailOpen(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	found, err := GetJSON(ctx, "anything", &cachedPost{})
	assert.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, SetJSON(ctx, "anything", cachedPost{}, time.Minute))

	// CacheAside degrades to a plain fetch.
	var dest cachedPost
	err = CacheAside(ctx, "anything", &dest, time.Minute, func() error {
		dest = cachedPost{ID: 9, Title: "direct"}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "direct", dest.Title)
}
