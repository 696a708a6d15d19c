package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())

	return New(client, nil), mr
}

func TestGetOrSet(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	calls := 0
	factory := func(context.Context) (payload, error) {
		calls++
		return payload{Name: "a", Count: calls}, nil
	}

	t.Run("computes on miss", func(t *testing.T) {
		v, err := GetOrSet(ctx, c, "projects:id:1", time.Minute, factory)
		require.NoError(t, err)
		assert.Equal(t, payload{Name: "a", Count: 1}, v)
		assert.True(t, mr.Exists("projects:id:1"))
		assert.Equal(t, time.Minute, mr.TTL("projects:id:1"))
	})

	t.Run("serves hits from cache", func(t *testing.T) {
		v, err := GetOrSet(ctx, c, "projects:id:1", time.Minute, factory)
		require.NoError(t, err)
		assert.Equal(t, 1, v.Count)
		assert.Equal(t, 1, calls)
	})

	t.Run("does not cache factory errors", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := GetOrSet(ctx, c, "projects:id:2", time.Minute, func(context.Context) (payload, error) {
			return payload{}, boom
		})
		assert.ErrorIs(t, err, boom)
		assert.False(t, mr.Exists("projects:id:2"))
	})

	t.Run("recovers from corrupt entries", func(t *testing.T) {
		require.NoError(t, mr.Set("projects:id:3", "{broken"))
		v, err := GetOrSet(ctx, c, "projects:id:3", time.Minute, factory)
		require.NoError(t, err)
		assert.Equal(t, 2, v.Count)
	})
}

func TestGetMiss(t *testing.T) {
	c, _ := setupTestCache(t)
	_, ok, err := Get[payload](context.Background(), c, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetDefaultTTL(t *testing.T) {
	c, mr := setupTestCache(t)
	require.NoError(t, c.Set(context.Background(), "k", payload{Name: "x"}, 0))
	assert.Equal(t, DefaultTTL, mr.TTL("k"))
}

func TestInvalidate(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	for _, k := range []string{"projects:id:1", "projects:slug:shop", "projects:list:1:10", "other:key"} {
		require.NoError(t, c.Set(ctx, k, payload{Name: k}, time.Minute))
	}

	require.NoError(t, c.Invalidate(ctx, "projects", "1"))

	assert.False(t, mr.Exists("projects:id:1"))
	assert.False(t, mr.Exists("projects:slug:shop"))
	assert.False(t, mr.Exists("projects:list:1:10"))
	assert.True(t, mr.Exists("other:key"))
}

func TestDeleteAndFlush(t *testing.T) {
	c, mr := setupTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", 1, time.Minute))
	require.NoError(t, c.Set(ctx, "b", 2, time.Minute))
	require.NoError(t, c.Delete(ctx, "a"))
	assert.False(t, mr.Exists("a"))

	require.NoError(t, c.Flush(ctx))
	assert.False(t, mr.Exists("b"))
}
