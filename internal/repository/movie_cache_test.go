package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Mrugank93/movies/internal/api/models"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}

	ctx := context.Background()
	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Skipf("redis container unavailable: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate redis container: %v", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)

	rdb := redis.NewClient(opts)
	t.Cleanup(func() { rdb.Close() })
	require.NoError(t, rdb.Ping(ctx).Err())
	return rdb
}

func TestMovieCache_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	rdb := newTestRedis(t)
	cache := NewMovieCache(rdb, time.Minute)

	_, found, err := cache.Get(ctx, "m1")
	require.NoError(t, err)
	assert.False(t, found)

	created := time.Date(2024, 5, 1, 12, 0, 0, 123, time.UTC)
	movie := &models.Movie{
		ID:        "m1",
		Title:     "Dune",
		Year:      2021,
		Image:     "data:image/png;base64,aGVsbG8=",
		CreatedAt: created,
		UpdatedAt: created,
	}
	require.NoError(t, cache.Set(ctx, movie))

	got, found, err := cache.Get(ctx, "m1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, movie.Title, got.Title)
	assert.Equal(t, movie.Year, got.Year)
	assert.Equal(t, movie.Image, got.Image)
	assert.True(t, movie.CreatedAt.Equal(got.CreatedAt))

	ttl, err := rdb.TTL(ctx, movieKey("m1")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	movie.Title = "Dune: Part One"
	require.NoError(t, cache.Set(ctx, movie))
	got, _, err = cache.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "Dune: Part One", got.Title)

	require.NoError(t, cache.Delete(ctx, "m1"))
	_, found, err = cache.Get(ctx, "m1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMovieCache_AddKeepsExistingCopy(t *testing.T) {
	ctx := context.Background()
	rdb := newTestRedis(t)
	cache := NewMovieCache(rdb, time.Minute)

	fresh := &models.Movie{ID: "m1", Title: "New", Year: 2021, Image: "data:image/png;base64,aGVsbG8="}
	stale := &models.Movie{ID: "m1", Title: "Old", Year: 2021, Image: "data:image/png;base64,aGVsbG8="}

	require.NoError(t, cache.Add(ctx, fresh))
	got, found, err := cache.Get(ctx, "m1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "New", got.Title)

	require.NoError(t, cache.Add(ctx, stale))
	got, _, err = cache.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)

	ttl, err := rdb.TTL(ctx, movieKey("m1")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestNopMovieCache(t *testing.T) {
	var cache MovieCache = NopMovieCache{}
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, &models.Movie{ID: "m1"}))
	require.NoError(t, cache.Add(ctx, &models.Movie{ID: "m1"}))
	_, found, err := cache.Get(ctx, "m1")
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, cache.Delete(ctx, "m1"))
}
