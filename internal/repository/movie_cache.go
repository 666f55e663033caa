package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Mrugank93/movies/internal/api/models"
	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("repository.movie_cache")

// Hash fields of a cached movie.
const (
	FieldTitle     = "title"
	FieldYear      = "year"
	FieldImage     = "image"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

// MovieCache is a read-through cache of single movies keyed by id.
type MovieCache interface {
	Get(ctx context.Context, id string) (movie *models.Movie, found bool, err error)
	Set(ctx context.Context, movie *models.Movie) error
	// Add caches movie only when no copy is cached yet, so a fill from a
	// read never replaces a fresher copy written by an update.
	Add(ctx context.Context, movie *models.Movie) error
	Delete(ctx context.Context, id string) error
}

type redisMovieCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewMovieCache creates a Redis-backed MovieCache. Entries expire after ttl.
func NewMovieCache(rdb *redis.Client, ttl time.Duration) MovieCache {
	return &redisMovieCache{rdb: rdb, ttl: ttl}
}

func movieKey(id string) string {
	return fmt.Sprintf("movie:%s", id)
}

// Get loads a movie from its hash. A missing key is a miss, not an error.
func (c *redisMovieCache) Get(ctx context.Context, id string) (*models.Movie, bool, error) {
	ctx, span := tracer.Start(ctx, "MovieCache.Get", trace.WithAttributes(
		attribute.String("movie.id", id),
	))
	defer span.End()

	data, err := c.rdb.HGetAll(ctx, movieKey(id)).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get movie from redis: %w", err)
	}
	if len(data) == 0 {
		span.SetAttributes(attribute.Bool("cache.hit", false))
		return nil, false, nil
	}

	year, err := strconv.Atoi(data[FieldYear])
	if err != nil {
		return nil, false, fmt.Errorf("failed to parse cached year: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, data[FieldCreatedAt])
	if err != nil {
		return nil, false, fmt.Errorf("failed to parse cached created_at: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, data[FieldUpdatedAt])
	if err != nil {
		return nil, false, fmt.Errorf("failed to parse cached updated_at: %w", err)
	}

	span.SetAttributes(attribute.Bool("cache.hit", true))
	return &models.Movie{
		ID:        id,
		Title:     data[FieldTitle],
		Year:      year,
		Image:     data[FieldImage],
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, true, nil
}

// Set replaces the cached copy of movie and resets its expiry.
func (c *redisMovieCache) Set(ctx context.Context, movie *models.Movie) error {
	ctx, span := tracer.Start(ctx, "MovieCache.Set", trace.WithAttributes(
		attribute.String("movie.id", movie.ID),
	))
	defer span.End()

	pipe := c.rdb.TxPipeline()
	c.write(ctx, pipe, movie)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache movie in redis: %w", err)
	}
	return nil
}

// Add fills the cache under WATCH. A concurrent write to the key aborts the
// fill and keeps the other writer's copy.
func (c *redisMovieCache) Add(ctx context.Context, movie *models.Movie) error {
	ctx, span := tracer.Start(ctx, "MovieCache.Add", trace.WithAttributes(
		attribute.String("movie.id", movie.ID),
	))
	defer span.End()

	key := movieKey(movie.ID)
	txf := func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			span.SetAttributes(attribute.Bool("cache.filled", false))
			return nil
		}

		pipe := tx.TxPipeline()
		c.write(ctx, pipe, movie)
		_, err = pipe.Exec(ctx)
		return err
	}

	err := c.rdb.Watch(ctx, txf, key)
	if errors.Is(err, redis.TxFailedErr) {
		span.SetAttributes(attribute.Bool("cache.filled", false))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to fill movie cache in redis: %w", err)
	}
	return nil
}

func (c *redisMovieCache) write(ctx context.Context, pipe redis.Pipeliner, movie *models.Movie) {
	key := movieKey(movie.ID)
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key,
		FieldTitle, movie.Title,
		FieldYear, strconv.Itoa(movie.Year),
		FieldImage, movie.Image,
		FieldCreatedAt, movie.CreatedAt.UTC().Format(time.RFC3339Nano),
		FieldUpdatedAt, movie.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	pipe.Expire(ctx, key, c.ttl)
}

// Delete drops the cached copy of a movie.
func (c *redisMovieCache) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "MovieCache.Delete", trace.WithAttributes(
		attribute.String("movie.id", id),
	))
	defer span.End()

	return c.rdb.Del(ctx, movieKey(id)).Err()
}

// NopMovieCache is used when no Redis address is configured. Every lookup
// misses.
type NopMovieCache struct{}

func (NopMovieCache) Get(context.Context, string) (*models.Movie, bool, error) {
	return nil, false, nil
}

func (NopMovieCache) Set(context.Context, *models.Movie) error { return nil }

func (NopMovieCache) Add(context.Context, *models.Movie) error { return nil }

func (NopMovieCache) Delete(context.Context, string) error { return nil }
