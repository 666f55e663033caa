package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Mrugank93/movies/internal/api/models"
	"github.com/Mrugank93/movies/internal/apperr"
	"github.com/Mrugank93/movies/internal/db"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()
	conn, err := db.Connect(ctx, ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.InitializeDB(ctx, conn))
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	user := &models.User{ID: "u1", Email: "a@b.com", PasswordHash: "hash", CreatedAt: time.Now().UTC()}
	require.NoError(t, repo.CreateUser(ctx, user))

	got, err := repo.GetUserByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)
	assert.Equal(t, "hash", got.PasswordHash)
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	require.NoError(t, repo.CreateUser(ctx, &models.User{ID: "u1", Email: "a@b.com", PasswordHash: "h", CreatedAt: time.Now().UTC()}))
	err := repo.CreateUser(ctx, &models.User{ID: "u2", Email: "a@b.com", PasswordHash: "h", CreatedAt: time.Now().UTC()})
	assert.True(t, errors.Is(err, apperr.ErrConflict), "got %v", err)
}

func TestUserRepository_NotFound(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	_, err := repo.GetUserByEmail(context.Background(), "nobody@b.com")
	assert.True(t, errors.Is(err, apperr.ErrNotFound), "got %v", err)
}

func seedMovies(t *testing.T, repo MovieRepository, n int) []models.Movie {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	movies := make([]models.Movie, 0, n)
	for i := range n {
		m := models.Movie{
			ID:        fmt.Sprintf("m%02d", i),
			Title:     fmt.Sprintf("Movie %d", i),
			Year:      2000 + i,
			Image:     "data:image/png;base64,aGVsbG8=",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(context.Background(), &m))
		movies = append(movies, m)
	}
	return movies
}

func TestMovieRepository_ListAndCount(t *testing.T) {
	ctx := context.Background()
	repo := NewMovieRepository(newTestDB(t))
	seeded := seedMovies(t, repo, 17)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 17, total)

	first, err := repo.List(ctx, 0, 8)
	require.NoError(t, err)
	require.Len(t, first, 8)
	assert.Equal(t, seeded[0].ID, first[0].ID)
	assert.Equal(t, seeded[7].ID, first[7].ID)

	last, err := repo.List(ctx, 16, 8)
	require.NoError(t, err)
	require.Len(t, last, 1)
	assert.Equal(t, seeded[16].ID, last[0].ID)

	beyond, err := repo.List(ctx, 24, 8)
	require.NoError(t, err)
	assert.NotNil(t, beyond)
	assert.Empty(t, beyond)
}

func TestMovieRepository_ListSameTimestampKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewMovieRepository(newTestDB(t))

	now := time.Now().UTC()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, repo.Create(ctx, &models.Movie{ID: id, Title: id, Year: 2000, Image: "x", CreatedAt: now, UpdatedAt: now}))
	}

	got, err := repo.List(ctx, 0, 8)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestMovieRepository_GetAndUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewMovieRepository(newTestDB(t))
	seeded := seedMovies(t, repo, 1)

	got, err := repo.GetByID(ctx, seeded[0].ID)
	require.NoError(t, err)
	assert.Equal(t, seeded[0].Title, got.Title)
	assert.Equal(t, seeded[0].Year, got.Year)
	assert.Equal(t, seeded[0].Image, got.Image)
	assert.True(t, seeded[0].CreatedAt.Equal(got.CreatedAt))

	got.Title = "Renamed"
	got.UpdatedAt = got.UpdatedAt.Add(time.Hour)
	require.NoError(t, repo.Update(ctx, got))

	again, err := repo.GetByID(ctx, seeded[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", again.Title)
	assert.Equal(t, seeded[0].Year, again.Year)
	assert.True(t, got.UpdatedAt.Equal(again.UpdatedAt))
}

func TestMovieRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewMovieRepository(newTestDB(t))

	_, err := repo.GetByID(ctx, "missing")
	assert.True(t, errors.Is(err, apperr.ErrNotFound), "got %v", err)

	err = repo.Update(ctx, &models.Movie{ID: "missing", Title: "x", Year: 2000, Image: "x"})
	assert.True(t, errors.Is(err, apperr.ErrNotFound), "got %v", err)
}
