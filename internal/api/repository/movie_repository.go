package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Mrugank93/movies/internal/api/models"
	"github.com/Mrugank93/movies/internal/apperr"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

//go:generate mockgen -source=movie_repository.go -destination=mocks/movie_repository_mock.go -package=mocks

// MovieRepository defines the interface for movie data operations.
type MovieRepository interface {
	List(ctx context.Context, offset, limit int) ([]models.Movie, error)
	Count(ctx context.Context) (int, error)
	GetByID(ctx context.Context, id string) (*models.Movie, error)
	Create(ctx context.Context, movie *models.Movie) error
	Update(ctx context.Context, movie *models.Movie) error
}

type sqliteMovieRepository struct {
	db *sqlx.DB
}

// NewMovieRepository creates a new SQLite-based MovieRepository.
func NewMovieRepository(db *sqlx.DB) MovieRepository {
	return &sqliteMovieRepository{db: db}
}

// List returns up to limit movies in creation order, skipping offset.
func (r *sqliteMovieRepository) List(ctx context.Context, offset, limit int) ([]models.Movie, error) {
	ctx, span := tracer.Start(ctx, "MovieRepository.List", trace.WithAttributes(
		attribute.Int("db.offset", offset),
		attribute.Int("db.limit", limit),
	))
	defer span.End()

	movies := []models.Movie{}
	query := `SELECT id, title, year, image, created_at, updated_at FROM movies
		ORDER BY created_at, rowid LIMIT ? OFFSET ?`
	if err := r.db.SelectContext(ctx, &movies, query, limit, offset); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	return movies, nil
}

// Count returns the number of movies in the catalog.
func (r *sqliteMovieRepository) Count(ctx context.Context) (int, error) {
	ctx, span := tracer.Start(ctx, "MovieRepository.Count")
	defer span.End()

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM movies`); err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}
	return total, nil
}

// GetByID retrieves a movie. A missing movie is reported as apperr.ErrNotFound.
func (r *sqliteMovieRepository) GetByID(ctx context.Context, id string) (*models.Movie, error) {
	ctx, span := tracer.Start(ctx, "MovieRepository.GetByID", trace.WithAttributes(
		attribute.String("movie.id", id),
	))
	defer span.End()

	var movie models.Movie
	query := `SELECT id, title, year, image, created_at, updated_at FROM movies WHERE id = ?`
	if err := r.db.GetContext(ctx, &movie, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.New(apperr.ErrNotFound, "movie not found")
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}
	return &movie, nil
}

// Create inserts a new movie.
func (r *sqliteMovieRepository) Create(ctx context.Context, movie *models.Movie) error {
	ctx, span := tracer.Start(ctx, "MovieRepository.Create", trace.WithAttributes(
		attribute.String("movie.id", movie.ID),
	))
	defer span.End()

	query := `INSERT INTO movies (id, title, year, image, created_at, updated_at)
		VALUES (:id, :title, :year, :image, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, movie); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to create movie: %w", err)
	}
	return nil
}

// Update overwrites the mutable fields of an existing movie.
func (r *sqliteMovieRepository) Update(ctx context.Context, movie *models.Movie) error {
	ctx, span := tracer.Start(ctx, "MovieRepository.Update", trace.WithAttributes(
		attribute.String("movie.id", movie.ID),
	))
	defer span.End()

	query := `UPDATE movies SET title = :title, year = :year, image = :image, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, movie)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to update movie: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update movie: %w", err)
	}
	if n == 0 {
		return apperr.New(apperr.ErrNotFound, "movie not found")
	}
	return nil
}
