package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Mrugank93/movies/internal/api/models"
	apirepository "github.com/Mrugank93/movies/internal/api/repository"
	"github.com/Mrugank93/movies/internal/apperr"
	"github.com/Mrugank93/movies/internal/repository"
	"github.com/Mrugank93/movies/internal/validator"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultPageSize is the number of movies on one dashboard page.
const DefaultPageSize = 8

// MovieService defines the catalog operations.
type MovieService interface {
	List(ctx context.Context, page int) (*models.MoviePage, error)
	Get(ctx context.Context, id string) (*models.Movie, error)
	Create(ctx context.Context, req *models.CreateMovieRequest) (*models.Movie, error)
	Update(ctx context.Context, id string, req *models.UpdateMovieRequest) (*models.Movie, error)
}

type movieService struct {
	movieRepo apirepository.MovieRepository
	cache     repository.MovieCache
	pageSize  int
	now       func() time.Time
}

// NewMovieService creates a new MovieService. A nil cache disables caching;
// a pageSize below 1 falls back to DefaultPageSize.
func NewMovieService(movieRepo apirepository.MovieRepository, cache repository.MovieCache, pageSize int) MovieService {
	if cache == nil {
		cache = repository.NopMovieCache{}
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &movieService{
		movieRepo: movieRepo,
		cache:     cache,
		pageSize:  pageSize,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// List returns the page-th (1-indexed) slice of the catalog in creation
// order, together with the size of the whole catalog.
func (s *movieService) List(ctx context.Context, page int) (*models.MoviePage, error) {
	ctx, span := tracer.Start(ctx, "MovieService.List", trace.WithAttributes(
		attribute.Int("page", page),
	))
	defer span.End()

	if page < 1 {
		return nil, apperr.Validation("invalid inputs", map[string]string{"page": "must be at least 1"})
	}

	total, err := s.movieRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}

	totalPages := TotalPages(total, s.pageSize)
	items := []models.Movie{}
	if page <= totalPages {
		items, err = s.movieRepo.List(ctx, (page-1)*s.pageSize, s.pageSize)
		if err != nil {
			return nil, fmt.Errorf("list movies: %w", err)
		}
	}

	return &models.MoviePage{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   s.pageSize,
		TotalPages: totalPages,
	}, nil
}

// TotalPages is ceil(total / pageSize).
func TotalPages(total, pageSize int) int {
	if pageSize < 1 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Get returns one movie, consulting the cache first.
func (s *movieService) Get(ctx context.Context, id string) (*models.Movie, error) {
	ctx, span := tracer.Start(ctx, "MovieService.Get", trace.WithAttributes(
		attribute.String("movie.id", id),
	))
	defer span.End()

	if movie, found, err := s.cache.Get(ctx, id); err != nil {
		slog.WarnContext(ctx, "Movie cache lookup failed", "movie.id", id, "error", err)
	} else if found {
		return movie, nil
	}

	movie, err := s.movieRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}
	if err := s.cache.Add(ctx, movie); err != nil {
		slog.WarnContext(ctx, "Movie cache fill failed", "movie.id", id, "error", err)
	}
	return movie, nil
}

// Create validates and stores a new movie.
func (s *movieService) Create(ctx context.Context, req *models.CreateMovieRequest) (*models.Movie, error) {
	ctx, span := tracer.Start(ctx, "MovieService.Create")
	defer span.End()

	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	now := s.now()
	movie := &models.Movie{
		ID:        uuid.New().String(),
		Title:     strings.TrimSpace(req.Title),
		Year:      req.Year,
		Image:     req.Image,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.movieRepo.Create(ctx, movie); err != nil {
		return nil, fmt.Errorf("create movie: %w", err)
	}
	slog.InfoContext(ctx, "Movie created", "movie.id", movie.ID)

	s.remember(ctx, movie)
	return movie, nil
}

// Update applies a partial update. Fields missing from req keep their
// stored values.
func (s *movieService) Update(ctx context.Context, id string, req *models.UpdateMovieRequest) (*models.Movie, error) {
	ctx, span := tracer.Start(ctx, "MovieService.Update", trace.WithAttributes(
		attribute.String("movie.id", id),
	))
	defer span.End()

	if err := validator.Struct(req); err != nil {
		return nil, err
	}

	movie, err := s.movieRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update movie: %w", err)
	}

	if req.Title != nil {
		movie.Title = strings.TrimSpace(*req.Title)
	}
	if req.Year != nil {
		movie.Year = *req.Year
	}
	if req.Image != nil {
		movie.Image = *req.Image
	}
	movie.UpdatedAt = s.now()

	if err := s.movieRepo.Update(ctx, movie); err != nil {
		// Drop the cached copy so a failed write cannot leave it stale.
		if cerr := s.cache.Delete(ctx, id); cerr != nil {
			slog.WarnContext(ctx, "Movie cache eviction failed", "movie.id", id, "error", cerr)
		}
		return nil, fmt.Errorf("update movie: %w", err)
	}
	slog.InfoContext(ctx, "Movie updated", "movie.id", movie.ID)

	s.remember(ctx, movie)
	return movie, nil
}

// remember refreshes the cached copy. Cache failures never fail the request.
func (s *movieService) remember(ctx context.Context, movie *models.Movie) {
	if err := s.cache.Set(ctx, movie); err != nil {
		slog.WarnContext(ctx, "Movie cache refresh failed", "movie.id", movie.ID, "error", err)
	}
}
