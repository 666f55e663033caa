package controller

import (
	"net/http"

	"github.com/Mrugank93/movies/internal/api/models"
	"github.com/Mrugank93/movies/internal/api/response"
	"github.com/Mrugank93/movies/internal/api/service"
	"github.com/Mrugank93/movies/internal/validator"
	"github.com/Mrugank93/movies/pkg/proto"
	"github.com/gin-gonic/gin"
)

// MovieController handles catalog HTTP requests.
type MovieController struct {
	movieService service.MovieService
}

// NewMovieController creates a new MovieController.
func NewMovieController(movieService service.MovieService) *MovieController {
	return &MovieController{movieService: movieService}
}

// List handles GET /movies?page=N. A missing page means the first one.
func (mc *MovieController) List(c *gin.Context) {
	var query models.ListMoviesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, validator.Translate(err))
		return
	}
	if query.Page == 0 {
		query.Page = 1
	}

	page, err := mc.movieService.List(c.Request.Context(), query.Page)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]proto.Movie, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, toProto(&page.Items[i]))
	}
	response.List(c, items, page.TotalCount, page.Page, page.PageSize, page.TotalPages)
}

// Get handles GET /movies/:id.
func (mc *MovieController) Get(c *gin.Context) {
	movie, err := mc.movieService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Data(c, http.StatusOK, toProto(movie))
}

// Create handles POST /movies.
func (mc *MovieController) Create(c *gin.Context) {
	var req models.CreateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, validator.Translate(err))
		return
	}

	movie, err := mc.movieService.Create(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Data(c, http.StatusCreated, toProto(movie))
}

// Update handles PATCH /movies/:id.
func (mc *MovieController) Update(c *gin.Context) {
	var req models.UpdateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, validator.Translate(err))
		return
	}

	movie, err := mc.movieService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Data(c, http.StatusOK, toProto(movie))
}

func toProto(m *models.Movie) proto.Movie {
	return proto.Movie{
		ID:        m.ID,
		Title:     m.Title,
		Year:      m.Year,
		Image:     m.Image,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
