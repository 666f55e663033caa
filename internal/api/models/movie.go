package models

import "time"

// Movie represents a catalog entry in the database.
type Movie struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Year      int       `db:"year" json:"year"`
	Image     string    `db:"image" json:"image"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CreateMovieRequest is the body accepted by the add-movie endpoint.
type CreateMovieRequest struct {
	Title string `json:"title" binding:"required,notblank,max=200"`
	Year  int    `json:"year" binding:"required,min=1000,max=9999"`
	Image string `json:"image" binding:"required,imageuri"`
}

// UpdateMovieRequest is the body accepted by the edit-movie endpoint. Nil
// fields keep their stored value.
type UpdateMovieRequest struct {
	Title *string `json:"title" binding:"omitempty,notblank,max=200"`
	Year  *int    `json:"year" binding:"omitempty,min=1000,max=9999"`
	Image *string `json:"image" binding:"omitempty,imageuri"`
}

// ListMoviesQuery is the query string accepted by the movie list endpoint.
type ListMoviesQuery struct {
	Page int `form:"page" binding:"omitempty,min=1"`
}

// MoviePage is one page of the catalog.
type MoviePage struct {
	Items      []Movie
	TotalCount int
	Page       int
	PageSize   int
	TotalPages int
}
