// Package proto holds the JSON bodies exchanged between the movies API and
// its clients.
package proto

import "time"

// Movie is the wire form of a catalog entry.
type Movie struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Year      int       `json:"year"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Credentials is the body of the sign-up and sign-in requests.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateMovie is the body of the add-movie request.
type CreateMovie struct {
	Title string `json:"title"`
	Year  int    `json:"year"`
	Image string `json:"image"`
}

// UpdateMovie is the body of the edit-movie request. Nil fields are omitted
// and keep their stored value.
type UpdateMovie struct {
	Title *string `json:"title,omitempty"`
	Year  *int    `json:"year,omitempty"`
	Image *string `json:"image,omitempty"`
}

// TokenResponse answers a successful sign-up or sign-in.
type TokenResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
}

// MessageResponse answers requests that return no resource.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// DataResponse wraps a single resource.
type DataResponse[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

// ListResponse wraps one page of a collection.
type ListResponse[T any] struct {
	Success    bool `json:"success"`
	Data       []T  `json:"data"`
	TotalData  int  `json:"totalData"`
	Page       int  `json:"page"`
	PageSize   int  `json:"pageSize"`
	TotalPages int  `json:"totalPages"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}
