package response

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Mrugank93/movies/internal/apperr"
	"github.com/gin-gonic/gin"
)

// StatusFor maps an error kind to its HTTP status.
func StatusFor(err error) int {
	switch apperr.Kind(err) {
	case apperr.ErrValidation:
		return http.StatusBadRequest
	case apperr.ErrConflict:
		return http.StatusConflict
	case apperr.ErrUnauthorized:
		return http.StatusUnauthorized
	case apperr.ErrNotFound:
		return http.StatusNotFound
	case apperr.ErrTransient:
		return http.StatusServiceUnavailable
	case apperr.ErrTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err with the status of its kind. Unexpected errors are logged
// and answered with a generic 500.
func Error(c *gin.Context, err error) {
	if errors.Is(err, context.DeadlineExceeded) && apperr.Kind(err) == nil {
		err = &apperr.Error{Kind: apperr.ErrTransient, Message: "request timed out, please retry"}
	}
	ErrorWithStatus(c, StatusFor(err), err)
}

// ErrorWithStatus writes err with an explicit status, for endpoints whose
// contract differs from StatusFor.
func ErrorWithStatus(c *gin.Context, code int, err error) {
	_ = c.Error(err)

	if code >= http.StatusInternalServerError && !errors.Is(err, apperr.ErrTransient) {
		slog.ErrorContext(c.Request.Context(), "Request failed",
			"http.method", c.Request.Method,
			"http.path", c.FullPath(),
			"error", err,
		)
		ErrorResponse(c, http.StatusInternalServerError, "something went wrong", nil)
		return
	}

	ErrorResponse(c, code, apperr.Message(err), apperr.FieldErrors(err))
}
