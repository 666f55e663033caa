package middleware

import (
	"net/http"

	"github.com/Mrugank93/movies/internal/api/response"
	"github.com/Mrugank93/movies/internal/apperr"
	"github.com/gin-gonic/gin"
)

// BodyLimit rejects request bodies larger than maxBytes.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.Error(c, &apperr.Error{Kind: apperr.ErrTooLarge})
			c.Abort()
			return
		}

		// Bodies without a declared length are cut off while reading; the
		// binding error is reported as ErrTooLarge by validator.Translate.
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
