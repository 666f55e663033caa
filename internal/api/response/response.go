package response

import (
	"net/http"

	"github.com/Mrugank93/movies/pkg/proto"
	"github.com/gin-gonic/gin"
)

// Data returns a JSON response wrapping a single resource.
func Data(c *gin.Context, code int, data any) {
	c.JSON(code, proto.DataResponse[any]{Success: true, Data: data})
}

// List returns a JSON response with one page of a collection and the size of
// the whole collection.
func List[T any](c *gin.Context, items []T, total, page, pageSize, totalPages int) {
	c.JSON(http.StatusOK, proto.ListResponse[T]{
		Success:    true,
		Data:       items,
		TotalData:  total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	})
}

// Token returns a JSON response carrying a session token.
func Token(c *gin.Context, token, message string) {
	c.JSON(http.StatusOK, proto.TokenResponse{Success: true, Token: token, Message: message})
}

// Message returns a JSON response with a success message and no payload.
func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, proto.MessageResponse{Success: true, Message: message})
}

// ErrorResponse returns a JSON error body with the given status.
func ErrorResponse(c *gin.Context, code int, message string, fields map[string]string) {
	c.JSON(code, proto.ErrorResponse{
		Success: false,
		Message: message,
		Errors:  fields,
	})
}
