package middleware

import (
	"strings"

	"github.com/Mrugank93/movies/internal/api/response"
	"github.com/Mrugank93/movies/internal/apperr"
	"github.com/gin-gonic/gin"
)

// UserIDKey is the gin context key holding the authenticated user id.
const UserIDKey = "user_id"

const bearerPrefix = "Bearer "

// RequireToken rejects API requests without a valid session token. The token
// is read from the Authorization header, then from the token cookie.
func RequireToken(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Error(c, apperr.New(apperr.ErrUnauthorized, "missing session token"))
			c.Abort()
			return
		}

		userID, err := verifier.Parse(token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if len(header) > len(bearerPrefix) && strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
			return strings.TrimSpace(header[len(bearerPrefix):])
		}
		return ""
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil {
		return cookie
	}
	return ""
}

// UserID returns the user id stored by RequireToken.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
