package middleware

import (
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

// Page paths known to the session gate.
const (
	HomePath   = "/"
	AddPath    = "/add"
	EditPrefix = "/edit/"
	SignInPath = "/sign-in"
	SignUpPath = "/sign-up"
)

// TokenCookie is the cookie the gate looks for.
const TokenCookie = "token"

// Decision is the outcome of the session gate for one request.
type Decision int

const (
	Allow Decision = iota
	RedirectToSignIn
	RedirectToHome
)

// TokenVerifier checks a session token and returns the user id it is bound
// to.
type TokenVerifier interface {
	Parse(token string) (string, error)
}

// IsProtected reports whether p requires a session.
func IsProtected(p string) bool {
	p = cleanPath(p)
	return p == HomePath || p == AddPath || strings.HasPrefix(p+"/", EditPrefix)
}

// IsAuthPage reports whether p is the sign-in or sign-up page.
func IsAuthPage(p string) bool {
	p = cleanPath(p)
	return p == SignInPath || p == SignUpPath
}

func cleanPath(p string) string {
	if p == "" {
		return HomePath
	}
	return path.Clean("/" + p)
}

// Decide applies the gate's decision table.
func Decide(p string, hasToken bool) Decision {
	switch {
	case !hasToken && IsProtected(p):
		return RedirectToSignIn
	case hasToken && IsAuthPage(p):
		return RedirectToHome
	default:
		return Allow
	}
}

// SessionGate redirects page requests according to Decide. With a nil
// verifier a token counts as present whenever the cookie is non-empty;
// otherwise the cookie must also carry a valid, unexpired token.
func SessionGate(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		hasToken := false
		if token, err := c.Cookie(TokenCookie); err == nil && token != "" {
			hasToken = true
			if verifier != nil {
				if _, err := verifier.Parse(token); err != nil {
					hasToken = false
				}
			}
		}

		switch Decide(c.Request.URL.Path, hasToken) {
		case RedirectToSignIn:
			c.Redirect(http.StatusFound, SignInPath)
			c.Abort()
		case RedirectToHome:
			c.Redirect(http.StatusFound, HomePath)
			c.Abort()
		default:
			c.Next()
		}
	}
}
