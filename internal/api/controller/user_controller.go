package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/Mrugank93/movies/internal/api/middleware"
	"github.com/Mrugank93/movies/internal/api/models"
	"github.com/Mrugank93/movies/internal/api/response"
	"github.com/Mrugank93/movies/internal/api/service"
	"github.com/Mrugank93/movies/internal/apperr"
	"github.com/Mrugank93/movies/internal/validator"
	"github.com/gin-gonic/gin"
)

// TokenCookie is the cookie holding the session token.
const TokenCookie = middleware.TokenCookie

// CookieOptions controls the session cookie written on sign-in.
type CookieOptions struct {
	MaxAge time.Duration
	Secure bool
}

// UserController handles user-related HTTP requests.
type UserController struct {
	userService service.UserService
	cookie      CookieOptions
}

// NewUserController creates a new UserController.
func NewUserController(userService service.UserService, cookie CookieOptions) *UserController {
	return &UserController{
		userService: userService,
		cookie:      cookie,
	}
}

// SignUp handles the user registration endpoint.
func (uc *UserController) SignUp(c *gin.Context) {
	var req models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, validator.Translate(err))
		return
	}

	token, err := uc.userService.Register(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	uc.setTokenCookie(c, token)
	response.Token(c, token, "User created successfully")
}

// SignIn handles the user login endpoint. Invalid input is answered with 404
// like an unknown user, and a wrong password with 401.
func (uc *UserController) SignIn(c *gin.Context) {
	var req models.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		err = validator.Translate(err)
		if errors.Is(err, apperr.ErrTooLarge) {
			response.Error(c, err)
			return
		}
		response.ErrorWithStatus(c, http.StatusNotFound, err)
		return
	}

	token, err := uc.userService.Authenticate(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, apperr.ErrValidation) {
			response.ErrorWithStatus(c, http.StatusNotFound, err)
			return
		}
		if errors.Is(err, apperr.ErrUnauthorized) {
			// Same message whichever credential was wrong.
			response.ErrorWithStatus(c, http.StatusUnauthorized, apperr.New(apperr.ErrUnauthorized, "invalid email or password"))
			return
		}
		response.Error(c, err)
		return
	}

	uc.setTokenCookie(c, token)
	response.Token(c, token, "Signed in successfully")
}

// SignOut clears the session cookie.
func (uc *UserController) SignOut(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(TokenCookie, "", -1, "/", "", uc.cookie.Secure, false)
	response.Message(c, "Signed out")
}

// setTokenCookie stores the token in a client-readable cookie so the session
// gate can see it on page requests.
func (uc *UserController) setTokenCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(TokenCookie, token, int(uc.cookie.MaxAge.Seconds()), "/", "", uc.cookie.Secure, false)
}
