package server

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/Mrugank93/movies/internal/api/controller"
	"github.com/Mrugank93/movies/internal/api/middleware"
	"github.com/Mrugank93/movies/internal/config"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("server")

// Pages served by the single-page client.
var pageRoutes = []string{
	middleware.HomePath,
	middleware.AddPath,
	middleware.EditPrefix + ":id",
	"/movie/:id",
	middleware.SignInPath,
	middleware.SignUpPath,
}

type Server struct {
	engine *gin.Engine
}

// Deps are the collaborators the HTTP layer dispatches to.
type Deps struct {
	Users    *controller.UserController
	Movies   *controller.MovieController
	Verifier middleware.TokenVerifier
}

func NewServer(cfg *config.Config, deps Deps) *Server {
	gin.SetMode(cfg.Server.Mode)

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		traceRequests(),
		middleware.RequestLogger(),
		middleware.Metrics(),
		middleware.BodyLimit(cfg.Server.MaxBodyBytes),
		middleware.Timeout(cfg.Server.RequestTimeout),
	)

	s := &Server{engine: engine}
	s.registerHandlers(cfg, deps)
	return s
}

// Engine returns the HTTP handler.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerHandlers(cfg *config.Config, deps Deps) {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "status": "ok"})
	})

	authGroup := s.engine.Group("/auth")
	{
		authGroup.POST("/sign-up", deps.Users.SignUp)
		authGroup.POST("/sign-in", deps.Users.SignIn)
		authGroup.POST("/sign-out", deps.Users.SignOut)
	}

	movies := s.engine.Group("/movies", middleware.RequireToken(deps.Verifier))
	{
		movies.GET("", deps.Movies.List)
		movies.GET("/:id", deps.Movies.Get)
		movies.POST("", deps.Movies.Create)
		movies.PATCH("/:id", deps.Movies.Update)
	}

	// Presence mode trusts any non-empty cookie on page requests.
	var gateVerifier middleware.TokenVerifier
	if cfg.Auth.GateMode == config.GateModeVerify {
		gateVerifier = deps.Verifier
	}
	index := filepath.Join(cfg.Server.WebDir, "index.html")
	pages := s.engine.Group("", middleware.SessionGate(gateVerifier))
	for _, route := range pageRoutes {
		pages.GET(route, func(c *gin.Context) {
			c.File(index)
		})
	}
	s.engine.Static("/assets", filepath.Join(cfg.Server.WebDir, "assets"))
}

// traceRequests opens a server span per request and continues any trace
// propagated by the caller.
func traceRequests() gin.HandlerFunc {
	propagator := otel.GetTextMapPropagator()
	return func(c *gin.Context) {
		ctx := propagator.Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		ctx, span := tracer.Start(ctx, fmt.Sprintf("%s %s", c.Request.Method, c.FullPath()),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.url", c.Request.URL.String()),
				attribute.String("http.method", c.Request.Method),
			),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
