// Package apitest runs the movies API on an in-memory database for tests.
package apitest

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/Mrugank93/movies/internal/api/controller"
	"github.com/Mrugank93/movies/internal/api/repository"
	"github.com/Mrugank93/movies/internal/api/service"
	"github.com/Mrugank93/movies/internal/auth"
	"github.com/Mrugank93/movies/internal/config"
	"github.com/Mrugank93/movies/internal/db"
	"github.com/Mrugank93/movies/internal/server"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// IndexHTML is the page written into test web directories.
const IndexHTML = "<!doctype html><title>movies</title>"

// Secret signs the tokens issued by servers from NewServer.
const Secret = "apitest-secret"

// NewConfig returns the defaults adjusted for tests. WebDir holds an
// index.html page.
func NewConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)

	cfg.Server.Mode = "test"
	cfg.Server.WebDir = t.TempDir()
	cfg.Auth.JWTSecret = Secret
	require.NoError(t, writeIndex(cfg.Server.WebDir))
	return cfg
}

// NewHandler builds the full HTTP stack on an in-memory database.
func NewHandler(t *testing.T, cfg *config.Config) *server.Server {
	t.Helper()
	ctx := context.Background()

	conn, err := db.Connect(ctx, ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.InitializeDB(ctx, conn))
	t.Cleanup(func() { conn.Close() })

	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	users := service.NewUserService(repository.NewUserRepository(conn), auth.NewHasher(bcrypt.MinCost), tokens)
	movies := service.NewMovieService(repository.NewMovieRepository(conn), nil, cfg.Catalog.PageSize)

	return server.NewServer(cfg, server.Deps{
		Users: controller.NewUserController(users, controller.CookieOptions{
			MaxAge: cfg.Auth.TokenTTL,
			Secure: !cfg.IsDevelopment(),
		}),
		Movies:   controller.NewMovieController(movies),
		Verifier: tokens,
	})
}

// NewServer starts the stack on a local listener closed at test cleanup.
func NewServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(NewHandler(t, NewConfig(t)).Engine())
	t.Cleanup(ts.Close)
	return ts
}

func writeIndex(dir string) error {
	return os.WriteFile(filepath.Join(dir, "index.html"), []byte(IndexHTML), 0o600)
}
