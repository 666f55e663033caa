package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Mrugank93/movies/internal/api/controller"
	apirepository "github.com/Mrugank93/movies/internal/api/repository"
	"github.com/Mrugank93/movies/internal/api/service"
	"github.com/Mrugank93/movies/internal/auth"
	"github.com/Mrugank93/movies/internal/config"
	"github.com/Mrugank93/movies/internal/db"
	"github.com/Mrugank93/movies/internal/logger"
	"github.com/Mrugank93/movies/internal/repository"
	"github.com/Mrugank93/movies/internal/server"
	"github.com/Mrugank93/movies/internal/telemetry"
)

func main() {
	configPath := flag.String("config", os.Getenv("MOVIES_CONFIG"), "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	// Initialize telemetry before the logger so the slog bridge picks up
	// the OTLP log provider.
	shutdown, err := telemetry.InitOtel(ctx, cfg.Telemetry)
	if err != nil {
		log.Fatalf("failed to initialize telemetry: %v", err)
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	logger.Init(cfg.Log.Level)

	if cfg.IsDevelopment() {
		slog.Warn("Running in development mode: session cookies are not Secure; set app.env=production for deployments")
	}
	if cfg.UsesDevelopmentSecret() {
		slog.Warn("Signing tokens with the built-in development secret; set auth.jwt_secret")
	}

	// Initialize SQLite DB
	DB, err := db.Connect(ctx, cfg.Database.Path)
	if err != nil {
		log.Fatalf("failed to open sqlite db: %v", err)
	}
	defer DB.Close()
	if err := db.InitializeDB(ctx, DB); err != nil {
		log.Fatalf("failed to initialize sqlite db: %v", err)
	}

	// Initialize Redis when a movie cache is configured
	var cache repository.MovieCache = repository.NopMovieCache{}
	if cfg.Redis.Addr != "" {
		rdb, err := db.NewRedisClient(ctx, cfg.Redis.Addr)
		if err != nil {
			log.Fatalf("failed to initialize redis: %v", err)
		}
		defer rdb.Close()
		cache = repository.NewMovieCache(rdb, cfg.Redis.CacheTTL)
	}

	// Create repositories
	userRepo := apirepository.NewUserRepository(DB)
	movieRepo := apirepository.NewMovieRepository(DB)

	// Create services
	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	userService := service.NewUserService(userRepo, auth.NewHasher(cfg.Auth.BcryptCost), tokens)
	movieService := service.NewMovieService(movieRepo, cache, cfg.Catalog.PageSize)

	// Create controllers
	userController := controller.NewUserController(userService, controller.CookieOptions{
		MaxAge: cfg.Auth.TokenTTL,
		Secure: !cfg.IsDevelopment(),
	})
	movieController := controller.NewMovieController(movieService)

	// Create the Gin-based server
	srv := server.NewServer(cfg, server.Deps{
		Users:    userController,
		Movies:   movieController,
		Verifier: tokens,
	})

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("HTTP server started", "addr", cfg.Server.Addr, "env", cfg.App.Env, "gate_mode", cfg.Auth.GateMode)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exiting")
}
