package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bhvr/bhvr-api-go/internal/config"
	"github.com/bhvr/bhvr-api-go/internal/crypto"
	"github.com/bhvr/bhvr-api-go/internal/handler"
	"github.com/bhvr/bhvr-api-go/internal/repository"
	"github.com/bhvr/bhvr-api-go/internal/service"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(config.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stdout))

	ctx := context.Background()

	db, err := repository.NewDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.RunMigrations {
		if err := repository.Migrate(ctx, db); err != nil {
			slog.Error("migrations failed", "error", err)
			os.Exit(1)
		}
	}

	tokens, err := crypto.NewTokenService(cfg.JWTSecret, crypto.DefaultTokenTTL)
	if err != nil {
		slog.Error("token service", "error", err)
		os.Exit(1)
	}
	hasher := crypto.NewPasswordHasher(cfg.BcryptCost)

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)

	router := handler.NewRouter(handler.RouterDeps{
		Auth:        service.NewAuthService(userRepo, hasher, tokens),
		Posts:       service.NewPostService(postRepo),
		Tokens:      tokens,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
