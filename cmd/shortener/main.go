package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/shortener-api/internal/auth"
	"github.com/mmeshcher/shortener-api/internal/clock"
	"github.com/mmeshcher/shortener-api/internal/config"
	"github.com/mmeshcher/shortener-api/internal/handler"
	"github.com/mmeshcher/shortener-api/internal/logging"
	"github.com/mmeshcher/shortener-api/internal/metrics"
	"github.com/mmeshcher/shortener-api/internal/middleware"
	"github.com/mmeshcher/shortener-api/internal/repository"
	"github.com/mmeshcher/shortener-api/internal/service"
)

type store interface {
	service.ShortURLRepository
	service.UserRepository
	Ping(ctx context.Context) error
	Close() error
}

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.IsDevelopment())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Application failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	sugar := logger.Sugar()
	sugar.Infow("Configuration loaded",
		"server_address", cfg.ServerAddress,
		"base_url", cfg.BaseURL,
		"app_env", cfg.AppEnv,
		"database", cfg.DatabaseDSN != "",
		"jwt_expiration_seconds", cfg.JWTExpiration,
	)

	repo, err := newStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer repo.Close()

	metrics.Init()

	clk := clock.New()
	hasher := auth.NewBcryptHasher(auth.DefaultHashCost)
	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL())

	shortener := service.NewShortenerService(repo, clk, logger)
	users := service.NewUserService(repo, hasher, clk, logger)
	authService := service.NewAuthService(repo, hasher, tokens, logger)

	authMiddleware := middleware.NewAuthMiddleware(authService, logger)
	h := handler.NewHandler(shortener, users, authService, authMiddleware, repo, cfg.BaseURL, logger)

	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           h.SetupRouter(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		sugar.Infow("Server starting", "address", cfg.ServerAddress)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err, ok := <-serverErr:
		if ok {
			return fmt.Errorf("start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	return nil
}

// newStore picks PostgreSQL when a DSN is configured and the in-memory store otherwise.
func newStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (store, error) {
	if cfg.DatabaseDSN == "" {
		logger.Warn("DATABASE_URL is not set, using in-memory storage")
		return repository.NewMemoryRepository(), nil
	}

	repo, err := repository.NewPostgresRepository(ctx, cfg.DatabaseDSN, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create repository: %w", err)
	}
	return repo, nil
}
