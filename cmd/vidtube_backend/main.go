package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/vidtube_backend/internal/adapters/database/pgsql"
	"github.com/SscSPs/vidtube_backend/internal/adapters/media"
	portssvc "github.com/SscSPs/vidtube_backend/internal/core/ports/services"
	"github.com/SscSPs/vidtube_backend/internal/core/services"
	"github.com/SscSPs/vidtube_backend/internal/handlers"
	"github.com/SscSPs/vidtube_backend/internal/middleware"
	"github.com/SscSPs/vidtube_backend/internal/platform/config"
	"github.com/SscSPs/vidtube_backend/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// @title VidTube Backend API
// @version 1.0
// @description User accounts, sessions and profile media for the VidTube backend.

// @host localhost:8000
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return fmt.Errorf("failed to initialize database pool: %w", err)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.RateLimitStore == config.RateLimitStoreRedis {
		redisClient, err = newRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				logger.Error("Error closing redis client", slog.String("error", cerr.Error()))
			}
		}()
	}

	authLimiter, err := middleware.NewLimiter(cfg.AuthRateLimit, redisClient)
	if err != nil {
		return err
	}

	mediaStore, staticDir, err := newMediaStore(ctx, cfg)
	if err != nil {
		return err
	}
	logger.Info("Media store ready", slog.String("driver", cfg.MediaDriver))

	repos := pgsql.NewRepositoryProvider(dbPool)
	container := services.NewServiceContainer(cfg, repos, mediaStore)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, metrics)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), middleware.MetricsMiddleware())
	r.MaxMultipartMemory = cfg.MaxUploadBytes

	if err := r.SetTrustedProxies(nil); err != nil {
		return fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	routeOpts := []handlers.RouteOption{handlers.WithAuthLimiter(authLimiter)}
	if staticDir != "" {
		routeOpts = append(routeOpts, handlers.WithStaticDir(staticDir))
	}
	handlers.RegisterRoutes(r, cfg, container, routeOpts...)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed to run: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server", slog.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

func newRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// newMediaStore picks the upload backend. The local driver also returns the
// directory to serve under /static.
func newMediaStore(ctx context.Context, cfg *config.Config) (portssvc.MediaStore, string, error) {
	switch cfg.MediaDriver {
	case config.MediaDriverS3:
		store, err := media.NewS3Store(ctx, media.S3Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			BaseEndpoint:  cfg.S3BaseEndpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.MediaPublicBaseURL,
		})
		if err != nil {
			return nil, "", fmt.Errorf("failed to create s3 media store: %w", err)
		}
		return store, "", nil
	default:
		store, err := media.NewLocalStore(cfg.MediaLocalDir, cfg.MediaPublicBaseURL)
		if err != nil {
			return nil, "", err
		}
		return store, store.Dir(), nil
	}
}
