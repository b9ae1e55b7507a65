package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"oddmap/config"
	"oddmap/internal/database"
	"oddmap/internal/middleware"
	"oddmap/internal/router"
	"oddmap/pkg/blobstore"
	"oddmap/pkg/cloudinary"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zc = zap.NewProductionConfig()
	}
	if cfg.Logging.Level != "" {
		lvl, err := zap.ParseAtomicLevel(cfg.Logging.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		zc.Level = lvl
	}
	return zc.Build()
}

// newBlobStore picks the media backend. The returned closer releases its
// connections on shutdown.
func newBlobStore(ctx context.Context, cfg *config.Config) (blobstore.Store, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	switch cfg.Media.Backend {
	case "local":
		s, err := blobstore.NewLocalStore(cfg.Media.LocalDir, cfg.Media.PublicBaseURL)
		return s, noop, err
	case "cloudinary":
		s, err := cloudinary.NewStoreFromParams(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret, cfg.Media.Folder)
		return s, noop, err
	case "gridfs":
		s, err := blobstore.NewGridFSStore(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Bucket, cfg.Media.PublicBaseURL)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown media backend %q", cfg.Media.Backend)
	}
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("dotenv: %v", err)
	}
	cfg := config.Load()

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	store, closeStore, err := newBlobStore(context.Background(), cfg)
	if err != nil {
		logger.Fatal("media backend", zap.String("backend", cfg.Media.Backend), zap.Error(err))
	}
	logger.Info("media backend ready", zap.String("backend", cfg.Media.Backend))

	var limiter *middleware.InMemoryRateLimiter
	stopSweeper := make(chan struct{})
	if cfg.RateLimit.Requests > 0 {
		limiter = middleware.NewInMemoryRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
		go limiter.RunSweeper(time.Minute, stopSweeper)
	}

	engine := router.Setup(cfg, db, store, limiter, logger)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("db_driver", cfg.Database.Driver))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down...")
	close(stopSweeper)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	if err := closeStore(ctx); err != nil {
		logger.Error("media backend close", zap.Error(err))
	}
	logger.Info("server stopped")
}
