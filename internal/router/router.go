package router

import (
	"context"
	"net/http"
	"os"
	"strings"

	"oddmap/config"
	"oddmap/internal/database"
	"oddmap/internal/handler"
	"oddmap/internal/middleware"
	"oddmap/internal/repository"
	"oddmap/internal/service"
	"oddmap/pkg/blobstore"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Setup wires repositories, the submission service and handlers onto a gin
// engine. limiter applies to every /api route except report and may be nil
// to disable rate limiting.
func Setup(cfg *config.Config, db *gorm.DB, store blobstore.Store, limiter *middleware.InMemoryRateLimiter, log *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(log), middleware.Recovery(log))

	// Repositories
	locRepo := repository.NewLocationRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// Services
	locSvc := service.NewLocationService(locRepo, store, &cfg.Media, log)

	// Handlers
	locationHandler := handler.NewLocationHandler(locSvc, locRepo, log)
	commentHandler := handler.NewCommentHandler(commentRepo, log)
	healthHandler := handler.NewHealthHandler(func(ctx context.Context) error { return database.Ping(ctx, db) })

	r.GET("/healthz", healthHandler.Check)

	api := r.Group("/api")
	// Reports are never throttled; every call counts.
	api.POST("/locations/:id/report", locationHandler.Report)

	limited := api.Group("")
	if limiter != nil {
		limited.Use(middleware.RateLimit(limiter))
	}
	{
		limited.GET("/locations", locationHandler.List)
		limited.POST("/locations", locationHandler.Create)
		limited.GET("/locations/:id/comments", commentHandler.List)
		limited.POST("/locations/:id/comments", commentHandler.Create)
	}

	if opener, ok := store.(blobstore.Opener); ok {
		r.GET("/media/:key", handler.NewMediaHandler(opener, log).Serve)
	}

	r.NoRoute(staticFallback(cfg.Server.StaticDir))
	return r
}

// staticFallback serves the browser client for every path outside /api.
func staticFallback(dir string) gin.HandlerFunc {
	var files http.Handler
	if dir != "" {
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			files = http.FileServer(http.Dir(dir))
		}
	}
	return func(c *gin.Context) {
		if files == nil || c.Request.URL.Path == "/api" || strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
			return
		}
		files.ServeHTTP(c.Writer, c.Request)
	}
}
