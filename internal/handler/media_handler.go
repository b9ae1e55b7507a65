package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"oddmap/pkg/blobstore"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MediaHandler streams blobs for stores that do not sit behind a CDN.
type MediaHandler struct {
	store blobstore.Opener
	log   *zap.Logger
}

func NewMediaHandler(store blobstore.Opener, log *zap.Logger) *MediaHandler {
	return &MediaHandler{store: store, log: log}
}

func (h *MediaHandler) Serve(c *gin.Context) {
	key := c.Param("key")
	rc, contentType, err := h.store.Open(c.Request.Context(), key)
	if errors.Is(err, blobstore.ErrNotFound) || errors.Is(err, blobstore.ErrInvalidKey) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if err != nil {
		h.log.Error("open blob failed", zap.String("key", key), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load media"})
		return
	}
	defer rc.Close()
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	// Keys are random and never rewritten.
	c.DataFromReader(http.StatusOK, -1, contentType, rc, map[string]string{
		"Cache-Control":          "public, max-age=31536000, immutable",
		"X-Content-Type-Options": "nosniff",
	})
}

// HealthHandler reports whether the relational store answers.
type HealthHandler struct {
	ping func(ctx context.Context) error
}

func NewHealthHandler(ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.ping(ctx); err != nil {
		c.String(http.StatusServiceUnavailable, "database unavailable")
		return
	}
	c.String(http.StatusOK, "ok")
}
