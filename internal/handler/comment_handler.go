package handler

import (
	"net/http"

	"oddmap/internal/domain"
	"oddmap/internal/models"
	"oddmap/internal/repository"
	"oddmap/pkg/anon"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CommentHandler struct {
	repo *repository.CommentRepository
	log  *zap.Logger
}

func NewCommentHandler(repo *repository.CommentRepository, log *zap.Logger) *CommentHandler {
	return &CommentHandler{repo: repo, log: log}
}

// List returns the thread of a location even when the location itself is hidden.
func (h *CommentHandler) List(c *gin.Context) {
	list, err := h.repo.ListByLocation(c.Request.Context(), c.Param("id"), domain.CommentListLimit)
	if err != nil {
		respondError(c, h.log, &domain.StorageError{Op: "list comments", Err: err}, "Failed to fetch comments")
		return
	}
	c.JSON(http.StatusOK, list)
}

// Create attaches a comment to the location id in the path. The id is not
// checked against the locations table.
func (h *CommentHandler) Create(c *gin.Context) {
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.log, commentBindError(err), "")
		return
	}
	comment := &models.Comment{
		ID:         anon.NewID(),
		LocationID: c.Param("id"),
		Handle:     anon.NewHandle(),
		Comment:    req.Comment,
	}
	if err := h.repo.Create(c.Request.Context(), comment); err != nil {
		respondError(c, h.log, &domain.StorageError{Op: "insert comment", Err: err}, "Failed to create comment")
		return
	}
	c.JSON(http.StatusCreated, comment)
}
