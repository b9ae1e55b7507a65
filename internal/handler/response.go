package handler

import (
	"errors"
	"net/http"

	"oddmap/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError writes a 400 for validation errors and a generic 500 for
// anything else. Storage detail only goes to the log.
func respondError(c *gin.Context, log *zap.Logger, err error, generic string) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message, "field": ve.Field})
		return
	}
	log.Error(generic,
		zap.Error(err),
		zap.String("method", c.Request.Method),
		zap.String("route", c.FullPath()),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": generic})
}
