package repository

import (
	"context"

	"oddmap/internal/models"

	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, c *models.Comment) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// ListByLocation does not consult the location row, so comments of hidden
// locations stay readable.
func (r *CommentRepository) ListByLocation(ctx context.Context, locationID string, limit int) ([]models.Comment, error) {
	list := make([]models.Comment, 0)
	err := r.db.WithContext(ctx).
		Where("location_id = ?", locationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}
