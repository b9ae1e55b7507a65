package repository

import (
	"context"

	"oddmap/internal/domain"
	"oddmap/internal/models"
	"oddmap/pkg/location"

	"gorm.io/gorm"
)

type LocationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

func (r *LocationRepository) Create(ctx context.Context, loc *models.Location) error {
	return r.db.WithContext(ctx).Create(loc).Error
}

func (r *LocationRepository) GetByID(ctx context.Context, id string) (*models.Location, error) {
	var loc models.Location
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&loc).Error
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *LocationRepository) visible(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Where("report_count < ?", domain.ReportThreshold).
		Order("created_at DESC")
}

// ListVisible returns locations that pass the moderation gate, newest first.
func (r *LocationRepository) ListVisible(ctx context.Context, limit int) ([]models.Location, error) {
	list := make([]models.Location, 0)
	err := r.visible(ctx).Limit(limit).Find(&list).Error
	return list, err
}

// nearScanFactor bounds how many bounding-box rows are read per requested
// result before the exact distance check.
const nearScanFactor = 4

// ListVisibleNear narrows ListVisible to a radius around lat/lng. A bounding
// box is filtered in SQL, the exact distance here.
func (r *LocationRepository) ListVisibleNear(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]models.Location, error) {
	minLat, maxLat := location.LatBand(lat, radiusKm)
	q := r.visible(ctx).Where("latitude BETWEEN ? AND ?", minLat, maxLat)
	minLng, maxLng, wraps, all := location.LngBand(lat, lng, radiusKm)
	switch {
	case all:
	case wraps:
		q = q.Where("(longitude >= ? OR longitude <= ?)", minLng, maxLng)
	default:
		q = q.Where("longitude BETWEEN ? AND ?", minLng, maxLng)
	}
	var box []models.Location
	if err := q.Limit(limit * nearScanFactor).Find(&box).Error; err != nil {
		return nil, err
	}
	list := make([]models.Location, 0, min(len(box), limit))
	for _, loc := range box {
		if len(list) == limit {
			break
		}
		if location.HaversineKm(lat, lng, loc.Latitude, loc.Longitude) <= radiusKm {
			list = append(list, loc)
		}
	}
	return list, nil
}

// IncrementReportCount adds one report as a relative update so concurrent
// reports are serialized by the database. An unknown id affects zero rows.
func (r *LocationRepository) IncrementReportCount(ctx context.Context, id string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Location{}).
		Where("id = ?", id).
		UpdateColumn("report_count", gorm.Expr("report_count + ?", 1))
	return res.RowsAffected, res.Error
}
