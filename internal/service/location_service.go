package service

import (
	"bytes"
	"context"

	"oddmap/config"
	"oddmap/internal/domain"
	"oddmap/internal/models"
	"oddmap/internal/repository"
	"oddmap/pkg/anon"
	"oddmap/pkg/blobstore"
	"oddmap/pkg/media"

	"go.uber.org/zap"
)

// Submission is a validated create-location request.
type Submission struct {
	Name        string
	Description string
	Latitude    float64
	Longitude   float64
	Filename    string
	ContentType string
	Extension   string // of the sniffed type
	Data        []byte
}

type LocationService struct {
	repo  *repository.LocationRepository
	store blobstore.Store
	cfg   *config.MediaConfig
	log   *zap.Logger
}

func NewLocationService(repo *repository.LocationRepository, store blobstore.Store, cfg *config.MediaConfig, log *zap.Logger) *LocationService {
	return &LocationService{repo: repo, store: store, cfg: cfg, log: log}
}

// Submit writes the image, then the row. The two writes are not atomic: if
// the insert fails the blob stays behind unless CompensateOnFailure is set.
func (s *LocationService) Submit(ctx context.Context, sub Submission) (*models.Location, error) {
	data := sub.Data
	if s.cfg.StripMetadata {
		clean, md, err := media.Sanitize(data, sub.ContentType)
		if err != nil {
			return nil, domain.Invalid("image", "Invalid image format")
		}
		if md.HasGPS {
			s.log.Info("stripped gps metadata from upload", zap.String("filename", sub.Filename))
		}
		data = clean
	}

	key := anon.BlobKey(sub.Extension)
	url, err := s.store.Put(ctx, key, sub.ContentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &domain.StorageError{Op: "put blob", Err: err}
	}

	loc := &models.Location{
		ID:          anon.NewID(),
		Name:        sub.Name,
		Description: sub.Description,
		Latitude:    sub.Latitude,
		Longitude:   sub.Longitude,
		ImageURL:    &url,
		ImageKey:    key,
		Handle:      anon.NewHandle(),
	}
	if err := s.repo.Create(ctx, loc); err != nil {
		if s.cfg.CompensateOnFailure {
			s.removeOrphan(key)
		} else {
			s.log.Warn("orphaned blob after failed insert", zap.String("key", key))
		}
		return nil, &domain.StorageError{Op: "insert location", Err: err}
	}
	return loc, nil
}

func (s *LocationService) removeOrphan(key string) {
	// The request context may already be cancelled; the delete should still run.
	if err := s.store.Delete(context.Background(), key); err != nil {
		s.log.Error("compensating blob delete failed", zap.String("key", key), zap.Error(err))
		return
	}
	s.log.Info("removed blob after failed insert", zap.String("key", key))
}
