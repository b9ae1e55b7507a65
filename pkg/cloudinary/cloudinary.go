package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
)

// Optimized image params for fast frontend loading
const (
	ImageQuality     = "auto"
	ImageFetchFormat = "auto"
	ImageWidth       = 800
)

// BuildOptimizedImageURL returns a Cloudinary URL with transformations for optimized delivery.
func BuildOptimizedImageURL(cloudName, publicID string, width int) string {
	if width <= 0 {
		width = ImageWidth
	}
	return fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/q_%s,f_%s,w_%d,c_limit/%s",
		cloudName, ImageQuality, ImageFetchFormat, width, publicID)
}

// Store puts location images into a Cloudinary folder. The blob key minus
// its extension becomes the public id; Cloudinary serves the bytes.
type Store struct {
	cloudName string
	folder    string
	uploader  *uploader.API
}

// NewStoreFromParams builds a Store from Cloudinary cloud name, API key, and secret.
func NewStoreFromParams(cloudName, apiKey, apiSecret, folder string) (*Store, error) {
	cfg, err := config.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	up, err := uploader.NewWithConfiguration(cfg)
	if err != nil {
		return nil, err
	}
	return &Store{cloudName: cloudName, folder: strings.Trim(folder, "/"), uploader: up}, nil
}

// PublicID strips the extension; Cloudinary appends the delivered format itself.
func PublicID(key string) string {
	return strings.TrimSuffix(key, path.Ext(key))
}

func (s *Store) fullID(key string) string {
	if s.folder == "" {
		return PublicID(key)
	}
	return s.folder + "/" + PublicID(key)
}

// Put uploads the image and returns its secure URL.
func (s *Store) Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error) {
	overwrite := false
	result, err := s.uploader.Upload(ctx, r, uploader.UploadParams{
		Folder:    s.folder,
		PublicID:  PublicID(key),
		Overwrite: &overwrite,
	})
	if err != nil {
		return "", err
	}
	if result.Error.Message != "" {
		return "", errors.New(result.Error.Message)
	}
	if result.SecureURL == "" {
		return BuildOptimizedImageURL(s.cloudName, s.fullID(key), 0), nil
	}
	return result.SecureURL, nil
}

// Delete destroys the image by public id.
func (s *Store) Delete(ctx context.Context, key string) error {
	result, err := s.uploader.Destroy(ctx, uploader.DestroyParams{
		PublicID: s.fullID(key),
	})
	if err != nil {
		return err
	}
	if result.Error.Message != "" {
		return errors.New(result.Error.Message)
	}
	return nil
}
