package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps blobs as files in Directory.
type LocalStore struct {
	Directory     string
	PublicBaseURL string
}

func NewLocalStore(dir, publicBaseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &LocalStore{Directory: dir, PublicBaseURL: publicBaseURL}, nil
}

func (s *LocalStore) path(key string) (string, error) {
	if !ValidKey(key) {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.Directory, key), nil
}

func (s *LocalStore) Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error) {
	p, err := s.path(key)
	if err != nil {
		return "", err
	}
	// Write to a temp file first so a half-written blob is never served.
	tmp, err := os.CreateTemp(s.Directory, ".upload-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return "", err
	}
	return PublicURL(s.PublicBaseURL, key), nil
}

func (s *LocalStore) Delete(ctx context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalStore) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	return f, servedType(key), nil
}

var servedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// servedType maps a key's extension to a raster image type. Anything else is
// served as an opaque download.
func servedType(key string) string {
	ct := mime.TypeByExtension(filepath.Ext(key))
	if mt, _, _ := strings.Cut(ct, ";"); servedTypes[mt] {
		return mt
	}
	return "application/octet-stream"
}
