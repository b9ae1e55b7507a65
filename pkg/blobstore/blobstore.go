// Package blobstore holds uploaded media under random keys and resolves
// their public URLs.
package blobstore

import (
	"context"
	"errors"
	"io"
	"strings"
)

var (
	ErrNotFound   = errors.New("blob not found")
	ErrInvalidKey = errors.New("invalid blob key")
)

// Store writes and removes blobs. Put returns the public URL of the blob.
type Store interface {
	Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (url string, err error)
	Delete(ctx context.Context, key string) error
}

// Opener is implemented by stores whose bytes are served by this process
// under /media/:key rather than by a CDN.
type Opener interface {
	Open(ctx context.Context, key string) (rc io.ReadCloser, contentType string, err error)
}

// PublicURL joins a base URL and a key.
func PublicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}

// ValidKey rejects keys that could escape a directory or bucket namespace.
func ValidKey(key string) bool {
	if key == "" || len(key) > 64 || strings.HasPrefix(key, ".") {
		return false
	}
	return !strings.ContainsAny(key, `/\`) && !strings.Contains(key, "..")
}
