// Package anon generates the opaque identifiers and throwaway display handles
// used in place of user accounts.
package anon

import (
	"strings"

	"github.com/google/uuid"
)

const HandlePrefix = "Anonymous#"

func hex() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// NewID returns a 32 character random identifier.
func NewID() string {
	return hex()
}

// NewHandle returns a fresh display label such as "Anonymous#3f9a0c". It is
// regenerated for every post and comment and never identifies a submitter.
func NewHandle() string {
	return HandlePrefix + hex()[:6]
}

// BlobKey builds a storage key from a fresh id and ext, the extension of the
// sniffed content type (e.g. ".png"). The client's filename plays no part.
func BlobKey(ext string) string {
	ext = strings.ToLower(ext)
	if !validExt(ext) {
		ext = ""
	}
	return hex() + ext
}

func validExt(ext string) bool {
	if len(ext) < 2 || len(ext) > 8 || ext[0] != '.' {
		return false
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
