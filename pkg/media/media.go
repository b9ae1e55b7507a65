// Package media inspects uploaded images before they are stored.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rwcarlsen/goexif/exif"
)

var ErrUndecodable = errors.New("image could not be decoded")

const jpegQuality = 90

// Detect returns the sniffed MIME type (without parameters) and its extension.
func Detect(data []byte) (mimeType, ext string) {
	m := mimetype.Detect(data)
	mt, _, _ := strings.Cut(m.String(), ";")
	return strings.TrimSpace(mt), m.Extension()
}

// Metadata reports what EXIF a JPEG carries.
type Metadata struct {
	HasEXIF bool
	HasGPS  bool
}

func Inspect(data []byte) Metadata {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil || x == nil {
		return Metadata{}
	}
	md := Metadata{HasEXIF: true}
	if _, _, err := x.LatLong(); err == nil {
		md.HasGPS = true
	}
	return md
}

// Sanitize drops EXIF from JPEGs by re-encoding them, applying the EXIF
// orientation first so the picture keeps its intended rotation. Other types
// and JPEGs without EXIF are returned unchanged.
func Sanitize(data []byte, mimeType string) ([]byte, Metadata, error) {
	if mimeType != "image/jpeg" {
		return data, Metadata{}, nil
	}
	md := Inspect(data)
	if !md.HasEXIF {
		return data, md, nil
	}
	out, err := reencodeJPEG(data)
	if err != nil {
		return nil, md, err
	}
	return out, md, nil
}

func reencodeJPEG(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
