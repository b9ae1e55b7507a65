// Package mediatest builds image fixtures for tests.
package mediatest

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
)

// JPEG encodes a small gradient with no metadata.
func JPEG(tb testing.TB) []byte {
	tb.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for x := 0; x < 4; x++ {
		for y := 0; y < 3; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 60), G: uint8(y * 80), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		tb.Fatal(err)
	}
	return buf.Bytes()
}

// JPEGWithGPS is JPEG with an APP1 EXIF segment carrying an orientation tag
// and a GPS fix (1°17'N 36°49'E).
func JPEGWithGPS(tb testing.TB) []byte {
	tb.Helper()
	plain := JPEG(tb)
	out := make([]byte, 0, len(plain)+160)
	out = append(out, plain[:2]...) // SOI
	out = append(out, exifSegment()...)
	return append(out, plain[2:]...)
}

func exifSegment() []byte {
	le := binary.LittleEndian
	tiff := make([]byte, 140)
	copy(tiff, "II")
	le.PutUint16(tiff[2:], 42)
	le.PutUint32(tiff[4:], 8)
	entry := func(off int, tag, typ uint16, count, value uint32) {
		le.PutUint16(tiff[off:], tag)
		le.PutUint16(tiff[off+2:], typ)
		le.PutUint32(tiff[off+4:], count)
		le.PutUint32(tiff[off+8:], value)
	}
	rationals := func(off int, vals ...uint32) {
		for i, v := range vals {
			le.PutUint32(tiff[off+8*i:], v)
			le.PutUint32(tiff[off+8*i+4:], 1)
		}
	}

	// IFD0 at 8: Orientation, GPS IFD pointer; next IFD offset stays 0.
	le.PutUint16(tiff[8:], 2)
	entry(10, 0x0112, 3, 1, 1)
	entry(22, 0x8825, 4, 1, 38)

	// GPS IFD at 38, rationals at 92 and 116.
	le.PutUint16(tiff[38:], 4)
	entry(40, 0x0001, 2, 2, 'N')
	entry(52, 0x0002, 5, 3, 92)
	entry(64, 0x0003, 2, 2, 'E')
	entry(76, 0x0004, 5, 3, 116)
	rationals(92, 1, 17, 0)
	rationals(116, 36, 49, 0)

	payload := append([]byte("Exif\x00\x00"), tiff...)
	seg := []byte{0xFF, 0xE1, 0, 0}
	binary.BigEndian.PutUint16(seg[2:], uint16(len(payload)+2))
	return append(seg, payload...)
}
