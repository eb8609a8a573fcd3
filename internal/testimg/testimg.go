// Package testimg builds small JPEG and PNG fixtures for tests, optionally
// carrying an EXIF DateTimeOriginal tag.
package testimg

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// EXIF field types used by Exif.
const (
	TypeByte      uint16 = 1
	TypeASCII     uint16 = 2
	TypeUndefined uint16 = 7
)

const (
	tagExifIFD          = 0x8769
	tagDateTimeOriginal = 0x9003
	typeLong            = 4
)

// Gray returns a w x h image filled with a mid gray.
func Gray(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0x80
	}
	return img
}

// JPEG encodes a gray w x h JPEG.
func JPEG(t testing.TB, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, Gray(w, h), &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

// PNG encodes a w x h PNG with a transparent left half.
func PNG(t testing.TB, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			a := uint8(0xff)
			if x < w/2 {
				a = 0
			}
			img.SetNRGBA(x, y, color.NRGBA{R: 0x20, G: 0x40, B: 0x60, A: a})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// Exif returns a little-endian TIFF block whose Exif sub-IFD holds a single
// DateTimeOriginal entry of the given type. value must be longer than four
// bytes so it is stored out of line.
func Exif(value []byte, typ uint16) []byte {
	le := binary.LittleEndian
	var b bytes.Buffer
	w := func(v any) { binary.Write(&b, le, v) }

	b.WriteString("II")
	w(uint16(42))
	w(uint32(8))

	// IFD0 at 8: pointer to the Exif IFD at 26.
	w(uint16(1))
	w(uint16(tagExifIFD))
	w(uint16(typeLong))
	w(uint32(1))
	w(uint32(26))
	w(uint32(0))

	// Exif IFD at 26: DateTimeOriginal, data at 44.
	w(uint16(1))
	w(uint16(tagDateTimeOriginal))
	w(typ)
	w(uint32(len(value)))
	w(uint32(44))
	w(uint32(0))

	b.Write(value)
	return b.Bytes()
}

// WithExif splices tiffData into jpg as an APP1 segment right after SOI.
func WithExif(jpg, tiffData []byte) []byte {
	payload := append([]byte("Exif\x00\x00"), tiffData...)
	var b bytes.Buffer
	b.Write(jpg[:2])
	b.Write([]byte{0xff, 0xe1})
	binary.Write(&b, binary.BigEndian, uint16(len(payload)+2))
	b.Write(payload)
	b.Write(jpg[2:])
	return b.Bytes()
}

// DatedJPEG is a JPEG with an ASCII DateTimeOriginal of stamp, e.g.
// "2021:07:15 10:20:30".
func DatedJPEG(t testing.TB, w, h int, stamp string) []byte {
	t.Helper()
	return WithExif(JPEG(t, w, h), Exif(append([]byte(stamp), 0), TypeASCII))
}

// Write stores data at dir/name, creating parent directories.
func Write(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}
