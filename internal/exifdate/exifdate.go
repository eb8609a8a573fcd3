// Package exifdate reads the capture date embedded in an image's EXIF block.
package exifdate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// ErrNoCaptureDate is returned when the image carries no usable
// DateTimeOriginal value.
var ErrNoCaptureDate = errors.New("no capture date")

// Lookup decodes EXIF from r and returns the DateTimeOriginal date as
// YYYY-MM-DD.
func Lookup(r io.Reader) (string, error) {
	x, err := exif.Decode(r)
	if err != nil {
		return "", fmt.Errorf("decode exif: %w", err)
	}
	tag, err := x.Get(exif.DateTimeOriginal)
	if err != nil || tag == nil {
		return "", ErrNoCaptureDate
	}
	raw, err := tagText(tag)
	if err != nil {
		return "", err
	}
	return normalize(raw)
}

// tagText returns the tag value as text. Some writers store the timestamp
// as BYTE or UNDEFINED instead of ASCII.
func tagText(tag *tiff.Tag) (string, error) {
	switch tag.Type {
	case tiff.DTAscii:
		return tag.StringVal()
	case tiff.DTByte, tiff.DTUndefined:
		b := bytes.TrimRight(tag.Val, "\x00")
		if !utf8.Valid(b) {
			return "", fmt.Errorf("DateTimeOriginal: invalid utf-8 in %d byte value", len(b))
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("DateTimeOriginal: unexpected tag type %d", tag.Type)
	}
}

// normalize turns "2006:01:02 15:04:05" into "2006-01-02".
func normalize(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrNoCaptureDate
	}
	date, _, _ := strings.Cut(s, " ")
	return strings.ReplaceAll(date, ":", "-"), nil
}

// Resolver maps an image path to a capture date string, substituting
// Fallback whenever the date cannot be read.
type Resolver struct {
	Fallback string
}

// NewResolver returns a Resolver whose fallback is fallback.
func NewResolver(fallback string) *Resolver {
	return &Resolver{Fallback: fallback}
}

// Resolve never fails; any open or decode error yields r.Fallback.
func (r *Resolver) Resolve(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return r.Fallback
	}
	defer f.Close()
	return r.ResolveReader(f)
}

// ResolveReader is Resolve for an already opened image.
func (r *Resolver) ResolveReader(rd io.Reader) string {
	date, err := Lookup(rd)
	if err != nil {
		return r.Fallback
	}
	return date
}
