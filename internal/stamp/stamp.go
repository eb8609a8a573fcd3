// Package stamp renders a capture-date watermark onto a single image.
package stamp

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"datestamp/internal/exifdate"
	"datestamp/internal/placement"
)

// DefaultQuality is the JPEG quality used for output.
const DefaultQuality = 95

// Spec is the watermark configuration shared by every image of a batch.
type Spec struct {
	FontSize int
	Color    color.RGBA
	Position placement.Position
	Margin   int
}

// Stamper watermarks images one at a time. Face is not safe for concurrent
// use, so neither is a Stamper.
type Stamper struct {
	Spec    Spec
	Face    font.Face
	Dates   *exifdate.Resolver
	Quality int
}

// Process reads src, stamps its capture date and writes the result to dst.
// The encoder is picked from dst's extension.
func (s *Stamper) Process(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	text := s.Dates.ResolveReader(bytes.NewReader(data))

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	canvas := Flatten(img)
	s.Draw(canvas, text)
	return Save(canvas, dst, s.Quality)
}

// Draw renders text onto dst and returns the top-left corner of the text's
// bounding box.
func (s *Stamper) Draw(dst *image.RGBA, text string) image.Point {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(s.Spec.Color),
		Face: s.Face,
	}
	box, size := Measure(d, text)
	b := dst.Bounds()
	at := placement.Place(s.Spec.Position, b.Size(), size, s.Spec.Margin).Add(b.Min)

	// shift the dot so the box's top-left lands on at
	d.Dot = fixed.P(at.X-box.Min.X, at.Y-box.Min.Y)
	d.DrawString(text)
	return at
}

// Measure returns the pixel-aligned bounding box of text relative to a dot
// at the origin, and its size.
func Measure(d *font.Drawer, text string) (image.Rectangle, image.Point) {
	fb, _ := d.BoundString(text)
	box := image.Rect(fb.Min.X.Floor(), fb.Min.Y.Floor(), fb.Max.X.Ceil(), fb.Max.Y.Ceil())
	return box, box.Size()
}

// Flatten copies img onto an opaque RGBA canvas. Alpha is dropped and the
// straight color channels are kept.
func Flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(b)
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		draw.Draw(dst, b, img, b.Min, draw.Src)
		return dst
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			dst.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
		}
	}
	return dst
}

// Save encodes img to path as PNG or JPEG depending on the extension.
func Save(img image.Image, path string, quality int) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".png" && ext != ".jpg" && ext != ".jpeg" {
		return fmt.Errorf("unsupported output format %q", ext)
	}
	if quality <= 0 {
		quality = DefaultQuality
	}

	of, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer of.Close()

	switch ext {
	case ".png":
		if err := png.Encode(of, img); err != nil {
			return fmt.Errorf("encode png: %w", err)
		}
	default:
		if err := jpeg.Encode(of, img, &jpeg.Options{Quality: quality}); err != nil {
			return fmt.Errorf("encode jpeg: %w", err)
		}
	}
	if err := of.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}
