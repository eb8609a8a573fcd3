// Package placement computes where watermark text is drawn on an image.
package placement

import (
	"fmt"
	"image"
	"strings"
)

// DefaultMargin is the inset in pixels used for corner anchors.
const DefaultMargin = 10

// Position is an anchor tag.
type Position string

const (
	LeftTop     Position = "lt"
	RightTop    Position = "rt"
	LeftBottom  Position = "lb"
	RightBottom Position = "rb"
	Center      Position = "c"
)

// Positions lists the recognized tags in display order.
var Positions = []Position{LeftTop, RightTop, LeftBottom, RightBottom, Center}

var longNames = map[string]Position{
	"left-top":     LeftTop,
	"right-top":    RightTop,
	"left-bottom":  LeftBottom,
	"right-bottom": RightBottom,
	"center":       Center,
}

// ParsePosition accepts a short tag (lt, rt, lb, rb, c) or its long name.
func ParsePosition(s string) (Position, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, p := range Positions {
		if string(p) == s {
			return p, nil
		}
	}
	if p, ok := longNames[s]; ok {
		return p, nil
	}
	return "", fmt.Errorf("unknown position %q (want one of %s)", s, tagList())
}

func tagList() string {
	tags := make([]string, len(Positions))
	for i, p := range Positions {
		tags[i] = string(p)
	}
	return strings.Join(tags, ", ")
}

func (p Position) String() string { return string(p) }

// Set implements pflag.Value.
func (p *Position) Set(s string) error {
	v, err := ParsePosition(s)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Type implements pflag.Value.
func (p *Position) Type() string { return "position" }

// Place returns the top-left point for a text box of size text inside an
// image of size img. Unknown positions fall back to LeftTop. The result is
// not clamped and goes negative when the text does not fit.
func Place(pos Position, img, text image.Point, margin int) image.Point {
	switch pos {
	case RightTop:
		return image.Pt(img.X-text.X-margin, margin)
	case LeftBottom:
		return image.Pt(margin, img.Y-text.Y-margin)
	case RightBottom:
		return image.Pt(img.X-text.X-margin, img.Y-text.Y-margin)
	case Center:
		return image.Pt(floorHalf(img.X-text.X), floorHalf(img.Y-text.Y))
	default:
		return image.Pt(margin, margin)
	}
}

// floorHalf is n/2 rounded toward negative infinity.
func floorHalf(n int) int {
	if n < 0 {
		return -((-n + 1) / 2)
	}
	return n / 2
}
