package stamp

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// CJKFonts are system fonts tried before the built-in faces so localized
// text has glyphs.
var CJKFonts = []string{
	"simhei.ttf",
	"NotoSansCJK-Regular.ttc",
	"NotoSansSC-Regular.otf",
	"wqy-microhei.ttc",
	"wqy-zenhei.ttc",
	"msyh.ttc",
	"PingFang.ttc",
}

// glyphSet is implemented by faces that can tell whether their font maps a
// rune to a real glyph rather than the missing-glyph box.
type glyphSet interface {
	HasGlyph(r rune) bool
}

// Covers reports whether face has a glyph for every non-space rune of text.
// Faces that cannot tell are assumed to cover it.
func Covers(face font.Face, text string) bool {
	gs, ok := face.(glyphSet)
	if !ok {
		return true
	}
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		if !gs.HasGlyph(r) {
			return false
		}
	}
	return true
}

type sfntFace struct {
	font.Face
	ft  *opentype.Font
	buf sfnt.Buffer
}

func (f *sfntFace) HasGlyph(r rune) bool {
	idx, err := f.ft.GlyphIndex(&f.buf, r)
	return err == nil && idx != 0
}

type basicFace struct {
	*basicfont.Face
}

func (f basicFace) HasGlyph(r rune) bool {
	for _, rng := range f.Ranges {
		if rng.Low <= r && r < rng.High {
			return true
		}
	}
	return false
}

// FaceSource is one way of obtaining a font face.
type FaceSource interface {
	Name() string
	Face(size int) (font.Face, error)
}

// FileFont loads a TrueType/OpenType file or the first font of a .ttc
// collection. A bare file name is looked up in the system font directories.
type FileFont struct {
	Path string
}

func (f FileFont) Name() string { return "file " + f.Path }

func (f FileFont) Face(size int) (font.Face, error) {
	path := f.Path
	if filepath.Base(path) == path && !filepath.IsAbs(path) {
		if p := findSystemFont(path); p != "" {
			path = p
		}
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	var ft *opentype.Font
	if strings.EqualFold(filepath.Ext(path), ".ttc") {
		coll, err := opentype.ParseCollection(b)
		if err != nil {
			return nil, fmt.Errorf("parse font collection: %w", err)
		}
		ft, err = coll.Font(0)
		if err != nil {
			return nil, fmt.Errorf("font collection: %w", err)
		}
	} else {
		ft, err = opentype.Parse(b)
		if err != nil {
			return nil, fmt.Errorf("parse font: %w", err)
		}
	}
	return newFace(ft, size)
}

// GoRegular is the Go Regular font compiled into the binary.
type GoRegular struct{}

func (GoRegular) Name() string { return "go regular" }

func (GoRegular) Face(size int) (font.Face, error) {
	ft, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse go regular: %w", err)
	}
	return newFace(ft, size)
}

// Basic is the fixed 7x13 bitmap face. It ignores size and cannot fail.
type Basic struct{}

func (Basic) Name() string { return "basic 7x13" }

func (Basic) Face(int) (font.Face, error) { return basicFace{basicfont.Face7x13}, nil }

// At 72 DPI a point is a pixel.
func newFace(ft *opentype.Font, size int) (font.Face, error) {
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	return &sfntFace{Face: face, ft: ft}, nil
}

// Sources returns the default strategy order: the named font file when one
// is given, then the CJK system fonts, then Go Regular, then the basic
// bitmap face.
func Sources(fontPath string) []FaceSource {
	var out []FaceSource
	if fontPath != "" {
		out = append(out, FileFont{Path: fontPath})
	}
	for _, name := range CJKFonts {
		out = append(out, FileFont{Path: name})
	}
	return append(out, GoRegular{}, Basic{})
}

// LoadFace tries each source in order and returns the first face that has
// glyphs for all of text, along with the source's name. If no loadable face
// covers text the first loadable one is returned. The error is only
// returned when no source loads and lists every failure.
func LoadFace(size int, text string, sources ...FaceSource) (font.Face, string, error) {
	var (
		errs      *multierror.Error
		first     font.Face
		firstName string
	)
	for _, src := range sources {
		face, err := src.Face(size)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}
		if Covers(face, text) {
			if first != nil {
				first.Close()
			}
			return face, src.Name(), nil
		}
		if first == nil {
			first, firstName = face, src.Name()
		} else {
			face.Close()
		}
	}
	if first != nil {
		return first, firstName, nil
	}
	if errs == nil {
		return nil, "", errors.New("no font sources")
	}
	return nil, "", errs
}

// findSystemFont searches common system font directories for the given filename (case-insensitive)
func findSystemFont(filename string) string {
	var dirs []string
	switch runtime.GOOS {
	case "windows":
		dirs = []string{`C:\Windows\Fonts`}
	case "darwin":
		dirs = []string{"/System/Library/Fonts", "/Library/Fonts", filepath.Join(os.Getenv("HOME"), "Library/Fonts")}
	default:
		dirs = []string{"/usr/share/fonts", "/usr/local/share/fonts", filepath.Join(os.Getenv("HOME"), ".fonts")}
	}

	for _, d := range dirs {
		if p := findIn(d, filename); p != "" {
			return p
		}
	}
	return ""
}

// findIn walks dir looking for filename, exact match first.
func findIn(dir, filename string) string {
	if p := filepath.Join(dir, filename); fileExists(p) {
		return p
	}
	var found string
	filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && strings.EqualFold(d.Name(), filename) {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	return found
}

func fileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}
