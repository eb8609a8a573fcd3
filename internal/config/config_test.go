package config

import (
	"errors"
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"datestamp/internal/placement"
	"datestamp/internal/testimg"
)

func TestDefaultSpec(t *testing.T) {
	spec, err := Default().Spec()
	if err != nil {
		t.Fatalf("Spec: %v", err)
	}
	if spec.FontSize != 24 || spec.Position != placement.RightBottom || spec.Margin != 10 {
		t.Errorf("spec = %+v", spec)
	}
	if spec.Color != (color.RGBA{A: 0xff}) {
		t.Errorf("color = %v, want black", spec.Color)
	}
}

func TestSpecFontSizeBounds(t *testing.T) {
	for _, size := range []int{-3, 0, 49, 100} {
		c := Default()
		c.FontSize = size
		if _, err := c.Spec(); !errors.Is(err, ErrFontSize) {
			t.Errorf("size %d: err = %v, want ErrFontSize", size, err)
		}
	}
	for _, size := range []int{1, 48} {
		c := Default()
		c.FontSize = size
		if _, err := c.Spec(); err != nil {
			t.Errorf("size %d: %v", size, err)
		}
	}
}

func TestSpecRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Config)
		want string
	}{
		{"color", func(c *Config) { c.FontColor = "blurple" }, "font color"},
		{"position", func(c *Config) { c.Position = "top" }, "position"},
		{"quality", func(c *Config) { c.Quality = 0 }, "quality"},
	}
	for _, tt := range tests {
		c := Default()
		tt.edit(&c)
		_, err := c.Spec()
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: err = %v", tt.name, err)
		}
	}
}

func TestParse(t *testing.T) {
	c, err := Parse([]byte("font_size: 12\nposition: c\nfont_color: '#00ff00'\nlang: zh_CN\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := Default()
	want.FontSize = 12
	want.Position = "c"
	want.FontColor = "#00ff00"
	want.Lang = "zh_CN"
	if c != want {
		t.Errorf("got %+v\nwant %+v", c, want)
	}
	if c.Locale().String() != "zh-CN" {
		t.Errorf("locale = %v", c.Locale())
	}
}

func TestParseEmptyKeepsDefaults(t *testing.T) {
	c, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c != Default() {
		t.Errorf("got %+v", c)
	}
}

func TestParseUnknownKey(t *testing.T) {
	if _, err := Parse([]byte("font_sise: 12\n")); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	p := testimg.Write(t, dir, "datestamp.yaml", []byte("quality: 80\n"))
	c, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Quality != 80 || c.FontSize != 24 {
		t.Errorf("got %+v", c)
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
