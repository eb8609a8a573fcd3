// Package config holds the watermark settings shared by a batch run.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"datestamp/internal/exifdate"
	"datestamp/internal/placement"
	"datestamp/internal/stamp"
)

const (
	MinFontSize = 1
	MaxFontSize = 48
)

// ErrFontSize is returned for a font size outside MinFontSize..MaxFontSize.
var ErrFontSize = fmt.Errorf("font size must be an integer between %d and %d", MinFontSize, MaxFontSize)

// Config is the user-facing configuration, read from flags or a YAML file.
type Config struct {
	FontSize  int    `yaml:"font_size"`
	FontColor string `yaml:"font_color"`
	Position  string `yaml:"position"`
	Font      string `yaml:"font"`
	Quality   int    `yaml:"quality"`
	Lang      string `yaml:"lang"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		FontSize:  24,
		FontColor: "black",
		Position:  string(placement.RightBottom),
		Quality:   stamp.DefaultQuality,
	}
}

// Load reads a YAML file over Default. Unknown keys are rejected.
func Load(filename string) (Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return Config{}, err
	}
	return Parse(data)
}

// Parse decodes YAML over Default.
func Parse(data []byte) (Config, error) {
	ret := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&ret); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return ret, nil
}

// Spec validates c and returns the immutable watermark spec.
func (c Config) Spec() (stamp.Spec, error) {
	if c.FontSize < MinFontSize || c.FontSize > MaxFontSize {
		return stamp.Spec{}, fmt.Errorf("%w, got %d", ErrFontSize, c.FontSize)
	}
	col, err := stamp.ParseColor(c.FontColor)
	if err != nil {
		return stamp.Spec{}, fmt.Errorf("font color: %w", err)
	}
	pos, err := placement.ParsePosition(c.Position)
	if err != nil {
		return stamp.Spec{}, fmt.Errorf("position: %w", err)
	}
	if c.Quality < 1 || c.Quality > 100 {
		return stamp.Spec{}, fmt.Errorf("quality must be between 1 and 100, got %d", c.Quality)
	}
	return stamp.Spec{
		FontSize: c.FontSize,
		Color:    col,
		Position: pos,
		Margin:   placement.DefaultMargin,
	}, nil
}

// Locale is the configured language, or the environment's when unset.
func (c Config) Locale() language.Tag {
	if c.Lang == "" {
		return exifdate.LocaleFromEnv()
	}
	return exifdate.ParseLocale(c.Lang)
}
