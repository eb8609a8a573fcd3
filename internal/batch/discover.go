// Package batch finds images and watermarks them one after another.
package batch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrInputNotFound is returned by Discover when the input path does not exist.
var ErrInputNotFound = errors.New("input path does not exist")

// Extensions are the supported image suffixes, compared case-insensitively.
var Extensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// IsImage reports whether path has a supported image extension.
func IsImage(path string) bool {
	return Extensions[strings.ToLower(filepath.Ext(path))]
}

// Discover returns the images under input. A file yields itself if it is
// an image; a directory is walked recursively in lexical order.
func Discover(input string) ([]string, error) {
	fi, err := os.Stat(input)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, input)
	}
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}

	if !fi.IsDir() {
		if fi.Mode().IsRegular() && IsImage(input) {
			return []string{input}, nil
		}
		return nil, nil
	}

	var images []string
	err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// unreadable subdirectories are skipped, the root is not
			if path == input {
				return err
			}
			return nil
		}
		if !IsImage(d.Name()) {
			return nil
		}
		switch {
		case d.Type().IsRegular():
			images = append(images, path)
		case d.Type()&fs.ModeSymlink != 0:
			// follow links to files; linked directories are not descended
			if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
				images = append(images, path)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", input, err)
	}
	return images, nil
}

// OutputDir is <parent>/watermark for a file input and
// <parent>/<name>_watermark for a directory input.
func OutputDir(input string, isDir bool) (string, error) {
	abs, err := filepath.Abs(input)
	if err != nil {
		return "", fmt.Errorf("resolve input: %w", err)
	}
	parent := filepath.Dir(abs)
	if !isDir {
		return filepath.Join(parent, "watermark"), nil
	}
	return filepath.Join(parent, filepath.Base(abs)+"_watermark"), nil
}
