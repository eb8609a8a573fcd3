package exifdate

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"datestamp/internal/testimg"
)

func TestLookup(t *testing.T) {
	jpg := testimg.JPEG(t, 16, 16)
	stamp := []byte("2021:07:15 10:20:30\x00")

	tests := []struct {
		name    string
		data    []byte
		want    string
		wantErr error
	}{
		{"ascii", testimg.WithExif(jpg, testimg.Exif(stamp, testimg.TypeASCII)), "2021-07-15", nil},
		{"bytes", testimg.WithExif(jpg, testimg.Exif(stamp, testimg.TypeByte)), "2021-07-15", nil},
		{"undefined", testimg.WithExif(jpg, testimg.Exif(stamp, testimg.TypeUndefined)), "2021-07-15", nil},
		{"date only", testimg.WithExif(jpg, testimg.Exif([]byte("1999:12:31\x00"), testimg.TypeASCII)), "1999-12-31", nil},
		{"blank", testimg.WithExif(jpg, testimg.Exif([]byte("     \x00"), testimg.TypeASCII)), "", ErrNoCaptureDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lookup(bytes.NewReader(tt.data))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Lookup: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLookupWithoutExif(t *testing.T) {
	for name, data := range map[string][]byte{
		"jpeg": testimg.JPEG(t, 8, 8),
		"png":  testimg.PNG(t, 8, 8),
		"junk": []byte("not an image"),
	} {
		if _, err := Lookup(bytes.NewReader(data)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLookupInvalidUTF8(t *testing.T) {
	data := testimg.WithExif(testimg.JPEG(t, 8, 8), testimg.Exif([]byte{0xff, 0xfe, 0xfd, 0xfc, 0xfb, 0}, testimg.TypeUndefined))
	if _, err := Lookup(bytes.NewReader(data)); err == nil {
		t.Fatal("expected error for invalid utf-8")
	}
}

func TestResolver(t *testing.T) {
	dir := t.TempDir()
	dated := testimg.Write(t, dir, "dated.jpg", testimg.DatedJPEG(t, 16, 16, "2008:02:29 23:59:59"))
	plain := testimg.Write(t, dir, "plain.png", testimg.PNG(t, 16, 16))

	r := NewResolver("unknown")
	if got := r.Resolve(dated); got != "2008-02-29" {
		t.Errorf("dated: got %q", got)
	}
	if got := r.Resolve(plain); got != "unknown" {
		t.Errorf("plain: got %q", got)
	}
	if got := r.Resolve(filepath.Join(dir, "missing.jpg")); got != "unknown" {
		t.Errorf("missing: got %q", got)
	}
}

func TestSentinel(t *testing.T) {
	tests := []struct {
		locale string
		want   string
	}{
		{"en_US.UTF-8", "no capture date"},
		{"zh_CN.UTF-8", "无拍摄时间"},
		{"zh-Hans", "无拍摄时间"},
		{"fr_FR", "no capture date"},
		{"C", "no capture date"},
		{"", "no capture date"},
		{"!!", "no capture date"},
	}
	for _, tt := range tests {
		if got := Sentinel(ParseLocale(tt.locale)); got != tt.want {
			t.Errorf("Sentinel(%q) = %q, want %q", tt.locale, got, tt.want)
		}
	}
}

func TestLocaleFromEnv(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "zh_CN.UTF-8")
	if got := LocaleFromEnv(); got.String() != "zh-CN" {
		t.Errorf("LANG: got %v", got)
	}

	t.Setenv("LC_ALL", "en_GB")
	if got := LocaleFromEnv(); got.String() != "en-GB" {
		t.Errorf("LC_ALL: got %v", got)
	}
}
