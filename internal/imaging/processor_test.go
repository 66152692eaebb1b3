// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// createTestImage creates a simple test image with the given dimensions.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, createTestImage(w, h)); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, createTestImage(w, h), nil); err != nil {
		t.Fatalf("jpeg.Encode: %v", err)
	}
	return buf.Bytes()
}

func encodeGIF(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := gif.Encode(&buf, createTestImage(w, h), nil); err != nil {
		t.Fatalf("gif.Encode: %v", err)
	}
	return buf.Bytes()
}

// padTo appends zero bytes after the image payload. Header decoding ignores
// the trailer, so this yields a valid image of an exact size.
func padTo(data []byte, size int) []byte {
	out := make([]byte, size)
	copy(out, data)
	return out
}

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		declared string
		filename string
		want     string
	}{
		{"image/png", "x.bin", MimeTypePNG},
		{"IMAGE/PNG", "", MimeTypePNG},
		{"image/jpeg; charset=binary", "", MimeTypeJPEG},
		{"image/jpg", "", MimeTypeJPEG},
		{"application/octet-stream", "photo.JPEG", MimeTypeJPEG},
		{"", "anim.gif", MimeTypeGIF},
		{"", "pic.webp", MimeTypeWebP},
		{"", "doc.pdf", ""},
		{"application/pdf", "doc.png", "application/pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.declared+"|"+tt.filename, func(t *testing.T) {
			if got := NormalizeType(tt.declared, tt.filename); got != tt.want {
				t.Errorf("NormalizeType(%q, %q) = %q, want %q", tt.declared, tt.filename, got, tt.want)
			}
		})
	}
}

func TestIsSupportedType(t *testing.T) {
	for _, mt := range []string{MimeTypeJPEG, MimeTypePNG, MimeTypeGIF, MimeTypeWebP} {
		if !IsSupportedType(mt) {
			t.Errorf("IsSupportedType(%q) = false", mt)
		}
	}
	for _, mt := range []string{"image/tiff", "image/svg+xml", "application/pdf", ""} {
		if IsSupportedType(mt) {
			t.Errorf("IsSupportedType(%q) = true", mt)
		}
	}
}

func TestValidate(t *testing.T) {
	p := NewProcessor("")

	t.Run("png", func(t *testing.T) {
		data := encodePNG(t, 40, 20)
		res, err := p.Validate("image/png", "a.png", data)
		if err != nil {
			t.Fatalf("Validate: %v", err)
		}
		if res.Width != 40 || res.Height != 20 {
			t.Errorf("dimensions = %dx%d, want 40x20", res.Width, res.Height)
		}
		if res.Size != int64(len(data)) {
			t.Errorf("Size = %d, want %d", res.Size, len(data))
		}
		if !strings.HasPrefix(res.DataURI, "data:image/png;base64,") {
			t.Errorf("DataURI prefix = %q", res.DataURI[:30])
		}
		if res.Ext() != ".png" {
			t.Errorf("Ext = %q", res.Ext())
		}
	})

	t.Run("jpeg via extension fallback", func(t *testing.T) {
		res, err := p.Validate("application/octet-stream", "photo.jpg", encodeJPEG(t, 8, 8))
		if err != nil {
			t.Fatalf("Validate: %v", err)
		}
		if res.MimeType != MimeTypeJPEG {
			t.Errorf("MimeType = %q", res.MimeType)
		}
	})

	t.Run("gif", func(t *testing.T) {
		if _, err := p.Validate("image/gif", "", encodeGIF(t, 4, 4)); err != nil {
			t.Fatalf("Validate: %v", err)
		}
	})

	t.Run("unsupported declared type", func(t *testing.T) {
		_, err := p.Validate("application/pdf", "doc.pdf", []byte("%PDF-1.4"))
		if !errors.Is(err, ErrUnsupportedType) {
			t.Errorf("err = %v, want ErrUnsupportedType", err)
		}
	})

	t.Run("content does not match declared type", func(t *testing.T) {
		_, err := p.Validate("image/jpeg", "", encodePNG(t, 4, 4))
		if !errors.Is(err, ErrUnsupportedType) {
			t.Errorf("err = %v, want ErrUnsupportedType", err)
		}
	})

	t.Run("garbage bytes", func(t *testing.T) {
		_, err := p.Validate("image/png", "", []byte("not an image"))
		if !errors.Is(err, ErrUnsupportedType) {
			t.Errorf("err = %v, want ErrUnsupportedType", err)
		}
	})

	t.Run("exactly at limit", func(t *testing.T) {
		data := padTo(encodePNG(t, 2, 2), MaxImageSize)
		if _, err := p.Validate("image/png", "", data); err != nil {
			t.Errorf("Validate at limit: %v", err)
		}
	})

	t.Run("over limit", func(t *testing.T) {
		data := padTo(encodePNG(t, 2, 2), MaxImageSize+1)
		_, err := p.Validate("image/png", "", data)
		if !errors.Is(err, ErrTooLarge) {
			t.Errorf("err = %v, want ErrTooLarge", err)
		}
	})

	t.Run("type is checked before size", func(t *testing.T) {
		data := padTo([]byte("junk"), MaxImageSize+1)
		_, err := p.Validate("application/zip", "", data)
		if !errors.Is(err, ErrUnsupportedType) {
			t.Errorf("err = %v, want ErrUnsupportedType", err)
		}
	})
}

func TestDataURIRoundTrip(t *testing.T) {
	p := NewProcessor("")
	data := encodePNG(t, 3, 3)

	uri := EncodeDataURI(MimeTypePNG, data)
	if !IsDataURI(uri) {
		t.Fatal("IsDataURI = false")
	}

	res, decoded, err := p.ValidateDataURI(uri)
	if err != nil {
		t.Fatalf("ValidateDataURI: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Error("decoded bytes differ")
	}
	if res.DataURI != uri {
		t.Error("re-encoded URI differs")
	}
}

func TestDecodeDataURIErrors(t *testing.T) {
	tests := []string{
		"https://example.test/a.png",
		"data:image/png,plain",
		"data:image/png;base64",
		"data:image/png;base64,!!!",
	}
	for _, in := range tests {
		if _, _, err := DecodeDataURI(in); !errors.Is(err, ErrInvalidDataURI) {
			t.Errorf("DecodeDataURI(%q) err = %v, want ErrInvalidDataURI", in, err)
		}
	}
}

func TestMirror(t *testing.T) {
	dir := t.TempDir()
	p := NewProcessor(dir)
	p.now = func() time.Time { return time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC) }

	data := encodePNG(t, 2, 2)
	res, err := p.Validate("image/png", "", data)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}

	rel, err := p.Mirror(res, data)
	if err != nil {
		t.Fatalf("Mirror: %v", err)
	}
	if !strings.HasPrefix(rel, "2026/01/") || !strings.HasSuffix(rel, ".png") {
		t.Errorf("rel = %q", rel)
	}

	onDisk, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(onDisk, data) {
		t.Error("mirrored bytes differ")
	}

	if err := p.RemoveMirror(rel); err != nil {
		t.Fatalf("RemoveMirror: %v", err)
	}
	if err := p.RemoveMirror(rel); err != nil {
		t.Errorf("second RemoveMirror: %v", err)
	}
	if err := p.RemoveMirror("../../etc/passwd"); err == nil {
		t.Error("expected traversal error")
	}
}

func TestMirrorDisabled(t *testing.T) {
	p := NewProcessor("")
	rel, err := p.Mirror(&Result{MimeType: MimeTypePNG}, []byte("x"))
	if err != nil || rel != "" {
		t.Errorf("Mirror with no dir = %q, %v", rel, err)
	}
}
