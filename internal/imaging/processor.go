// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging validates uploaded images and mirrors accepted bytes to disk.
// Images are never transformed; only their header is decoded to confirm
// the declared format and to read dimensions.
package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // GIF header decoder
	_ "image/jpeg" // JPEG header decoder
	_ "image/png"  // PNG header decoder
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp" // WebP header decoder

	"github.com/olegiv/portfolio-api/internal/util"
)

// Supported MIME types.
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
)

// MaxImageSize is the largest accepted decoded image, in bytes.
const MaxImageSize = 5 << 20

var (
	// ErrUnsupportedType is returned when the declared type is not an accepted
	// image type or the bytes do not decode as that type.
	ErrUnsupportedType = errors.New("unsupported image type")
	// ErrTooLarge is returned when the decoded image exceeds the size limit.
	ErrTooLarge = errors.New("image too large")
	// ErrInvalidDataURI is returned for malformed inline base64 images.
	ErrInvalidDataURI = errors.New("invalid data URI")
)

// formats maps decoder names from image.DecodeConfig to MIME types.
var formats = map[string]string{
	"jpeg": MimeTypeJPEG,
	"png":  MimeTypePNG,
	"gif":  MimeTypeGIF,
	"webp": MimeTypeWebP,
}

var extensions = map[string]string{
	MimeTypeJPEG: ".jpg",
	MimeTypePNG:  ".png",
	MimeTypeGIF:  ".gif",
	MimeTypeWebP: ".webp",
}

// Result describes an accepted image.
type Result struct {
	MimeType string
	Size     int64
	Width    int
	Height   int
	DataURI  string
}

// Ext returns the canonical file extension for the image type.
func (r *Result) Ext() string {
	return extensions[r.MimeType]
}

// Processor validates images and mirrors them under uploadDir.
type Processor struct {
	uploadDir string
	maxSize   int64
	now       func() time.Time
}

// NewProcessor creates a new image processor.
// An empty uploadDir disables mirroring.
func NewProcessor(uploadDir string) *Processor {
	return &Processor{
		uploadDir: uploadDir,
		maxSize:   MaxImageSize,
		now:       time.Now,
	}
}

// MaxSize returns the per-image size limit.
func (p *Processor) MaxSize() int64 {
	return p.maxSize
}

// IsSupportedType checks if a MIME type is accepted for upload.
func IsSupportedType(mimeType string) bool {
	_, ok := extensions[mimeType]
	return ok
}

// NormalizeType resolves the effective content type of an upload.
// Parameters such as charset are dropped, "image/jpg" is folded into
// "image/jpeg", and a generic or missing type falls back to the
// filename extension.
func NormalizeType(declared, filename string) string {
	mt := strings.ToLower(strings.TrimSpace(declared))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	if mt == "image/jpg" || mt == "image/pjpeg" {
		mt = MimeTypeJPEG
	}
	if mt == "" || mt == "application/octet-stream" {
		mt = typeFromFilename(filename)
	}
	return mt
}

// Validate checks an upload against the accepted types and the size limit.
// The type is checked first, then the size.
func (p *Processor) Validate(declaredType, filename string, data []byte) (*Result, error) {
	mt := NormalizeType(declaredType, filename)
	if !IsSupportedType(mt) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, mt)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedType, err)
	}
	if formats[format] != mt {
		return nil, fmt.Errorf("%w: declared %s but content is %s", ErrUnsupportedType, mt, format)
	}

	if int64(len(data)) > p.maxSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, len(data), p.maxSize)
	}

	return &Result{
		MimeType: mt,
		Size:     int64(len(data)),
		Width:    cfg.Width,
		Height:   cfg.Height,
		DataURI:  EncodeDataURI(mt, data),
	}, nil
}

// ValidateDataURI decodes an inline "data:<type>;base64,<payload>" image
// and validates it like an upload.
func (p *Processor) ValidateDataURI(s string) (*Result, []byte, error) {
	mt, data, err := DecodeDataURI(s)
	if err != nil {
		return nil, nil, err
	}
	res, err := p.Validate(mt, "", data)
	if err != nil {
		return nil, nil, err
	}
	return res, data, nil
}

// IsDataURI reports whether s looks like an inline data URI.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// EncodeDataURI returns the base64 data URI for data.
func EncodeDataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURI splits a base64 data URI into its type and decoded bytes.
func DecodeDataURI(s string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, ErrInvalidDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrInvalidDataURI
	}
	mt, enc, ok := strings.Cut(meta, ";")
	if !ok || enc != "base64" {
		return "", nil, ErrInvalidDataURI
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some clients strip padding.
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
		}
	}
	return strings.ToLower(mt), data, nil
}

// Mirror writes the image bytes to uploadDir/yyyy/mm/<uuid><ext> and returns
// the path relative to uploadDir.
func (p *Processor) Mirror(res *Result, data []byte) (string, error) {
	if p.uploadDir == "" {
		return "", nil
	}

	name := uuid.NewString() + res.Ext()
	full, rel, err := util.DatedUploadPath(p.uploadDir, p.now(), name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(full, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}
	return rel, nil
}

// RemoveMirror deletes a mirrored file. Missing files are not an error.
func (p *Processor) RemoveMirror(rel string) error {
	if p.uploadDir == "" || rel == "" {
		return nil
	}
	full, err := util.SafeJoinPath(p.uploadDir, filepath.FromSlash(rel))
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove mirrored file: %w", err)
	}
	return nil
}

// typeFromFilename maps a filename extension to a MIME type.
func typeFromFilename(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return MimeTypeJPEG
	case ".png":
		return MimeTypePNG
	case ".gif":
		return MimeTypeGIF
	case ".webp":
		return MimeTypeWebP
	default:
		return ""
	}
}
