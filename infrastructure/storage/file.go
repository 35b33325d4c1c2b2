// Package storage writes rendered images to disk.
package storage

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/prasetyowira/qr-utils/constant"
	"github.com/prasetyowira/qr-utils/domain/qrerr"
	"github.com/prasetyowira/qr-utils/infrastructure/logger"
	"golang.org/x/image/bmp"
)

// Format is an output image encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatBMP  Format = "bmp"
)

// JPEGQuality is used for every jpeg encode.
const JPEGQuality = 95

// ParseFormat accepts png, jpg/jpeg and bmp.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "bmp":
		return FormatBMP, nil
	}
	return "", qrerr.Validation("ParseFormat", "unsupported image format %q", s)
}

// FormatFromPath infers the format from the file extension, falling back to
// def when the extension is missing.
func FormatFromPath(path string, def Format) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return def, nil
	}
	return ParseFormat(ext)
}

// Extension is the file extension for f, without the dot.
func (f Format) Extension() string {
	if f == FormatJPEG {
		return "jpg"
	}
	return string(f)
}

// ContentType is the MIME type for f.
func (f Format) ContentType() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatBMP:
		return "image/bmp"
	default:
		return "image/png"
	}
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatJPEG:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: JPEGQuality})
	case FormatBMP:
		return bmp.Encode(w, img)
	}
	return qrerr.Validation("Encode", "unsupported image format %q", string(f))
}

// EncodeBytes is Encode into memory.
func EncodeBytes(img image.Image, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileStore saves images atomically: the image is encoded into a temporary
// file next to the target and renamed into place, so a failure never leaves a
// partial file at path.
type FileStore struct{}

// NewFileStore creates a new file store
func NewFileStore() *FileStore {
	return &FileStore{}
}

// Save writes img to path and returns the number of bytes written.
func (s *FileStore) Save(ctx context.Context, path string, img image.Image, f Format) (int64, error) {
	n, err := s.save(path, img, f)
	if err != nil {
		logger.CtxError(ctx, "Failed to save image", logger.LoggerInfo{
			ContextFunction: constant.CtxSave,
			Error: &logger.CustomError{
				Code:    constant.ErrCodePersist,
				Message: err.Error(),
				Type:    qrerr.Type(err),
			},
			Data: map[string]interface{}{
				constant.DataOutputPath: path,
				constant.DataFormat:     string(f),
			},
		})
		return 0, err
	}

	logger.CtxDebug(ctx, "Image saved", logger.LoggerInfo{
		ContextFunction: constant.CtxSave,
		Data: map[string]interface{}{
			constant.DataOutputPath: path,
			constant.DataSize:       n,
		},
	})
	return n, nil
}

func (s *FileStore) save(path string, img image.Image, f Format) (int64, error) {
	data, err := EncodeBytes(img, f)
	if err != nil {
		return 0, err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, qrerr.Persistence(constant.CtxSave, path, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, qrerr.Persistence(constant.CtxSave, path, err)
	}
	tmpName := tmp.Name()

	cleanup := func(cause error) (int64, error) {
		tmp.Close()
		os.Remove(tmpName)
		return 0, qrerr.Persistence(constant.CtxSave, path, cause)
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return 0, qrerr.Persistence(constant.CtxSave, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return 0, qrerr.Persistence(constant.CtxSave, path, err)
	}
	return int64(len(data)), nil
}
