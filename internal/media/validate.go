// Package media validates, scales and stores uploaded images.
package media

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/circleone/member-directory/internal/constants"
)

var (
	ErrNoFile          = errors.New("no file uploaded")
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = errors.New("image exceeds the upload limit")
	ErrInvalidImage    = errors.New("file is not a readable image")
	ErrUpload          = errors.New("image host request failed")
)

// Extension returns the lowercase extension of filename without the dot.
func Extension(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

// Validate checks an upload before any bytes are read.
func Validate(filename string, size int64) error {
	if filename == "" || size == 0 {
		return ErrNoFile
	}
	ext := Extension(filename)
	if !slices.Contains(constants.AllowedImageExtensions, ext) {
		return fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
	if size > constants.MaxUploadBytes {
		return ErrTooLarge
	}
	return nil
}
