package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxSpaceDimension is the largest accepted envelope dimension in millimetres.
const MaxSpaceDimension = 100000

// ValidateSpaceDimensions checks that an envelope can be drawn.
//
// The rules are:
//   - width and depth must be positive (required for any export)
//   - height must be positive
//   - no dimension may be NaN, infinite or above [MaxSpaceDimension]
func ValidateSpaceDimensions(width, height, depth float64) error {
	dims := []struct {
		name  string
		value float64
	}{
		{"width", width},
		{"height", height},
		{"depth", depth},
	}

	for _, d := range dims {
		if math.IsNaN(d.value) || math.IsInf(d.value, 0) {
			return New(ErrCodeInvalidSpace, "space %s is not a number", d.name)
		}
		if d.value <= 0 {
			return New(ErrCodeInvalidSpace, "space %s must be positive, got %v", d.name, d.value)
		}
		if d.value > MaxSpaceDimension {
			return New(ErrCodeInvalidSpace, "space %s too large (max %d mm)", d.name, MaxSpaceDimension)
		}
	}
	return nil
}

// ValidateFilename validates an output filename for safety.
// It ensures the filename is a simple basename without path components.
func ValidateFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidPath, "filename cannot be empty")
	}

	if len(filename) > 255 {
		return New(ErrCodeInvalidPath, "filename too long (max 255 characters)")
	}

	for _, r := range filename {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "filename contains invalid control characters")
		}
	}

	// Must be a simple filename, not a path
	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidPath, "filename cannot contain path separators")
	}

	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidPath, "filename cannot be a hidden file")
	}

	return nil
}

// ValidateStorageKey validates an object key used by storage backends.
//
// Validation rules:
//   - Key cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute keys (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes
func ValidateStorageKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidPath, "key cannot be empty")
	}

	const maxKeyLength = 500
	if len(key) > maxKeyLength {
		return New(ErrCodeInvalidPath, "key too long (max %d characters)", maxKeyLength)
	}

	for _, r := range key {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "key contains invalid characters")
		}
	}

	if strings.HasPrefix(key, "/") {
		return New(ErrCodeInvalidPath, "key must be relative (cannot start with /)")
	}

	if strings.Contains(key, "..") {
		return New(ErrCodeInvalidPath, "key cannot contain path traversal sequences (..)")
	}

	if strings.Contains(key, "\\") {
		return New(ErrCodeInvalidPath, "key cannot contain backslashes")
	}

	return nil
}
