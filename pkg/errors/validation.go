package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ValidateText checks diagram text accepted from outside the process.
// It rejects invalid UTF-8, NUL bytes and text longer than max bytes.
// A max of zero disables the length check. Empty text is valid; the
// pipeline turns it into a fallback.
func ValidateText(text string, max int) error {
	if max > 0 && len(text) > max {
		return New(ErrCodeInputTooLarge, "diagram text too large (%d bytes, max %d)", len(text), max)
	}
	if !utf8.ValidString(text) {
		return New(ErrCodeInvalidInput, "diagram text is not valid UTF-8")
	}
	if strings.ContainsRune(text, '\x00') {
		return New(ErrCodeInvalidInput, "diagram text contains null bytes")
	}
	return nil
}

// ValidateName validates an input name used in logs and JSON output,
// such as "README.md#2".
//
// Validation rules:
//   - Maximum length of 256 characters
//   - No control characters
func ValidateName(name string) error {
	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "input name too long (max 256 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "input name contains invalid control characters")
		}
	}
	return nil
}

// ValidateOutputPath validates a path the CLI writes an artifact to.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Must not name a directory (trailing separator)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "output path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "output path contains invalid control characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidPath, "output path must name a file, not a directory")
	}

	return nil
}

// ValidateURL validates a backend URL for one of the allowed schemes,
// e.g. ValidateURL(u, "redis", "rediss").
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	for _, s := range schemes {
		if strings.HasPrefix(rawURL, s+"://") {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "URL must use one of the schemes: %s", strings.Join(schemes, ", "))
}
