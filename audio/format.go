package audio

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/kbukum/soundguard/errors"
)

// Extensions accepted without conversion.
var canonicalExtensions = []string{"wav", "mp3", "m4a"}

// Extensions accepted after transcoding to WAV.
var transcodableExtensions = []string{"webm", "mp4"}

// Ext returns the lowercase extension after the last dot, without the dot.
func Ext(filename string) string {
	ext := filepath.Ext(filename)
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsCanonical reports whether ext can be decoded without transcoding.
func IsCanonical(ext string) bool {
	return slices.Contains(canonicalExtensions, ext)
}

// NeedsTranscode reports whether ext must go through the Transcoder first.
func NeedsTranscode(ext string) bool {
	return slices.Contains(transcodableExtensions, ext)
}

// Supported returns every accepted extension in allow-list order.
func Supported() []string {
	return slices.Concat(canonicalExtensions, transcodableExtensions)
}

// Validate returns the lowercase extension of filename, or UNSUPPORTED_FORMAT.
func Validate(filename string) (string, error) {
	ext := Ext(filename)
	if IsCanonical(ext) || NeedsTranscode(ext) {
		return ext, nil
	}
	return ext, errors.UnsupportedFormat(ext).WithDetail("supported", Supported())
}
