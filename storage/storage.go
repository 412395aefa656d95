package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

var (
	// ErrNotFound is returned when a key does not exist.
	ErrNotFound = errors.New("storage: not found")
	// ErrTooLarge is returned when an upload exceeds Config.MaxFileSize.
	ErrTooLarge = errors.New("storage: file too large")
	// ErrInvalidPath is returned for keys that escape the base directory.
	ErrInvalidPath = errors.New("storage: invalid path")
)

// TooLargeError reports the size cap an upload exceeded. It matches
// ErrTooLarge with errors.Is.
type TooLargeError struct {
	Limit int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("%s: more than %d bytes", ErrTooLarge, e.Limit)
}

func (e *TooLargeError) Is(target error) bool { return target == ErrTooLarge }

// FileInfo describes a stored file.
type FileInfo struct {
	Path         string
	Size         int64
	LastModified time.Time
}

// Storage is a scratch file store addressed by slash-separated keys.
type Storage interface {
	// Upload writes reader to path and returns the number of bytes written.
	Upload(ctx context.Context, path string, reader io.Reader) (int64, error)

	// Delete removes path and, for a directory key, everything below it.
	// Deleting a missing key is not an error.
	Delete(ctx context.Context, path string) error

	// Exists reports whether path exists.
	Exists(ctx context.Context, path string) (bool, error)

	// List returns files whose key starts with prefix, sorted by key.
	List(ctx context.Context, prefix string) ([]FileInfo, error)

	// LocalPath resolves path to a filesystem path.
	LocalPath(path string) (string, error)
}
