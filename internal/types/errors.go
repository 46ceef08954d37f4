package types

import (
	"errors"
	"fmt"
	"io/fs"
)

// FileNotFoundError is returned when an input file does not exist.
//
// It is checked before any tagging library is called.
// errors.Is(err, fs.ErrNotExist) reports true for it.
type FileNotFoundError struct {
	Path string
	Role string // "mp3" or "image"
}

func (e *FileNotFoundError) Error() string {
	if e.Role != "" {
		return fmt.Sprintf("%s file not found: %s", e.Role, e.Path)
	}
	return fmt.Sprintf("file not found: %s", e.Path)
}

func (e *FileNotFoundError) Unwrap() error {
	return fs.ErrNotExist
}

// LibraryError wraps a failure reported by a tagging backend.
type LibraryError struct {
	Err     error
	Op      string // "read" or "write"
	Backend string
	Path    string
}

func (e *LibraryError) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", e.Path, e.Backend, e.Op, e.Err)
}

func (e *LibraryError) Unwrap() error {
	return e.Err
}

// OutOfBoundsError is returned when attempting to read beyond file bounds.
type OutOfBoundsError struct {
	Path   string
	What   string
	Offset int64
	Length int
	Size   int64
}

func (e *OutOfBoundsError) Error() string {
	if e.Offset >= e.Size {
		return fmt.Sprintf("%s: offset %d out of bounds (file size: %d) while reading %s",
			e.Path, e.Offset, e.Size, e.What)
	}
	return fmt.Sprintf("%s: read of %d bytes at offset %d would exceed file size %d while reading %s",
		e.Path, e.Length, e.Offset, e.Size, e.What)
}

// UnsupportedFormatError is returned when a file is neither an MP3 nor a
// supported image.
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported format: %s", e.Path, e.Reason)
}

// UnknownBackendError is returned when no backend is registered under a name.
type UnknownBackendError struct {
	Name string
}

func (e *UnknownBackendError) Error() string {
	return fmt.Sprintf("unknown tagging backend %q", e.Name)
}

// ValidationError is returned when a saved file does not read back as written.
type ValidationError struct {
	Path  string
	Field string
	Got   string
	Want  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s mismatch: got %q, want %q", e.Path, e.Field, e.Got, e.Want)
}

// ErrUnreadableTag marks a tag the backend could not parse. Readers treat
// it as "no tag"; writers start from an empty tag.
var ErrUnreadableTag = errors.New("unreadable tag")
