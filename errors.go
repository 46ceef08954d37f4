package coverart

import (
	"github.com/simonhull/coverart/internal/types"
)

// FileNotFoundError is returned when the MP3 (or, for explicit checks, the
// image) does not exist. errors.Is(err, fs.ErrNotExist) reports true for it.
type FileNotFoundError = types.FileNotFoundError

// LibraryError wraps any failure reported by the tagging backend.
type LibraryError = types.LibraryError

// OutOfBoundsError is an alias to types.OutOfBoundsError.
type OutOfBoundsError = types.OutOfBoundsError

// UnsupportedFormatError is returned by DetectFormat for files that are
// neither MP3 nor a supported image.
type UnsupportedFormatError = types.UnsupportedFormatError

// UnknownBackendError is returned by New when WithBackend names no
// registered backend.
type UnknownBackendError = types.UnknownBackendError

// ValidationError is returned by SaveTags with WithValidation when the
// written file reads back differently.
type ValidationError = types.ValidationError
