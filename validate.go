package coverart

import (
	"bytes"
	"fmt"
	"os"

	"github.com/dhowden/tag"

	"github.com/simonhull/coverart/internal/types"
)

// validateWritten re-reads written with a reader independent of either
// backend and compares it against want. Errors name path, the file being
// saved.
func validateWritten(written, path string, want types.Edit) error {
	f, err := os.Open(written)
	if err != nil {
		return fmt.Errorf("re-open: %w", err)
	}
	defer f.Close() //nolint:errcheck // Read-only

	m, err := tag.ReadFrom(f)
	if err != nil {
		return fmt.Errorf("re-read: %w", err)
	}

	if got := m.Title(); got != want.Title {
		return &ValidationError{Path: path, Field: "title", Got: got, Want: want.Title}
	}
	if got := m.Artist(); got != want.Artist {
		return &ValidationError{Path: path, Field: "artist", Got: got, Want: want.Artist}
	}

	if want.Cover != nil {
		pic := m.Picture()
		if pic == nil {
			return &ValidationError{Path: path, Field: "cover", Got: "none", Want: want.Cover.String()}
		}
		if !bytes.Equal(pic.Data, want.Cover.Data) {
			return &ValidationError{
				Path:  path,
				Field: "cover",
				Got:   fmt.Sprintf("%d bytes", len(pic.Data)),
				Want:  fmt.Sprintf("%d bytes", len(want.Cover.Data)),
			}
		}
	}

	return nil
}
