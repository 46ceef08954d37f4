package editor

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// sniffFile detects the MIME type of the file at path from its content.
func sniffFile(path string) (string, error) {
	m, err := mimetype.DetectFile(path)
	if err != nil {
		return "", err
	}
	mime, _, _ := strings.Cut(m.String(), ";")
	return mime, nil
}
