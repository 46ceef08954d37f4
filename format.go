package coverart

import (
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/simonhull/coverart/internal/mp3"
	"github.com/simonhull/coverart/internal/types"
)

// Format is an alias to types.Format.
type Format = types.Format

// Re-export all format constants.
const (
	FormatUnknown = types.FormatUnknown
	FormatMP3     = types.FormatMP3
	FormatJPEG    = types.FormatJPEG
	FormatPNG     = types.FormatPNG
)

// AudioInfo is an alias to types.AudioInfo.
type AudioInfo = types.AudioInfo

// DefaultImageMIME is used for images whose extension is not recognised.
const DefaultImageMIME = "image/jpeg"

// DetectFormat is a wrapper around types.DetectFormat.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	return types.DetectFormat(r, size, path)
}

// Probe reads bitrate, sample rate, channels and duration of an MP3.
func Probe(path string) (AudioInfo, error) {
	return mp3.Probe(path)
}

// IsMP3Extension reports whether path ends in .mp3 (any case).
func IsMP3Extension(path string) bool {
	return slices.Contains(FormatMP3.Extensions(), ext(path))
}

// IsImageExtension reports whether path ends in .jpg, .jpeg or .png (any case).
func IsImageExtension(path string) bool {
	e := ext(path)
	return slices.Contains(FormatJPEG.Extensions(), e) || slices.Contains(FormatPNG.Extensions(), e)
}

// MIMETypeForImage chooses the picture MIME type from the file extension.
// Unknown extensions get DefaultImageMIME.
func MIMETypeForImage(path string) string {
	e := ext(path)
	for _, f := range []Format{FormatJPEG, FormatPNG} {
		if slices.Contains(f.Extensions(), e) {
			return f.MIMEType()
		}
	}
	return DefaultImageMIME
}

// SniffMIME detects the MIME type of data from its content.
func SniffMIME(data []byte) string {
	mime, _, _ := strings.Cut(mimetype.Detect(data).String(), ";")
	return mime
}

// ExtensionForMIME returns the usual file extension for mime, including the
// leading dot, or "" if the type is unknown.
func ExtensionForMIME(mime string) string {
	m := mimetype.Lookup(mime)
	if m == nil {
		return ""
	}
	return m.Extension()
}

func ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
