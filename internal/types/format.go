package types

import (
	"io"

	"github.com/simonhull/coverart/internal/binary"
)

// Format represents a detected file format.
type Format int

const (
	// FormatUnknown represents an unknown or unsupported format.
	FormatUnknown Format = iota
	// FormatMP3 represents MPEG audio, tagged or not.
	FormatMP3
	// FormatJPEG represents a JPEG image.
	FormatJPEG
	// FormatPNG represents a PNG image.
	FormatPNG
)

func (f Format) String() string {
	switch f {
	case FormatMP3:
		return "MP3"
	case FormatJPEG:
		return "JPEG"
	case FormatPNG:
		return "PNG"
	default:
		return "Unknown"
	}
}

// Extensions returns common file extensions for this format.
func (f Format) Extensions() []string {
	switch f {
	case FormatMP3:
		return []string{".mp3"}
	case FormatJPEG:
		return []string{".jpg", ".jpeg"}
	case FormatPNG:
		return []string{".png"}
	default:
		return nil
	}
}

// MIMEType returns the MIME type for image formats, or "" otherwise.
func (f Format) MIMEType() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatPNG:
		return "image/png"
	default:
		return ""
	}
}

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

// DetectFormat determines the file format by examining magic bytes.
//
// Detection looks at the first four bytes only and does not validate the
// rest of the file.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	if size < 4 {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "file too small",
		}
	}

	sr := binary.NewSafeReader(r, size, path)

	magic := make([]byte, 4)
	if err := sr.ReadAt(magic, 0, "file magic bytes"); err != nil {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "failed to read file header",
		}
	}

	// ID3v2 tag
	if string(magic[:3]) == "ID3" {
		return FormatMP3, nil
	}

	// MPEG frame sync (11 bits set) catches files without ID3 tags
	if magic[0] == 0xFF && (magic[1]&0xE0) == 0xE0 {
		return FormatMP3, nil
	}

	// JPEG SOI marker
	if magic[0] == 0xFF && magic[1] == 0xD8 && magic[2] == 0xFF {
		return FormatJPEG, nil
	}

	if string(magic) == string(pngMagic) {
		return FormatPNG, nil
	}

	return FormatUnknown, &UnsupportedFormatError{
		Path:   path,
		Reason: "unsupported file format",
	}
}
