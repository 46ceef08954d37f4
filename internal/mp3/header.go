// Package mp3 inspects the parts of an MP3 file the tagging libraries do
// not expose: where the ID3v2 tag ends and the audio begins, and the
// properties of the first MPEG frame.
package mp3

import (
	"fmt"
	"io"

	binutil "github.com/simonhull/coverart/internal/binary"
)

const (
	id3HeaderSize = 10
	footerFlag    = 0x10
)

// ID3v2Header is the fixed 10-byte header that opens an ID3v2 tag.
type ID3v2Header struct {
	Version  byte // Major version (2, 3 or 4)
	Revision byte
	Flags    byte
	Size     uint32 // Tag size excluding header and footer
}

// TagSize returns the number of bytes the tag occupies on disk,
// including header and optional footer.
func (h ID3v2Header) TagSize() int64 {
	size := int64(id3HeaderSize) + int64(h.Size)
	if h.Flags&footerFlag != 0 {
		size += id3HeaderSize
	}
	return size
}

// ReadID3v2Header reads the ID3v2 header at the start of the file.
// ok is false when the file does not start with an ID3v2 tag.
func ReadID3v2Header(sr *binutil.SafeReader) (ID3v2Header, bool) {
	buf := make([]byte, id3HeaderSize)
	if err := sr.ReadAt(buf, 0, "ID3v2 header"); err != nil {
		return ID3v2Header{}, false
	}
	if string(buf[0:3]) != "ID3" {
		return ID3v2Header{}, false
	}

	return ID3v2Header{
		Version:  buf[3],
		Revision: buf[4],
		Flags:    buf[5],
		Size:     binutil.Synchsafe(buf[6:10]),
	}, true
}

// AudioOffset returns the offset of the first byte after any leading
// ID3v2 tag. Files without a tag start their audio at 0.
func AudioOffset(r io.ReaderAt, size int64, path string) (int64, error) {
	sr := binutil.NewSafeReader(r, size, path)

	header, ok := ReadID3v2Header(sr)
	if !ok {
		return 0, nil
	}

	end := header.TagSize()
	if end > size {
		return 0, fmt.Errorf("%s: ID3v2 tag size (%d) exceeds file size (%d)", path, end, size)
	}
	return end, nil
}
