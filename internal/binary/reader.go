// Package binary provides bounds-checked reading primitives for the few
// header fields the tag accessor inspects itself: the ID3v2 header that
// precedes the audio and the first MPEG frame header.
package binary

import (
	"encoding/binary"
	"fmt"
	"io"
)

// SafeReader wraps io.ReaderAt with bounds checking and helpful error messages.
type SafeReader struct {
	r    io.ReaderAt
	path string
	size int64
}

// NewSafeReader creates a new SafeReader.
func NewSafeReader(r io.ReaderAt, size int64, path string) *SafeReader {
	return &SafeReader{
		r:    r,
		size: size,
		path: path,
	}
}

// Path returns the file path associated with this reader.
func (sr *SafeReader) Path() string {
	return sr.path
}

// Size returns the size of the underlying data.
func (sr *SafeReader) Size() int64 {
	return sr.size
}

// ReadAt reads bytes at the given offset with context for error messages.
func (sr *SafeReader) ReadAt(b []byte, off int64, what string) error {
	if off < 0 || off >= sr.size {
		return fmt.Errorf("%s: offset %d out of bounds (file size: %d) while reading %s",
			sr.path, off, sr.size, what)
	}

	if off+int64(len(b)) > sr.size {
		return fmt.Errorf("%s: read of %d bytes at offset %d would exceed file size %d while reading %s",
			sr.path, len(b), off, sr.size, what)
	}

	n, err := sr.r.ReadAt(b, off)
	if err != nil && err != io.EOF {
		return fmt.Errorf("%s: failed to read %s at offset %d: %w", sr.path, what, off, err)
	}

	if n < len(b) {
		return fmt.Errorf("%s: short read for %s at offset %d: got %d bytes, expected %d",
			sr.path, what, off, n, len(b))
	}

	return nil
}

// Uint32BE reads a big-endian uint32 at off.
func (sr *SafeReader) Uint32BE(off int64, what string) (uint32, error) {
	var buf [4]byte
	if err := sr.ReadAt(buf[:], off, what); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// Section returns a reader over [off, off+n), clamped to the data size.
func (sr *SafeReader) Section(off, n int64) *io.SectionReader {
	if off > sr.size {
		off = sr.size
	}
	if off+n > sr.size {
		n = sr.size - off
	}
	return io.NewSectionReader(sr.r, off, n)
}

// Synchsafe decodes a synchsafe integer (7 bits per byte).
// ID3v2 uses it for tag sizes so that no byte looks like an MPEG frame sync.
func Synchsafe(b []byte) uint32 {
	if len(b) != 4 {
		return 0
	}
	return uint32(b[0]&0x7F)<<21 |
		uint32(b[1]&0x7F)<<14 |
		uint32(b[2]&0x7F)<<7 |
		uint32(b[3]&0x7F)
}

// PutSynchsafe encodes v as a 4-byte synchsafe integer.
func PutSynchsafe(b []byte, v uint32) {
	_ = b[3]
	b[0] = byte(v>>21) & 0x7F
	b[1] = byte(v>>14) & 0x7F
	b[2] = byte(v>>7) & 0x7F
	b[3] = byte(v) & 0x7F
}
