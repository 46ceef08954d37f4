// Package fixture builds small synthetic MP3 and image files for tests.
package fixture

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	binutil "github.com/simonhull/coverart/internal/binary"
)

// FrameLen is the length of one MPEG1 Layer III 128kbps 44.1kHz frame.
const FrameLen = 417

// frameHeader is MPEG1 Layer III, 128kbps, 44.1kHz, no padding, stereo.
var frameHeader = []byte{0xFF, 0xFB, 0x90, 0x00}

// Audio returns n silent MPEG frames.
func Audio(n int) []byte {
	data := make([]byte, 0, n*FrameLen)
	for range n {
		frame := make([]byte, FrameLen)
		copy(frame, frameHeader)
		data = append(data, frame...)
	}
	return data
}

// Frame is a raw ID3v2.3 frame.
type Frame struct {
	ID   string
	Data []byte
}

// TextFrame returns an ISO-8859-1 text frame.
func TextFrame(id, text string) Frame {
	return Frame{ID: id, Data: append([]byte{0x00}, text...)}
}

// PictureFrame returns an ISO-8859-1 APIC frame.
func PictureFrame(mime string, pictureType byte, desc string, data []byte) Frame {
	body := []byte{0x00}
	body = append(body, mime...)
	body = append(body, 0x00, pictureType)
	body = append(body, desc...)
	body = append(body, 0x00)
	body = append(body, data...)
	return Frame{ID: "APIC", Data: body}
}

// ID3v23 renders an ID3v2.3 tag holding frames followed by padding bytes.
func ID3v23(padding int, frames ...Frame) []byte {
	var body []byte
	for _, f := range frames {
		hdr := make([]byte, 10)
		copy(hdr, f.ID)
		binary.BigEndian.PutUint32(hdr[4:8], uint32(len(f.Data)))
		body = append(body, hdr...)
		body = append(body, f.Data...)
	}
	body = append(body, make([]byte, padding)...)

	tag := []byte{'I', 'D', '3', 0x03, 0x00, 0x00, 0, 0, 0, 0}
	binutil.PutSynchsafe(tag[6:10], uint32(len(body)))
	return append(tag, body...)
}

// MP3 returns an untagged MP3 of n frames.
func MP3(n int) []byte {
	return Audio(n)
}

// TaggedMP3 returns an MP3 of n frames preceded by an ID3v2.3 tag.
func TaggedMP3(n int, frames ...Frame) []byte {
	return append(ID3v23(64, frames...), Audio(n)...)
}

// JPEG returns bytes that sniff as a JPEG image. seed varies the payload.
func JPEG(seed byte) []byte {
	data := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00, 0x01, 0x01, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00}
	for i := range 64 {
		data = append(data, seed+byte(i))
	}
	return append(data, 0xFF, 0xD9)
}

// PNG returns bytes that sniff as a PNG image. seed varies the payload.
func PNG(seed byte) []byte {
	data := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n',
		0x00, 0x00, 0x00, 0x0D, 'I', 'H', 'D', 'R',
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01, 0x08, 0x06, 0x00, 0x00, 0x00,
		0x1F, 0x15, 0xC4, 0x89}
	for i := range 32 {
		data = append(data, seed^byte(i))
	}
	return data
}

// Write writes data to name inside dir and returns the full path.
func Write(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}
