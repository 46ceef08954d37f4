package mp3

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"

	binutil "github.com/simonhull/coverart/internal/binary"
	"github.com/simonhull/coverart/internal/types"
)

// MPEG1 Layer III bitrate table in kbps.
var bitrateTable = []int{
	0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 0,
}

// MPEG1 sample rate table in Hz.
var sampleRateTable = []int{
	44100, 48000, 32000, 0,
}

// maxSyncSearch bounds the scan for the first frame after the tag.
const maxSyncSearch = 64 * 1024

// Probe opens path and reads the technical properties of its audio stream.
func Probe(path string) (types.AudioInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.AudioInfo{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return types.AudioInfo{}, fmt.Errorf("stat file: %w", err)
	}

	return ProbeReader(f, stat.Size(), path)
}

// ProbeReader extracts bitrate, sample rate, channels and duration from the
// first MPEG frame following any ID3v2 tag.
func ProbeReader(r io.ReaderAt, size int64, path string) (types.AudioInfo, error) {
	sr := binutil.NewSafeReader(r, size, path)

	tagSize, err := AudioOffset(r, size, path)
	if err != nil {
		return types.AudioInfo{}, err
	}

	frameOffset, header, err := firstFrame(sr, tagSize)
	if err != nil {
		return types.AudioInfo{}, err
	}

	bitrate, sampleRate, channels := parseFrameHeader(header)
	info := types.AudioInfo{
		Codec:      "MP3",
		Bitrate:    bitrate,
		SampleRate: sampleRate,
		Channels:   channels,
	}
	if duration, vbr := parseVBRHeader(sr, frameOffset, sampleRate); vbr {
		info.Duration = duration
		info.VBR = true
	} else {
		info.Duration = estimateCBRDuration(bitrate, size, tagSize)
	}
	return info, nil
}

// FirstFrame returns the offset of the first valid MPEG audio frame at or
// after from. The search covers at most 64KB.
func FirstFrame(r io.ReaderAt, size int64, path string, from int64) (int64, error) {
	offset, _, err := firstFrame(binutil.NewSafeReader(r, size, path), from)
	return offset, err
}

func firstFrame(sr *binutil.SafeReader, from int64) (int64, uint32, error) {
	limit := min(sr.Size()-4, from+maxSyncSearch)
	for offset := from; offset < limit; offset++ {
		header, err := findFrameAt(sr, offset)
		if err != nil {
			continue
		}

		bitrate, sampleRate, _ := parseFrameHeader(header)
		if bitrate == 0 || sampleRate == 0 {
			continue
		}
		return offset, header, nil
	}

	return 0, 0, fmt.Errorf("%s: no valid MP3 frame found", sr.Path())
}

// findFrameAt reads an MPEG1/2 Layer III frame header at offset.
func findFrameAt(sr *binutil.SafeReader, offset int64) (uint32, error) {
	header, err := sr.Uint32BE(offset, "MP3 frame header")
	if err != nil {
		return 0, err
	}

	if header&0xFFE00000 != 0xFFE00000 {
		return 0, fmt.Errorf("invalid frame sync")
	}

	version := (header >> 19) & 0x3
	layer := (header >> 17) & 0x3

	// MPEG1 (11) or MPEG2 (10)
	if version != 3 && version != 2 {
		return 0, fmt.Errorf("unsupported MPEG version")
	}

	// Layer III (01)
	if layer != 1 {
		return 0, fmt.Errorf("unsupported layer")
	}

	return header, nil
}

// parseFrameHeader extracts bitrate (bps), sample rate and channel count.
func parseFrameHeader(header uint32) (bitrate, sampleRate, channels int) {
	bitrateIdx := (header >> 12) & 0xF
	bitrate = bitrateTable[bitrateIdx] * 1000

	sampleRate = sampleRateTable[(header>>10)&0x3]

	if (header>>6)&0x3 == 3 {
		channels = 1
	} else {
		channels = 2
	}

	return bitrate, sampleRate, channels
}

// parseVBRHeader looks for a Xing/Info or VBRI header in the first frame.
func parseVBRHeader(sr *binutil.SafeReader, frameOffset int64, sampleRate int) (time.Duration, bool) {
	// Xing/Info and VBRI both sit 36 bytes into an MPEG1 stereo frame
	buf := make([]byte, 18)
	if err := sr.ReadAt(buf, frameOffset+36, "VBR header"); err != nil {
		return 0, false
	}

	switch string(buf[0:4]) {
	case "Xing", "Info":
		flags := binary.BigEndian.Uint32(buf[4:8])
		if flags&0x0001 != 0 {
			return framesToDuration(binary.BigEndian.Uint32(buf[8:12]), sampleRate), true
		}
	case "VBRI":
		return framesToDuration(binary.BigEndian.Uint32(buf[14:18]), sampleRate), true
	}

	return 0, false
}

// framesToDuration converts a frame count to duration (1152 samples per frame).
func framesToDuration(numFrames uint32, sampleRate int) time.Duration {
	totalSamples := uint64(numFrames) * 1152
	return time.Duration(float64(totalSamples) / float64(sampleRate) * float64(time.Second))
}

// estimateCBRDuration estimates duration for constant bitrate files.
func estimateCBRDuration(bitrate int, fileSize, tagSize int64) time.Duration {
	if bitrate == 0 {
		return 0
	}
	seconds := float64((fileSize-tagSize)*8) / float64(bitrate)
	return time.Duration(seconds * float64(time.Second))
}
