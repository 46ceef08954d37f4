package types

import (
	"testing"
	"time"
)

func TestAudioInfo_String(t *testing.T) {
	tests := []struct {
		name  string
		audio AudioInfo
		want  string
	}{
		{
			name: "CBR stereo",
			audio: AudioInfo{
				Codec:      "MP3",
				SampleRate: 44100,
				Channels:   2,
				Bitrate:    128000,
			},
			want: "MP3 44.1kHz stereo 128kbps",
		},
		{
			name: "VBR",
			audio: AudioInfo{
				Codec:      "MP3",
				SampleRate: 44100,
				Channels:   2,
				Bitrate:    320000,
				VBR:        true,
			},
			want: "MP3 44.1kHz stereo 320kbps VBR",
		},
		{
			name: "mono",
			audio: AudioInfo{
				Codec:      "MP3",
				SampleRate: 48000,
				Channels:   1,
			},
			want: "MP3 48.0kHz mono",
		},
		{
			name:  "codec only",
			audio: AudioInfo{Codec: "MP3"},
			want:  "MP3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.audio.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChannelDescription(t *testing.T) {
	tests := []struct {
		channels int
		want     string
	}{
		{0, ""},
		{1, "mono"},
		{2, "stereo"},
		{6, "6ch"},
	}

	for _, tt := range tests {
		if got := channelDescription(tt.channels); got != tt.want {
			t.Errorf("channelDescription(%d) = %q, want %q", tt.channels, got, tt.want)
		}
	}
}

func TestAudioInfo_DurationString(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{59 * time.Second, "0:59"},
		{3*time.Minute + 5*time.Second, "3:05"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
		{1500 * time.Millisecond, "0:02"},
	}

	for _, tt := range tests {
		a := AudioInfo{Duration: tt.d}
		if got := a.DurationString(); got != tt.want {
			t.Errorf("DurationString(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
