package audio

import (
	"bytes"
	"testing"
	"time"
)

func TestEncodeParseRoundTrip(t *testing.T) {
	format := Format{SampleRate: 44100, Channels: 1, BitDepth: 16}
	pcm := bytes.Repeat([]byte{0x12, 0x34}, 2048)

	asset := EncodeWAV(format, pcm)

	gotFormat, gotPCM, err := ParseWAV(asset)
	if err != nil {
		t.Fatalf("ParseWAV: %v", err)
	}
	if gotFormat != format {
		t.Fatalf("format = %+v; want %+v", gotFormat, format)
	}
	if !bytes.Equal(gotPCM, pcm) {
		t.Fatalf("pcm mismatch: got %d bytes, want %d", len(gotPCM), len(pcm))
	}
}

func TestParseWAV_Invalid(t *testing.T) {
	tcs := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "not riff", data: []byte("OGGS....junk")},
		{name: "riff but not wave", data: append([]byte("RIFF\x00\x00\x00\x00AVI "), make([]byte, 16)...)},
		{name: "no data chunk", data: EncodeWAV(Format{SampleRate: 8000, Channels: 1, BitDepth: 8}, nil)[:20]},
	}

	for _, tc := range tcs {
		if _, _, err := ParseWAV(tc.data); err == nil {
			t.Fatalf("%s: ParseWAV succeeded; want error", tc.name)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	format := Format{SampleRate: 44100, Channels: 1, BitDepth: 16}
	if rate := format.ByteRate(); rate != 88200 {
		t.Fatalf("ByteRate = %d; want 88200", rate)
	}

	// One second of mono 16-bit 44.1kHz audio.
	if got := format.Duration(88200); got != time.Second {
		t.Fatalf("Duration = %v; want 1s", got)
	}
	if got := format.Duration(44100); got != 500*time.Millisecond {
		t.Fatalf("Duration = %v; want 500ms", got)
	}
	if got := (Format{}).Duration(1000); got != 0 {
		t.Fatalf("Duration with zero format = %v; want 0", got)
	}
}
