package audio

import (
	"bytes"
	"fmt"
	"io"
	"time"
)

// Track is a single playable voice clip. The production implementation
// wraps an oto player; tests substitute fakes through the controller's
// track factory.
type Track interface {
	Play()
	Pause()
	Playing() bool
	Rewind()
	Position() time.Duration
	Duration() time.Duration
	Close() error
}

// TrackFactory builds a track from an encoded WAV clip
type TrackFactory func(clip []byte) (Track, error)

type otoTrack struct {
	player   player
	src      *bytes.Reader
	format   Format
	dataSize int
}

// player is the subset of *oto.Player the track uses
type player interface {
	Play()
	Pause()
	IsPlaying() bool
	BufferedSize() int
	Seek(offset int64, whence int) (int64, error)
	Close() error
}

// NewOtoTrack decodes a WAV clip and prepares it for playback on the
// shared audio context
func NewOtoTrack(clip []byte) (Track, error) {
	format, pcm, err := ParseWAV(clip)
	if err != nil {
		return nil, fmt.Errorf("failed to parse voice clip: %w", err)
	}

	initContext(format)
	if !globalCtxReady || globalCtx == nil {
		return nil, fmt.Errorf("audio context not ready")
	}

	src := bytes.NewReader(pcm)
	return &otoTrack{
		player:   globalCtx.NewPlayer(src),
		src:      src,
		format:   format,
		dataSize: len(pcm),
	}, nil
}

func (t *otoTrack) Play()         { t.player.Play() }
func (t *otoTrack) Pause()        { t.player.Pause() }
func (t *otoTrack) Playing() bool { return t.player.IsPlaying() }

func (t *otoTrack) Rewind() {
	t.player.Seek(0, io.SeekStart)
}

// Position derives the play position from how far the player has read
// into the source, minus what is still sitting in its buffer.
func (t *otoTrack) Position() time.Duration {
	consumed := int(t.src.Size()) - t.src.Len() - t.player.BufferedSize()
	if consumed < 0 {
		consumed = 0
	}
	return t.format.Duration(consumed)
}

func (t *otoTrack) Duration() time.Duration {
	return t.format.Duration(t.dataSize)
}

func (t *otoTrack) Close() error {
	return t.player.Close()
}
