package voice

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"planhelper/pkg/audio"
	"planhelper/pkg/chat"
	"planhelper/pkg/models"
)

// State names the recorder's position in the capture pipeline
type State string

const (
	StateIdle      State = "idle"
	StateRecording State = "recording"
	StateEncoding  State = "encoding"
	StateUploading State = "uploading"
)

// Recorder drives the voice message pipeline: acquire the input
// stream, buffer PCM chunks, assemble them into a single WAV asset on
// stop, and hand the clip to the transcript for upload. Only one
// recording session may be active at a time.
type Recorder struct {
	mu sync.Mutex

	state      State
	device     Device
	transcript *chat.Transcript

	session   Session
	chunks    [][]byte
	startedAt time.Time

	// encode assembles buffered PCM into a playable asset; replaced in
	// tests to simulate encode failures.
	encode func(pcm []byte) ([]byte, error)

	// OnChange is invoked after every state transition, outside the
	// lock.
	OnChange func()
}

// NewRecorder creates a recorder feeding completed clips into the
// transcript
func NewRecorder(device Device, transcript *chat.Transcript) *Recorder {
	return &Recorder{
		state:      StateIdle,
		device:     device,
		transcript: transcript,
		encode: func(pcm []byte) ([]byte, error) {
			return audio.EncodeWAV(CaptureFormat(), pcm), nil
		},
	}
}

// State returns the recorder's current pipeline state
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Recording reports whether a capture session is active
func (r *Recorder) Recording() bool {
	return r.State() == StateRecording
}

// Start acquires the input stream and begins buffering. A start while
// already recording is ignored; acquisition failure reports the error
// and leaves the recorder idle with no side effects.
func (r *Recorder) Start() error {
	r.mu.Lock()
	if r.state != StateIdle {
		r.mu.Unlock()
		return nil
	}
	// Reserve the recording slot before touching the device; a second
	// start arriving during acquisition must never open another stream.
	r.state = StateRecording
	r.chunks = nil
	r.startedAt = time.Now()
	r.mu.Unlock()
	r.notify()

	session, err := r.device.Start(r.bufferChunk)
	if err != nil {
		r.setState(StateIdle)
		return fmt.Errorf("recording failed: %w", err)
	}

	r.mu.Lock()
	r.session = session
	r.mu.Unlock()
	return nil
}

func (r *Recorder) bufferChunk(pcm []byte) {
	r.mu.Lock()
	if r.state == StateRecording {
		r.chunks = append(r.chunks, pcm)
	}
	r.mu.Unlock()
}

// Stop ends the capture session, encodes the buffered chunks and sends
// the voice message. The input stream is released unconditionally on
// every exit from recording, including encode failure. Stopping while
// idle is a no-op.
func (r *Recorder) Stop(ctx context.Context) error {
	r.mu.Lock()
	// A nil session means the device acquisition is still in flight;
	// there is no stream to release yet, so the stop is dropped.
	if r.state != StateRecording || r.session == nil {
		r.mu.Unlock()
		return nil
	}
	r.state = StateEncoding
	session := r.session
	r.session = nil
	chunks := r.chunks
	r.chunks = nil
	elapsed := time.Since(r.startedAt)
	r.mu.Unlock()
	r.notify()

	// Release the input stream before any encoding work.
	if err := session.Close(); err != nil {
		log.Printf("[VOICE] Failed to release capture stream: %v", err)
	}

	var size int
	for _, chunk := range chunks {
		size += len(chunk)
	}
	pcm := make([]byte, 0, size)
	for _, chunk := range chunks {
		pcm = append(pcm, chunk...)
	}

	clip, err := r.encode(pcm)
	if err != nil {
		r.setState(StateIdle)
		return fmt.Errorf("failed to encode recording: %w", err)
	}

	message := models.NewVoiceMessage(clip, models.DurationLabelFor(elapsed))
	log.Printf("[VOICE] Recorded %s clip (%d bytes)", message.DurationLabel, len(clip))

	r.setState(StateUploading)
	err = r.transcript.SendVoice(ctx, message)
	r.setState(StateIdle)
	if err != nil {
		return fmt.Errorf("voice message rejected: %w", err)
	}
	return nil
}

func (r *Recorder) setState(state State) {
	r.mu.Lock()
	r.state = state
	r.mu.Unlock()
	r.notify()
}

func (r *Recorder) notify() {
	if r.OnChange != nil {
		r.OnChange()
	}
}
