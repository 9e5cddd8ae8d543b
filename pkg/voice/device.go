// Package voice records microphone audio and turns it into chat voice
// messages.
package voice

import (
	"fmt"

	"github.com/gen2brain/malgo"

	"planhelper/pkg/audio"
)

// CaptureFormat is the fixed recording format; every clip the app
// produces is mono 16-bit 44.1 kHz WAV.
func CaptureFormat() audio.Format {
	return audio.Format{SampleRate: 44100, Channels: 1, BitDepth: 16}
}

// Session is an open capture stream. Close stops the device and
// releases the input resources; it must be called on every exit from
// recording.
type Session interface {
	Close() error
}

// Device acquires an audio input stream, delivering PCM chunks to the
// callback until the session is closed
type Device interface {
	Start(onChunk func(pcm []byte)) (Session, error)
}

// MicDevice is the malgo-backed production capture device
type MicDevice struct{}

type micSession struct {
	device *malgo.Device
	ctx    *malgo.AllocatedContext
}

// Start opens the default capture device. Failure (no device, no
// permission) returns an error with no resources left behind.
func (MicDevice) Start(onChunk func(pcm []byte)) (Session, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize capture context: %w", err)
	}

	format := CaptureFormat()
	config := malgo.DefaultDeviceConfig(malgo.Capture)
	config.Capture.Format = malgo.FormatS16
	config.Capture.Channels = uint32(format.Channels)
	config.SampleRate = uint32(format.SampleRate)
	config.Alsa.NoMMap = 1

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, input []byte, _ uint32) {
			if len(input) == 0 {
				return
			}
			chunk := make([]byte, len(input))
			copy(chunk, input)
			onChunk(chunk)
		},
	}

	device, err := malgo.InitDevice(ctx.Context, config, callbacks)
	if err != nil {
		ctx.Uninit()
		ctx.Free()
		return nil, fmt.Errorf("failed to open capture device: %w", err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		ctx.Uninit()
		ctx.Free()
		return nil, fmt.Errorf("failed to start capture device: %w", err)
	}

	return &micSession{device: device, ctx: ctx}, nil
}

func (s *micSession) Close() error {
	s.device.Uninit()
	err := s.ctx.Uninit()
	s.ctx.Free()
	return err
}
