// Package audio plays recorded voice clips through the system output
// device and tracks per-message playback progress.
package audio

import (
	"log"
	"sync"

	"github.com/ebitengine/oto/v3"
)

// Global audio context singleton
var (
	globalCtx      *oto.Context
	globalCtxOnce  sync.Once
	globalCtxReady bool
)

// initContext initializes the global audio context once. All voice
// clips share the recorder's format, so the first clip's format wins.
func initContext(format Format) {
	globalCtxOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   format.SampleRate,
			ChannelCount: format.Channels,
			Format:       oto.FormatSignedInt16LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			log.Printf("Failed to initialize audio context: %v", err)
			return
		}

		// Wait for the hardware audio devices to be ready
		<-readyChan

		globalCtx = ctx
		globalCtxReady = true
		log.Println("Audio context initialized successfully")
	})
}
