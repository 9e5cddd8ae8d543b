package audio

import (
	"fmt"
	"log"
	"sync"
	"time"
)

const progressInterval = 100 * time.Millisecond

// Controller enforces single-stream playback across all voice messages
// and tracks per-message progress in [0,1]. At most one message id is
// playing at any time; toggling a second message pauses the first and
// resets its progress.
type Controller struct {
	mu sync.Mutex

	newTrack TrackFactory
	tracks   map[string]Track
	progress map[string]float64

	playingID string

	loopOnce sync.Once
	stopLoop chan struct{}

	// OnChange is invoked after every playback state change, outside
	// the lock.
	OnChange func()
}

// NewController creates a controller building tracks with the given
// factory (NewOtoTrack in production)
func NewController(factory TrackFactory) *Controller {
	return &Controller{
		newTrack: factory,
		tracks:   make(map[string]Track),
		progress: make(map[string]float64),
		stopLoop: make(chan struct{}),
	}
}

// Toggle plays or pauses the given message's clip. If another message
// is playing it is paused and its progress reset to zero first, so the
// target becomes the sole playing message. Pausing mid-stream keeps
// progress; only switching away or reaching the end resets it.
func (c *Controller) Toggle(messageID string, clip []byte) error {
	c.mu.Lock()

	if c.playingID != "" && c.playingID != messageID {
		if previous, ok := c.tracks[c.playingID]; ok {
			previous.Pause()
			previous.Rewind()
		}
		c.progress[c.playingID] = 0
		c.playingID = ""
	}

	track, ok := c.tracks[messageID]
	if !ok {
		var err error
		track, err = c.newTrack(clip)
		if err != nil {
			c.mu.Unlock()
			return fmt.Errorf("failed to prepare voice message: %w", err)
		}
		c.tracks[messageID] = track
	}

	if c.playingID == messageID {
		track.Pause()
		c.playingID = ""
		c.mu.Unlock()
		c.notify()
		return nil
	}

	track.Play()
	c.playingID = messageID
	c.mu.Unlock()

	c.loopOnce.Do(func() {
		go c.progressLoop()
	})
	c.notify()
	return nil
}

// progressLoop recomputes the playing message's progress on a fixed
// cadence and detects natural end-of-stream.
func (c *Controller) progressLoop() {
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopLoop:
			return
		case <-ticker.C:
		}

		c.mu.Lock()
		id := c.playingID
		if id == "" {
			c.mu.Unlock()
			continue
		}
		track := c.tracks[id]

		if !track.Playing() {
			// Natural end: progress resets and the playing slot clears.
			track.Rewind()
			c.progress[id] = 0
			c.playingID = ""
			c.mu.Unlock()
			c.notify()
			continue
		}

		c.progress[id] = clampProgress(track.Position(), track.Duration())
		c.mu.Unlock()
		c.notify()
	}
}

func (c *Controller) notify() {
	if c.OnChange != nil {
		c.OnChange()
	}
}

func clampProgress(position, duration time.Duration) float64 {
	if duration <= 0 {
		return 0
	}
	p := float64(position) / float64(duration)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Progress returns the message's playback progress in [0,1]
func (c *Controller) Progress(messageID string) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progress[messageID]
}

// PlayingID returns the id of the currently playing message, or ""
func (c *Controller) PlayingID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playingID
}

// DurationLabel formats the clip length of a prepared track as "m:ss".
// Falls back to the empty string before the track exists.
func (c *Controller) DurationLabel(messageID string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	track, ok := c.tracks[messageID]
	if !ok {
		return ""
	}
	seconds := int(track.Duration().Round(time.Second) / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// Forget releases the message's track and drops its side-table
// entries. Called when the owning message leaves the transcript.
func (c *Controller) Forget(messageID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.playingID == messageID {
		c.playingID = ""
	}
	if track, ok := c.tracks[messageID]; ok {
		track.Pause()
		if err := track.Close(); err != nil {
			log.Printf("Failed to close audio track: %v", err)
		}
		delete(c.tracks, messageID)
	}
	delete(c.progress, messageID)
}

// Shutdown stops the progress loop and releases all tracks
func (c *Controller) Shutdown() {
	close(c.stopLoop)

	c.mu.Lock()
	defer c.mu.Unlock()
	for id, track := range c.tracks {
		track.Pause()
		track.Close()
		delete(c.tracks, id)
	}
	c.playingID = ""
}
