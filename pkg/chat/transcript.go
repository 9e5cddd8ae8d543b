package chat

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"planhelper/pkg/models"
)

// Fallback texts shown when the assistant cannot produce an answer
const (
	fallbackNoAnswer      = "I'll keep that noted for when the AI comes online."
	fallbackAskFailed     = "I'll keep that noted until the live AI is connected."
	fallbackVoiceNoAnswer = "I received your voice message and will remember it."
	fallbackVoiceFailed   = "I couldn't upload that voice message. Please try again."
)

// ErrBusy is returned when a send or reset races an outstanding
// assistant exchange
var ErrBusy = errors.New("assistant response is outstanding")

// Asker is the remote assistant boundary
type Asker interface {
	AskText(ctx context.Context, question string) (string, error)
	AskAudio(ctx context.Context, audio []byte) (string, error)
}

// Transcript is the ordered append-only log of messages exchanged with
// the assistant. Ordering is send/arrival order, never timestamp sort.
type Transcript struct {
	mu       sync.Mutex
	settled  *sync.Cond // signalled whenever busy clears
	greeting string
	messages []models.Message
	busy     bool
	asker    Asker

	// OnChange is invoked after every transcript mutation, outside the
	// lock.
	OnChange func()

	// OnRemove is invoked for every message dropped by a reset so side
	// tables keyed by message id (playback progress, durations) are
	// garbage-collected alongside the entries.
	OnRemove func(messageID string)
}

// NewTranscript creates a transcript seeded with the assistant greeting
func NewTranscript(asker Asker, greeting string) *Transcript {
	t := &Transcript{greeting: greeting, asker: asker}
	t.settled = sync.NewCond(&t.mu)
	t.messages = []models.Message{t.greetingMessage()}
	return t
}

func (t *Transcript) greetingMessage() models.Message {
	return models.Message{
		ID:   "assistant-welcome",
		Role: models.RoleAssistant,
		Kind: models.KindText,
		Text: t.greeting,
	}
}

// Messages returns a copy of the transcript in order
func (t *Transcript) Messages() []models.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Message looks up an entry by id
func (t *Transcript) Message(id string) (models.Message, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, msg := range t.messages {
		if msg.ID == id {
			return msg, true
		}
	}
	return models.Message{}, false
}

// Busy reports whether an assistant exchange is outstanding
func (t *Transcript) Busy() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.busy
}

// Append adds a message to the end of the transcript
func (t *Transcript) Append(msg models.Message) {
	t.mu.Lock()
	t.messages = append(t.messages, msg)
	t.mu.Unlock()
	t.notify()
}

// Reset replaces the transcript with the single initial greeting.
// Disallowed while an assistant response is outstanding.
func (t *Transcript) Reset() error {
	t.mu.Lock()
	if t.busy {
		t.mu.Unlock()
		return ErrBusy
	}
	removed := t.messages
	t.messages = []models.Message{t.greetingMessage()}
	t.mu.Unlock()

	if t.OnRemove != nil {
		for _, msg := range removed {
			t.OnRemove(msg.ID)
		}
	}
	t.notify()
	return nil
}

// SendText appends the user message, asks the assistant and appends the
// reply (or a fallback on failure). Rejected while a previous exchange
// is outstanding; blank messages are ignored.
func (t *Transcript) SendText(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if err := t.begin(models.NewTextMessage(models.RoleUser, text)); err != nil {
		return err
	}

	answer, err := t.asker.AskText(ctx, text)
	if err != nil {
		log.Printf("[CHAT] Ask failed: %v", err)
		answer = fallbackAskFailed
	} else if answer == "" {
		answer = fallbackNoAnswer
	}

	t.finish(models.NewTextMessage(models.RoleAssistant, answer))
	return nil
}

// SendVoice appends the user voice message optimistically, uploads the
// clip and appends the assistant reply. On upload failure the voice
// message is not retracted; a failure notice follows it instead.
// A completed recording is never dropped: the voice message lands even
// while a text exchange is outstanding, and the upload waits its turn
// behind it.
func (t *Transcript) SendVoice(ctx context.Context, voice models.Message) error {
	t.mu.Lock()
	t.messages = append(t.messages, voice)
	t.mu.Unlock()
	t.notify()

	t.mu.Lock()
	for t.busy {
		t.settled.Wait()
	}
	t.busy = true
	t.mu.Unlock()
	t.notify()

	answer, err := t.asker.AskAudio(ctx, voice.Audio)
	if err != nil {
		log.Printf("[CHAT] Voice upload failed: %v", err)
		answer = fallbackVoiceFailed
	} else if answer == "" {
		answer = fallbackVoiceNoAnswer
	}

	t.finish(models.NewTextMessage(models.RoleAssistant, answer))
	return nil
}

func (t *Transcript) begin(msg models.Message) error {
	t.mu.Lock()
	if t.busy {
		t.mu.Unlock()
		return ErrBusy
	}
	t.busy = true
	t.messages = append(t.messages, msg)
	t.mu.Unlock()
	t.notify()
	return nil
}

func (t *Transcript) finish(msg models.Message) {
	t.mu.Lock()
	t.messages = append(t.messages, msg)
	t.busy = false
	t.settled.Broadcast()
	t.mu.Unlock()
	t.notify()
}

func (t *Transcript) notify() {
	if t.OnChange != nil {
		t.OnChange()
	}
}
