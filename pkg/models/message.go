package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role identifies which side of the conversation a message belongs to
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// MessageKind distinguishes plain text from recorded voice messages
type MessageKind string

const (
	KindText  MessageKind = "text"
	KindVoice MessageKind = "voice"
)

// Message is a single entry in the chat transcript
type Message struct {
	ID   string
	Role Role
	Kind MessageKind
	Text string

	// Audio holds the encoded voice clip for voice messages; immutable
	// once the message is created.
	Audio []byte

	// DurationLabel is the "m:ss" clip length shown next to the play
	// control. It may be refined after the clip metadata loads.
	DurationLabel string
}

// NewTextMessage builds a text message with a fresh id
func NewTextMessage(role Role, text string) Message {
	return Message{
		ID:   string(role) + "-" + uuid.New().String(),
		Role: role,
		Kind: KindText,
		Text: text,
	}
}

// NewVoiceMessage builds a user voice message carrying the encoded clip
func NewVoiceMessage(audio []byte, durationLabel string) Message {
	return Message{
		ID:            "voice-" + uuid.New().String(),
		Role:          RoleUser,
		Kind:          KindVoice,
		Audio:         audio,
		DurationLabel: durationLabel,
	}
}

// DurationLabelFor formats an elapsed duration as "m:ss" with a floor of
// one second so a zero or negative span never renders as 0:00
func DurationLabelFor(d time.Duration) string {
	totalSeconds := int(d.Round(time.Second) / time.Second)
	if totalSeconds < 1 {
		totalSeconds = 1
	}
	return fmt.Sprintf("%d:%02d", totalSeconds/60, totalSeconds%60)
}
