package main

import (
	"context"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"planhelper/pkg/models"
	"planhelper/pkg/ui/components"
	"planhelper/pkg/voice"
)

// ChatPanel renders the assistant transcript alongside the calendar:
// the message history, the text input, and the voice record control.
type ChatPanel struct {
	ph *PlanHelper

	messageList *fyne.Container
	scroll      *container.Scroll
	input       *widget.Entry
	sendButton  *widget.Button
	recordBtn   *widget.Button
	voiceError  *widget.Label
	typingLabel *widget.Label

	// voice bubbles by message ID, so playback refreshes reach them
	bubbles map[string]*components.VoiceBubble
}

func NewChatPanel(ph *PlanHelper) *ChatPanel {
	return &ChatPanel{
		ph:      ph,
		bubbles: make(map[string]*components.VoiceBubble),
	}
}

// Build assembles the panel content
func (cp *ChatPanel) Build() fyne.CanvasObject {
	cp.messageList = container.NewVBox()
	cp.scroll = container.NewVScroll(cp.messageList)

	cp.typingLabel = widget.NewLabel("Assistant is thinking...")
	cp.typingLabel.Importance = widget.LowImportance
	cp.typingLabel.Hide()

	cp.input = widget.NewEntry()
	cp.input.SetPlaceHolder("Ask your assistant...")
	cp.input.OnSubmitted = func(string) { cp.send() }

	cp.sendButton = widget.NewButton("Send", cp.send)
	cp.sendButton.Importance = widget.HighImportance

	cp.recordBtn = widget.NewButton("Record", cp.toggleRecording)

	cp.voiceError = widget.NewLabel("")
	cp.voiceError.Importance = widget.DangerImportance
	cp.voiceError.Wrapping = fyne.TextWrapWord
	cp.voiceError.Hide()

	clearButton := widget.NewButton("Clear", func() {
		if err := cp.ph.transcript.Reset(); err != nil {
			log.Printf("[CHAT] Reset refused: %v", err)
		}
	})

	header := container.NewBorder(nil, nil,
		widget.NewLabelWithStyle("Assistant", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		clearButton)

	inputRow := container.NewBorder(nil, nil, cp.recordBtn, cp.sendButton, cp.input)
	footer := container.NewVBox(cp.typingLabel, cp.voiceError, inputRow)

	cp.Refresh()
	return container.NewBorder(header, footer, nil, nil, cp.scroll)
}

// Refresh rebuilds the message history from the transcript
func (cp *ChatPanel) Refresh() {
	cp.messageList.RemoveAll()
	cp.bubbles = make(map[string]*components.VoiceBubble)

	for _, msg := range cp.ph.transcript.Messages() {
		cp.messageList.Add(cp.buildBubble(msg))
	}
	cp.messageList.Refresh()
	cp.scroll.ScrollToBottom()

	busy := cp.ph.transcript.Busy()
	if busy {
		cp.typingLabel.Show()
		cp.sendButton.Disable()
	} else {
		cp.typingLabel.Hide()
		cp.sendButton.Enable()
	}
	cp.RefreshPlayback()
}

// RefreshPlayback pushes the controller's playing flag and progress
// into every visible voice bubble.
func (cp *ChatPanel) RefreshPlayback() {
	playingID := cp.ph.playback.PlayingID()
	for id, bubble := range cp.bubbles {
		bubble.SetPlayback(id == playingID, cp.ph.playback.Progress(id))
		if label := cp.ph.playback.DurationLabel(id); label != "" {
			bubble.SetDuration(label)
		}
	}
}

// RefreshRecording mirrors the recorder's pipeline state on the record button
func (cp *ChatPanel) RefreshRecording() {
	switch cp.ph.recorder.State() {
	case voice.StateRecording:
		cp.recordBtn.SetText("Stop")
		cp.recordBtn.Enable()
	case voice.StateEncoding, voice.StateUploading:
		cp.recordBtn.SetText("Sending...")
		cp.recordBtn.Disable()
	default:
		cp.recordBtn.SetText("Record")
		cp.recordBtn.Enable()
	}
}

func (cp *ChatPanel) buildBubble(msg models.Message) fyne.CanvasObject {
	var body fyne.CanvasObject
	if msg.Kind == models.KindVoice {
		id := msg.ID
		clip := msg.Audio
		bubble := components.NewVoiceBubble(msg.DurationLabel, func() {
			if err := cp.ph.playback.Toggle(id, clip); err != nil {
				log.Printf("[AUDIO] Toggle failed for %s: %v", id, err)
			}
		})
		cp.bubbles[id] = bubble
		body = bubble
	} else {
		label := widget.NewLabel(msg.Text)
		label.Wrapping = fyne.TextWrapWord
		body = label
	}

	if msg.Role == models.RoleUser {
		return container.NewHBox(layout.NewSpacer(), body)
	}
	return body
}

func (cp *ChatPanel) send() {
	text := cp.input.Text
	cp.input.SetText("")
	go func() {
		if err := cp.ph.transcript.SendText(context.Background(), text); err != nil {
			log.Printf("[CHAT] Send refused: %v", err)
		}
	}()
}

func (cp *ChatPanel) toggleRecording() {
	if cp.ph.recorder.Recording() {
		go func() {
			if err := cp.ph.recorder.Stop(context.Background()); err != nil {
				log.Printf("[VOICE] Stop failed: %v", err)
				fyne.Do(func() {
					cp.voiceError.SetText(err.Error())
					cp.voiceError.Show()
				})
			}
		}()
		return
	}

	cp.voiceError.Hide()
	go func() {
		if err := cp.ph.recorder.Start(); err != nil {
			log.Printf("[VOICE] Start failed: %v", err)
			fyne.Do(func() {
				cp.voiceError.SetText(err.Error())
				cp.voiceError.Show()
			})
		}
	}()
}
