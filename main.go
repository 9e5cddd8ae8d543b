package main

import (
	"context"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"

	"planhelper/pkg/audio"
	"planhelper/pkg/calendar"
	"planhelper/pkg/chat"
	"planhelper/pkg/eventsvc"
	"planhelper/pkg/models"
	"planhelper/pkg/store"
	"planhelper/pkg/voice"
)

// PlanHelper wires the calendar engine and the assistant chat to the
// Fyne shell
type PlanHelper struct {
	app    fyne.App
	window fyne.Window

	config      *models.Config
	configStore *store.ConfigStore

	events    *store.EventStore
	committer *store.Committer

	transcript *chat.Transcript
	playback   *audio.Controller
	recorder   *voice.Recorder

	// Focused month shown on the grid
	focusYear  int
	focusMonth time.Month
	today      time.Time

	calendarView *CalendarView
	chatPanel    *ChatPanel
	dayWindow    *DayWindow
}

func main() {
	ph := &PlanHelper{
		app:         app.New(),
		configStore: store.NewConfigStore(),
	}

	ph.initialize()
	ph.run()
}

func (ph *PlanHelper) initialize() {
	ph.config = ph.configStore.Load()

	// Sync autostart state with config on startup
	if err := setupAutostart(ph.config.AutoStart); err != nil {
		log.Printf("Warning: failed to setup autostart: %v", err)
	}

	if err := ph.configStore.Save(ph.config); err != nil {
		log.Printf("Warning: failed to save config: %v", err)
	}

	client := eventsvc.NewClient(ph.config.EventServiceURL)
	ph.events = store.NewEventStore(client)
	ph.committer = store.NewCommitter(client, ph.events)

	assistant := chat.NewAssistantClient(ph.config.AssistantURL)
	ph.transcript = chat.NewTranscript(assistant, ph.config.Greeting)

	ph.playback = audio.NewController(audio.NewOtoTrack)
	ph.transcript.OnRemove = ph.playback.Forget
	ph.recorder = voice.NewRecorder(voice.MicDevice{}, ph.transcript)

	ph.today = time.Now()
	ph.focusYear = ph.today.Year()
	ph.focusMonth = ph.today.Month()

	ph.window = ph.app.NewWindow("Plan Helper")
	ph.window.Resize(fyne.NewSize(1100, 720))

	ph.calendarView = NewCalendarView(ph)
	ph.chatPanel = NewChatPanel(ph)

	ph.events.OnChange = func() {
		fyne.Do(ph.calendarView.Refresh)
	}
	ph.transcript.OnChange = func() {
		fyne.Do(ph.chatPanel.Refresh)
	}
	ph.playback.OnChange = func() {
		fyne.Do(ph.chatPanel.RefreshPlayback)
	}
	ph.recorder.OnChange = func() {
		fyne.Do(ph.chatPanel.RefreshRecording)
	}

	split := container.NewHSplit(ph.calendarView.Build(), ph.chatPanel.Build())
	split.SetOffset(0.62)
	ph.window.SetContent(split)

	ph.window.SetOnClosed(func() {
		ph.playback.Shutdown()
	})

	ph.refreshEvents()
}

func (ph *PlanHelper) run() {
	ph.window.ShowAndRun()
}

// refreshEvents refetches the focused month in the background. Fired on
// startup and on every focus change; in-flight requests are never
// cancelled, the store drops responses that lost the race.
func (ph *PlanHelper) refreshEvents() {
	year, month := ph.focusYear, ph.focusMonth
	go func() {
		if err := ph.events.Refresh(context.Background(), year, month); err != nil {
			log.Printf("Failed to load events for %s %d: %v", month, year, err)
		}
	}()
}

// changeMonth steps the focused month forward or backward
func (ph *PlanHelper) changeMonth(delta int) {
	if delta > 0 {
		ph.focusYear, ph.focusMonth = calendar.NextMonth(ph.focusYear, ph.focusMonth)
	} else {
		ph.focusYear, ph.focusMonth = calendar.PreviousMonth(ph.focusYear, ph.focusMonth)
	}
	ph.calendarView.Refresh()
	ph.refreshEvents()
}

// focusToday jumps the grid back to the current month
func (ph *PlanHelper) focusToday() {
	ph.today = time.Now()
	ph.focusYear = ph.today.Year()
	ph.focusMonth = ph.today.Month()
	ph.calendarView.Refresh()
	ph.refreshEvents()
}

// openDay activates a non-padding day cell: the store's bucket for
// that date is copied into a fresh edit buffer and shown in the day
// window. When the store is in its error state the buffer is read-only.
func (ph *PlanHelper) openDay(day int) {
	if ph.dayWindow != nil {
		return
	}

	date := time.Date(ph.focusYear, ph.focusMonth, day, 0, 0, 0, 0, time.Local)
	readOnly := ph.events.Err() != nil
	buffer := store.OpenDay(date, ph.events.EventsOn(date), readOnly, ph.config.DefaultEventTime)

	ph.dayWindow = NewDayWindow(ph, buffer)
	ph.dayWindow.Show()
}
