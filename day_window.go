package main

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"planhelper/pkg/calendar"
	"planhelper/pkg/models"
	"planhelper/pkg/store"
)

// DayWindow is the editor for one opened day. It owns a DayBuffer:
// edits stay local until Save routes the buffer through the committer;
// Cancel discards it with no remote effect.
type DayWindow struct {
	ph     *PlanHelper
	buffer *store.DayBuffer
	window fyne.Window

	eventList    *fyne.Container
	errorLabel   *widget.Label
	saveButton   *widget.Button
	cancelButton *widget.Button
	saving       bool

	// Editing controls to freeze while a commit is outstanding
	rowControls   []fyne.Disableable
	draftControls []fyne.Disableable
}

// NewDayWindow opens the editor for the given buffer
func NewDayWindow(ph *PlanHelper, buffer *store.DayBuffer) *DayWindow {
	dw := &DayWindow{
		ph:     ph,
		buffer: buffer,
	}

	title := fmt.Sprintf("%s %d, %d",
		buffer.Day.Month().String(), buffer.Day.Day(), buffer.Day.Year())

	dw.window = ph.app.NewWindow(title)
	dw.window.Resize(fyne.NewSize(460, 560))
	dw.window.SetOnClosed(func() {
		// Discarding the buffer has no remote effect.
		ph.dayWindow = nil
	})

	dw.buildUI()
	return dw
}

// Show displays the editor window
func (dw *DayWindow) Show() {
	dw.window.Show()
}

func (dw *DayWindow) buildUI() {
	if dw.buffer.ReadOnly {
		notice := widget.NewLabel("Events are unavailable while the server is offline. Try again once the connection is restored.")
		notice.Wrapping = fyne.TextWrapWord
		dw.window.SetContent(container.NewPadded(notice))
		return
	}

	dw.errorLabel = widget.NewLabel("")
	dw.errorLabel.Importance = widget.DangerImportance
	dw.errorLabel.Hide()

	dw.eventList = container.NewVBox()
	dw.rebuildEventList()

	draftForm := dw.buildDraftForm()

	dw.cancelButton = widget.NewButton("Cancel", func() {
		dw.window.Close()
	})
	dw.saveButton = widget.NewButton("Save changes", dw.save)
	dw.saveButton.Importance = widget.HighImportance
	footer := container.NewHBox(dw.cancelButton, dw.saveButton)

	// The buffer must not be edited or discarded while a commit is
	// outstanding.
	dw.window.SetCloseIntercept(func() {
		if dw.saving {
			return
		}
		dw.window.Close()
	})

	dw.window.SetContent(container.NewBorder(
		dw.errorLabel,
		container.NewVBox(widget.NewSeparator(), draftForm, container.NewCenter(footer)),
		nil, nil,
		container.NewVScroll(dw.eventList),
	))
}

// rebuildEventList recreates one editable card per working event
func (dw *DayWindow) rebuildEventList() {
	dw.eventList.RemoveAll()
	dw.rowControls = nil

	events := dw.buffer.Events()
	if len(events) == 0 {
		empty := widget.NewLabel("No events scheduled for this day.")
		empty.Importance = widget.LowImportance
		dw.eventList.Add(empty)
	}

	for _, event := range events {
		dw.eventList.Add(dw.buildEventCard(event))
	}
	dw.eventList.Refresh()
}

func (dw *DayWindow) buildEventCard(event models.Event) fyne.CanvasObject {
	localKey := event.LocalKey

	name := widget.NewEntry()
	name.SetText(event.Name)
	name.OnChanged = func(value string) {
		dw.buffer.Rename(localKey, value)
	}

	timeEntry := widget.NewEntry()
	timeEntry.SetText(calendar.TimeInputValue(event.Start))
	timeEntry.OnChanged = func(value string) {
		dw.buffer.SetTime(localKey, value)
	}

	category := widget.NewSelect(categoryOptions(), func(value string) {
		dw.buffer.SetCategory(localKey, models.Category(value))
	})
	category.SetSelected(string(event.Category))

	remove := widget.NewButton("Delete", func() {
		dw.buffer.Remove(localKey)
		dw.rebuildEventList()
	})

	dw.rowControls = append(dw.rowControls, name, timeEntry, category, remove)

	return container.NewVBox(
		name,
		container.NewGridWithColumns(3, timeEntry, category, remove),
		widget.NewSeparator(),
	)
}

func (dw *DayWindow) buildDraftForm() fyne.CanvasObject {
	name := widget.NewEntry()
	name.SetPlaceHolder("Title")
	name.OnChanged = func(value string) {
		dw.buffer.Draft.Name = value
	}

	timeEntry := widget.NewEntry()
	timeEntry.SetText(dw.buffer.Draft.Time)
	timeEntry.OnChanged = func(value string) {
		dw.buffer.Draft.Time = value
	}

	category := widget.NewSelect(categoryOptions(), func(value string) {
		dw.buffer.Draft.Category = models.Category(value)
	})
	category.SetSelected(string(dw.buffer.Draft.Category))

	add := widget.NewButton("Add event", func() {
		if dw.buffer.AddFromDraft() {
			name.SetText("")
			dw.rebuildEventList()
		}
	})

	dw.draftControls = []fyne.Disableable{name, timeEntry, category, add}

	return container.NewVBox(
		widget.NewLabelWithStyle("Add new event", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		name,
		container.NewGridWithColumns(3, timeEntry, category, add),
	)
}

// save routes the buffer through the committer. Controls stay disabled
// while the commit is outstanding; on failure the buffer is preserved
// for retry.
func (dw *DayWindow) save() {
	if dw.saving {
		return
	}
	if !dw.buffer.Dirty() {
		dw.window.Close()
		return
	}
	dw.saving = true
	dw.saveButton.SetText("Saving...")
	dw.saveButton.Disable()
	dw.cancelButton.Disable()
	dw.setEditable(false)

	go func() {
		err := dw.ph.committer.Commit(context.Background(), dw.buffer)
		fyne.Do(func() {
			dw.saving = false
			dw.saveButton.SetText("Save changes")
			dw.saveButton.Enable()
			dw.cancelButton.Enable()
			dw.setEditable(true)

			if err != nil {
				dw.errorLabel.SetText(err.Error())
				dw.errorLabel.Show()
				return
			}
			dw.window.Close()
		})
	}()
}

func (dw *DayWindow) setEditable(enabled bool) {
	toggle := func(control fyne.Disableable) {
		if enabled {
			control.Enable()
		} else {
			control.Disable()
		}
	}
	for _, control := range dw.rowControls {
		toggle(control)
	}
	for _, control := range dw.draftControls {
		toggle(control)
	}
}

func categoryOptions() []string {
	options := make([]string, len(models.Categories))
	for i, category := range models.Categories {
		options[i] = string(category)
	}
	return options
}
