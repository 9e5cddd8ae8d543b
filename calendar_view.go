package main

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"planhelper/pkg/calendar"
	"planhelper/pkg/models"
)

// Number of event chips shown per cell before the "+N more" overflow
const maxChipsPerCell = 3

// CalendarView renders the focused month's grid: header with
// navigation, weekday labels and one tappable cell per day. When the
// store is in its error state the cells degrade to skeleton chips.
type CalendarView struct {
	ph *PlanHelper

	monthLabel *widget.Label
	yearLabel  *widget.Label
	errorLabel *widget.Label
	grid       *fyne.Container
}

// NewCalendarView creates the view for the app's focused month
func NewCalendarView(ph *PlanHelper) *CalendarView {
	return &CalendarView{ph: ph}
}

// Build assembles the calendar side of the window
func (cv *CalendarView) Build() fyne.CanvasObject {
	cv.monthLabel = widget.NewLabel("")
	cv.monthLabel.TextStyle = fyne.TextStyle{Bold: true}
	cv.yearLabel = widget.NewLabel("")

	cv.errorLabel = widget.NewLabel("")
	cv.errorLabel.Hide()

	prev := widget.NewButton("‹", func() { cv.ph.changeMonth(-1) })
	today := widget.NewButton("Today", cv.ph.focusToday)
	next := widget.NewButton("›", func() { cv.ph.changeMonth(1) })
	export := widget.NewButton("Export .ics", cv.exportMonth)

	header := container.NewBorder(nil, nil,
		container.NewHBox(cv.monthLabel, cv.yearLabel),
		container.NewHBox(prev, today, next, export),
	)

	weekdays := container.NewGridWithColumns(7)
	for _, label := range calendar.WeekdayLabels {
		name := widget.NewLabel(label)
		name.Alignment = fyne.TextAlignCenter
		weekdays.Add(name)
	}

	cv.grid = container.NewVBox()
	cv.Refresh()

	return container.NewBorder(
		container.NewVBox(header, weekdays),
		cv.errorLabel,
		nil, nil,
		container.NewVScroll(cv.grid),
	)
}

// Refresh rebuilds the grid from the focused month and the store's
// current buckets
func (cv *CalendarView) Refresh() {
	year, month := cv.ph.focusYear, cv.ph.focusMonth

	cv.monthLabel.SetText(month.String())
	cv.yearLabel.SetText(fmt.Sprintf("%d", year))

	skeleton := cv.ph.events.Err() != nil
	if skeleton {
		cv.errorLabel.SetText("Could not fetch events. Showing placeholders.")
		cv.errorLabel.Show()
	} else {
		cv.errorLabel.Hide()
	}

	buckets := cv.ph.events.BucketByDay(year, month)
	weeks := calendar.BuildMonthGrid(year, month, cv.ph.today)

	cv.grid.RemoveAll()
	for _, week := range weeks {
		row := container.NewGridWithColumns(7)
		for _, cell := range week {
			row.Add(cv.buildCell(cell, buckets[cell.Day], skeleton))
		}
		cv.grid.Add(row)
	}
	cv.grid.Refresh()
}

func (cv *CalendarView) buildCell(cell calendar.DayCell, events []models.Event, skeleton bool) fyne.CanvasObject {
	if cell.Padding {
		muted := widget.NewLabel(fmt.Sprintf("%d", cell.Day))
		muted.Alignment = fyne.TextAlignCenter
		muted.Importance = widget.LowImportance
		return muted
	}

	day := cell.Day
	number := widget.NewButton(fmt.Sprintf("%d", day), func() {
		cv.ph.openDay(day)
	})
	if cell.Today {
		number.Importance = widget.HighImportance
	}

	content := container.NewVBox(number)

	if skeleton {
		for i := 0; i < 2; i++ {
			content.Add(skeletonChip())
		}
		return content
	}

	for i, event := range events {
		if i == maxChipsPerCell {
			more := widget.NewLabel(fmt.Sprintf("+%d more", len(events)-maxChipsPerCell))
			more.Importance = widget.LowImportance
			content.Add(more)
			break
		}
		content.Add(eventChip(event))
	}
	return content
}

func eventChip(event models.Event) fyne.CanvasObject {
	rgba := models.CategoryColors[event.Category]
	bg := canvas.NewRectangle(color.NRGBA{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]})
	bg.CornerRadius = 4

	text := event.Name
	if !event.Start.IsZero() {
		text = event.Start.Format("15:04") + " " + text
	}
	label := widget.NewLabel(text)
	label.Truncation = fyne.TextTruncateEllipsis

	return container.NewStack(bg, label)
}

func skeletonChip() fyne.CanvasObject {
	bg := canvas.NewRectangle(color.NRGBA{R: 255, G: 255, B: 255, A: 38})
	bg.CornerRadius = 4
	bg.SetMinSize(fyne.NewSize(0, 18))
	return bg
}

// exportMonth writes the focused month's events to an iCalendar file
func (cv *CalendarView) exportMonth() {
	year, month := cv.ph.focusYear, cv.ph.focusMonth
	data, err := calendar.ExportMonthICS(cv.ph.events.Events(), year, month)
	if err != nil {
		dialog.ShowError(err, cv.ph.window)
		return
	}

	saver := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		if _, err := writer.Write(data); err != nil {
			dialog.ShowError(err, cv.ph.window)
		}
	}, cv.ph.window)
	saver.SetFileName(fmt.Sprintf("%d-%02d.ics", year, int(month)))
	saver.Show()
}
