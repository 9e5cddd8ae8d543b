package calendar

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"planhelper/pkg/models"
)

// ExportMonthICS serializes a month's events as an iCalendar document
// so they can be imported into other calendar apps. Events whose start
// date could not be parsed are skipped.
func ExportMonthICS(events []models.Event, year int, month time.Month) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//planhelper//calendar export//EN")

	exported := 0
	now := time.Now()
	for _, event := range events {
		if event.Start.IsZero() {
			continue
		}

		entry := ical.NewEvent()
		uid := event.RemoteID
		if uid == "" {
			uid = uuid.New().String()
		}
		entry.Props.SetText(ical.PropUID, uid)
		entry.Props.SetDateTime(ical.PropDateTimeStamp, now)
		entry.Props.SetDateTime(ical.PropDateTimeStart, event.Start)
		end := event.End
		if end.IsZero() {
			end = event.Start
		}
		entry.Props.SetDateTime(ical.PropDateTimeEnd, end)
		entry.Props.SetText(ical.PropSummary, event.Name)
		entry.Props.SetText(ical.PropCategories, string(event.Category))

		cal.Children = append(cal.Children, entry.Component)
		exported++
	}

	if exported == 0 {
		return nil, fmt.Errorf("no exportable events in %s %d", month, year)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("failed to encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}
