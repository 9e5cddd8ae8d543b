package calendar

import (
	"fmt"
	"time"
)

// TimeInputValue formats an instant as the "HH:MM" value of a time
// input field. Zero instants fall back to the morning default.
func TimeInputValue(t time.Time) string {
	if t.IsZero() {
		return "09:00"
	}
	return t.Format("15:04")
}

// BuildDayTime combines a calendar day with an "HH:MM" time-of-day.
// The date portion always comes from day; unparsable time values
// resolve to midnight, matching browser time inputs.
func BuildDayTime(day time.Time, value string) time.Time {
	var hours, minutes int
	fmt.Sscanf(value, "%d:%d", &hours, &minutes)
	return time.Date(day.Year(), day.Month(), day.Day(), hours, minutes, 0, 0, day.Location())
}

// SameDay reports whether two instants fall on the same calendar date
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
