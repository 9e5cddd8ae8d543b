package models

import (
	"time"

	"github.com/google/uuid"
)

// Category classifies an event for display coloring
type Category string

const (
	CategoryPersonal Category = "personal"
	CategoryWork     Category = "work"
	CategoryMeeting  Category = "meeting"
	CategorySports   Category = "sports"
)

// Categories lists the selectable categories in display order
var Categories = []Category{CategoryPersonal, CategoryWork, CategoryMeeting, CategorySports}

// CategoryColors maps each category to its chip color (RGBA)
var CategoryColors = map[Category][4]uint8{
	CategorySports:   {94, 234, 212, 77},
	CategoryMeeting:  {255, 228, 181, 102},
	CategoryWork:     {180, 198, 255, 102},
	CategoryPersonal: {255, 182, 193, 115},
}

// NormalizeCategory falls back to personal for values the server sends
// that the client does not know
func NormalizeCategory(value string) Category {
	c := Category(value)
	for _, known := range Categories {
		if c == known {
			return c
		}
	}
	return CategoryPersonal
}

// Event represents a calendar event
type Event struct {
	RemoteID string    // server-side primary key, empty until persisted
	Name     string    // event title
	Category Category  // display category
	Start    time.Time // start instant; zero when the server date was unparsable
	End      time.Time // end instant; zero when the server date was unparsable

	// LocalKey is a stable client-side identity used for list keying.
	// Derived from RemoteID when present; never changes for the
	// lifetime of the in-memory object.
	LocalKey string
}

// NewLocalKey generates a fresh client-side identity token
func NewLocalKey() string {
	return uuid.New().String()
}

// EnsureLocalKey assigns a LocalKey if the event does not have one yet
func (e *Event) EnsureLocalKey() {
	if e.LocalKey != "" {
		return
	}
	if e.RemoteID != "" {
		e.LocalKey = e.RemoteID
		return
	}
	e.LocalKey = NewLocalKey()
}

// Persisted reports whether the event exists on the server
func (e *Event) Persisted() bool {
	return e.RemoteID != ""
}
