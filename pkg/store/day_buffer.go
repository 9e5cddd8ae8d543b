package store

import (
	"strings"
	"time"

	"planhelper/pkg/calendar"
	"planhelper/pkg/models"
)

// Draft is the new-event form attached to an open day
type Draft struct {
	Name     string
	Time     string // "HH:MM"
	Category models.Category
}

// DayBuffer is the transient staging area for one opened day. It holds
// working copies of the day's events, a tombstone list of remote ids to
// delete, and the draft form. It has no remote effect until committed;
// closing without saving simply discards it.
type DayBuffer struct {
	Day   time.Time
	Draft Draft

	// ReadOnly buffers are opened while the event store is in its error
	// state. Reconciling edits against an unknown remote state is
	// unsafe, so all mutations are refused.
	ReadOnly bool

	working []models.Event
	deletes []string // remote ids marked for deletion, in removal order
}

// OpenDay seeds a buffer from the store's bucket for the given date.
// Working events are copies, never aliases of store state.
func OpenDay(day time.Time, bucket []models.Event, readOnly bool, defaultTime string) *DayBuffer {
	working := make([]models.Event, len(bucket))
	copy(working, bucket)
	for i := range working {
		working[i].EnsureLocalKey()
	}

	if defaultTime == "" {
		defaultTime = "09:00"
	}

	return &DayBuffer{
		Day:      day,
		ReadOnly: readOnly,
		working:  working,
		Draft: Draft{
			Time:     defaultTime,
			Category: models.CategoryPersonal,
		},
	}
}

// Events returns a copy of the working set in its current order
func (b *DayBuffer) Events() []models.Event {
	out := make([]models.Event, len(b.working))
	copy(out, b.working)
	return out
}

// PendingDeletes returns the tombstoned remote ids in removal order
func (b *DayBuffer) PendingDeletes() []string {
	out := make([]string, len(b.deletes))
	copy(out, b.deletes)
	return out
}

// Dirty reports whether committing would issue any remote request
func (b *DayBuffer) Dirty() bool {
	return len(b.deletes) > 0 || len(b.working) > 0
}

func (b *DayBuffer) find(localKey string) *models.Event {
	for i := range b.working {
		if b.working[i].LocalKey == localKey {
			return &b.working[i]
		}
	}
	return nil
}

// Rename changes the working event's title. Unknown keys are a no-op
// reported by the false return.
func (b *DayBuffer) Rename(localKey, name string) bool {
	if b.ReadOnly {
		return false
	}
	event := b.find(localKey)
	if event == nil {
		return false
	}
	event.Name = name
	return true
}

// SetCategory changes the working event's category
func (b *DayBuffer) SetCategory(localKey string, category models.Category) bool {
	if b.ReadOnly {
		return false
	}
	event := b.find(localKey)
	if event == nil {
		return false
	}
	event.Category = category
	return true
}

// SetTime recomputes the working event's start and end from the
// buffer's day and the "HH:MM" value. The date portion always comes
// from the day the buffer was opened for, and start==end is kept.
func (b *DayBuffer) SetTime(localKey, value string) bool {
	if b.ReadOnly {
		return false
	}
	event := b.find(localKey)
	if event == nil {
		return false
	}
	at := calendar.BuildDayTime(b.Day, value)
	event.Start = at
	event.End = at
	return true
}

// Remove drops the entry from the working set. Persisted events leave a
// tombstone behind so the commit deletes them remotely; local-only
// events just disappear.
func (b *DayBuffer) Remove(localKey string) bool {
	if b.ReadOnly {
		return false
	}
	for i := range b.working {
		if b.working[i].LocalKey != localKey {
			continue
		}
		removed := b.working[i]
		b.working = append(b.working[:i], b.working[i+1:]...)
		if removed.Persisted() && !b.tombstoned(removed.RemoteID) {
			b.deletes = append(b.deletes, removed.RemoteID)
		}
		return true
	}
	return false
}

func (b *DayBuffer) tombstoned(remoteID string) bool {
	for _, id := range b.deletes {
		if id == remoteID {
			return true
		}
	}
	return false
}

// AddFromDraft appends a new local-only event built from the draft
// form. A blank draft name is a no-op. Only the name is cleared
// afterwards; time and category persist for faster successive entry.
func (b *DayBuffer) AddFromDraft() bool {
	if b.ReadOnly {
		return false
	}
	name := strings.TrimSpace(b.Draft.Name)
	if name == "" {
		return false
	}

	at := calendar.BuildDayTime(b.Day, b.Draft.Time)
	b.working = append(b.working, models.Event{
		Name:     name,
		Category: b.Draft.Category,
		Start:    at,
		End:      at,
		LocalKey: models.NewLocalKey(),
	})
	b.Draft.Name = ""
	return true
}
