package store

import (
	"context"
	"log"
	"sync"
	"time"

	"planhelper/pkg/calendar"
	"planhelper/pkg/models"
)

// MonthFetcher loads all events of one calendar month from the remote
// event service
type MonthFetcher interface {
	FetchMonth(ctx context.Context, year int, month time.Month) ([]models.Event, error)
}

// EventStore holds the events of the currently focused month. A refresh
// replaces the in-memory list wholesale; there is no incremental merge.
// A failed refresh clears the list and flips the store into an error
// state so the grid degrades to skeleton mode instead of showing stale
// data.
type EventStore struct {
	mu sync.Mutex

	fetcher MonthFetcher
	events  []models.Event

	year  int
	month time.Month

	fetchErr error

	// generation tags the newest refresh request. Responses carrying an
	// older tag lost the race to a newer focus change and are dropped.
	generation uint64

	// OnChange is invoked after every applied refresh, outside the lock.
	OnChange func()
}

// NewEventStore creates a store backed by the given fetcher
func NewEventStore(fetcher MonthFetcher) *EventStore {
	return &EventStore{fetcher: fetcher}
}

// Refresh fetches the given month and replaces the store's contents.
// The last refresh requested wins: if a newer refresh started while
// this one was in flight, its response is discarded.
func (s *EventStore) Refresh(ctx context.Context, year int, month time.Month) error {
	s.mu.Lock()
	s.generation++
	tag := s.generation
	s.year = year
	s.month = month
	s.mu.Unlock()

	events, err := s.fetcher.FetchMonth(ctx, year, month)

	s.mu.Lock()
	if tag != s.generation {
		s.mu.Unlock()
		log.Printf("[EVENTS] Discarding stale refresh response for %s %d", month, year)
		return nil
	}

	if err != nil {
		s.events = nil
		s.fetchErr = err
		s.mu.Unlock()
		s.notify()
		log.Printf("[EVENTS] Refresh failed for %s %d: %v", month, year, err)
		return err
	}

	s.events = events
	s.fetchErr = nil
	s.mu.Unlock()
	s.notify()
	log.Printf("[EVENTS] Loaded %d events for %s %d", len(events), month, year)
	return nil
}

func (s *EventStore) notify() {
	if s.OnChange != nil {
		s.OnChange()
	}
}

// Err returns the error from the last refresh, or nil when the store
// holds good data
func (s *EventStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetchErr
}

// FocusedMonth returns the month the store was last refreshed for
func (s *EventStore) FocusedMonth() (int, time.Month) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.year, s.month
}

// Events returns a copy of the current event list
func (s *EventStore) Events() []models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Event, len(s.events))
	copy(out, s.events)
	return out
}

// BucketByDay projects the current list into per-day buckets, filtered
// to events whose start date falls in the given month. Events within a
// day keep their fetch order.
func (s *EventStore) BucketByDay(year int, month time.Month) map[int][]models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	buckets := make(map[int][]models.Event)
	for _, event := range s.events {
		if event.Start.IsZero() {
			continue
		}
		if event.Start.Year() != year || event.Start.Month() != month {
			continue
		}
		day := event.Start.Day()
		buckets[day] = append(buckets[day], event)
	}
	return buckets
}

// EventsOn returns copies of the events starting on the given calendar
// date, in fetch order
func (s *EventStore) EventsOn(day time.Time) []models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Event
	for _, event := range s.events {
		if event.Start.IsZero() {
			continue
		}
		if calendar.SameDay(event.Start, day) {
			out = append(out, event)
		}
	}
	return out
}
