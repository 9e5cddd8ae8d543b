package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"planhelper/pkg/models"
)

// fakeFetcher serves canned month responses and can hold selected
// requests open until released, to exercise refresh races.
type fakeFetcher struct {
	mu      sync.Mutex
	byMonth map[time.Month][]models.Event
	err     error
	gate    map[time.Month]chan struct{}
	calls   int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		byMonth: make(map[time.Month][]models.Event),
		gate:    make(map[time.Month]chan struct{}),
	}
}

func (f *fakeFetcher) FetchMonth(ctx context.Context, year int, month time.Month) ([]models.Event, error) {
	f.mu.Lock()
	gate := f.gate[month]
	f.calls++
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.byMonth[month], nil
}

func eventOn(day time.Time, name string) models.Event {
	e := models.Event{
		RemoteID: name,
		Name:     name,
		Category: models.CategoryPersonal,
		Start:    day,
		End:      day,
	}
	e.EnsureLocalKey()
	return e
}

func TestRefresh_ReplacesList(t *testing.T) {
	june14 := time.Date(2025, time.June, 14, 10, 0, 0, 0, time.Local)
	july1 := time.Date(2025, time.July, 1, 9, 0, 0, 0, time.Local)

	fetcher := newFakeFetcher()
	fetcher.byMonth[time.June] = []models.Event{eventOn(june14, "standup")}
	fetcher.byMonth[time.July] = []models.Event{eventOn(july1, "kickoff"), eventOn(july1, "review")}

	store := NewEventStore(fetcher)
	if err := store.Refresh(context.Background(), 2025, time.June); err != nil {
		t.Fatalf("Refresh June: %v", err)
	}
	if got := store.Events(); len(got) != 1 || got[0].Name != "standup" {
		t.Fatalf("after June refresh events = %v", got)
	}

	// A second refresh replaces wholesale, it never merges.
	if err := store.Refresh(context.Background(), 2025, time.July); err != nil {
		t.Fatalf("Refresh July: %v", err)
	}
	got := store.Events()
	if len(got) != 2 {
		t.Fatalf("after July refresh events = %v; want the full July list", got)
	}
	year, month := store.FocusedMonth()
	if year != 2025 || month != time.July {
		t.Fatalf("focused month = %d %v; want 2025 July", year, month)
	}
}

func TestRefresh_ErrorClearsList(t *testing.T) {
	day := time.Date(2025, time.June, 14, 10, 0, 0, 0, time.Local)
	fetcher := newFakeFetcher()
	fetcher.byMonth[time.June] = []models.Event{eventOn(day, "standup")}

	store := NewEventStore(fetcher)
	if err := store.Refresh(context.Background(), 2025, time.June); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	boom := errors.New("connection refused")
	fetcher.mu.Lock()
	fetcher.err = boom
	fetcher.mu.Unlock()

	if err := store.Refresh(context.Background(), 2025, time.June); !errors.Is(err, boom) {
		t.Fatalf("Refresh error = %v; want %v", err, boom)
	}
	if got := store.Events(); len(got) != 0 {
		t.Fatalf("events after failed refresh = %v; want empty", got)
	}
	if store.Err() == nil {
		t.Fatal("Err() = nil after failed refresh; want the fetch error")
	}

	// Recovery: the next successful refresh clears the error state.
	fetcher.mu.Lock()
	fetcher.err = nil
	fetcher.mu.Unlock()
	if err := store.Refresh(context.Background(), 2025, time.June); err != nil {
		t.Fatalf("recovery refresh: %v", err)
	}
	if store.Err() != nil {
		t.Fatalf("Err() = %v after recovery; want nil", store.Err())
	}
	if got := store.Events(); len(got) != 1 {
		t.Fatalf("events after recovery = %v", got)
	}
}

func TestRefresh_StaleResponseDiscarded(t *testing.T) {
	june14 := time.Date(2025, time.June, 14, 10, 0, 0, 0, time.Local)
	july1 := time.Date(2025, time.July, 1, 9, 0, 0, 0, time.Local)

	fetcher := newFakeFetcher()
	fetcher.byMonth[time.June] = []models.Event{eventOn(june14, "stale")}
	fetcher.byMonth[time.July] = []models.Event{eventOn(july1, "fresh")}

	juneGate := make(chan struct{})
	fetcher.gate[time.June] = juneGate

	store := NewEventStore(fetcher)

	done := make(chan error, 1)
	go func() {
		done <- store.Refresh(context.Background(), 2025, time.June)
	}()

	// The July refresh starts while June is still in flight and wins.
	if err := store.Refresh(context.Background(), 2025, time.July); err != nil {
		t.Fatalf("Refresh July: %v", err)
	}

	close(juneGate)
	if err := <-done; err != nil {
		t.Fatalf("stale refresh returned %v; want nil", err)
	}

	got := store.Events()
	if len(got) != 1 || got[0].Name != "fresh" {
		t.Fatalf("events = %v; want only the fresh July list", got)
	}
	year, month := store.FocusedMonth()
	if year != 2025 || month != time.July {
		t.Fatalf("focused month = %d %v; want 2025 July", year, month)
	}
}

func TestBucketByDay(t *testing.T) {
	june14a := time.Date(2025, time.June, 14, 9, 0, 0, 0, time.Local)
	june14b := time.Date(2025, time.June, 14, 15, 0, 0, 0, time.Local)
	june20 := time.Date(2025, time.June, 20, 12, 0, 0, 0, time.Local)

	fetcher := newFakeFetcher()
	fetcher.byMonth[time.June] = []models.Event{
		eventOn(june14b, "late"),
		eventOn(june20, "lunch"),
		eventOn(june14a, "early"),
		{RemoteID: "broken", Name: "broken", LocalKey: "broken"}, // zero start, never bucketed
	}

	store := NewEventStore(fetcher)
	if err := store.Refresh(context.Background(), 2025, time.June); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	buckets := store.BucketByDay(2025, time.June)
	if len(buckets) != 2 {
		t.Fatalf("bucket count = %d; want 2", len(buckets))
	}
	day14 := buckets[14]
	if len(day14) != 2 || day14[0].Name != "late" || day14[1].Name != "early" {
		t.Fatalf("day 14 bucket = %v; want fetch order preserved", day14)
	}
	if len(buckets[20]) != 1 {
		t.Fatalf("day 20 bucket = %v", buckets[20])
	}

	on := store.EventsOn(time.Date(2025, time.June, 14, 0, 0, 0, 0, time.Local))
	if len(on) != 2 {
		t.Fatalf("EventsOn day 14 = %v; want 2 events", on)
	}
}
