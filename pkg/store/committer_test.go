package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"planhelper/pkg/models"
)

// fakeWriter records every mutation; individual operations can be
// primed to fail.
type fakeWriter struct {
	mu        sync.Mutex
	created   []models.Event
	updated   []models.Event
	deleted   []string
	createErr error
	updateErr error
	deleteErr error
}

func (w *fakeWriter) Create(ctx context.Context, event models.Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.createErr != nil {
		return w.createErr
	}
	w.created = append(w.created, event)
	return nil
}

func (w *fakeWriter) Update(ctx context.Context, event models.Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.updateErr != nil {
		return w.updateErr
	}
	w.updated = append(w.updated, event)
	return nil
}

func (w *fakeWriter) Delete(ctx context.Context, remoteID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.deleteErr != nil {
		return w.deleteErr
	}
	w.deleted = append(w.deleted, remoteID)
	return nil
}

func committerFixture(t *testing.T) (*Committer, *fakeWriter, *fakeFetcher, *DayBuffer) {
	t.Helper()

	fetcher := newFakeFetcher()
	eventStore := NewEventStore(fetcher)
	if err := eventStore.Refresh(context.Background(), 2025, time.June); err != nil {
		t.Fatalf("seed refresh: %v", err)
	}
	fetcher.mu.Lock()
	fetcher.calls = 0
	fetcher.mu.Unlock()

	writer := &fakeWriter{}

	// A day holding persisted events A and B: B removed, A kept.
	buffer := OpenDay(bufferDay(), []models.Event{
		persistedEvent("A", "keep me", 10),
		persistedEvent("B", "remove me", 12),
	}, false, "09:00")
	buffer.Remove("B")

	return NewCommitter(writer, eventStore), writer, fetcher, buffer
}

func TestCommit_RoutesMutations(t *testing.T) {
	committer, writer, fetcher, buffer := committerFixture(t)

	buffer.Draft.Name = "brand new"
	buffer.AddFromDraft()

	if err := committer.Commit(context.Background(), buffer); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if len(writer.deleted) != 1 || writer.deleted[0] != "B" {
		t.Fatalf("deleted = %v; want [B]", writer.deleted)
	}
	if len(writer.updated) != 1 || writer.updated[0].RemoteID != "A" {
		t.Fatalf("updated = %v; want only A", writer.updated)
	}
	if len(writer.created) != 1 || writer.created[0].Name != "brand new" {
		t.Fatalf("created = %v; want only the draft event", writer.created)
	}

	// Exactly one refetch of the focused month follows a successful commit.
	fetcher.mu.Lock()
	calls := fetcher.calls
	fetcher.mu.Unlock()
	if calls != 1 {
		t.Fatalf("post-commit fetches = %d; want 1", calls)
	}
}

func TestCommit_SingleFailureFailsWhole(t *testing.T) {
	committer, writer, fetcher, buffer := committerFixture(t)

	boom := errors.New("update rejected")
	writer.updateErr = boom

	err := committer.Commit(context.Background(), buffer)
	if !errors.Is(err, boom) {
		t.Fatalf("Commit error = %v; want %v", err, boom)
	}

	// The successful delete stays applied server-side; no rollback.
	if len(writer.deleted) != 1 {
		t.Fatalf("deleted = %v; want the delete still applied", writer.deleted)
	}

	// No refetch on failure, and the buffer keeps its state for retry.
	fetcher.mu.Lock()
	calls := fetcher.calls
	fetcher.mu.Unlock()
	if calls != 0 {
		t.Fatalf("fetches after failed commit = %d; want 0", calls)
	}
	if len(buffer.Events()) != 1 || len(buffer.PendingDeletes()) != 1 {
		t.Fatalf("buffer drained after failed commit: events=%v deletes=%v",
			buffer.Events(), buffer.PendingDeletes())
	}
}

func TestCommit_CleanBufferNoRequests(t *testing.T) {
	committer, writer, fetcher, _ := committerFixture(t)

	clean := OpenDay(bufferDay(), nil, false, "09:00")
	if err := committer.Commit(context.Background(), clean); err != nil {
		t.Fatalf("Commit of a clean buffer: %v", err)
	}

	if len(writer.created)+len(writer.updated)+len(writer.deleted) != 0 {
		t.Fatal("clean commit issued remote mutations")
	}
	fetcher.mu.Lock()
	calls := fetcher.calls
	fetcher.mu.Unlock()
	if calls != 0 {
		t.Fatalf("clean commit fetched %d times; want 0", calls)
	}
}

func TestCommit_ReadOnlyRefused(t *testing.T) {
	committer, writer, _, _ := committerFixture(t)

	readOnly := OpenDay(bufferDay(), nil, true, "09:00")
	if err := committer.Commit(context.Background(), readOnly); !errors.Is(err, ErrReadOnly) {
		t.Fatalf("Commit on read-only buffer = %v; want ErrReadOnly", err)
	}
	if len(writer.created)+len(writer.updated)+len(writer.deleted) != 0 {
		t.Fatal("read-only commit issued remote mutations")
	}
}

func TestCommit_RefreshFailureStillSucceeds(t *testing.T) {
	committer, _, fetcher, buffer := committerFixture(t)

	fetcher.mu.Lock()
	fetcher.err = errors.New("refetch down")
	fetcher.mu.Unlock()

	if err := committer.Commit(context.Background(), buffer); err != nil {
		t.Fatalf("Commit = %v; want success despite the failed refetch", err)
	}
}
