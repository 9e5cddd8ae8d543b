package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"planhelper/pkg/models"
)

// ErrReadOnly is returned when a commit is attempted on a buffer that
// was opened in degraded mode
var ErrReadOnly = errors.New("day is read-only while events are unavailable")

// EventWriter issues the per-item mutations of a commit against the
// remote event service
type EventWriter interface {
	Create(ctx context.Context, event models.Event) error
	Update(ctx context.Context, event models.Event) error
	Delete(ctx context.Context, remoteID string) error
}

// Committer reconciles a day buffer against the remote store: one
// request per tombstone and per working event, all in flight at once.
// Any single failure fails the whole commit; partial successes stay
// committed server-side and no rollback is attempted.
type Committer struct {
	writer EventWriter
	store  *EventStore
}

// NewCommitter creates a committer writing through the given client
func NewCommitter(writer EventWriter, store *EventStore) *Committer {
	return &Committer{writer: writer, store: store}
}

// Commit settles every pending mutation of the buffer and, on success,
// refreshes the focused month so the store picks up server-assigned
// ids. On failure the caller keeps the buffer so the user can retry.
func (c *Committer) Commit(ctx context.Context, buffer *DayBuffer) error {
	if buffer.ReadOnly {
		return ErrReadOnly
	}
	if !buffer.Dirty() {
		// Nothing to send, so nothing to refetch either.
		return nil
	}

	var group errgroup.Group

	deletes := buffer.PendingDeletes()
	for _, remoteID := range deletes {
		remoteID := remoteID // per-iteration copy for pre-1.22 loop semantics
		group.Go(func() error {
			return c.writer.Delete(ctx, remoteID)
		})
	}

	events := buffer.Events()
	updates, creates := 0, 0
	for _, event := range events {
		event := event // per-iteration copy for pre-1.22 loop semantics
		if event.Persisted() {
			updates++
			group.Go(func() error {
				return c.writer.Update(ctx, event)
			})
		} else {
			creates++
			group.Go(func() error {
				return c.writer.Create(ctx, event)
			})
		}
	}

	if err := group.Wait(); err != nil {
		return fmt.Errorf("failed to save events: %w", err)
	}

	log.Printf("[COMMIT] Day %s settled: %d deleted, %d updated, %d created",
		buffer.Day.Format("2006-01-02"), len(deletes), updates, creates)

	year, month := c.store.FocusedMonth()
	if err := c.store.Refresh(ctx, year, month); err != nil {
		// The commit itself succeeded; the store is already flagged for
		// skeleton mode.
		log.Printf("[COMMIT] Post-commit refresh failed: %v", err)
	}
	return nil
}
