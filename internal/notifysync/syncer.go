// Package notifysync keeps a client-held notification list in step with the
// server-held notification store. Local mutations are applied optimistically
// so the user sees them with zero latency; a failed server call is absorbed
// and converted into a full refresh rather than rolled back field by field.
package notifysync

import (
	"context"
	"errors"
	"log"
	"time"

	"proshop/internal/models"
)

// Remote is the server half of the sync protocol.
type Remote interface {
	Fetch() ([]models.Notification, error)
	MarkRead(id string) error
	MarkAllRead() error
	Delete(id string) error
	DeleteMany(ids []string) error
	ClearAll() error
}

// Snapshot is a copy of the local projection at a point in time.
type Snapshot struct {
	Items  []models.Notification
	Unread int
}

// ErrStopped is returned by blocking operations after the syncer has been
// stopped.
var ErrStopped = errors.New("notification syncer is stopped")

// Syncer owns the local projection of a user's notification list. All state
// lives inside the run loop and is only reached through the command channel,
// so mutations are applied strictly in the order they were issued and a rapid
// double-click composes on top of the first click's already-mutated state.
type Syncer struct {
	remote   Remote
	interval time.Duration

	cmds   chan func()
	done   chan struct{}
	cancel context.CancelFunc

	// Local projection. Owned exclusively by the run loop.
	items  []models.Notification
	unread int
}

// New creates a Syncer that refreshes from remote on the given interval.
func New(remote Remote, interval time.Duration) *Syncer {
	return &Syncer{
		remote:   remote,
		interval: interval,
		cmds:     make(chan func(), 64),
		done:     make(chan struct{}),
	}
}

// Start launches the sync loop, performing an initial refresh. The loop runs
// until ctx is cancelled or Stop is called.
func (s *Syncer) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	go s.run(ctx)
}

// Stop cancels the periodic task and waits for the loop to exit.
func (s *Syncer) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	<-s.done
}

func (s *Syncer) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	if err := s.refresh(); err != nil {
		log.Printf("Warning: initial notification refresh failed: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.refresh(); err != nil {
				log.Printf("Warning: periodic notification refresh failed: %v", err)
			}
		case fn := <-s.cmds:
			fn()
		}
	}
}

// enqueue hands a command to the run loop. It reports false if the syncer
// has already stopped.
func (s *Syncer) enqueue(fn func()) bool {
	select {
	case s.cmds <- fn:
		return true
	case <-s.done:
		return false
	}
}

// refresh replaces the local list and unread count with the server's current
// truth. Runs on the loop goroutine.
func (s *Syncer) refresh() error {
	items, err := s.remote.Fetch()
	if err != nil {
		return err
	}
	s.items = items
	s.unread = 0
	for _, n := range items {
		if !n.Read {
			s.unread++
		}
	}
	return nil
}

// reconcile runs a server mutation off the loop goroutine. A failure is not
// rolled back; it schedules a full refresh to re-derive ground truth, so a
// transient failure self-heals within one refresh cycle.
func (s *Syncer) reconcile(call func() error) {
	go func() {
		if err := call(); err != nil {
			log.Printf("Warning: notification mutation failed, scheduling refresh: %v", err)
			s.enqueue(func() {
				if rerr := s.refresh(); rerr != nil {
					log.Printf("Warning: reconciling refresh failed: %v", rerr)
				}
			})
		}
	}()
}

// Refresh performs an on-demand refresh and waits for it to complete.
func (s *Syncer) Refresh() error {
	errc := make(chan error, 1)
	if !s.enqueue(func() { errc <- s.refresh() }) {
		return ErrStopped
	}
	select {
	case err := <-errc:
		return err
	case <-s.done:
		return ErrStopped
	}
}

// MarkRead optimistically flips the local copy's read flag, decrements the
// unread counter (floored at zero) and issues the server mutation. Calling
// it on an already-read notification changes nothing.
func (s *Syncer) MarkRead(id string) {
	s.enqueue(func() {
		for i := range s.items {
			if s.items[i].ID == id {
				if !s.items[i].Read {
					s.items[i].Read = true
					s.decUnread(1)
				}
				break
			}
		}
		s.reconcile(func() error { return s.remote.MarkRead(id) })
	})
}

// MarkAllRead optimistically flips every local item to read and zeroes the
// unread counter, then issues the server mutation.
func (s *Syncer) MarkAllRead() {
	s.enqueue(func() {
		for i := range s.items {
			s.items[i].Read = true
		}
		s.unread = 0
		s.reconcile(func() error { return s.remote.MarkAllRead() })
	})
}

// DeleteOne optimistically removes the item from the local list, decrementing
// the unread counter if the removed item was unread.
func (s *Syncer) DeleteOne(id string) {
	s.enqueue(func() {
		s.removeLocal([]string{id})
		s.reconcile(func() error { return s.remote.Delete(id) })
	})
}

// DeleteMany optimistically removes the matching items and decrements the
// unread counter by the number of removed items that were unread — not by
// len(ids).
func (s *Syncer) DeleteMany(ids []string) {
	toDelete := make([]string, len(ids))
	copy(toDelete, ids)
	s.enqueue(func() {
		s.removeLocal(toDelete)
		s.reconcile(func() error { return s.remote.DeleteMany(toDelete) })
	})
}

// ClearAll is deliberately not optimistic: it waits for server confirmation
// before touching the local list, because the action is destructive and
// irreversible. On failure the local list is left untouched and the error is
// surfaced to the caller verbatim.
func (s *Syncer) ClearAll() error {
	errc := make(chan error, 1)
	if !s.enqueue(func() {
		if err := s.remote.ClearAll(); err != nil {
			errc <- err
			return
		}
		s.items = nil
		s.unread = 0
		errc <- nil
	}) {
		return ErrStopped
	}
	select {
	case err := <-errc:
		return err
	case <-s.done:
		return ErrStopped
	}
}

// Snapshot returns a copy of the local projection, read through the loop so
// it reflects every mutation issued before the call.
func (s *Syncer) Snapshot() Snapshot {
	resc := make(chan Snapshot, 1)
	if !s.enqueue(func() {
		items := make([]models.Notification, len(s.items))
		copy(items, s.items)
		resc <- Snapshot{Items: items, Unread: s.unread}
	}) {
		return Snapshot{}
	}
	select {
	case snap := <-resc:
		return snap
	case <-s.done:
		return Snapshot{}
	}
}

// removeLocal drops the given ids from the local list and decrements the
// unread counter by the removed unread count. Runs on the loop goroutine.
func (s *Syncer) removeLocal(ids []string) {
	idSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}
	kept := s.items[:0]
	removedUnread := 0
	for _, n := range s.items {
		if idSet[n.ID] {
			if !n.Read {
				removedUnread++
			}
			continue
		}
		kept = append(kept, n)
	}
	s.items = kept
	s.decUnread(removedUnread)
}

func (s *Syncer) decUnread(n int) {
	s.unread -= n
	if s.unread < 0 {
		s.unread = 0
	}
}
