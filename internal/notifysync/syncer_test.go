package notifysync_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"proshop/internal/models"
	"proshop/internal/notifysync"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRemote is an in-memory Remote with per-method error injection.
type fakeRemote struct {
	mu    sync.Mutex
	items []models.Notification

	fetchErr       error
	markReadErr    error
	markAllReadErr error
	deleteErr      error
	deleteManyErr  error
	clearAllErr    error
}

func (f *fakeRemote) Fetch() ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	items := make([]models.Notification, len(f.items))
	copy(items, f.items)
	return items, nil
}

func (f *fakeRemote) MarkRead(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markReadErr != nil {
		return f.markReadErr
	}
	for i := range f.items {
		if f.items[i].ID == id {
			f.items[i].Read = true
		}
	}
	return nil
}

func (f *fakeRemote) MarkAllRead() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markAllReadErr != nil {
		return f.markAllReadErr
	}
	for i := range f.items {
		f.items[i].Read = true
	}
	return nil
}

func (f *fakeRemote) Delete(id string) error {
	return f.DeleteMany([]string{id})
}

func (f *fakeRemote) DeleteMany(ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if f.deleteManyErr != nil {
		return f.deleteManyErr
	}
	idSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}
	kept := f.items[:0]
	for _, n := range f.items {
		if !idSet[n.ID] {
			kept = append(kept, n)
		}
	}
	f.items = kept
	return nil
}

func (f *fakeRemote) ClearAll() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clearAllErr != nil {
		return f.clearAllErr
	}
	f.items = nil
	return nil
}

func (f *fakeRemote) setErrors(markRead, markAllRead, clearAll error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markReadErr = markRead
	f.markAllReadErr = markAllRead
	f.clearAllErr = clearAll
}

func seedRemote() *fakeRemote {
	return &fakeRemote{
		items: []models.Notification{
			{ID: "n1", Title: "Order placed"},
			{ID: "n2", Title: "Payment received"},
			{ID: "n3", Title: "Order delivered", Read: true},
			{ID: "n4", Title: "Welcome"},
		},
	}
}

// startSyncer runs a syncer with a long interval so periodic refreshes never
// interfere with the scenario under test.
func startSyncer(t *testing.T, remote notifysync.Remote) *notifysync.Syncer {
	t.Helper()
	syncer := notifysync.New(remote, time.Hour)
	syncer.Start(context.Background())
	t.Cleanup(syncer.Stop)
	require.NoError(t, syncer.Refresh())
	return syncer
}

func TestSyncer_InitialRefresh(t *testing.T) {
	syncer := startSyncer(t, seedRemote())

	snap := syncer.Snapshot()
	assert.Len(t, snap.Items, 4)
	assert.Equal(t, 3, snap.Unread)
}

func TestSyncer_MarkRead_DecrementsOnce(t *testing.T) {
	syncer := startSyncer(t, seedRemote())

	syncer.MarkRead("n1")
	snap := syncer.Snapshot()
	assert.Equal(t, 2, snap.Unread)
	for _, n := range snap.Items {
		if n.ID == "n1" {
			assert.True(t, n.Read)
		}
	}

	// A rapid double-click composes on the already-mutated state: the second
	// mark sees the item as read and changes nothing.
	syncer.MarkRead("n1")
	syncer.MarkRead("n3") // already read on the server too
	snap = syncer.Snapshot()
	assert.Equal(t, 2, snap.Unread)
}

func TestSyncer_MarkRead_NeverNegative(t *testing.T) {
	remote := &fakeRemote{items: []models.Notification{{ID: "n1", Read: true}}}
	syncer := startSyncer(t, remote)

	syncer.MarkRead("n1")
	syncer.MarkRead("n1")
	snap := syncer.Snapshot()
	assert.Equal(t, 0, snap.Unread)
}

func TestSyncer_DeleteMany_UnreadAccounting(t *testing.T) {
	syncer := startSyncer(t, seedRemote())

	// n1 is unread, n3 is read, n9 does not exist: the counter drops by the
	// one unread item actually removed, not by len(ids).
	syncer.DeleteMany([]string{"n1", "n3", "n9"})
	snap := syncer.Snapshot()
	assert.Len(t, snap.Items, 2)
	assert.Equal(t, 2, snap.Unread)
}

func TestSyncer_DeleteOne(t *testing.T) {
	syncer := startSyncer(t, seedRemote())

	syncer.DeleteOne("n2")
	snap := syncer.Snapshot()
	assert.Len(t, snap.Items, 3)
	assert.Equal(t, 2, snap.Unread)

	// Deleting a missing id is a no-op locally and on the server
	syncer.DeleteOne("n2")
	snap = syncer.Snapshot()
	assert.Len(t, snap.Items, 3)
	assert.Equal(t, 2, snap.Unread)
}

func TestSyncer_MarkAllRead_FailureRefreshRestoresTruth(t *testing.T) {
	remote := seedRemote()
	syncer := startSyncer(t, remote)

	remote.setErrors(nil, errors.New("boom"), nil)

	// Optimistic: the counter zeroes immediately even though the server call
	// will fail.
	syncer.MarkAllRead()
	snap := syncer.Snapshot()
	assert.Equal(t, 0, snap.Unread)

	// The failed mutation schedules a refresh that re-derives server truth.
	assert.Eventually(t, func() bool {
		return syncer.Snapshot().Unread == 3
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSyncer_MarkRead_FailureRefreshRestoresTruth(t *testing.T) {
	remote := seedRemote()
	syncer := startSyncer(t, remote)

	remote.setErrors(errors.New("boom"), nil, nil)

	syncer.MarkRead("n1")
	assert.Equal(t, 2, syncer.Snapshot().Unread)

	assert.Eventually(t, func() bool {
		return syncer.Snapshot().Unread == 3
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSyncer_ClearAll(t *testing.T) {
	remote := seedRemote()
	syncer := startSyncer(t, remote)

	// Failure leaves the local list untouched and surfaces the error
	remote.setErrors(nil, nil, errors.New("boom"))
	err := syncer.ClearAll()
	assert.EqualError(t, err, "boom")
	snap := syncer.Snapshot()
	assert.Len(t, snap.Items, 4)
	assert.Equal(t, 3, snap.Unread)

	// Success empties both sides
	remote.setErrors(nil, nil, nil)
	require.NoError(t, syncer.ClearAll())
	snap = syncer.Snapshot()
	assert.Empty(t, snap.Items)
	assert.Equal(t, 0, snap.Unread)
	serverItems, err := remote.Fetch()
	require.NoError(t, err)
	assert.Empty(t, serverItems)
}

func TestSyncer_MutationOrdering(t *testing.T) {
	syncer := startSyncer(t, seedRemote())

	// Issued back to back without waiting: each command must observe the
	// previous one's effect.
	syncer.MarkAllRead()
	syncer.DeleteMany([]string{"n1", "n2"})
	syncer.MarkRead("n4")

	snap := syncer.Snapshot()
	assert.Len(t, snap.Items, 2)
	assert.Equal(t, 0, snap.Unread)
}

func TestSyncer_RefreshPicksUpServerChanges(t *testing.T) {
	remote := seedRemote()
	syncer := startSyncer(t, remote)

	remote.mu.Lock()
	remote.items = append(remote.items, models.Notification{ID: "n5", Title: "Low stock"})
	remote.mu.Unlock()

	require.NoError(t, syncer.Refresh())
	snap := syncer.Snapshot()
	assert.Len(t, snap.Items, 5)
	assert.Equal(t, 4, snap.Unread)
}

func TestSyncer_Stop(t *testing.T) {
	syncer := notifysync.New(seedRemote(), time.Hour)
	syncer.Start(context.Background())
	require.NoError(t, syncer.Refresh())

	syncer.Stop()

	assert.ErrorIs(t, syncer.Refresh(), notifysync.ErrStopped)
	assert.Equal(t, notifysync.Snapshot{}, syncer.Snapshot())
	err := syncer.ClearAll()
	assert.ErrorIs(t, err, notifysync.ErrStopped)
}
