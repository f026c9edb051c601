package syncer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memex/internal/domain"
	"memex/internal/storage/sqlite"
)

type recordingRemote struct {
	mu      sync.Mutex
	fail    error
	upserts []string
	deletes []string
}

func (r *recordingRemote) UpsertItem(_ context.Context, item *domain.RemoteItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.upserts = append(r.upserts, item.ID+":"+item.Title)
	return nil
}

func (r *recordingRemote) DeleteItem(_ context.Context, ts domain.Tombstone) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.deletes = append(r.deletes, ts.ID)
	return nil
}

type staticChecker bool

func (c staticChecker) Check(context.Context) bool { return bool(c) }

func newDurableService(t *testing.T, path string, remote Remote) *Service {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(remote, sqlite.NewOfflineQueue(db), sqlite.NewSyncStatusStore(db),
		staticChecker(true), Config{MaxAttempts: 2}, logger)
	require.NoError(t, svc.Init(ctx))
	return svc
}

func TestOfflineMutationsSurviveRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "memex.db")
	remote := &recordingRemote{}

	first := newDurableService(t, path, remote)
	require.NoError(t, first.Push(ctx, domain.SyncActionUpdateItem, "a", domain.RemoteItem{ID: "a", Title: "v1"}))
	require.NoError(t, first.Push(ctx, domain.SyncActionUpdateItem, "a", domain.RemoteItem{ID: "a", Title: "v2"}))
	require.NoError(t, first.Push(ctx, domain.SyncActionDeleteItem, "b", domain.Tombstone{ID: "b"}))
	assert.Equal(t, 3, first.Status().PendingCount)
	assert.Empty(t, remote.upserts)

	second := newDurableService(t, path, remote)
	assert.Equal(t, 3, second.Status().PendingCount)

	st, err := second.Probe(ctx)
	require.NoError(t, err)

	assert.True(t, st.Online)
	assert.Zero(t, st.PendingCount)
	assert.Zero(t, st.FailedCount)
	assert.Equal(t, []string{"a:v1", "a:v2"}, remote.upserts)
	assert.Equal(t, []string{"b"}, remote.deletes)
}

func TestFailedReplayIsRetainedUntilMaxAttempts(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "memex.db")
	remote := &recordingRemote{}

	svc := newDurableService(t, path, remote)
	require.NoError(t, svc.Push(ctx, domain.SyncActionCreateItem, "a", domain.RemoteItem{ID: "a", Title: "t"}))

	remote.fail = errors.New("503")
	_, err := svc.Probe(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, svc.Status().FailedCount)

	_, err = svc.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, svc.Status().FailedCount)

	remote.fail = nil
	stats, err := svc.Drain(ctx)
	require.NoError(t, err)

	// Two attempts used up, the entry is kept but no longer replayed.
	assert.Zero(t, stats.Replayed)
	assert.Equal(t, 1, svc.Status().FailedCount)
	assert.Empty(t, remote.upserts)
}
