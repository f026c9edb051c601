package syncer

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"memex/internal/domain"
)

// Remote is the authoritative remote store. Both operations must be
// idempotent: entries can be replayed more than once.
type Remote interface {
	UpsertItem(ctx context.Context, item *domain.RemoteItem) error
	DeleteItem(ctx context.Context, tombstone domain.Tombstone) error
}

type OfflineQueue interface {
	Append(ctx context.Context, entry *domain.OfflineQueueEntry) error
	Replayable(ctx context.Context, maxAttempts int) ([]domain.OfflineQueueEntry, error)
	Delete(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, errMsg string) error
	Counts(ctx context.Context) (pending, failed int, err error)
}

type StatusStore interface {
	Load(ctx context.Context) (*domain.SyncStatus, error)
	Save(ctx context.Context, status *domain.SyncStatus) error
}

type ConnectivityChecker interface {
	Check(ctx context.Context) bool
}
