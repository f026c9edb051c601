package pending

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"memex/internal/domain"
	"memex/internal/queue"
)

// LocalPending is the device copy of pending captures. It is written before
// the remote copy.
type LocalPending interface {
	InsertIfAbsent(ctx context.Context, p *domain.PendingItem) (bool, error)
	ListOpen(ctx context.Context) ([]domain.PendingItem, error)
	GetByURL(ctx context.Context, url string) (*domain.PendingItem, error)
	UpdateStatus(ctx context.Context, p *domain.PendingItem) error
}

// RemotePending is where out-of-process captures first land.
type RemotePending interface {
	ListOpen(ctx context.Context) ([]domain.PendingItem, error)
	GetByURL(ctx context.Context, url string) (*domain.PendingItem, error)
	UpdateStatus(ctx context.Context, p *domain.PendingItem) error
}

type ItemFinder interface {
	FindByURL(ctx context.Context, url string) (*domain.Item, error)
}

type Enqueuer interface {
	Enqueue(p queue.Params) *queue.Future
}
