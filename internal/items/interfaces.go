package items

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"memex/internal/domain"
)

// LocalStore is the device-local, authoritative copy of every item.
type LocalStore interface {
	CreateItem(ctx context.Context, item *domain.Item) error
	GetItem(ctx context.Context, id string) (*domain.Item, error)
	FindItemByURL(ctx context.Context, url string) (*domain.Item, error)
	SaveItem(ctx context.Context, item *domain.Item) error
	ListItems(ctx context.Context) ([]domain.Item, error)
	GetMetadata(ctx context.Context, itemID string) (*domain.ItemMetadata, error)
	SaveMetadata(ctx context.Context, md *domain.ItemMetadata) error
	GetTypeMetadata(ctx context.Context, itemID string) (*domain.ItemTypeMetadata, error)
	SaveTypeMetadata(ctx context.Context, md *domain.ItemTypeMetadata) error
}

// Syncer hands a mutation to the sync layer. It returns an error only when
// the mutation could not be recorded locally; remote failures are its own
// business.
type Syncer interface {
	Push(ctx context.Context, action domain.SyncAction, targetID string, payload any) error
}
