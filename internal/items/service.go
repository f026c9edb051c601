// Package items implements the item actions. Every mutation is written to
// the local store before it is handed to the sync layer.
package items

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"memex/internal/domain"
)

type Service struct {
	local  LocalStore
	syncer Syncer
	userID string
	logger *slog.Logger
	now    func() time.Time

	// mu serializes read-modify-write cycles between the processing queue
	// and background tasks.
	mu sync.Mutex
}

func NewService(local LocalStore, syncer Syncer, userID string, logger *slog.Logger) *Service {
	return &Service{
		local:  local,
		syncer: syncer,
		userID: userID,
		logger: logger.With("component", "items"),
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

func (s *Service) CreateItem(ctx context.Context, in domain.NewItem) (*domain.Item, error) {
	now := s.now()
	item := &domain.Item{
		ID:          uuid.NewString(),
		URL:         strings.TrimSpace(in.URL),
		SpaceID:     in.SpaceID,
		RawText:     in.Content,
		ContentType: domain.ContentTypeBookmark,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.local.CreateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	s.logger.Info("item created", "item_id", item.ID, "source", in.Source)

	if err := s.push(ctx, domain.SyncActionCreateItem, item); err != nil {
		return item, err
	}
	return item, nil
}

func (s *Service) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	return s.local.GetItem(ctx, id)
}

// FindByURL returns the live item saved under url, or domain.ErrNotFound.
func (s *Service) FindByURL(ctx context.Context, url string) (*domain.Item, error) {
	return s.local.FindItemByURL(ctx, strings.TrimSpace(url))
}

// VisibleItems lists items that are not tombstoned, and not archived unless
// includeArchived is set.
func (s *Service) VisibleItems(ctx context.Context, includeArchived bool) ([]domain.Item, error) {
	all, err := s.local.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	visible := make([]domain.Item, 0, len(all))
	for _, it := range all {
		if it.Visible(includeArchived) {
			visible = append(visible, it)
		}
	}
	return visible, nil
}

// UpdateItem applies patch locally and syncs the result. A patch that would
// send a classified item back to the generic bookmark type loses that field.
func (s *Service) UpdateItem(ctx context.Context, id string, patch domain.ItemPatch) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.local.GetItem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}

	if patch.ContentType != nil && patch.ContentType.IsGeneric() && !item.ContentType.IsGeneric() {
		s.logger.Debug("ignoring content type downgrade",
			"item_id", id,
			"current", item.ContentType,
			"requested", *patch.ContentType,
		)
		patch.ContentType = nil
	}

	if !patch.Apply(item, s.nextUpdatedAt(item.UpdatedAt)) {
		return item, nil
	}
	if err := s.local.SaveItem(ctx, item); err != nil {
		return nil, fmt.Errorf("save item: %w", err)
	}
	if err := s.push(ctx, domain.SyncActionUpdateItem, item); err != nil {
		return item, err
	}
	return item, nil
}

// DeleteItem tombstones the item. The record stays in the local store so the
// deletion can be synced; purging is the remote store's concern.
func (s *Service) DeleteItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.local.GetItem(ctx, id)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}
	if item.IsDeleted {
		return nil
	}

	now := s.nextUpdatedAt(item.UpdatedAt)
	item.IsDeleted = true
	item.DeletedAt = &now
	item.UpdatedAt = now
	if err := s.local.SaveItem(ctx, item); err != nil {
		return fmt.Errorf("save item: %w", err)
	}
	s.logger.Info("item deleted", "item_id", id)

	return s.syncer.Push(ctx, domain.SyncActionDeleteItem, id, domain.Tombstone{
		ID:        id,
		UserID:    s.userID,
		DeletedAt: now,
	})
}

func (s *Service) ArchiveItem(ctx context.Context, id string, auto bool) (*domain.Item, error) {
	archived := true
	return s.UpdateItem(ctx, id, domain.ItemPatch{IsArchived: &archived, AutoArchived: &auto})
}

func (s *Service) UnarchiveItem(ctx context.Context, id string) (*domain.Item, error) {
	archived := false
	return s.UpdateItem(ctx, id, domain.ItemPatch{IsArchived: &archived})
}

// GetMetadata returns nil without error when the item has none yet.
func (s *Service) GetMetadata(ctx context.Context, id string) (*domain.ItemMetadata, error) {
	md, err := s.local.GetMetadata(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return md, err
}

// UpsertMetadata merges md into the stored metadata; empty fields never
// clear stored ones.
func (s *Service) UpsertMetadata(ctx context.Context, id string, md domain.ItemMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.local.GetItem(ctx, id)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}

	current, err := s.local.GetMetadata(ctx, id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		current = &domain.ItemMetadata{ItemID: id}
	case err != nil:
		return fmt.Errorf("get metadata: %w", err)
	}

	if !current.Merge(md) {
		return nil
	}
	current.ItemID = id
	if err := s.local.SaveMetadata(ctx, current); err != nil {
		return fmt.Errorf("save metadata: %w", err)
	}
	if err := s.touch(ctx, item); err != nil {
		return err
	}
	return s.push(ctx, domain.SyncActionUpdateItem, item)
}

// GetTypeMetadata returns nil without error when the item has none yet.
func (s *Service) GetTypeMetadata(ctx context.Context, id string) (*domain.ItemTypeMetadata, error) {
	md, err := s.local.GetTypeMetadata(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	return md, err
}

// UpsertTypeMetadata replaces the type payload as a whole.
func (s *Service) UpsertTypeMetadata(ctx context.Context, id string, md domain.ItemTypeMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.local.GetItem(ctx, id)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}
	md.ItemID = id
	if md.ContentType == "" {
		md.ContentType = item.ContentType
	}

	current, err := s.local.GetTypeMetadata(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("get type metadata: %w", err)
	}
	if current != nil && sameTypeMetadata(current, &md) {
		return nil
	}

	if err := s.local.SaveTypeMetadata(ctx, &md); err != nil {
		return fmt.Errorf("save type metadata: %w", err)
	}
	if err := s.touch(ctx, item); err != nil {
		return err
	}
	return s.push(ctx, domain.SyncActionUpdateItem, item)
}

// touch bumps the item's UpdatedAt after a satellite change so the remote
// upsert of the new row wins over any earlier one still queued.
func (s *Service) touch(ctx context.Context, item *domain.Item) error {
	item.UpdatedAt = s.nextUpdatedAt(item.UpdatedAt)
	if err := s.local.SaveItem(ctx, item); err != nil {
		return fmt.Errorf("save item: %w", err)
	}
	return nil
}

// nextUpdatedAt is the current time, kept strictly after prev.
func (s *Service) nextUpdatedAt(prev time.Time) time.Time {
	now := s.now()
	if !now.After(prev) {
		now = prev.Add(time.Millisecond)
	}
	return now
}

// push sends the full current remote row, so replays are idempotent upserts.
func (s *Service) push(ctx context.Context, action domain.SyncAction, item *domain.Item) error {
	row := domain.ToRemote(item, s.userID)

	md, err := s.local.GetMetadata(ctx, item.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("get metadata: %w", err)
	}
	row.Metadata = md

	tmd, err := s.local.GetTypeMetadata(ctx, item.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("get type metadata: %w", err)
	}
	row.TypeMetadata = tmd

	if err := s.syncer.Push(ctx, action, item.ID, row); err != nil {
		return fmt.Errorf("sync %s: %w", action, err)
	}
	return nil
}

// sameTypeMetadata compares encoded forms so that a stored payload and an
// equivalent freshly built one compare equal.
func sameTypeMetadata(a, b *domain.ItemTypeMetadata) bool {
	ab, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ab, bb)
}
