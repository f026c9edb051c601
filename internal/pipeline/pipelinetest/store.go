// Package pipelinetest provides an in-memory item store for pipeline, step
// and queue tests.
package pipelinetest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"memex/internal/domain"
)

// MemStore implements pipeline.ItemStore and the queue's item creator. It
// applies patches as given, with no content type guard, so tests observe
// exactly what steps write.
type MemStore struct {
	mu       sync.Mutex
	items    map[string]*domain.Item
	metadata map[string]*domain.ItemMetadata
	typeMD   map[string]*domain.ItemTypeMetadata
	writes   int
	created  int
}

func NewMemStore() *MemStore {
	return &MemStore{
		items:    make(map[string]*domain.Item),
		metadata: make(map[string]*domain.ItemMetadata),
		typeMD:   make(map[string]*domain.ItemTypeMetadata),
	}
}

// Put stores a copy of item as is.
func (s *MemStore) Put(item domain.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[item.ID] = &item
}

func (s *MemStore) CreateItem(_ context.Context, in domain.NewItem) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	item := &domain.Item{
		ID:          uuid.NewString(),
		URL:         strings.TrimSpace(in.URL),
		SpaceID:     in.SpaceID,
		RawText:     in.Content,
		ContentType: domain.ContentTypeBookmark,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.items[item.ID] = item
	s.created++
	cp := *item
	return &cp, nil
}

func (s *MemStore) GetItem(_ context.Context, id string) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}
	cp := *item
	return &cp, nil
}

func (s *MemStore) FindByURL(_ context.Context, url string) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if !item.IsDeleted && strings.EqualFold(item.URL, strings.TrimSpace(url)) {
			cp := *item
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("item with url %q: %w", url, domain.ErrNotFound)
}

func (s *MemStore) UpdateItem(_ context.Context, id string, patch domain.ItemPatch) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}
	if patch.Apply(item, time.Now().UTC()) {
		s.writes++
	}
	cp := *item
	return &cp, nil
}

func (s *MemStore) GetMetadata(_ context.Context, id string) (*domain.ItemMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	md, ok := s.metadata[id]
	if !ok {
		return nil, nil
	}
	cp := *md
	return &cp, nil
}

func (s *MemStore) UpsertMetadata(_ context.Context, id string, md domain.ItemMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.metadata[id]
	if !ok {
		current = &domain.ItemMetadata{ItemID: id}
		s.metadata[id] = current
	}
	if current.Merge(md) {
		s.writes++
	}
	return nil
}

func (s *MemStore) GetTypeMetadata(_ context.Context, id string) (*domain.ItemTypeMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	md, ok := s.typeMD[id]
	if !ok {
		return nil, nil
	}
	cp := *md
	return &cp, nil
}

func (s *MemStore) UpsertTypeMetadata(_ context.Context, id string, md domain.ItemTypeMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}
	md.ItemID = id
	if md.ContentType == "" {
		md.ContentType = item.ContentType
	}
	if current, ok := s.typeMD[id]; ok && sameJSON(current, &md) {
		return nil
	}
	s.typeMD[id] = &md
	s.writes++
	return nil
}

// Writes counts mutations that changed stored state.
func (s *MemStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *MemStore) Created() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.created
}

func sameJSON(a, b any) bool {
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
