package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"memex/internal/domain"
)

type SyncStatusStore struct {
	db *sqlx.DB
}

func NewSyncStatusStore(db *sqlx.DB) *SyncStatusStore {
	return &SyncStatusStore{db: db}
}

// Load returns the persisted status, or a zero status on first start.
func (s *SyncStatusStore) Load(ctx context.Context) (*domain.SyncStatus, error) {
	var payload string
	err := s.db.GetContext(ctx, &payload, `SELECT payload FROM sync_status WHERE id = 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.SyncStatus{}, nil
	}
	if err != nil {
		return nil, err
	}
	var status domain.SyncStatus
	if err := json.Unmarshal([]byte(payload), &status); err != nil {
		return nil, fmt.Errorf("decode sync status: %w", err)
	}
	return &status, nil
}

func (s *SyncStatusStore) Save(ctx context.Context, status *domain.SyncStatus) error {
	payload, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("encode sync status: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sync_status (id, payload) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET payload = excluded.payload`, string(payload))
	return err
}
