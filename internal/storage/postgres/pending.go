package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"memex/internal/domain"
)

const pendingColumns = `id, url, space_id, content, status, error, item_id, created_at, updated_at`

// PendingStore reads and finalizes the pending captures of one user.
type PendingStore struct {
	db     *sqlx.DB
	userID string
}

func NewPendingStore(db *sqlx.DB, userID string) *PendingStore {
	return &PendingStore{db: db, userID: userID}
}

// Insert records a capture. Used by out-of-process capture and tests.
func (s *PendingStore) Insert(ctx context.Context, p *domain.PendingItem) error {
	if p.Status == "" {
		p.Status = domain.PendingStatusPending
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pending_items (id, user_id, url, space_id, content, status, error, item_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO NOTHING`,
		p.ID, s.userID, p.URL, p.SpaceID, p.Content, string(p.Status), p.Error, p.ItemID, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert pending item %s: %w", p.ID, err)
	}
	return nil
}

func (s *PendingStore) ListOpen(ctx context.Context) ([]domain.PendingItem, error) {
	var items []domain.PendingItem
	err := s.db.SelectContext(ctx, &items, `
		SELECT `+pendingColumns+` FROM pending_items
		WHERE user_id = $1 AND status IN ($2, $3)
		ORDER BY created_at, id`,
		s.userID, string(domain.PendingStatusPending), string(domain.PendingStatusProcessing),
	)
	if err != nil {
		return nil, fmt.Errorf("list pending items: %w", err)
	}
	return items, nil
}

func (s *PendingStore) GetByURL(ctx context.Context, url string) (*domain.PendingItem, error) {
	var p domain.PendingItem
	err := s.db.GetContext(ctx, &p, `
		SELECT `+pendingColumns+` FROM pending_items
		WHERE user_id = $1 AND lower(url) = lower($2)
		ORDER BY created_at DESC
		LIMIT 1`, s.userID, url)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("pending item with url %q: %w", url, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PendingStore) UpdateStatus(ctx context.Context, p *domain.PendingItem) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE pending_items SET status = $1, error = $2, item_id = $3, updated_at = $4
		WHERE id = $5 AND user_id = $6`,
		string(p.Status), p.Error, p.ItemID, p.UpdatedAt, p.ID, s.userID,
	)
	if err != nil {
		return fmt.Errorf("update pending item %s: %w", p.ID, err)
	}
	return nil
}
