package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"memex/internal/domain"
)

type pendingRow struct {
	ID        string `db:"id"`
	URL       string `db:"url"`
	SpaceID   string `db:"space_id"`
	Content   string `db:"content"`
	Status    string `db:"status"`
	Error     string `db:"error"`
	ItemID    string `db:"item_id"`
	CreatedAt int64  `db:"created_at"`
	UpdatedAt int64  `db:"updated_at"`
}

func (r pendingRow) toDomain() domain.PendingItem {
	return domain.PendingItem{
		ID:        r.ID,
		URL:       r.URL,
		SpaceID:   r.SpaceID,
		Content:   r.Content,
		Status:    domain.PendingStatus(r.Status),
		Error:     r.Error,
		ItemID:    r.ItemID,
		CreatedAt: fromMillis(r.CreatedAt),
		UpdatedAt: fromMillis(r.UpdatedAt),
	}
}

const pendingColumns = `id, url, space_id, content, status, error, item_id, created_at, updated_at`

type PendingStore struct {
	db *sqlx.DB
}

func NewPendingStore(db *sqlx.DB) *PendingStore {
	return &PendingStore{db: db}
}

// InsertIfAbsent stores p unless a record with the same id is already known
// locally. It reports whether a row was inserted.
func (s *PendingStore) InsertIfAbsent(ctx context.Context, p *domain.PendingItem) (bool, error) {
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
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO pending_items (`+pendingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING`,
		p.ID, p.URL, p.SpaceID, p.Content, string(p.Status), p.Error, p.ItemID,
		toMillis(p.CreatedAt), toMillis(p.UpdatedAt),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ListOpen returns pending and processing records, oldest first.
func (s *PendingStore) ListOpen(ctx context.Context) ([]domain.PendingItem, error) {
	var rows []pendingRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+pendingColumns+` FROM pending_items
		WHERE status IN (?, ?)
		ORDER BY created_at, id`,
		string(domain.PendingStatusPending), string(domain.PendingStatusProcessing),
	)
	if err != nil {
		return nil, err
	}
	out := make([]domain.PendingItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (s *PendingStore) GetByURL(ctx context.Context, url string) (*domain.PendingItem, error) {
	var row pendingRow
	err := s.db.GetContext(ctx, &row, `
		SELECT `+pendingColumns+` FROM pending_items
		WHERE lower(url) = lower(?)
		ORDER BY created_at DESC
		LIMIT 1`, url)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("pending item with url %q: %w", url, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	p := row.toDomain()
	return &p, nil
}

func (s *PendingStore) UpdateStatus(ctx context.Context, p *domain.PendingItem) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE pending_items SET status = ?, error = ?, item_id = ?, updated_at = ?
		WHERE id = ?`,
		string(p.Status), p.Error, p.ItemID, toMillis(p.UpdatedAt), p.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("pending item %s: %w", p.ID, domain.ErrNotFound)
	}
	return nil
}
