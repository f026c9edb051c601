package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"memex/internal/domain"
)

// ItemStore is the remote, multi-device copy of the items. Writes are
// idempotent so offline mutations can be replayed.
type ItemStore struct {
	db   *sqlx.DB
	tx   *TransactionManager
	tags *TagStore
}

func NewItemStore(db *sqlx.DB, tx *TransactionManager, tags *TagStore) *ItemStore {
	return &ItemStore{db: db, tx: tx, tags: tags}
}

const upsertItemQuery = `
	INSERT INTO items (
		id, user_id, title, "desc", content, url, thumbnail_url, content_type,
		is_archived, raw_text, notes, space_id, created_at, updated_at,
		is_deleted, deleted_at, archived_at, auto_archived
	) VALUES (
		:id, :user_id, :title, :desc, :content, :url, :thumbnail_url, :content_type,
		:is_archived, :raw_text, :notes, :space_id, :created_at, :updated_at,
		:is_deleted, :deleted_at, :archived_at, :auto_archived
	)
	ON CONFLICT (id) DO UPDATE SET
		title = EXCLUDED.title,
		"desc" = EXCLUDED."desc",
		content = EXCLUDED.content,
		url = EXCLUDED.url,
		thumbnail_url = EXCLUDED.thumbnail_url,
		content_type = EXCLUDED.content_type,
		is_archived = EXCLUDED.is_archived,
		raw_text = EXCLUDED.raw_text,
		notes = EXCLUDED.notes,
		space_id = EXCLUDED.space_id,
		updated_at = EXCLUDED.updated_at,
		is_deleted = items.is_deleted OR EXCLUDED.is_deleted,
		deleted_at = COALESCE(items.deleted_at, EXCLUDED.deleted_at),
		archived_at = EXCLUDED.archived_at,
		auto_archived = EXCLUDED.auto_archived
	WHERE items.updated_at <= EXCLUDED.updated_at`

// UpsertItem writes the row and its satellite tables in one transaction. A
// row older than the stored one is ignored as a whole.
func (s *ItemStore) UpsertItem(ctx context.Context, item *domain.RemoteItem) error {
	return s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		exec := GetExecutor(ctx, s.db)

		res, err := sqlx.NamedExecContext(ctx, exec, upsertItemQuery, item)
		if err != nil {
			return fmt.Errorf("upsert item %s: %w", item.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}

		if item.Metadata != nil {
			if err := s.upsertMetadata(ctx, exec, item.ID, item.Metadata); err != nil {
				return fmt.Errorf("upsert metadata of %s: %w", item.ID, err)
			}
		}
		if item.TypeMetadata != nil {
			if err := s.upsertTypeMetadata(ctx, exec, item.ID, item.TypeMetadata); err != nil {
				return fmt.Errorf("upsert type metadata of %s: %w", item.ID, err)
			}
		}

		ids, err := s.tags.UpsertLabels(ctx, item.Tags)
		if err != nil {
			return fmt.Errorf("upsert tags of %s: %w", item.ID, err)
		}
		if err := s.tags.LinkToItem(ctx, item.ID, ids); err != nil {
			return fmt.Errorf("link tags of %s: %w", item.ID, err)
		}
		return nil
	})
}

func (s *ItemStore) upsertMetadata(ctx context.Context, exec sqlx.ExtContext, itemID string, md *domain.ItemMetadata) error {
	_, err := exec.ExecContext(ctx, `
		INSERT INTO item_metadata (item_id, author, username, domain, published_date)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (item_id) DO UPDATE SET
			author = COALESCE(NULLIF(EXCLUDED.author, ''), item_metadata.author),
			username = COALESCE(NULLIF(EXCLUDED.username, ''), item_metadata.username),
			domain = COALESCE(NULLIF(EXCLUDED.domain, ''), item_metadata.domain),
			published_date = COALESCE(EXCLUDED.published_date, item_metadata.published_date)`,
		itemID, md.Author, md.Username, md.Domain, md.PublishedDate,
	)
	return err
}

func (s *ItemStore) upsertTypeMetadata(ctx context.Context, exec sqlx.ExtContext, itemID string, md *domain.ItemTypeMetadata) error {
	payload, err := json.Marshal(md)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	_, err = exec.ExecContext(ctx, `
		INSERT INTO item_type_metadata (item_id, content_type, payload)
		VALUES ($1, $2, $3)
		ON CONFLICT (item_id) DO UPDATE SET
			content_type = EXCLUDED.content_type,
			payload = EXCLUDED.payload`,
		itemID, string(md.ContentType), payload,
	)
	return err
}

// DeleteItem marks the item deleted. A tombstone for a row the remote store
// never saw still lands, so a later replay of its creation stays deleted.
func (s *ItemStore) DeleteItem(ctx context.Context, ts domain.Tombstone) error {
	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, `
		INSERT INTO items (id, user_id, created_at, updated_at, is_deleted, deleted_at)
		VALUES ($1, $2, $3, $3, TRUE, $3)
		ON CONFLICT (id) DO UPDATE SET
			is_deleted = TRUE,
			deleted_at = COALESCE(items.deleted_at, EXCLUDED.deleted_at),
			updated_at = GREATEST(items.updated_at, EXCLUDED.updated_at)`,
		ts.ID, ts.UserID, ts.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("delete item %s: %w", ts.ID, err)
	}
	return nil
}

// GetItem returns the stored row with its satellite data.
func (s *ItemStore) GetItem(ctx context.Context, id string) (*domain.RemoteItem, error) {
	exec := GetExecutor(ctx, s.db)

	var item domain.RemoteItem
	err := sqlx.GetContext(ctx, exec, &item, `
		SELECT id, user_id, title, "desc", content, url, thumbnail_url, content_type,
			is_archived, raw_text, notes, space_id, created_at, updated_at,
			is_deleted, deleted_at, archived_at, auto_archived
		FROM items WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	var md domain.ItemMetadata
	err = sqlx.GetContext(ctx, exec, &md,
		`SELECT item_id, author, username, domain, published_date FROM item_metadata WHERE item_id = $1`, id)
	switch {
	case err == nil:
		item.Metadata = &md
	case !errors.Is(err, sql.ErrNoRows):
		return nil, err
	}

	var payload []byte
	err = sqlx.GetContext(ctx, exec, &payload, `SELECT payload FROM item_type_metadata WHERE item_id = $1`, id)
	switch {
	case err == nil:
		var tmd domain.ItemTypeMetadata
		if err := json.Unmarshal(payload, &tmd); err != nil {
			return nil, fmt.Errorf("decode type metadata of %s: %w", id, err)
		}
		item.TypeMetadata = &tmd
	case !errors.Is(err, sql.ErrNoRows):
		return nil, err
	}

	tags, err := s.tags.GetByItemID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(tags) > 0 {
		item.Tags = tags
	}
	return &item, nil
}
