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

type itemRow struct {
	ID           string `db:"id"`
	URL          string `db:"url"`
	Title        string `db:"title"`
	Description  string `db:"description"`
	Content      string `db:"content"`
	RawText      string `db:"raw_text"`
	Notes        string `db:"notes"`
	ThumbnailURL string `db:"thumbnail_url"`
	ContentType  string `db:"content_type"`
	SpaceID      string `db:"space_id"`
	Tags         string `db:"tags"`
	CreatedAt    int64  `db:"created_at"`
	UpdatedAt    int64  `db:"updated_at"`
	IsDeleted    bool   `db:"is_deleted"`
	DeletedAt    *int64 `db:"deleted_at"`
	IsArchived   bool   `db:"is_archived"`
	ArchivedAt   *int64 `db:"archived_at"`
	AutoArchived bool   `db:"auto_archived"`
}

func newItemRow(item *domain.Item) (itemRow, error) {
	tags := item.Tags
	if tags == nil {
		tags = []string{}
	}
	encoded, err := json.Marshal(tags)
	if err != nil {
		return itemRow{}, fmt.Errorf("encode tags: %w", err)
	}
	return itemRow{
		ID:           item.ID,
		URL:          item.URL,
		Title:        item.Title,
		Description:  item.Description,
		Content:      item.Content,
		RawText:      item.RawText,
		Notes:        item.Notes,
		ThumbnailURL: item.ThumbnailURL,
		ContentType:  string(item.ContentType),
		SpaceID:      item.SpaceID,
		Tags:         string(encoded),
		CreatedAt:    toMillis(item.CreatedAt),
		UpdatedAt:    toMillis(item.UpdatedAt),
		IsDeleted:    item.IsDeleted,
		DeletedAt:    toNullMillis(item.DeletedAt),
		IsArchived:   item.IsArchived,
		ArchivedAt:   toNullMillis(item.ArchivedAt),
		AutoArchived: item.AutoArchived,
	}, nil
}

func (r itemRow) toDomain() (domain.Item, error) {
	var tags []string
	if r.Tags != "" {
		if err := json.Unmarshal([]byte(r.Tags), &tags); err != nil {
			return domain.Item{}, fmt.Errorf("decode tags of %s: %w", r.ID, err)
		}
	}
	if len(tags) == 0 {
		tags = nil
	}
	return domain.Item{
		ID:           r.ID,
		URL:          r.URL,
		Title:        r.Title,
		Description:  r.Description,
		Content:      r.Content,
		RawText:      r.RawText,
		Notes:        r.Notes,
		ThumbnailURL: r.ThumbnailURL,
		ContentType:  domain.ContentType(r.ContentType),
		SpaceID:      r.SpaceID,
		Tags:         tags,
		CreatedAt:    fromMillis(r.CreatedAt),
		UpdatedAt:    fromMillis(r.UpdatedAt),
		IsDeleted:    r.IsDeleted,
		DeletedAt:    fromNullMillis(r.DeletedAt),
		IsArchived:   r.IsArchived,
		ArchivedAt:   fromNullMillis(r.ArchivedAt),
		AutoArchived: r.AutoArchived,
	}, nil
}

const itemColumns = `id, url, title, description, content, raw_text, notes, thumbnail_url,
	content_type, space_id, tags, created_at, updated_at, is_deleted, deleted_at,
	is_archived, archived_at, auto_archived`

type ItemStore struct {
	db *sqlx.DB
}

func NewItemStore(db *sqlx.DB) *ItemStore {
	return &ItemStore{db: db}
}

func (s *ItemStore) CreateItem(ctx context.Context, item *domain.Item) error {
	row, err := newItemRow(item)
	if err != nil {
		return err
	}
	_, err = s.db.NamedExecContext(ctx, `
		INSERT INTO items (`+itemColumns+`) VALUES (
			:id, :url, :title, :description, :content, :raw_text, :notes, :thumbnail_url,
			:content_type, :space_id, :tags, :created_at, :updated_at, :is_deleted, :deleted_at,
			:is_archived, :archived_at, :auto_archived
		)`, row)
	return err
}

func (s *ItemStore) SaveItem(ctx context.Context, item *domain.Item) error {
	row, err := newItemRow(item)
	if err != nil {
		return err
	}
	res, err := s.db.NamedExecContext(ctx, `
		UPDATE items SET
			url = :url,
			title = :title,
			description = :description,
			content = :content,
			raw_text = :raw_text,
			notes = :notes,
			thumbnail_url = :thumbnail_url,
			content_type = :content_type,
			space_id = :space_id,
			tags = :tags,
			updated_at = :updated_at,
			is_deleted = :is_deleted,
			deleted_at = :deleted_at,
			is_archived = :is_archived,
			archived_at = :archived_at,
			auto_archived = :auto_archived
		WHERE id = :id`, row)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("item %s: %w", item.ID, domain.ErrNotFound)
	}
	return nil
}

func (s *ItemStore) GetItem(ctx context.Context, id string) (*domain.Item, error) {
	var row itemRow
	err := s.db.GetContext(ctx, &row, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	item, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindItemByURL matches case-insensitively and ignores tombstones.
func (s *ItemStore) FindItemByURL(ctx context.Context, url string) (*domain.Item, error) {
	var row itemRow
	err := s.db.GetContext(ctx, &row, `
		SELECT `+itemColumns+` FROM items
		WHERE lower(url) = lower(?) AND is_deleted = 0
		ORDER BY created_at DESC
		LIMIT 1`, url)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item with url %q: %w", url, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	item, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *ItemStore) ListItems(ctx context.Context) ([]domain.Item, error) {
	var rows []itemRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT `+itemColumns+` FROM items ORDER BY created_at DESC`); err != nil {
		return nil, err
	}
	items := make([]domain.Item, 0, len(rows))
	for _, r := range rows {
		item, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

type metadataRow struct {
	ItemID        string `db:"item_id"`
	Author        string `db:"author"`
	Username      string `db:"username"`
	Domain        string `db:"domain"`
	PublishedDate *int64 `db:"published_date"`
}

func (s *ItemStore) GetMetadata(ctx context.Context, itemID string) (*domain.ItemMetadata, error) {
	var row metadataRow
	err := s.db.GetContext(ctx, &row,
		`SELECT item_id, author, username, domain, published_date FROM item_metadata WHERE item_id = ?`, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("metadata of %s: %w", itemID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &domain.ItemMetadata{
		ItemID:        row.ItemID,
		Author:        row.Author,
		Username:      row.Username,
		Domain:        row.Domain,
		PublishedDate: fromNullMillis(row.PublishedDate),
	}, nil
}

func (s *ItemStore) SaveMetadata(ctx context.Context, md *domain.ItemMetadata) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO item_metadata (item_id, author, username, domain, published_date)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (item_id) DO UPDATE SET
			author = excluded.author,
			username = excluded.username,
			domain = excluded.domain,
			published_date = excluded.published_date`,
		md.ItemID, md.Author, md.Username, md.Domain, toNullMillis(md.PublishedDate),
	)
	return err
}

func (s *ItemStore) GetTypeMetadata(ctx context.Context, itemID string) (*domain.ItemTypeMetadata, error) {
	var payload string
	err := s.db.GetContext(ctx, &payload, `SELECT payload FROM item_type_metadata WHERE item_id = ?`, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("type metadata of %s: %w", itemID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	var md domain.ItemTypeMetadata
	if err := json.Unmarshal([]byte(payload), &md); err != nil {
		return nil, fmt.Errorf("decode type metadata of %s: %w", itemID, err)
	}
	return &md, nil
}

func (s *ItemStore) SaveTypeMetadata(ctx context.Context, md *domain.ItemTypeMetadata) error {
	payload, err := json.Marshal(md)
	if err != nil {
		return fmt.Errorf("encode type metadata: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO item_type_metadata (item_id, content_type, payload)
		VALUES (?, ?, ?)
		ON CONFLICT (item_id) DO UPDATE SET
			content_type = excluded.content_type,
			payload = excluded.payload`,
		md.ItemID, string(md.ContentType), string(payload),
	)
	return err
}
