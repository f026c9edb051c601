package domain

import (
	"encoding/json"
	"time"
)

type SyncAction string

const (
	SyncActionCreateItem SyncAction = "create_item"
	SyncActionUpdateItem SyncAction = "update_item"
	SyncActionDeleteItem SyncAction = "delete_item"
)

type OfflineEntryStatus string

const (
	OfflineEntryPending OfflineEntryStatus = "pending"
	OfflineEntryFailed  OfflineEntryStatus = "failed"
)

// OfflineQueueEntry is a remote mutation waiting to be replayed.
type OfflineQueueEntry struct {
	ID        int64              `db:"id"`
	Action    SyncAction         `db:"action"`
	TargetID  string             `db:"target_id"`
	Payload   json.RawMessage    `db:"payload"`
	Status    OfflineEntryStatus `db:"status"`
	Attempts  int                `db:"attempts"`
	LastError string             `db:"last_error"`
	CreatedAt time.Time          `db:"created_at"`
}

// SyncStatus is the process-wide view of the sync layer.
type SyncStatus struct {
	Online       bool       `json:"online"`
	Syncing      bool       `json:"syncing"`
	PendingCount int        `json:"pending_count"`
	FailedCount  int        `json:"failed_count"`
	LastSyncAt   *time.Time `json:"last_sync_at,omitempty"`
	LastError    string     `json:"last_error,omitempty"`
	LastErrorAt  *time.Time `json:"last_error_at,omitempty"`
}

// RemoteItem is the row layout of the remote items table plus the
// satellite tables keyed by item id.
type RemoteItem struct {
	ID           string            `json:"id" db:"id"`
	UserID       string            `json:"user_id" db:"user_id"`
	Title        string            `json:"title" db:"title"`
	Desc         string            `json:"desc" db:"desc"`
	Content      string            `json:"content" db:"content"`
	URL          string            `json:"url" db:"url"`
	ThumbnailURL string            `json:"thumbnail_url" db:"thumbnail_url"`
	ContentType  string            `json:"content_type" db:"content_type"`
	IsArchived   bool              `json:"is_archived" db:"is_archived"`
	RawText      string            `json:"raw_text" db:"raw_text"`
	Notes        string            `json:"notes" db:"notes"`
	SpaceID      string            `json:"space_id" db:"space_id"`
	CreatedAt    time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at" db:"updated_at"`
	IsDeleted    bool              `json:"is_deleted" db:"is_deleted"`
	DeletedAt    *time.Time        `json:"deleted_at" db:"deleted_at"`
	ArchivedAt   *time.Time        `json:"archived_at" db:"archived_at"`
	AutoArchived bool              `json:"auto_archived" db:"auto_archived"`
	Tags         []string          `json:"tags,omitempty" db:"-"`
	Metadata     *ItemMetadata     `json:"metadata,omitempty" db:"-"`
	TypeMetadata *ItemTypeMetadata `json:"type_metadata,omitempty" db:"-"`
}

// Tombstone is the payload of a delete_item mutation.
type Tombstone struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

// ToRemote maps an item onto the remote row layout.
func ToRemote(item *Item, userID string) RemoteItem {
	return RemoteItem{
		ID:           item.ID,
		UserID:       userID,
		Title:        item.Title,
		Desc:         item.Description,
		Content:      item.Content,
		URL:          item.URL,
		ThumbnailURL: item.ThumbnailURL,
		ContentType:  string(item.ContentType),
		IsArchived:   item.IsArchived,
		RawText:      item.RawText,
		Notes:        item.Notes,
		SpaceID:      item.SpaceID,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
		IsDeleted:    item.IsDeleted,
		DeletedAt:    item.DeletedAt,
		ArchivedAt:   item.ArchivedAt,
		AutoArchived: item.AutoArchived,
		Tags:         item.Tags,
	}
}
