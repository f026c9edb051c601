package domain

import "time"

type PendingStatus string

const (
	PendingStatusPending    PendingStatus = "pending"
	PendingStatusProcessing PendingStatus = "processing"
	PendingStatusCompleted  PendingStatus = "completed"
	PendingStatusFailed     PendingStatus = "failed"
)

// PendingItem is a capture recorded outside the processing queue, e.g. by a
// share extension.
type PendingItem struct {
	ID        string        `db:"id" json:"id"`
	URL       string        `db:"url" json:"url"`
	SpaceID   string        `db:"space_id" json:"space_id,omitempty"`
	Content   string        `db:"content" json:"content,omitempty"`
	Status    PendingStatus `db:"status" json:"status"`
	Error     string        `db:"error" json:"error,omitempty"`
	ItemID    string        `db:"item_id" json:"item_id,omitempty"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// IsOpen reports whether the record still needs reconciliation.
func (p *PendingItem) IsOpen() bool {
	return p.Status == PendingStatusPending || p.Status == PendingStatusProcessing
}
