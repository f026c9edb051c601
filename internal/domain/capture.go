package domain

import "time"

type CaptureSource string

const (
	CaptureSourceApp            CaptureSource = "app"
	CaptureSourceShareExtension CaptureSource = "share_extension"
)

// NewItem is what capture knows about an item before enrichment.
type NewItem struct {
	URL     string
	SpaceID string
	Content string
	Source  CaptureSource
}

// ItemEvent announces the end of an item's processing.
type ItemEvent struct {
	ItemID      string        `json:"item_id"`
	URL         string        `json:"url"`
	ContentType ContentType   `json:"content_type"`
	Source      CaptureSource `json:"source"`
	Success     bool          `json:"success"`
	Created     bool          `json:"created"`
	Error       string        `json:"error,omitempty"`
	Timestamp   time.Time     `json:"timestamp"`
}

// PendingNotification is the realtime message announcing a new pending capture.
type PendingNotification struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
