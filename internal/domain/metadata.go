package domain

import (
	"encoding/json"
	"time"
)

// ItemMetadata holds descriptive fields shared by every content type.
type ItemMetadata struct {
	ItemID        string     `json:"item_id" db:"item_id"`
	Author        string     `json:"author,omitempty" db:"author"`
	Username      string     `json:"username,omitempty" db:"username"`
	Domain        string     `json:"domain,omitempty" db:"domain"`
	PublishedDate *time.Time `json:"published_date,omitempty" db:"published_date"`
}

// Merge copies every populated field of other onto m. Fields that are empty
// in other never clear what m already has.
func (m *ItemMetadata) Merge(other ItemMetadata) bool {
	changed := false
	merge := func(dst *string, v string) {
		if v != "" && *dst != v {
			*dst = v
			changed = true
		}
	}
	merge(&m.Author, other.Author)
	merge(&m.Username, other.Username)
	merge(&m.Domain, other.Domain)
	if other.PublishedDate != nil && (m.PublishedDate == nil || !m.PublishedDate.Equal(*other.PublishedDate)) {
		t := *other.PublishedDate
		m.PublishedDate = &t
		changed = true
	}
	return changed
}

type Engagement struct {
	Likes    int64 `json:"likes,omitempty"`
	Comments int64 `json:"comments,omitempty"`
	Views    int64 `json:"views,omitempty"`
	Shares   int64 `json:"shares,omitempty"`
}

// ItemTypeMetadata is the payload of the one enricher that owns the item's
// content type. It is always replaced as a whole.
type ItemTypeMetadata struct {
	ItemID          string          `json:"item_id"`
	ContentType     ContentType     `json:"content_type"`
	VideoID         string          `json:"video_id,omitempty"`
	DurationSeconds int             `json:"duration_seconds,omitempty"`
	ImageURLs       []string        `json:"image_urls,omitempty"`
	Engagement      *Engagement     `json:"engagement,omitempty"`
	Price           string          `json:"price,omitempty"`
	Currency        string          `json:"currency,omitempty"`
	Rating          string          `json:"rating,omitempty"`
	Year            string          `json:"year,omitempty"`
	Transcript      string          `json:"transcript,omitempty"`
	Raw             json.RawMessage `json:"raw,omitempty"`
}
