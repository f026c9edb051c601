package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidContentType = errors.New("invalid content type")
)

type ContentType string

const (
	ContentTypeBookmark     ContentType = "bookmark"
	ContentTypeYouTube      ContentType = "youtube"
	ContentTypeYouTubeShort ContentType = "youtube_short"
	ContentTypeX            ContentType = "x"
	ContentTypeReddit       ContentType = "reddit"
	ContentTypeTikTok       ContentType = "tiktok"
	ContentTypeInstagram    ContentType = "instagram"
	ContentTypePodcast      ContentType = "podcast"
	ContentTypeMovie        ContentType = "movie"
	ContentTypeTVShow       ContentType = "tv_show"
	ContentTypeProduct      ContentType = "product"
	ContentTypeNote         ContentType = "note"
)

var contentTypes = []ContentType{
	ContentTypeBookmark,
	ContentTypeYouTube,
	ContentTypeYouTubeShort,
	ContentTypeX,
	ContentTypeReddit,
	ContentTypeTikTok,
	ContentTypeInstagram,
	ContentTypePodcast,
	ContentTypeMovie,
	ContentTypeTVShow,
	ContentTypeProduct,
	ContentTypeNote,
}

// ParseContentType validates s against the closed set of content types.
func ParseContentType(s string) (ContentType, error) {
	ct := ContentType(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(contentTypes, ct) {
		return "", fmt.Errorf("%w: %q", ErrInvalidContentType, s)
	}
	return ct, nil
}

// IsGeneric reports whether the type is still the capture default.
func (c ContentType) IsGeneric() bool {
	return c == "" || c == ContentTypeBookmark
}

func (c ContentType) String() string {
	return string(c)
}

type Item struct {
	ID           string
	URL          string
	Title        string
	Description  string
	Content      string
	RawText      string
	Notes        string
	ThumbnailURL string
	ContentType  ContentType
	SpaceID      string
	Tags         []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	IsDeleted    bool
	DeletedAt    *time.Time
	IsArchived   bool
	ArchivedAt   *time.Time
	AutoArchived bool
}

var placeholderTitles = []string{"untitled", "loading...", "processing..."}

// IsPlaceholderTitle reports whether title is what capture puts on an item
// before any enrichment has run.
func IsPlaceholderTitle(title, url string) bool {
	t := strings.TrimSpace(title)
	if t == "" {
		return true
	}
	if url != "" && strings.EqualFold(t, strings.TrimSpace(url)) {
		return true
	}
	return slices.Contains(placeholderTitles, strings.ToLower(t))
}

// HasAdequateMetadata reports whether the item needs no further generic enrichment.
func (i *Item) HasAdequateMetadata() bool {
	return !IsPlaceholderTitle(i.Title, i.URL) &&
		strings.TrimSpace(i.Description) != "" &&
		strings.TrimSpace(i.ThumbnailURL) != ""
}

// Visible reports whether the item belongs in normal listings.
func (i *Item) Visible(includeArchived bool) bool {
	if i.IsDeleted {
		return false
	}
	return includeArchived || !i.IsArchived
}

// NormalizeTags lowercases, trims and dedupes tags, keeping first-seen order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// ItemPatch is a partial update. Nil fields are left untouched; a non-nil
// pointer to "" clears the field.
type ItemPatch struct {
	URL          *string
	Title        *string
	Description  *string
	Content      *string
	RawText      *string
	Notes        *string
	ThumbnailURL *string
	ContentType  *ContentType
	SpaceID      *string
	Tags         []string
	IsArchived   *bool
	AutoArchived *bool
}

// IsEmpty reports whether applying the patch would change nothing.
func (p ItemPatch) IsEmpty() bool {
	return p.URL == nil && p.Title == nil && p.Description == nil && p.Content == nil &&
		p.RawText == nil && p.Notes == nil && p.ThumbnailURL == nil && p.ContentType == nil &&
		p.SpaceID == nil && p.Tags == nil && p.IsArchived == nil && p.AutoArchived == nil
}

// Apply mutates item in place and reports whether any field changed.
func (p ItemPatch) Apply(item *Item, now time.Time) bool {
	changed := false
	set := func(dst *string, v *string) {
		if v != nil && *dst != *v {
			*dst = *v
			changed = true
		}
	}
	set(&item.URL, p.URL)
	set(&item.Title, p.Title)
	set(&item.Description, p.Description)
	set(&item.Content, p.Content)
	set(&item.RawText, p.RawText)
	set(&item.Notes, p.Notes)
	set(&item.ThumbnailURL, p.ThumbnailURL)
	set(&item.SpaceID, p.SpaceID)

	if p.ContentType != nil && item.ContentType != *p.ContentType {
		item.ContentType = *p.ContentType
		changed = true
	}
	if p.Tags != nil {
		tags := NormalizeTags(p.Tags)
		if !slices.Equal(tags, item.Tags) {
			item.Tags = tags
			changed = true
		}
	}
	if p.IsArchived != nil && item.IsArchived != *p.IsArchived {
		item.IsArchived = *p.IsArchived
		if item.IsArchived {
			item.ArchivedAt = &now
		} else {
			item.ArchivedAt = nil
			item.AutoArchived = false
		}
		changed = true
	}
	if p.AutoArchived != nil && item.AutoArchived != *p.AutoArchived {
		item.AutoArchived = *p.AutoArchived
		changed = true
	}

	if changed {
		item.UpdatedAt = now
	}
	return changed
}
