package domain

import (
	"encoding/json"
	"time"
)

// PageInfo is what a generic HTML/OpenGraph scrape yields.
type PageInfo struct {
	URL         string
	Title       string
	Description string
	ImageURL    string
	Images      []string
	SiteName    string
	Author      string
	Type        string
	PublishedAt *time.Time
	Price       string
	Currency    string
	AudioURL    string
}

// Embed is a normalized oEmbed response.
type Embed struct {
	Provider     string
	Title        string
	AuthorName   string
	AuthorURL    string
	ThumbnailURL string
	HTML         string
	Raw          json.RawMessage
}

type RedditPost struct {
	Title       string
	SelfText    string
	Author      string
	Subreddit   string
	Thumbnail   string
	ImageURLs   []string
	Score       int64
	NumComments int64
	CreatedAt   *time.Time
	Raw         json.RawMessage
}

// CatalogTitle is a movie or series record from a film catalog.
type CatalogTitle struct {
	Title     string
	Year      string
	Plot      string
	Poster    string
	Director  string
	IsSeries  bool
	Rating    string
	RuntimeMn int
	Released  *time.Time
	Raw       json.RawMessage
}
