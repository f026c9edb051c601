// Package reddit reads posts through reddit's public JSON listing endpoints.
package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/url"
	"strings"
	"time"

	"memex/internal/domain"
	"memex/internal/source/httpx"
)

const DefaultBaseURL = "https://www.reddit.com"

var ErrNoPost = errors.New("listing has no post")

type listing struct {
	Data struct {
		Children []struct {
			Kind string          `json:"kind"`
			Data json.RawMessage `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type post struct {
	Title       string  `json:"title"`
	SelfText    string  `json:"selftext"`
	Author      string  `json:"author"`
	Subreddit   string  `json:"subreddit"`
	Thumbnail   string  `json:"thumbnail"`
	URL         string  `json:"url_overridden_by_dest"`
	PostHint    string  `json:"post_hint"`
	Score       int64   `json:"score"`
	NumComments int64   `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
	Preview     struct {
		Images []struct {
			Source struct {
				URL string `json:"url"`
			} `json:"source"`
		} `json:"images"`
	} `json:"preview"`
	GalleryData struct {
		Items []struct {
			MediaID string `json:"media_id"`
		} `json:"items"`
	} `json:"gallery_data"`
	MediaMetadata map[string]struct {
		S struct {
			U string `json:"u"`
		} `json:"s"`
	} `json:"media_metadata"`
}

type Client struct {
	http    *httpx.Client
	baseURL string
}

func New(http *httpx.Client, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{http: http, baseURL: strings.TrimRight(baseURL, "/")}
}

func (c *Client) FetchPost(ctx context.Context, postURL string) (*domain.RedditPost, error) {
	endpoint, err := c.jsonURL(postURL)
	if err != nil {
		return nil, err
	}

	var listings []listing
	if err := c.http.GetJSON(ctx, endpoint, &listings); err != nil {
		return nil, fmt.Errorf("fetch listing: %w", err)
	}
	if len(listings) == 0 || len(listings[0].Data.Children) == 0 {
		return nil, ErrNoPost
	}

	raw := listings[0].Data.Children[0].Data
	var p post
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode post: %w", err)
	}

	result := &domain.RedditPost{
		Title:       html.UnescapeString(p.Title),
		SelfText:    strings.TrimSpace(html.UnescapeString(p.SelfText)),
		Author:      p.Author,
		Subreddit:   p.Subreddit,
		Thumbnail:   p.Thumbnail,
		ImageURLs:   imageURLs(p),
		Score:       p.Score,
		NumComments: p.NumComments,
		Raw:         raw,
	}
	if p.CreatedUTC > 0 {
		t := time.Unix(int64(p.CreatedUTC), 0).UTC()
		result.CreatedAt = &t
	}
	return result, nil
}

// jsonURL maps a post permalink onto the listing endpoint under baseURL.
func (c *Client) jsonURL(postURL string) (string, error) {
	u, err := url.Parse(postURL)
	if err != nil || u.Path == "" {
		return "", fmt.Errorf("parse reddit url %q: invalid", postURL)
	}
	path := strings.TrimRight(u.Path, "/")
	if !strings.HasSuffix(path, ".json") {
		path += ".json"
	}
	return c.baseURL + path + "?raw_json=1", nil
}

func imageURLs(p post) []string {
	var urls []string
	seen := make(map[string]bool)
	add := func(u string) {
		u = html.UnescapeString(u)
		if u == "" || seen[u] {
			return
		}
		seen[u] = true
		urls = append(urls, u)
	}

	for _, item := range p.GalleryData.Items {
		if m, ok := p.MediaMetadata[item.MediaID]; ok {
			add(m.S.U)
		}
	}
	if p.PostHint == "image" {
		add(p.URL)
	}
	for _, img := range p.Preview.Images {
		add(img.Source.URL)
	}
	return urls
}
