// Package oembed resolves post and video metadata from oEmbed providers.
package oembed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"memex/internal/domain"
	"memex/internal/source/httpx"
)

var DefaultEndpoints = map[string]string{
	"youtube": "https://www.youtube.com/oembed",
	"x":       "https://publish.twitter.com/oembed",
	"tiktok":  "https://www.tiktok.com/oembed",
}

type response struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	AuthorURL    string `json:"author_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	HTML         string `json:"html"`
}

type Client struct {
	http      *httpx.Client
	endpoints map[string]string
}

// New returns a client for the given provider endpoints. Providers missing
// from endpoints fall back to DefaultEndpoints.
func New(http *httpx.Client, endpoints map[string]string) *Client {
	merged := make(map[string]string, len(DefaultEndpoints))
	for k, v := range DefaultEndpoints {
		merged[k] = v
	}
	for k, v := range endpoints {
		if v != "" {
			merged[k] = v
		}
	}
	return &Client{http: http, endpoints: merged}
}

func (c *Client) Fetch(ctx context.Context, provider, pageURL string) (*domain.Embed, error) {
	endpoint, ok := c.endpoints[provider]
	if !ok {
		return nil, fmt.Errorf("unknown oembed provider %q", provider)
	}

	q := url.Values{}
	q.Set("url", pageURL)
	q.Set("format", "json")
	if provider == "x" {
		q.Set("omit_script", "true")
	}

	body, err := c.http.Get(ctx, endpoint+"?"+q.Encode(), "application/json")
	if err != nil {
		return nil, fmt.Errorf("fetch %s oembed: %w", provider, err)
	}

	var resp response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode %s oembed: %w", provider, err)
	}

	return &domain.Embed{
		Provider:     provider,
		Title:        resp.Title,
		AuthorName:   resp.AuthorName,
		AuthorURL:    resp.AuthorURL,
		ThumbnailURL: resp.ThumbnailURL,
		HTML:         resp.HTML,
		Raw:          json.RawMessage(body),
	}, nil
}
