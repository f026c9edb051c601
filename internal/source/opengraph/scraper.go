// Package opengraph scrapes page metadata from OpenGraph, Twitter card and
// plain HTML head tags.
package opengraph

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"memex/internal/domain"
	"memex/internal/source/httpx"
)

const maxImages = 10

type Scraper struct {
	http *httpx.Client
}

func NewScraper(http *httpx.Client) *Scraper {
	return &Scraper{http: http}
}

func (s *Scraper) Scrape(ctx context.Context, pageURL string) (*domain.PageInfo, error) {
	body, err := s.http.Get(ctx, pageURL, "text/html,application/xhtml+xml")
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	return Parse(pageURL, body)
}

// Parse extracts page metadata from an HTML document. Relative image and
// audio URLs are resolved against pageURL.
func Parse(pageURL string, html []byte) (*domain.PageInfo, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	base, _ := url.Parse(pageURL)
	meta := collectMeta(doc)

	info := &domain.PageInfo{
		URL:         first(meta["og:url"], pageURL),
		Title:       first(meta["og:title"], meta["twitter:title"], strings.TrimSpace(doc.Find("title").First().Text())),
		Description: first(meta["og:description"], meta["twitter:description"], meta["description"]),
		SiteName:    meta["og:site_name"],
		Author:      first(meta["author"], meta["article:author"], meta["twitter:creator"]),
		Type:        meta["og:type"],
		Price:       first(meta["product:price:amount"], meta["og:price:amount"]),
		Currency:    first(meta["product:price:currency"], meta["og:price:currency"]),
		AudioURL:    resolve(base, first(meta["og:audio"], meta["og:audio:url"], meta["og:audio:secure_url"])),
	}

	if published := first(meta["article:published_time"], meta["og:published_time"]); published != "" {
		if t, err := parseTime(published); err == nil {
			info.PublishedAt = &t
		}
	}

	seen := make(map[string]bool)
	doc.Find(`meta[property="og:image"], meta[property="og:image:url"], meta[name="twitter:image"]`).Each(func(_ int, sel *goquery.Selection) {
		img := resolve(base, strings.TrimSpace(sel.AttrOr("content", "")))
		if img == "" || seen[img] || len(info.Images) >= maxImages {
			return
		}
		seen[img] = true
		info.Images = append(info.Images, img)
	})
	if len(info.Images) > 0 {
		info.ImageURL = info.Images[0]
	}

	if info.AudioURL == "" {
		if src, ok := doc.Find("audio source[src], audio[src]").First().Attr("src"); ok {
			info.AudioURL = resolve(base, src)
		}
	}

	return info, nil
}

// collectMeta keeps the first value of every meta property or name.
func collectMeta(doc *goquery.Document) map[string]string {
	meta := make(map[string]string)
	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		key := sel.AttrOr("property", "")
		if key == "" {
			key = sel.AttrOr("name", "")
		}
		key = strings.ToLower(strings.TrimSpace(key))
		content := strings.TrimSpace(sel.AttrOr("content", ""))
		if key == "" || content == "" {
			return
		}
		if _, exists := meta[key]; !exists {
			meta[key] = content
		}
	})
	return meta
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func resolve(base *url.URL, ref string) string {
	if ref == "" || base == nil {
		return ref
	}
	u, err := base.Parse(ref)
	if err != nil {
		return ref
	}
	return u.String()
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}
