package steps

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"memex/internal/domain"
	"memex/internal/pipeline"
)

var xUsernamePattern = regexp.MustCompile(`(?:twitter|x)\.com/([A-Za-z0-9_]{1,15})`)

// EmbedStep enriches posts of a single content type from an oEmbed provider.
// It backs the x and tiktok enrichers.
type EmbedStep struct {
	name        string
	contentType domain.ContentType
	provider    string
	store       pipeline.ItemStore
	embeds      EmbedFetcher
	logger      *slog.Logger
}

func (s *EmbedStep) Name() string { return s.name }

func (s *EmbedStep) Run(ctx context.Context, sc pipeline.StepContext) error {
	item, err := s.store.GetItem(ctx, sc.ItemID)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}
	if item.ContentType != s.contentType {
		return nil
	}
	tmd, err := s.store.GetTypeMetadata(ctx, item.ID)
	if err != nil {
		return fmt.Errorf("get type metadata: %w", err)
	}
	if enriched(item, tmd) {
		return nil
	}

	embed, err := s.embeds.Fetch(ctx, s.provider, item.URL)
	if err != nil {
		return fmt.Errorf("fetch oembed: %w", err)
	}

	text := embedText(embed.HTML)
	title := embed.Title
	if title == "" {
		title = postTitle(embed.AuthorName, text)
	}

	patch := fillMissing(item, title, text, embed.ThumbnailURL)
	if text != "" && item.Content == "" {
		patch.Content = &text
	}
	if !patch.IsEmpty() {
		if _, err := s.store.UpdateItem(ctx, item.ID, patch); err != nil {
			return fmt.Errorf("update item: %w", err)
		}
	}

	md := domain.ItemMetadata{
		Author:   embed.AuthorName,
		Username: usernameFrom(embed.AuthorURL),
		Domain:   domainOf(item.URL),
	}
	if err := s.store.UpsertMetadata(ctx, item.ID, md); err != nil {
		return fmt.Errorf("upsert metadata: %w", err)
	}

	next := domain.ItemTypeMetadata{ItemID: item.ID, ContentType: s.contentType, Raw: embed.Raw}
	if embed.ThumbnailURL != "" {
		next.ImageURLs = []string{embed.ThumbnailURL}
	}
	if err := s.store.UpsertTypeMetadata(ctx, item.ID, next); err != nil {
		return fmt.Errorf("upsert type metadata: %w", err)
	}
	s.logger.Debug("enriched post", "item_id", item.ID, "provider", s.provider)
	return nil
}

// embedText pulls the visible post text out of oEmbed blockquote HTML.
func embedText(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	sel := doc.Find("blockquote p").First()
	if sel.Length() == 0 {
		sel = doc.Find("body")
	}
	return strings.Join(strings.Fields(sel.Text()), " ")
}

func postTitle(author, text string) string {
	if text == "" {
		return author
	}
	t := noteTitle(text)
	if author == "" {
		return t
	}
	return author + ": " + t
}

func usernameFrom(authorURL string) string {
	if m := xUsernamePattern.FindStringSubmatch(authorURL); m != nil {
		return m[1]
	}
	if i := strings.Index(authorURL, "/@"); i >= 0 {
		return strings.Trim(authorURL[i+2:], "/")
	}
	return ""
}
