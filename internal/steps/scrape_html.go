package steps

import (
	"context"
	"fmt"
	"log/slog"

	"memex/internal/domain"
	"memex/internal/pipeline"
)

// ScrapeHTMLStep is the generic fallback for items still classified as plain
// bookmarks after both classifiers ran.
type ScrapeHTMLStep struct {
	store   pipeline.ItemStore
	scraper PageScraper
	logger  *slog.Logger
}

func NewScrapeHTMLStep(store pipeline.ItemStore, scraper PageScraper, logger *slog.Logger) *ScrapeHTMLStep {
	return &ScrapeHTMLStep{store: store, scraper: scraper, logger: logger.With("step", "scrape_html")}
}

func (s *ScrapeHTMLStep) Name() string { return "scrape_html" }

func (s *ScrapeHTMLStep) Run(ctx context.Context, sc pipeline.StepContext) error {
	item, err := s.store.GetItem(ctx, sc.ItemID)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}
	if !item.ContentType.IsGeneric() || item.URL == "" || item.HasAdequateMetadata() {
		return nil
	}

	page, err := s.scraper.Scrape(ctx, item.URL)
	if err != nil {
		return fmt.Errorf("scrape page: %w", err)
	}

	current, err := s.store.GetItem(ctx, sc.ItemID)
	if err != nil {
		return fmt.Errorf("reload item: %w", err)
	}
	if !current.ContentType.IsGeneric() {
		return nil
	}

	patch := fillMissing(current, page.Title, page.Description, page.ImageURL)
	if !patch.IsEmpty() {
		if _, err := s.store.UpdateItem(ctx, current.ID, patch); err != nil {
			return fmt.Errorf("update item: %w", err)
		}
	}

	md := domain.ItemMetadata{
		Author:        page.Author,
		Domain:        domainOf(current.URL),
		PublishedDate: page.PublishedAt,
	}
	if err := s.store.UpsertMetadata(ctx, current.ID, md); err != nil {
		return fmt.Errorf("upsert metadata: %w", err)
	}

	s.logger.Debug("scraped page", "item_id", current.ID, "title", page.Title)
	return nil
}
