package steps

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"memex/internal/domain"
	"memex/internal/pipeline"
)

// PageStep enriches one content type from the item's own page metadata.
// Instagram, podcast and product enrichers are built on it.
type PageStep struct {
	name        string
	contentType domain.ContentType
	store       pipeline.ItemStore
	scraper     PageScraper
	payload     func(item *domain.Item, page *domain.PageInfo) domain.ItemTypeMetadata
	transcripts *transcripts
	logger      *slog.Logger
}

func (s *PageStep) Name() string { return s.name }

func (s *PageStep) Run(ctx context.Context, sc pipeline.StepContext) error {
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

	page, err := s.scraper.Scrape(ctx, item.URL)
	if err != nil {
		return fmt.Errorf("scrape page: %w", err)
	}

	if patch := fillMissing(item, page.Title, page.Description, page.ImageURL); !patch.IsEmpty() {
		if _, err := s.store.UpdateItem(ctx, item.ID, patch); err != nil {
			return fmt.Errorf("update item: %w", err)
		}
	}

	md := domain.ItemMetadata{Author: page.Author, Domain: domainOf(item.URL), PublishedDate: page.PublishedAt}
	if err := s.store.UpsertMetadata(ctx, item.ID, md); err != nil {
		return fmt.Errorf("upsert metadata: %w", err)
	}

	next := s.payload(item, page)
	next.ItemID = item.ID
	next.ContentType = s.contentType
	if err := carryTranscript(ctx, s.store, &next); err != nil {
		return err
	}
	if err := s.store.UpsertTypeMetadata(ctx, item.ID, next); err != nil {
		return fmt.Errorf("upsert type metadata: %w", err)
	}

	if next.Transcript == "" {
		s.transcripts.schedule(item.ID, item.URL)
	}
	s.logger.Debug("enriched from page", "item_id", item.ID, "content_type", s.contentType)
	return nil
}

func imagesPayload(_ *domain.Item, page *domain.PageInfo) domain.ItemTypeMetadata {
	images := slices.Clone(page.Images)
	if page.ImageURL != "" && !slices.Contains(images, page.ImageURL) {
		images = append([]string{page.ImageURL}, images...)
	}
	return domain.ItemTypeMetadata{ImageURLs: images}
}

func productPayload(item *domain.Item, page *domain.PageInfo) domain.ItemTypeMetadata {
	md := imagesPayload(item, page)
	md.Price = page.Price
	md.Currency = page.Currency
	return md
}

func podcastPayload(_ *domain.Item, page *domain.PageInfo) domain.ItemTypeMetadata {
	md := domain.ItemTypeMetadata{}
	if page.ImageURL != "" {
		md.ImageURLs = []string{page.ImageURL}
	}
	return md
}
