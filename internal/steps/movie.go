package steps

import (
	"context"
	"fmt"
	"log/slog"

	"memex/internal/domain"
	"memex/internal/pipeline"
)

// MovieStep enriches movies and series from a film catalog keyed by IMDb id.
// The catalog knows better than the URL whether a title is a series, so it
// may move an item between movie and tv_show.
type MovieStep struct {
	store   pipeline.ItemStore
	catalog CatalogLookup
	scraper PageScraper
	logger  *slog.Logger
}

func (s *MovieStep) Name() string { return "enrich_movie" }

func (s *MovieStep) Run(ctx context.Context, sc pipeline.StepContext) error {
	item, err := s.store.GetItem(ctx, sc.ItemID)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}
	if item.ContentType != domain.ContentTypeMovie && item.ContentType != domain.ContentTypeTVShow {
		return nil
	}
	tmd, err := s.store.GetTypeMetadata(ctx, item.ID)
	if err != nil {
		return fmt.Errorf("get type metadata: %w", err)
	}
	if enriched(item, tmd) {
		return nil
	}

	imdbID := IMDbID(item.URL)
	if imdbID == "" {
		return s.fromPage(ctx, item)
	}

	title, err := s.catalog.LookupTitle(ctx, imdbID)
	if err != nil {
		return fmt.Errorf("lookup title %s: %w", imdbID, err)
	}

	ct := domain.ContentTypeMovie
	if title.IsSeries {
		ct = domain.ContentTypeTVShow
	}
	patch := fillMissing(item, title.Title, title.Plot, title.Poster)
	if ct != item.ContentType {
		patch.ContentType = &ct
	}
	if !patch.IsEmpty() {
		if _, err := s.store.UpdateItem(ctx, item.ID, patch); err != nil {
			return fmt.Errorf("update item: %w", err)
		}
	}

	md := domain.ItemMetadata{Author: title.Director, Domain: domainOf(item.URL), PublishedDate: title.Released}
	if err := s.store.UpsertMetadata(ctx, item.ID, md); err != nil {
		return fmt.Errorf("upsert metadata: %w", err)
	}

	next := domain.ItemTypeMetadata{
		ItemID:          item.ID,
		ContentType:     ct,
		DurationSeconds: title.RuntimeMn * 60,
		Rating:          title.Rating,
		Year:            title.Year,
		Raw:             title.Raw,
	}
	if title.Poster != "" {
		next.ImageURLs = []string{title.Poster}
	}
	if err := s.store.UpsertTypeMetadata(ctx, item.ID, next); err != nil {
		return fmt.Errorf("upsert type metadata: %w", err)
	}
	s.logger.Debug("enriched title", "item_id", item.ID, "imdb_id", imdbID, "content_type", ct)
	return nil
}

// fromPage covers catalog sites without an IMDb id in the URL.
func (s *MovieStep) fromPage(ctx context.Context, item *domain.Item) error {
	page, err := s.scraper.Scrape(ctx, item.URL)
	if err != nil {
		return fmt.Errorf("scrape page: %w", err)
	}
	if patch := fillMissing(item, page.Title, page.Description, page.ImageURL); !patch.IsEmpty() {
		if _, err := s.store.UpdateItem(ctx, item.ID, patch); err != nil {
			return fmt.Errorf("update item: %w", err)
		}
	}
	next := domain.ItemTypeMetadata{ItemID: item.ID, ContentType: item.ContentType}
	if page.ImageURL != "" {
		next.ImageURLs = []string{page.ImageURL}
	}
	return s.store.UpsertTypeMetadata(ctx, item.ID, next)
}
