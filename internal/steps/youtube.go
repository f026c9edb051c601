package steps

import (
	"context"
	"fmt"
	"log/slog"

	"memex/internal/domain"
	"memex/internal/pipeline"
)

type YouTubeStep struct {
	store         pipeline.ItemStore
	embeds        EmbedFetcher
	scraper       PageScraper
	defaultSource pipeline.YouTubeSource
	transcripts   *transcripts
	logger        *slog.Logger
}

func (s *YouTubeStep) Name() string { return "enrich_youtube" }

func (s *YouTubeStep) Run(ctx context.Context, sc pipeline.StepContext) error {
	item, err := s.store.GetItem(ctx, sc.ItemID)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}
	if item.ContentType != domain.ContentTypeYouTube && item.ContentType != domain.ContentTypeYouTubeShort {
		return nil
	}
	tmd, err := s.store.GetTypeMetadata(ctx, item.ID)
	if err != nil {
		return fmt.Errorf("get type metadata: %w", err)
	}
	if enriched(item, tmd) {
		return nil
	}

	videoID := YouTubeVideoID(item.URL)
	source := sc.Preferences.YouTubeSource
	if source == "" {
		source = s.defaultSource
	}

	var title, author, thumbnail, description string
	var raw []byte
	switch source {
	case pipeline.YouTubeSourceB:
		page, err := s.scraper.Scrape(ctx, item.URL)
		if err != nil {
			return fmt.Errorf("scrape watch page: %w", err)
		}
		title, author, thumbnail, description = page.Title, page.Author, page.ImageURL, page.Description
	default:
		embed, err := s.embeds.Fetch(ctx, "youtube", item.URL)
		if err != nil {
			return fmt.Errorf("fetch oembed: %w", err)
		}
		title, author, thumbnail, raw = embed.Title, embed.AuthorName, embed.ThumbnailURL, embed.Raw
	}
	if thumbnail == "" && videoID != "" {
		thumbnail = "https://i.ytimg.com/vi/" + videoID + "/hqdefault.jpg"
	}

	if patch := fillMissing(item, title, description, thumbnail); !patch.IsEmpty() {
		if _, err := s.store.UpdateItem(ctx, item.ID, patch); err != nil {
			return fmt.Errorf("update item: %w", err)
		}
	}
	if err := s.store.UpsertMetadata(ctx, item.ID, domain.ItemMetadata{Author: author, Domain: "youtube.com"}); err != nil {
		return fmt.Errorf("upsert metadata: %w", err)
	}
	next := domain.ItemTypeMetadata{
		ItemID:      item.ID,
		ContentType: item.ContentType,
		VideoID:     videoID,
		Raw:         raw,
	}
	if err := carryTranscript(ctx, s.store, &next); err != nil {
		return err
	}
	if err := s.store.UpsertTypeMetadata(ctx, item.ID, next); err != nil {
		return fmt.Errorf("upsert type metadata: %w", err)
	}

	if next.Transcript == "" {
		s.transcripts.schedule(item.ID, item.URL)
	}
	s.logger.Debug("enriched video", "item_id", item.ID, "video_id", videoID, "source", source)
	return nil
}
