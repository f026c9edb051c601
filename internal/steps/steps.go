// Package steps holds the classification and enrichment steps of the item
// pipeline and the order they run in.
package steps

import (
	"log/slog"
	"time"

	"memex/internal/domain"
	"memex/internal/pipeline"
)

type Deps struct {
	Store       pipeline.ItemStore
	Classifier  Classifier
	Scraper     PageScraper
	Embeds      EmbedFetcher
	Reddit      RedditFetcher
	Catalog     CatalogLookup
	Transcriber Transcriber
	Tasks       TaskSubmitter

	DefaultYouTubeSource pipeline.YouTubeSource
	TranscriptDelay      time.Duration
	Logger               *slog.Logger
}

// Default returns the canonical step order: network-free URL classification,
// assistant classification, generic page scraping, then one enricher per
// specialized content type.
func Default(d Deps) []pipeline.Step {
	logger := d.Logger
	tr := &transcripts{
		store:       d.Store,
		transcriber: d.Transcriber,
		tasks:       d.Tasks,
		delay:       d.TranscriptDelay,
		logger:      logger.With("task", "transcript"),
	}

	return []pipeline.Step{
		NewClassifyURLStep(d.Store, logger),
		NewClassifyAIStep(d.Store, d.Classifier, logger),
		NewScrapeHTMLStep(d.Store, d.Scraper, logger),
		&YouTubeStep{
			store:         d.Store,
			embeds:        d.Embeds,
			scraper:       d.Scraper,
			defaultSource: d.DefaultYouTubeSource,
			transcripts:   tr,
			logger:        logger.With("step", "enrich_youtube"),
		},
		&EmbedStep{
			name:        "enrich_x",
			contentType: domain.ContentTypeX,
			provider:    "x",
			store:       d.Store,
			embeds:      d.Embeds,
			logger:      logger.With("step", "enrich_x"),
		},
		&RedditStep{store: d.Store, reddit: d.Reddit, logger: logger.With("step", "enrich_reddit")},
		&EmbedStep{
			name:        "enrich_tiktok",
			contentType: domain.ContentTypeTikTok,
			provider:    "tiktok",
			store:       d.Store,
			embeds:      d.Embeds,
			logger:      logger.With("step", "enrich_tiktok"),
		},
		&PageStep{
			name:        "enrich_instagram",
			contentType: domain.ContentTypeInstagram,
			store:       d.Store,
			scraper:     d.Scraper,
			payload:     imagesPayload,
			logger:      logger.With("step", "enrich_instagram"),
		},
		&PageStep{
			name:        "enrich_podcast",
			contentType: domain.ContentTypePodcast,
			store:       d.Store,
			scraper:     d.Scraper,
			payload:     podcastPayload,
			transcripts: tr,
			logger:      logger.With("step", "enrich_podcast"),
		},
		&PageStep{
			name:        "enrich_product",
			contentType: domain.ContentTypeProduct,
			store:       d.Store,
			scraper:     d.Scraper,
			payload:     productPayload,
			logger:      logger.With("step", "enrich_product"),
		},
		&MovieStep{store: d.Store, catalog: d.Catalog, scraper: d.Scraper, logger: logger.With("step", "enrich_movie")},
	}
}
