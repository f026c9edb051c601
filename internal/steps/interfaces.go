package steps

import (
	"context"

	"memex/internal/domain"
	"memex/internal/tasks"
)

// Classifier guesses a content type for a URL the pattern rules could not place.
// It returns ContentTypeBookmark when it has no better answer.
type Classifier interface {
	Classify(ctx context.Context, url string) (domain.ContentType, error)
}

type PageScraper interface {
	Scrape(ctx context.Context, url string) (*domain.PageInfo, error)
}

// EmbedFetcher resolves oEmbed data for a provider such as "youtube" or "x".
type EmbedFetcher interface {
	Fetch(ctx context.Context, provider, url string) (*domain.Embed, error)
}

type RedditFetcher interface {
	FetchPost(ctx context.Context, url string) (*domain.RedditPost, error)
}

type CatalogLookup interface {
	LookupTitle(ctx context.Context, imdbID string) (*domain.CatalogTitle, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, url string) (string, error)
}

type TaskSubmitter interface {
	Submit(t tasks.Task) error
}
