// Package pipeline runs the ordered enrichment steps for a single item.
package pipeline

import (
	"context"

	"memex/internal/domain"
)

type YouTubeSource string

const (
	// YouTubeSourceA enriches videos through the oEmbed endpoint.
	YouTubeSourceA YouTubeSource = "A"
	// YouTubeSourceB scrapes the watch page.
	YouTubeSourceB YouTubeSource = "B"
)

type Preferences struct {
	YouTubeSource YouTubeSource
}

// StepContext identifies the item a step works on. Steps must load current
// state through ItemStore instead of trusting anything captured here.
type StepContext struct {
	ItemID      string
	URL         string
	Preferences Preferences
}

// Step is one unit of classification or enrichment. Implementations return
// early when the item's content type is not theirs and are safe to call on
// an already enriched item.
type Step interface {
	Name() string
	Run(ctx context.Context, sc StepContext) error
}

// StepFunc adapts a function to Step.
type StepFunc struct {
	StepName string
	Fn       func(ctx context.Context, sc StepContext) error
}

func (f StepFunc) Name() string { return f.StepName }

func (f StepFunc) Run(ctx context.Context, sc StepContext) error { return f.Fn(ctx, sc) }

// ItemStore is the shared item state every step reads and writes.
type ItemStore interface {
	GetItem(ctx context.Context, id string) (*domain.Item, error)
	UpdateItem(ctx context.Context, id string, patch domain.ItemPatch) (*domain.Item, error)
	GetMetadata(ctx context.Context, id string) (*domain.ItemMetadata, error)
	UpsertMetadata(ctx context.Context, id string, md domain.ItemMetadata) error
	GetTypeMetadata(ctx context.Context, id string) (*domain.ItemTypeMetadata, error)
	UpsertTypeMetadata(ctx context.Context, id string, md domain.ItemTypeMetadata) error
}
