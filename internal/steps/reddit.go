package steps

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"memex/internal/domain"
	"memex/internal/pipeline"
)

type RedditStep struct {
	store  pipeline.ItemStore
	reddit RedditFetcher
	logger *slog.Logger
}

func (s *RedditStep) Name() string { return "enrich_reddit" }

func (s *RedditStep) Run(ctx context.Context, sc pipeline.StepContext) error {
	item, err := s.store.GetItem(ctx, sc.ItemID)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}
	if item.ContentType != domain.ContentTypeReddit {
		return nil
	}
	tmd, err := s.store.GetTypeMetadata(ctx, item.ID)
	if err != nil {
		return fmt.Errorf("get type metadata: %w", err)
	}
	if enriched(item, tmd) {
		return nil
	}

	post, err := s.reddit.FetchPost(ctx, item.URL)
	if err != nil {
		return fmt.Errorf("fetch post: %w", err)
	}

	thumb := post.Thumbnail
	if !strings.HasPrefix(thumb, "http") {
		thumb = ""
	}
	if thumb == "" && len(post.ImageURLs) > 0 {
		thumb = post.ImageURLs[0]
	}

	patch := fillMissing(item, post.Title, post.SelfText, thumb)
	if post.SelfText != "" && item.Content == "" {
		patch.Content = &post.SelfText
	}
	if !patch.IsEmpty() {
		if _, err := s.store.UpdateItem(ctx, item.ID, patch); err != nil {
			return fmt.Errorf("update item: %w", err)
		}
	}

	md := domain.ItemMetadata{
		Author:        post.Author,
		Username:      post.Author,
		Domain:        "reddit.com",
		PublishedDate: post.CreatedAt,
	}
	if err := s.store.UpsertMetadata(ctx, item.ID, md); err != nil {
		return fmt.Errorf("upsert metadata: %w", err)
	}

	next := domain.ItemTypeMetadata{
		ItemID:      item.ID,
		ContentType: domain.ContentTypeReddit,
		ImageURLs:   post.ImageURLs,
		Engagement:  &domain.Engagement{Likes: post.Score, Comments: post.NumComments},
		Raw:         post.Raw,
	}
	if err := s.store.UpsertTypeMetadata(ctx, item.ID, next); err != nil {
		return fmt.Errorf("upsert type metadata: %w", err)
	}
	s.logger.Debug("enriched reddit post", "item_id", item.ID, "subreddit", post.Subreddit)
	return nil
}
