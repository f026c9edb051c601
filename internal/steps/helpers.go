package steps

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"memex/internal/domain"
	"memex/internal/pipeline"
)

func patchContentType(ct domain.ContentType) domain.ItemPatch {
	return domain.ItemPatch{ContentType: &ct}
}

// fillMissing builds a patch that only sets fields the item does not have yet.
func fillMissing(item *domain.Item, title, description, thumbnail string) domain.ItemPatch {
	var patch domain.ItemPatch
	if t := strings.TrimSpace(title); t != "" && domain.IsPlaceholderTitle(item.Title, item.URL) {
		patch.Title = &t
	}
	if d := strings.TrimSpace(description); d != "" && strings.TrimSpace(item.Description) == "" {
		patch.Description = &d
	}
	if th := strings.TrimSpace(thumbnail); th != "" && strings.TrimSpace(item.ThumbnailURL) == "" {
		patch.ThumbnailURL = &th
	}
	return patch
}

// enriched reports whether the type enricher for the item's current type has
// already stored its payload.
func enriched(item *domain.Item, tmd *domain.ItemTypeMetadata) bool {
	return tmd != nil && tmd.ContentType == item.ContentType && !domain.IsPlaceholderTitle(item.Title, item.URL)
}

func domainOf(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return ""
	}
	return hostname(u)
}

// carryTranscript copies the stored transcript into next. It reads the store
// again because a transcript task may have finished while the step was fetching.
func carryTranscript(ctx context.Context, store pipeline.ItemStore, next *domain.ItemTypeMetadata) error {
	current, err := store.GetTypeMetadata(ctx, next.ItemID)
	if err != nil {
		return fmt.Errorf("reload type metadata: %w", err)
	}
	if current != nil {
		next.Transcript = current.Transcript
	}
	return nil
}
