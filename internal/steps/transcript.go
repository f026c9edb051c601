package steps

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"memex/internal/domain"
	"memex/internal/pipeline"
	"memex/internal/tasks"
)

// transcripts schedules transcript generation outside the pipeline. The task
// may land long after the pipeline moved on to other items.
type transcripts struct {
	store       pipeline.ItemStore
	transcriber Transcriber
	tasks       TaskSubmitter
	delay       time.Duration
	logger      *slog.Logger
}

func (t *transcripts) schedule(itemID, url string) {
	if t == nil || t.transcriber == nil || t.tasks == nil {
		return
	}
	err := t.tasks.Submit(tasks.Task{
		Name:   "transcript",
		ItemID: itemID,
		Delay:  t.delay,
		Run: func(ctx context.Context) error {
			return t.generate(ctx, itemID, url)
		},
	})
	if err != nil {
		t.logger.Warn("failed to schedule transcript", "item_id", itemID, "error", err)
	}
}

func (t *transcripts) generate(ctx context.Context, itemID, url string) error {
	tmd, err := t.store.GetTypeMetadata(ctx, itemID)
	if err != nil {
		return fmt.Errorf("get type metadata: %w", err)
	}
	if tmd != nil && tmd.Transcript != "" {
		return nil
	}

	text, err := t.transcriber.Transcribe(ctx, url)
	if err != nil {
		return fmt.Errorf("transcribe: %w", err)
	}
	if text == "" {
		return nil
	}

	// Re-read: the type payload is replaced wholesale and may have changed
	// while the transcription was running.
	tmd, err = t.store.GetTypeMetadata(ctx, itemID)
	if err != nil {
		return fmt.Errorf("reload type metadata: %w", err)
	}
	if tmd == nil {
		item, err := t.store.GetItem(ctx, itemID)
		if err != nil {
			return fmt.Errorf("get item: %w", err)
		}
		tmd = &domain.ItemTypeMetadata{ItemID: itemID, ContentType: item.ContentType}
	}
	next := *tmd
	next.Transcript = text
	if err := t.store.UpsertTypeMetadata(ctx, itemID, next); err != nil {
		return fmt.Errorf("store transcript: %w", err)
	}
	t.logger.Info("transcript stored", "item_id", itemID, "chars", len(text))
	return nil
}
