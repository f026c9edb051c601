package steps

import (
	"context"
	"fmt"
	"log/slog"

	"memex/internal/pipeline"
)

// ClassifyAIStep asks the assistant to classify URLs the pattern rules left
// as bookmarks. It is skipped for anything already classified or already
// carrying good metadata, so reruns do not spend another call.
type ClassifyAIStep struct {
	store      pipeline.ItemStore
	classifier Classifier
	logger     *slog.Logger
}

func NewClassifyAIStep(store pipeline.ItemStore, classifier Classifier, logger *slog.Logger) *ClassifyAIStep {
	return &ClassifyAIStep{store: store, classifier: classifier, logger: logger.With("step", "classify_ai")}
}

func (s *ClassifyAIStep) Name() string { return "classify_ai" }

func (s *ClassifyAIStep) Run(ctx context.Context, sc pipeline.StepContext) error {
	item, err := s.store.GetItem(ctx, sc.ItemID)
	if err != nil {
		return fmt.Errorf("get item: %w", err)
	}
	if s.classifier == nil || !item.ContentType.IsGeneric() || item.URL == "" || item.HasAdequateMetadata() {
		return nil
	}

	ct, err := s.classifier.Classify(ctx, item.URL)
	if err != nil {
		return fmt.Errorf("classify: %w", err)
	}
	if ct.IsGeneric() {
		return nil
	}

	// The call may have taken a while; only apply if nothing else classified it meanwhile.
	current, err := s.store.GetItem(ctx, sc.ItemID)
	if err != nil {
		return fmt.Errorf("reload item: %w", err)
	}
	if !current.ContentType.IsGeneric() {
		return nil
	}

	s.logger.Info("classified by assistant", "item_id", item.ID, "content_type", ct)
	_, err = s.store.UpdateItem(ctx, item.ID, patchContentType(ct))
	return err
}
