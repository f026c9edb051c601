package queue

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"memex/internal/domain"
	"memex/internal/pipeline"
)

type ItemCreator interface {
	CreateItem(ctx context.Context, in domain.NewItem) (*domain.Item, error)
	GetItem(ctx context.Context, id string) (*domain.Item, error)
}

type Pipeline interface {
	Run(ctx context.Context, sc pipeline.StepContext) pipeline.RunReport
}

type EventPublisher interface {
	PublishItemEvent(ctx context.Context, event domain.ItemEvent) error
}
