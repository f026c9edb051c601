// Package queue serializes item enrichment: one pipeline run at a time, in
// enqueue order, with at most one run per URL.
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"memex/internal/domain"
	"memex/internal/pipeline"
)

var ErrCancelled = errors.New("queue cleared")

type Params struct {
	URL         string
	ItemID      string
	SpaceID     string
	Content     string
	Source      domain.CaptureSource
	Preferences pipeline.Preferences
}

type entry struct {
	key    string
	params Params
	future *Future
}

type Queue struct {
	ctx    context.Context
	items  ItemCreator
	runner Pipeline
	events EventPublisher
	logger *slog.Logger

	mu         sync.Mutex
	entries    []*entry
	queued     map[string]*Future
	inflight   map[string]*Future
	processing bool
}

// New returns a queue whose worker runs under ctx. events may be nil.
func New(ctx context.Context, items ItemCreator, runner Pipeline, events EventPublisher, logger *slog.Logger) *Queue {
	return &Queue{
		ctx:      ctx,
		items:    items,
		runner:   runner,
		events:   events,
		logger:   logger.With("component", "queue"),
		queued:   make(map[string]*Future),
		inflight: make(map[string]*Future),
	}
}

func dedupKey(p Params) string {
	if key := strings.ToLower(strings.TrimSpace(p.URL)); key != "" {
		return key
	}
	return "item:" + p.ItemID
}

// Enqueue adds p to the back of the queue. When the same URL is already
// queued or being processed, the existing future is returned and no second
// run happens.
func (q *Queue) Enqueue(p Params) *Future {
	key := dedupKey(p)

	q.mu.Lock()
	defer q.mu.Unlock()

	if f, ok := q.inflight[key]; ok {
		q.logger.Debug("url already processing", "url", p.URL)
		return f
	}
	if f, ok := q.queued[key]; ok {
		q.logger.Debug("url already queued", "url", p.URL)
		return f
	}

	e := &entry{key: key, params: p, future: newFuture()}
	q.entries = append(q.entries, e)
	q.queued[key] = e.future

	if !q.processing {
		q.processing = true
		go q.drain()
	}
	return e.future
}

func (q *Queue) drain() {
	for {
		q.mu.Lock()
		if len(q.entries) == 0 {
			q.processing = false
			q.mu.Unlock()
			return
		}
		e := q.entries[0]
		q.entries[0] = nil
		q.entries = q.entries[1:]
		delete(q.queued, e.key)
		q.inflight[e.key] = e.future
		q.mu.Unlock()

		res := q.process(e.params)

		q.mu.Lock()
		delete(q.inflight, e.key)
		q.mu.Unlock()

		e.future.settle(res)
	}
}

func (q *Queue) process(p Params) (res Result) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			res = Result{ItemID: res.ItemID, Created: res.Created, Error: fmt.Errorf("processing panicked: %v", rec)}
		}
		q.publish(p, res)
		if res.Error != nil {
			q.logger.Error("item processing failed", "url", p.URL, "item_id", res.ItemID, "error", res.Error)
			return
		}
		q.logger.Info("item processed",
			"url", p.URL,
			"item_id", res.ItemID,
			"created", res.Created,
			"duration", time.Since(start),
		)
	}()

	var item *domain.Item
	if p.ItemID == "" {
		created, err := q.items.CreateItem(q.ctx, domain.NewItem{
			URL:     p.URL,
			SpaceID: p.SpaceID,
			Content: p.Content,
			Source:  p.Source,
		})
		if created == nil {
			return Result{Error: fmt.Errorf("create item: %w", err)}
		}
		if err != nil {
			q.logger.Warn("item saved locally, sync hand-off failed", "item_id", created.ID, "error", err)
		}
		item = created
		res.Created = true
	} else {
		existing, err := q.items.GetItem(q.ctx, p.ItemID)
		if err != nil {
			return Result{ItemID: p.ItemID, Error: fmt.Errorf("get item: %w", err)}
		}
		item = existing
	}
	res.ItemID = item.ID

	q.runner.Run(q.ctx, pipeline.StepContext{
		ItemID:      item.ID,
		URL:         item.URL,
		Preferences: p.Preferences,
	})
	res.Success = true
	return res
}

func (q *Queue) publish(p Params, res Result) {
	if q.events == nil {
		return
	}
	event := domain.ItemEvent{
		ItemID:    res.ItemID,
		URL:       p.URL,
		Source:    p.Source,
		Success:   res.Success,
		Created:   res.Created,
		Timestamp: time.Now().UTC(),
	}
	if res.Error != nil {
		event.Error = res.Error.Error()
	}
	if res.ItemID != "" {
		if item, err := q.items.GetItem(q.ctx, res.ItemID); err == nil {
			event.ContentType = item.ContentType
		}
	}
	if err := q.events.PublishItemEvent(q.ctx, event); err != nil {
		q.logger.Warn("failed to publish item event", "item_id", res.ItemID, "error", err)
	}
}

// Clear cancels every queued entry. The entry being processed, if any,
// runs to completion.
func (q *Queue) Clear() {
	q.mu.Lock()
	entries := q.entries
	q.entries = nil
	q.queued = make(map[string]*Future)
	q.mu.Unlock()

	for _, e := range entries {
		e.future.settle(Result{Error: ErrCancelled})
	}
	if len(entries) > 0 {
		q.logger.Info("queue cleared", "cancelled", len(entries))
	}
}

// Len returns the number of entries waiting to be processed.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// InFlight returns the number of entries being processed, zero or one.
func (q *Queue) InFlight() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.inflight)
}
