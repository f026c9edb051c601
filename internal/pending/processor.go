// Package pending reconciles captures recorded outside the running process
// with the item store.
package pending

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/remeh/sizedwaitgroup"
	"mvdan.cc/xurls/v2"

	"memex/internal/domain"
	"memex/internal/queue"
)

var urlPattern = xurls.Strict()

type Config struct {
	Concurrency int
}

// Summary counts the outcomes of one reconciliation pass. Skipped records
// already had an adequately enriched item.
type Summary struct {
	Completed int
	Failed    int
	Skipped   int
	Duration  time.Duration
}

type outcome int

const (
	outcomeCompleted outcome = iota
	outcomeFailed
	outcomeSkipped
)

type Processor struct {
	local  LocalPending
	remote RemotePending
	items  ItemFinder
	queue  Enqueuer
	config Config
	logger *slog.Logger
	now    func() time.Time
}

func NewProcessor(local LocalPending, remote RemotePending, items ItemFinder, q Enqueuer, cfg Config, logger *slog.Logger) *Processor {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	return &Processor{
		local:  local,
		remote: remote,
		items:  items,
		queue:  q,
		config: cfg,
		logger: logger.With("component", "pending"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ProcessPendingItems pulls remote pending records, then reconciles every
// open local record. A failing record never stops the others, and the call
// returns only after all of them settled.
func (p *Processor) ProcessPendingItems(ctx context.Context) Summary {
	start := time.Now()
	p.pullRemote(ctx)

	records, err := p.local.ListOpen(ctx)
	if err != nil {
		p.logger.Error("failed to list pending items", "error", err)
		return Summary{Duration: time.Since(start)}
	}

	var (
		mu      sync.Mutex
		summary Summary
	)
	swg := sizedwaitgroup.New(p.config.Concurrency)
	for _, rec := range records {
		swg.Add()
		go func(rec domain.PendingItem) {
			defer swg.Done()
			out := p.reconcile(ctx, &rec)

			mu.Lock()
			defer mu.Unlock()
			switch out {
			case outcomeCompleted:
				summary.Completed++
			case outcomeFailed:
				summary.Failed++
			case outcomeSkipped:
				summary.Skipped++
			}
		}(rec)
	}
	swg.Wait()

	summary.Duration = time.Since(start)
	p.logger.Info("pending items processed",
		"total", len(records),
		"completed", summary.Completed,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"duration", summary.Duration,
	)
	return summary
}

func (p *Processor) pullRemote(ctx context.Context) {
	if p.remote == nil {
		return
	}
	records, err := p.remote.ListOpen(ctx)
	if err != nil {
		p.logger.Warn("failed to fetch remote pending items", "error", err)
		return
	}
	for i := range records {
		inserted, err := p.local.InsertIfAbsent(ctx, &records[i])
		if err != nil {
			p.logger.Error("failed to store pending item", "pending_id", records[i].ID, "error", err)
			continue
		}
		if inserted {
			p.logger.Debug("pending item pulled", "pending_id", records[i].ID, "url", records[i].URL)
		}
	}
}

// ProcessPendingItemByURL reconciles the single pending record captured for
// url. Records that are already finalized are left alone.
func (p *Processor) ProcessPendingItemByURL(ctx context.Context, url string) error {
	url = strings.TrimSpace(url)
	rec, err := p.local.GetByURL(ctx, url)
	if errors.Is(err, domain.ErrNotFound) && p.remote != nil {
		rec, err = p.remote.GetByURL(ctx, url)
		if err == nil {
			if _, err := p.local.InsertIfAbsent(ctx, rec); err != nil {
				return fmt.Errorf("store pending item: %w", err)
			}
		}
	}
	if err != nil {
		return fmt.Errorf("get pending item: %w", err)
	}
	if !rec.IsOpen() {
		p.logger.Debug("pending item already finalized", "pending_id", rec.ID, "status", rec.Status)
		return nil
	}

	p.reconcile(ctx, rec)
	return nil
}

// target returns what to enqueue for rec: its URL, the first URL in its
// shared text, or the text itself for a note.
func target(rec *domain.PendingItem) (value string, isURL bool) {
	if u := strings.TrimSpace(rec.URL); u != "" {
		return u, true
	}
	if u := urlPattern.FindString(rec.Content); u != "" {
		return u, true
	}
	return strings.TrimSpace(rec.Content), false
}

func (p *Processor) reconcile(ctx context.Context, rec *domain.PendingItem) outcome {
	value, isURL := target(rec)
	if value == "" {
		p.finish(ctx, rec, "", errors.New("pending item has neither url nor content"))
		return outcomeFailed
	}

	var existing *domain.Item
	if isURL {
		item, err := p.items.FindByURL(ctx, value)
		switch {
		case err == nil:
			existing = item
		case !errors.Is(err, domain.ErrNotFound):
			p.finish(ctx, rec, "", fmt.Errorf("find item: %w", err))
			return outcomeFailed
		}
	}

	if existing != nil && existing.HasAdequateMetadata() {
		p.logger.Debug("item already enriched", "pending_id", rec.ID, "item_id", existing.ID)
		p.finish(ctx, rec, existing.ID, nil)
		return outcomeSkipped
	}

	rec.Status = domain.PendingStatusProcessing
	p.save(ctx, rec)

	params := queue.Params{
		URL:     value,
		SpaceID: rec.SpaceID,
		Content: rec.Content,
		Source:  domain.CaptureSourceShareExtension,
	}
	if existing != nil {
		params.ItemID = existing.ID
	}

	res, err := p.queue.Enqueue(params).Wait(ctx)
	if err != nil {
		p.finish(ctx, rec, res.ItemID, err)
		return outcomeFailed
	}
	p.finish(ctx, rec, res.ItemID, nil)
	return outcomeCompleted
}

func (p *Processor) finish(ctx context.Context, rec *domain.PendingItem, itemID string, procErr error) {
	if itemID != "" {
		rec.ItemID = itemID
	}
	if procErr != nil {
		rec.Status = domain.PendingStatusFailed
		rec.Error = procErr.Error()
		p.logger.Warn("pending item failed", "pending_id", rec.ID, "url", rec.URL, "error", procErr)
	} else {
		rec.Status = domain.PendingStatusCompleted
		rec.Error = ""
	}
	p.save(ctx, rec)
}

// save writes the status locally, then remotely on a best-effort basis.
func (p *Processor) save(ctx context.Context, rec *domain.PendingItem) {
	rec.UpdatedAt = p.now()
	if err := p.local.UpdateStatus(ctx, rec); err != nil {
		p.logger.Error("failed to update local pending item", "pending_id", rec.ID, "error", err)
	}
	if p.remote == nil {
		return
	}
	if err := p.remote.UpdateStatus(ctx, rec); err != nil {
		p.logger.Warn("failed to update remote pending item", "pending_id", rec.ID, "error", err)
	}
}
