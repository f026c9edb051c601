// Package syncer propagates local item mutations to the remote store,
// buffering them in a persistent offline queue while the remote store is
// unreachable.
package syncer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"memex/internal/domain"
)

type Config struct {
	MaxAttempts int
}

type Service struct {
	remote  Remote
	queue   OfflineQueue
	status  StatusStore
	checker ConnectivityChecker
	config  Config
	logger  *slog.Logger
	now     func() time.Time

	drainMu sync.Mutex

	mu    sync.Mutex
	state domain.SyncStatus
}

func NewService(
	remote Remote,
	queue OfflineQueue,
	status StatusStore,
	checker ConnectivityChecker,
	cfg Config,
	logger *slog.Logger,
) *Service {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	return &Service{
		remote:  remote,
		queue:   queue,
		status:  status,
		checker: checker,
		config:  cfg,
		logger:  logger.With("component", "sync"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Init restores the persisted status. The service starts offline until the
// first probe says otherwise.
func (s *Service) Init(ctx context.Context) error {
	st, err := s.status.Load(ctx)
	if err != nil {
		return fmt.Errorf("load sync status: %w", err)
	}
	s.mu.Lock()
	s.state = *st
	s.state.Online = false
	s.state.Syncing = false
	s.mu.Unlock()

	s.refresh(ctx)
	return nil
}

func (s *Service) IsOnline() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Online
}

func (s *Service) Status() domain.SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Push sends a mutation to the remote store, or records it in the offline
// queue when offline or when the remote call fails. Only a failure to record
// the mutation locally is returned.
func (s *Service) Push(ctx context.Context, action domain.SyncAction, targetID string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", action, err)
	}

	if !s.IsOnline() {
		s.logger.Debug("offline, queueing mutation", "action", action, "target_id", targetID)
		return s.enqueue(ctx, action, targetID, body, "")
	}

	if err := s.dispatch(ctx, action, body); err != nil {
		s.logger.Warn("remote mutation failed, queueing for retry",
			"action", action,
			"target_id", targetID,
			"error", err,
		)
		s.recordError(err)
		return s.enqueue(ctx, action, targetID, body, err.Error())
	}

	s.mu.Lock()
	now := s.now()
	s.state.LastSyncAt = &now
	s.mu.Unlock()
	s.refresh(ctx)
	return nil
}

func (s *Service) enqueue(ctx context.Context, action domain.SyncAction, targetID string, body []byte, lastErr string) error {
	entry := &domain.OfflineQueueEntry{
		Action:    action,
		TargetID:  targetID,
		Payload:   body,
		Status:    domain.OfflineEntryPending,
		LastError: lastErr,
		CreatedAt: s.now(),
	}
	if err := s.queue.Append(ctx, entry); err != nil {
		return fmt.Errorf("append offline entry: %w", err)
	}
	s.refresh(ctx)
	return nil
}

func (s *Service) dispatch(ctx context.Context, action domain.SyncAction, body []byte) error {
	switch action {
	case domain.SyncActionCreateItem, domain.SyncActionUpdateItem:
		var item domain.RemoteItem
		if err := json.Unmarshal(body, &item); err != nil {
			return fmt.Errorf("decode item payload: %w", err)
		}
		return s.remote.UpsertItem(ctx, &item)
	case domain.SyncActionDeleteItem:
		var ts domain.Tombstone
		if err := json.Unmarshal(body, &ts); err != nil {
			return fmt.Errorf("decode tombstone payload: %w", err)
		}
		return s.remote.DeleteItem(ctx, ts)
	default:
		return fmt.Errorf("unknown sync action %q", action)
	}
}

// DrainStats summarizes one drain.
type DrainStats struct {
	Replayed int
	Failed   int
	Duration time.Duration
}

// Drain replays queued mutations in insertion order. A failed entry is kept
// and marked failed; the drain moves on to the next one. Concurrent calls
// return immediately while a drain is running.
func (s *Service) Drain(ctx context.Context) (*DrainStats, error) {
	if !s.drainMu.TryLock() {
		return &DrainStats{}, nil
	}
	defer s.drainMu.Unlock()

	if !s.IsOnline() {
		return &DrainStats{}, nil
	}

	start := time.Now()
	s.setSyncing(true)
	defer func() {
		s.setSyncing(false)
		s.refresh(ctx)
	}()

	entries, err := s.queue.Replayable(ctx, s.config.MaxAttempts)
	if err != nil {
		s.recordError(err)
		return nil, fmt.Errorf("list offline entries: %w", err)
	}

	stats := &DrainStats{}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if err := s.dispatch(ctx, e.Action, e.Payload); err != nil {
			stats.Failed++
			s.recordError(err)
			s.logger.Warn("offline entry replay failed",
				"entry_id", e.ID,
				"action", e.Action,
				"target_id", e.TargetID,
				"attempt", e.Attempts+1,
				"error", err,
			)
			if markErr := s.queue.MarkFailed(ctx, e.ID, err.Error()); markErr != nil {
				s.logger.Error("failed to mark offline entry failed", "entry_id", e.ID, "error", markErr)
			}
			continue
		}
		if err := s.queue.Delete(ctx, e.ID); err != nil {
			s.logger.Error("failed to delete replayed entry", "entry_id", e.ID, "error", err)
			continue
		}
		stats.Replayed++
	}

	stats.Duration = time.Since(start)
	s.mu.Lock()
	now := s.now()
	s.state.LastSyncAt = &now
	s.mu.Unlock()

	s.logger.Info("offline queue drained",
		"replayed", stats.Replayed,
		"failed", stats.Failed,
		"duration", stats.Duration,
	)
	return stats, nil
}

// Probe checks connectivity and drains the queue when the service comes
// back online or still has pending entries.
func (s *Service) Probe(ctx context.Context) (*domain.SyncStatus, error) {
	online := s.checker.Check(ctx)
	if err := s.SetOnline(ctx, online); err != nil {
		return nil, err
	}
	st := s.Status()
	return &st, nil
}

// SetOnline flips the online flag. Going from offline to online triggers a
// drain; staying online drains only while entries remain queued.
func (s *Service) SetOnline(ctx context.Context, online bool) error {
	s.mu.Lock()
	wasOnline := s.state.Online
	s.state.Online = online
	queued := s.state.PendingCount + s.state.FailedCount
	s.mu.Unlock()

	if wasOnline != online {
		s.logger.Info("connectivity changed", "online", online)
	}
	if online && (!wasOnline || queued > 0) {
		if _, err := s.Drain(ctx); err != nil {
			return fmt.Errorf("drain: %w", err)
		}
		return nil
	}
	s.refresh(ctx)
	return nil
}

func (s *Service) setSyncing(v bool) {
	s.mu.Lock()
	s.state.Syncing = v
	s.mu.Unlock()
}

func (s *Service) recordError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.state.LastError = err.Error()
	s.state.LastErrorAt = &now
}

// refresh recomputes the queue counts and persists the status.
func (s *Service) refresh(ctx context.Context) {
	pending, failed, err := s.queue.Counts(ctx)
	if err != nil {
		s.logger.Error("failed to count offline entries", "error", err)
	}

	s.mu.Lock()
	if err == nil {
		s.state.PendingCount = pending
		s.state.FailedCount = failed
	}
	snapshot := s.state
	s.mu.Unlock()

	if err := s.status.Save(ctx, &snapshot); err != nil {
		s.logger.Error("failed to persist sync status", "error", err)
	}
}
