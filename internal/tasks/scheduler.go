// Package tasks runs fire-and-forget follow-up work (transcripts and the like)
// outside the processing queue. Tasks complete in any order.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNotStarted = errors.New("task scheduler not started")

type Task struct {
	ID       string
	Name     string
	ItemID   string
	Delay    time.Duration
	Run      func(ctx context.Context) error
	Attempt  int
	Enqueued time.Time
}

type Config struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
}

type Scheduler struct {
	workers    int
	maxRetries int
	retryDelay time.Duration
	logger     *slog.Logger

	tasks   chan Task
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	timers  sync.WaitGroup
	mu      sync.Mutex
	started bool
}

func NewScheduler(cfg Config, logger *slog.Logger) *Scheduler {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 4
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}

	return &Scheduler{
		workers:    cfg.Workers,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		logger:     logger.With("component", "tasks"),
		tasks:      make(chan Task, cfg.BufferSize),
	}
}

// Start launches the workers. Calling it twice is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go s.worker()
	}
	s.started = true
	s.logger.Info("task scheduler started", "workers", s.workers)
}

// Stop cancels pending timers and running tasks and waits for the workers.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.started = false
	s.mu.Unlock()

	s.timers.Wait()
	s.wg.Wait()
	s.logger.Info("task scheduler stopped")
}

// Submit schedules t to run after t.Delay. It never waits for the task itself.
func (s *Scheduler) Submit(t Task) error {
	if t.Run == nil {
		return fmt.Errorf("task %q has no run function", t.Name)
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Enqueued.IsZero() {
		t.Enqueued = time.Now().UTC()
	}

	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return ErrNotStarted
	}
	ctx := s.ctx
	if t.Delay <= 0 {
		s.mu.Unlock()
		return s.push(ctx, t)
	}
	// Registered under the lock so Stop never waits on a timer added after it.
	s.timers.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.timers.Done()
		timer := time.NewTimer(t.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			if err := s.push(ctx, t); err != nil {
				s.logger.Error("failed to queue delayed task", "task", t.Name, "task_id", t.ID, "error", err)
			}
		}
	}()
	return nil
}

func (s *Scheduler) push(ctx context.Context, t Task) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("task scheduler stopped: %w", ctx.Err())
	case s.tasks <- t:
		return nil
	}
}

func (s *Scheduler) worker() {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case t := <-s.tasks:
			if err := s.run(t); err != nil {
				s.handleFailure(t, err)
			}
		}
	}
}

func (s *Scheduler) run(t Task) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("task panicked: %v", rec)
		}
	}()
	s.logger.Debug("running task", "task", t.Name, "task_id", t.ID, "item_id", t.ItemID, "attempt", t.Attempt)
	return t.Run(s.ctx)
}

func (s *Scheduler) handleFailure(t Task, err error) {
	t.Attempt++
	if t.Attempt > s.maxRetries {
		s.logger.Error("task exceeded retries", "task", t.Name, "task_id", t.ID, "item_id", t.ItemID, "error", err)
		return
	}
	s.logger.Warn("task failed, retrying", "task", t.Name, "task_id", t.ID, "attempt", t.Attempt, "error", err)

	t.Delay = s.retryDelay
	if subErr := s.Submit(t); subErr != nil {
		s.logger.Error("failed to requeue task", "task", t.Name, "task_id", t.ID, "error", subErr)
	}
}
