package scheduler

import (
	"context"
	"log/slog"
	"time"

	"memex/internal/domain"
)

// Prober checks connectivity and drains the offline queue when it can.
type Prober interface {
	Probe(ctx context.Context) (*domain.SyncStatus, error)
}

type Scheduler struct {
	prober   Prober
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

// NewScheduler runs prober every interval; timeout bounds one probe
// including the drain it may trigger.
func NewScheduler(prober Prober, interval, timeout time.Duration, logger *slog.Logger) *Scheduler {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Scheduler{
		prober:   prober,
		interval: interval,
		timeout:  timeout,
		logger:   logger.With("component", "scheduler"),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)

	s.runProbe(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runProbe(ctx)
		}
	}
}

func (s *Scheduler) runProbe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	status, err := s.prober.Probe(probeCtx)
	if err != nil {
		s.logger.Error("probe failed", "error", err)
		return
	}
	s.logger.Debug("probe done",
		"online", status.Online,
		"pending", status.PendingCount,
		"failed", status.FailedCount,
	)
}
