package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memex/internal/domain"
)

type countingProber struct {
	calls atomic.Int32
	err   error
}

func (p *countingProber) Probe(ctx context.Context) (*domain.SyncStatus, error) {
	p.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("probe without deadline")
	}
	if p.err != nil {
		return nil, p.err
	}
	return &domain.SyncStatus{Online: true}, nil
}

func TestScheduler_ProbesImmediatelyAndOnTick(t *testing.T) {
	prober := &countingProber{}
	s := NewScheduler(prober, 10*time.Millisecond, time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	require.Eventually(t, func() bool { return prober.calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestScheduler_KeepsRunningAfterProbeError(t *testing.T) {
	prober := &countingProber{err: errors.New("drain: database is locked")}
	s := NewScheduler(prober, 10*time.Millisecond, 0, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.Start(ctx) }()

	require.Eventually(t, func() bool { return prober.calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
}
