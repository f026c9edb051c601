package tasks

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestScheduler_SubmitBeforeStart(t *testing.T) {
	s := NewScheduler(Config{}, testLogger())

	err := s.Submit(Task{Name: "noop", Run: func(context.Context) error { return nil }})
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestScheduler_RunsDelayedTask(t *testing.T) {
	s := NewScheduler(Config{Workers: 1}, testLogger())
	s.Start(context.Background())
	defer s.Stop()

	done := make(chan time.Time, 1)
	submitted := time.Now()
	require.NoError(t, s.Submit(Task{
		Name:  "transcript",
		Delay: 20 * time.Millisecond,
		Run: func(context.Context) error {
			done <- time.Now()
			return nil
		},
	}))

	select {
	case ranAt := <-done:
		assert.GreaterOrEqual(t, ranAt.Sub(submitted), 20*time.Millisecond)
	case <-time.After(2 * time.Second):
		t.Fatal("task did not run")
	}
}

func TestScheduler_SubmitDoesNotBlockOnSlowTask(t *testing.T) {
	s := NewScheduler(Config{Workers: 1, BufferSize: 4}, testLogger())
	s.Start(context.Background())
	defer s.Stop()

	release := make(chan struct{})
	require.NoError(t, s.Submit(Task{Name: "slow", Run: func(ctx context.Context) error {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	}}))

	start := time.Now()
	require.NoError(t, s.Submit(Task{Name: "second", Run: func(context.Context) error { return nil }}))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
	close(release)
}

func TestScheduler_RetriesFailedTask(t *testing.T) {
	s := NewScheduler(Config{Workers: 1, MaxRetries: 2, RetryDelay: 5 * time.Millisecond}, testLogger())
	s.Start(context.Background())
	defer s.Stop()

	var calls atomic.Int32
	done := make(chan struct{})
	require.NoError(t, s.Submit(Task{Name: "flaky", Run: func(context.Context) error {
		if calls.Add(1) < 3 {
			return errors.New("boom")
		}
		close(done)
		return nil
	}}))

	select {
	case <-done:
		assert.Equal(t, int32(3), calls.Load())
	case <-time.After(2 * time.Second):
		t.Fatal("task was not retried")
	}
}

func TestScheduler_RecoversPanics(t *testing.T) {
	s := NewScheduler(Config{Workers: 1}, testLogger())
	s.Start(context.Background())
	defer s.Stop()

	require.NoError(t, s.Submit(Task{Name: "panics", Run: func(context.Context) error { panic("bad") }}))

	done := make(chan struct{})
	require.NoError(t, s.Submit(Task{Name: "after", Run: func(context.Context) error {
		close(done)
		return nil
	}}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker died after panic")
	}
}

func TestScheduler_StopCancelsPendingTimers(t *testing.T) {
	s := NewScheduler(Config{Workers: 1}, testLogger())
	s.Start(context.Background())

	var ran atomic.Bool
	require.NoError(t, s.Submit(Task{Name: "later", Delay: time.Hour, Run: func(context.Context) error {
		ran.Store(true)
		return nil
	}}))

	s.Stop()
	assert.False(t, ran.Load())
}
