package queue

import (
	"context"
	"sync"
)

// Result is the outcome of one processed entry.
type Result struct {
	ItemID  string
	Success bool
	Error   error
	Created bool
}

// Future settles once, when the entry it belongs to has been processed or
// cancelled. Every caller deduplicated onto the same entry shares it.
type Future struct {
	done   chan struct{}
	once   sync.Once
	result Result
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) settle(r Result) {
	f.once.Do(func() {
		f.result = r
		close(f.done)
	})
}

func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future settles or ctx is done. The returned error is
// the processing error, if any.
func (f *Future) Wait(ctx context.Context) (Result, error) {
	select {
	case <-f.done:
		return f.result, f.result.Error
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}
