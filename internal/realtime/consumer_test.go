package realtime

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"memex/internal/domain"
)

type recordingHandler struct {
	urls []string
	err  error
}

func (h *recordingHandler) ProcessPendingItemByURL(_ context.Context, url string) error {
	h.urls = append(h.urls, url)
	return h.err
}

func newTestConsumer(h PendingHandler) *Consumer {
	return newConsumer(nil, nil, "pending", h, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestProcessMessage(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		handlerErr error
		wantErr    bool
		wantURLs   []string
	}{
		{
			name:     "valid notification",
			body:     `{"id":"p1","url":" https://example.com/a "}`,
			wantURLs: []string{"https://example.com/a"},
		},
		{
			name: "malformed body is discarded",
			body: `{"id":`,
		},
		{
			name: "missing url is discarded",
			body: `{"id":"p1"}`,
		},
		{
			name:       "unknown pending item is discarded",
			body:       `{"id":"p1","url":"https://example.com/a"}`,
			handlerErr: domain.ErrNotFound,
			wantURLs:   []string{"https://example.com/a"},
		},
		{
			name:       "handler failure is retried",
			body:       `{"id":"p1","url":"https://example.com/a"}`,
			handlerErr: errors.New("database is locked"),
			wantErr:    true,
			wantURLs:   []string{"https://example.com/a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &recordingHandler{err: tt.handlerErr}
			err := newTestConsumer(h).processMessage(context.Background(), []byte(tt.body))

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantURLs, h.urls)
		})
	}
}

func TestClose_Twice(t *testing.T) {
	c := newTestConsumer(&recordingHandler{})
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}
