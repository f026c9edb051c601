package syncer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHTTPChecker(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{name: "ok", status: http.StatusOK, want: true},
		{name: "method not allowed still reachable", status: http.StatusMethodNotAllowed, want: true},
		{name: "server error", status: http.StatusBadGateway, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodHead, r.Method)
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			assert.Equal(t, tt.want, NewHTTPChecker(srv.URL, time.Second).Check(context.Background()))
		})
	}
}

func TestHTTPCheckerUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	assert.False(t, NewHTTPChecker(url, time.Second).Check(context.Background()))
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestPingChecker(t *testing.T) {
	ok := NewPingChecker(pingFunc(func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return nil
	}), time.Second)
	assert.True(t, ok.Check(context.Background()))

	down := NewPingChecker(pingFunc(func(context.Context) error {
		return errors.New("connection refused")
	}), 0)
	assert.False(t, down.Check(context.Background()))
}
