package syncer

import (
	"context"
	"net/http"
	"time"
)

// HTTPChecker treats any HTTP answer below 500 from the probe URL as online.
type HTTPChecker struct {
	client *http.Client
	url    string
}

func NewHTTPChecker(url string, timeout time.Duration) *HTTPChecker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPChecker{
		client: &http.Client{Timeout: timeout},
		url:    url,
	}
}

func (c *HTTPChecker) Check(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.url, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", "memex/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < http.StatusInternalServerError
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingChecker treats a successful database ping as online.
type PingChecker struct {
	db      Pinger
	timeout time.Duration
}

func NewPingChecker(db Pinger, timeout time.Duration) *PingChecker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &PingChecker{db: db, timeout: timeout}
}

func (c *PingChecker) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.db.PingContext(ctx) == nil
}
