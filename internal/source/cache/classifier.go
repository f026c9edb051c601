// Package cache keeps assistant classification results in Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"memex/internal/domain"
)

const keyPrefix = "memex:classify:"

type Classifier interface {
	Classify(ctx context.Context, url string) (domain.ContentType, error)
}

// Store is the subset of *redis.Client the cache needs.
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// NewRedis returns a connected Redis client.
func NewRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// CachedClassifier answers from Redis before asking the wrapped classifier.
// Cache failures fall through to the classifier.
type CachedClassifier struct {
	next   Classifier
	store  Store
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedClassifier(next Classifier, store Store, ttl time.Duration, logger *slog.Logger) *CachedClassifier {
	if ttl == 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &CachedClassifier{
		next:   next,
		store:  store,
		ttl:    ttl,
		logger: logger.With("component", "classifier_cache"),
	}
}

func (c *CachedClassifier) Classify(ctx context.Context, url string) (domain.ContentType, error) {
	key := keyPrefix + strings.ToLower(strings.TrimSpace(url))

	cached, err := c.store.Get(ctx, key).Result()
	switch {
	case err == nil:
		if ct, perr := domain.ParseContentType(cached); perr == nil {
			return ct, nil
		}
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("cache read failed", "error", err)
	}

	ct, err := c.next.Classify(ctx, url)
	if err != nil {
		return "", err
	}

	if err := c.store.Set(ctx, key, string(ct), c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", "error", err)
	}
	return ct, nil
}
