// Package realtime listens for pending captures announced while the daemon
// is running.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"memex/internal/domain"
)

type PendingHandler interface {
	ProcessPendingItemByURL(ctx context.Context, url string) error
}

type Config struct {
	URL        string
	Exchange   string
	RoutingKey string
	QueueName  string
}

type Consumer struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	queue     string
	handler   PendingHandler
	logger    *slog.Logger
	mu        sync.Mutex
	running   bool
	closeChan chan struct{}
}

func NewConsumer(cfg Config, handler PendingHandler, logger *slog.Logger) (*Consumer, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	cleanup := func() {
		_ = ch.Close()
		_ = conn.Close()
	}

	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		cleanup()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(cfg.QueueName, true, false, false, false, nil); err != nil {
		cleanup()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(cfg.QueueName, cfg.RoutingKey, cfg.Exchange, false, nil); err != nil {
		cleanup()
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	logger = logger.With("component", "realtime")
	logger.Info("rabbitmq consumer connected",
		"queue", cfg.QueueName,
		"exchange", cfg.Exchange,
		"routing_key", cfg.RoutingKey,
	)

	return newConsumer(conn, ch, cfg.QueueName, handler, logger), nil
}

func newConsumer(conn *amqp.Connection, ch *amqp.Channel, queue string, handler PendingHandler, logger *slog.Logger) *Consumer {
	return &Consumer{
		conn:      conn,
		channel:   ch,
		queue:     queue,
		handler:   handler,
		logger:    logger,
		closeChan: make(chan struct{}),
	}
}

// Start consumes notifications one at a time until ctx is done or Close is
// called.
func (c *Consumer) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return errors.New("consumer already running")
	}
	c.running = true
	c.mu.Unlock()

	if err := c.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	msgs, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	c.logger.Info("started consuming pending notifications", "queue", c.queue)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.closeChan:
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return errors.New("message channel closed unexpectedly")
			}
			c.handle(ctx, msg)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg amqp.Delivery) {
	if err := c.processMessage(ctx, msg.Body); err != nil {
		// One redelivery, then the startup pass picks the record up.
		requeue := !msg.Redelivered
		c.logger.Error("failed to process pending notification",
			"routing_key", msg.RoutingKey,
			"requeue", requeue,
			"error", err,
		)
		if nackErr := msg.Nack(false, requeue); nackErr != nil {
			c.logger.Error("failed to nack message", "error", nackErr)
		}
		return
	}
	if ackErr := msg.Ack(false); ackErr != nil {
		c.logger.Error("failed to ack message", "error", ackErr)
	}
}

// processMessage returns an error only for failures worth a retry.
func (c *Consumer) processMessage(ctx context.Context, body []byte) error {
	var n domain.PendingNotification
	if err := json.Unmarshal(body, &n); err != nil {
		c.logger.Warn("discarding malformed notification", "error", err)
		return nil
	}
	url := strings.TrimSpace(n.URL)
	if url == "" {
		c.logger.Warn("discarding notification without url", "pending_id", n.ID)
		return nil
	}

	err := c.handler.ProcessPendingItemByURL(ctx, url)
	if errors.Is(err, domain.ErrNotFound) {
		c.logger.Warn("pending item not found", "pending_id", n.ID, "url", url)
		return nil
	}
	if err != nil {
		return fmt.Errorf("process pending item %s: %w", n.ID, err)
	}
	c.logger.Debug("pending notification processed", "pending_id", n.ID, "url", url)
	return nil
}

func (c *Consumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.closeChan:
		return nil
	default:
		close(c.closeChan)
	}
	c.running = false

	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.logger.Warn("error closing channel", "error", err)
		}
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
