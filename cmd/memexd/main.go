package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"memex/internal/config"
	"memex/internal/items"
	"memex/internal/pending"
	"memex/internal/pipeline"
	"memex/internal/publisher"
	"memex/internal/queue"
	"memex/internal/realtime"
	"memex/internal/scheduler"
	"memex/internal/source/assistant"
	"memex/internal/source/cache"
	"memex/internal/source/httpx"
	"memex/internal/source/oembed"
	"memex/internal/source/omdb"
	"memex/internal/source/opengraph"
	"memex/internal/source/reddit"
	"memex/internal/steps"
	"memex/internal/storage/postgres"
	"memex/internal/storage/sqlite"
	"memex/internal/syncer"
	"memex/internal/tasks"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := setupLogger("info")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	local, err := sqlite.Open(ctx, cfg.Local.Path)
	if err != nil {
		logger.Error("failed to open local database", "error", err)
		os.Exit(1)
	}
	defer local.Close()
	logger.Info("opened local database", "path", cfg.Local.Path)

	// The remote database may be unreachable at startup; the sync layer
	// queues mutations until it answers.
	remote, err := sqlx.Open("postgres", cfg.Remote.DSN())
	if err != nil {
		logger.Error("failed to configure remote database", "error", err)
		os.Exit(1)
	}
	defer remote.Close()

	txManager := postgres.NewTransactionManager(remote)
	tagStore := postgres.NewTagStore(remote)
	remoteItems := postgres.NewItemStore(remote, txManager, tagStore)
	remotePending := postgres.NewPendingStore(remote, cfg.UserID)

	var checker syncer.ConnectivityChecker = syncer.NewPingChecker(remote, cfg.Sync.ProbeTimeout)
	if cfg.Sync.ProbeURL != "" {
		checker = syncer.NewHTTPChecker(cfg.Sync.ProbeURL, cfg.Sync.ProbeTimeout)
	}

	syncService := syncer.NewService(
		remoteItems,
		sqlite.NewOfflineQueue(local),
		sqlite.NewSyncStatusStore(local),
		checker,
		syncer.Config{MaxAttempts: cfg.Sync.MaxAttempts},
		logger,
	)
	if err := syncService.Init(ctx); err != nil {
		logger.Error("failed to initialize sync", "error", err)
		os.Exit(1)
	}

	itemService := items.NewService(sqlite.NewItemStore(local), syncService, cfg.UserID, logger)

	taskScheduler := tasks.NewScheduler(tasks.Config{
		Workers:    cfg.Tasks.Workers,
		BufferSize: cfg.Tasks.BufferSize,
		MaxRetries: cfg.Tasks.MaxRetries,
		RetryDelay: cfg.Tasks.RetryDelay,
	}, logger)
	taskScheduler.Start(ctx)
	defer taskScheduler.Stop()

	httpClient := httpx.New(httpx.Config{
		Timeout:         cfg.Sources.Timeout,
		UserAgent:       cfg.Sources.UserAgent,
		MaxAttempts:     cfg.Sources.Retry.MaxAttempts,
		InitialBackoff:  cfg.Sources.Retry.InitialBackoff,
		MaxBackoff:      cfg.Sources.Retry.MaxBackoff,
		BreakerFailures: cfg.Sources.Breaker.Failures,
		BreakerTimeout:  cfg.Sources.Breaker.Timeout,
	}, logger)

	var (
		classifier  steps.Classifier
		transcriber steps.Transcriber
	)
	if cfg.Sources.AssistantBaseURL != "" {
		assistantClient := assistant.New(httpClient, cfg.Sources.AssistantBaseURL)
		classifier = assistantClient
		transcriber = assistantClient

		if cfg.Redis.Addr != "" {
			redisClient, err := cache.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
			if err != nil {
				logger.Warn("classifier cache disabled", "error", err)
			} else {
				defer redisClient.Close()
				classifier = cache.NewCachedClassifier(assistantClient, redisClient, cfg.Redis.TTL, logger)
			}
		}
	}

	scraper := opengraph.NewScraper(httpClient)
	runner := pipeline.NewRunner(steps.Default(steps.Deps{
		Store:                itemService,
		Classifier:           classifier,
		Scraper:              scraper,
		Embeds:               oembed.New(httpClient, cfg.Sources.OEmbedEndpoints),
		Reddit:               reddit.New(httpClient, cfg.Sources.RedditBaseURL),
		Catalog:              omdb.New(httpClient, cfg.Sources.OMDbBaseURL, cfg.Sources.OMDbAPIKey),
		Transcriber:          transcriber,
		Tasks:                taskScheduler,
		DefaultYouTubeSource: pipeline.YouTubeSource(cfg.Pipeline.DefaultYouTubeSource),
		TranscriptDelay:      cfg.Tasks.TranscriptDelay,
		Logger:               logger,
	}), cfg.Pipeline.StepTimeout, logger)

	var events queue.EventPublisher
	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.EventRoutingKey,
			QueueName:  cfg.RabbitMQ.EventQueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()
		events = rabbitMQ
	}

	processingQueue := queue.New(ctx, itemService, runner, events, logger)
	defer processingQueue.Clear()

	pendingProcessor := pending.NewProcessor(
		sqlite.NewPendingStore(local),
		remotePending,
		itemService,
		processingQueue,
		pending.Config{Concurrency: cfg.Pending.Concurrency},
		logger,
	)

	go func() {
		summary := pendingProcessor.ProcessPendingItems(ctx)
		logger.Info("startup pending processing finished",
			"completed", summary.Completed,
			"failed", summary.Failed,
			"skipped", summary.Skipped,
			"duration", summary.Duration,
		)
	}()

	if cfg.RabbitMQ.Enabled {
		consumer, err := realtime.NewConsumer(realtime.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.PendingRoutingKey,
			QueueName:  cfg.RabbitMQ.PendingQueueName,
		}, pendingProcessor, logger)
		if err != nil {
			logger.Error("failed to start pending consumer", "error", err)
			os.Exit(1)
		}
		defer consumer.Close()

		go func() {
			if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("pending consumer stopped", "error", err)
			}
		}()
	}

	probes := scheduler.NewScheduler(syncService, cfg.Sync.ProbeInterval, cfg.Sync.ProbeTimeout, logger)

	logger.Info("starting memex",
		"user_id", cfg.UserID,
		"steps", runner.Steps(),
		"probe_interval", cfg.Sync.ProbeInterval,
		"rabbitmq", cfg.RabbitMQ.Enabled,
	)

	if err := probes.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
