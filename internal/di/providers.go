package di

import (
	"context"
	"fmt"
	"time"

	"ShowPulse/internal/domain/repository"
	internalrepo "ShowPulse/internal/repository"
	"ShowPulse/internal/service/cache"
	"ShowPulse/internal/service/gnews"
	"ShowPulse/internal/service/kalshi"
	"ShowPulse/internal/service/ratelimit"
	"ShowPulse/internal/service/tmdb"
	"ShowPulse/internal/service/wikipedia"
	"ShowPulse/internal/service/youtube"
	"ShowPulse/internal/usecase"
	pkgch "ShowPulse/pkg/clickhouse"
	"ShowPulse/pkg/config"
	pkgkafka "ShowPulse/pkg/kafka"
	"ShowPulse/pkg/logger"
	"ShowPulse/pkg/metrics"
	"ShowPulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	level := "info"
	format := "json"
	if cfg.Environment == "development" {
		level = "debug"
		format = "console"
	}
	return logger.New(&logger.Config{Level: level, Format: format, Output: "stdout"})
}

// ProvideMetrics creates a Prometheus metrics recorder. Snapshot age is
// computed at scrape time from the store's published timestamp.
func ProvideMetrics(store *usecase.SnapshotStore) repository.Metrics {
	r := metrics.New()
	r.WatchSnapshotAge(func() (time.Time, bool) {
		snap := store.Latest()
		if snap == nil {
			return time.Time{}, false
		}
		return snap.Timestamp, true
	})
	return r
}

// ProvideQuoteSource creates the Kalshi market client, signed when
// credentials are configured.
func ProvideQuoteSource(cfg *config.Config, log *logger.Logger) (repository.QuoteSource, error) {
	var creds *kalshi.Credentials
	if cfg.Kalshi.APIKeyID != "" {
		var err error
		creds, err = kalshi.LoadCredentials(cfg.Kalshi.APIKeyID, cfg.Kalshi.PrivateKeyPath)
		if err != nil {
			return nil, fmt.Errorf("kalshi credentials: %w", err)
		}
	}
	return kalshi.New(cfg.Kalshi.BaseURL, cfg.Kalshi.EventTicker, creds, cfg.Kalshi.Timeout, log), nil
}

// ProvideProviders builds every configured metric provider, each wrapped in
// the shared cache when caching is on. A provider without an API key is left
// out rather than failing startup.
func ProvideProviders(cfg *config.Config, log *logger.Logger) []repository.MetricProvider {
	timeout := cfg.Providers.Timeout

	var providers []repository.MetricProvider
	if cfg.Providers.TMDB.APIKey != "" {
		providers = append(providers, tmdb.New(cfg.Providers.TMDB.BaseURL, cfg.Providers.TMDB.APIKey, timeout, log))
	}
	if cfg.Providers.YouTube.APIKey != "" {
		providers = append(providers, youtube.New(
			cfg.Providers.YouTube.BaseURL, cfg.Providers.YouTube.APIKey,
			cfg.Providers.YouTube.MaxVideos, cfg.Providers.YouTube.MaxComments,
			timeout, log))
	}
	if cfg.Providers.Wikipedia.BaseURL != "" {
		providers = append(providers, wikipedia.New(
			cfg.Providers.Wikipedia.BaseURL, cfg.Providers.Wikipedia.UserAgent,
			cfg.Providers.Wikipedia.WindowDays, timeout, log))
	}
	if cfg.Providers.News.APIKey != "" {
		providers = append(providers, gnews.New(
			cfg.Providers.News.BaseURL, cfg.Providers.News.APIKey,
			cfg.Providers.News.MaxArticles, cfg.Providers.News.Language,
			timeout, log))
	}

	if !cfg.Cache.Enabled {
		return providers
	}

	var store cache.BytesCache
	if cfg.Cache.Redis.Enabled {
		store = cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	} else {
		store = cache.NewTTLCache()
	}

	cached := make([]repository.MetricProvider, len(providers))
	for i, p := range providers {
		cached[i] = cache.NewCachedProvider(p, store, cfg.Cache.TTL)
	}
	return cached
}

// ProvideOrchestrator creates the provider fan-out.
func ProvideOrchestrator(
	providers []repository.MetricProvider,
	m repository.Metrics,
	cfg *config.Config,
	log *logger.Logger,
) *usecase.Orchestrator {
	return usecase.NewOrchestrator(
		providers,
		ratelimit.New(),
		m,
		log,
		cfg.Providers.Timeout,
		cfg.Providers.MaxInflight,
		cfg.Providers.RateCap,
		cfg.Providers.RateRefill,
	)
}

// ProvideScorer creates the composite scorer from configured weights.
func ProvideScorer(cfg *config.Config) *usecase.Scorer {
	return usecase.NewScorer(usecase.ScoringConfig{
		MarketWeight:     cfg.Scoring.MarketWeight,
		VideoWeight:      cfg.Scoring.VideoWeight,
		NewsWeight:       cfg.Scoring.NewsWeight,
		PopularityWeight: cfg.Scoring.PopularityWeight,
		SearchWeight:     cfg.Scoring.SearchWeight,
		HoldThreshold:    cfg.Scoring.HoldThreshold,
		Renormalize:      cfg.Scoring.Renormalize,
	})
}

// ProvideSnapshotStore creates the in-memory snapshot store.
func ProvideSnapshotStore() *usecase.SnapshotStore {
	return usecase.NewSnapshotStore()
}

// ProvideSnapshotArchive creates the ClickHouse archive and its schema.
// Returns nil when ClickHouse is disabled.
func ProvideSnapshotArchive(cfg *config.Config) (repository.SnapshotArchive, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	archive := internalrepo.NewClickHouseArchive(client)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := archive.Init(ctx); err != nil {
		_ = archive.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return archive, nil
}

// ProvideSnapshotPublisher creates the Kafka snapshot publisher. Returns nil
// when Kafka is disabled.
func ProvideSnapshotPublisher(cfg *config.Config) (repository.SnapshotPublisher, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaSnapshotPublisher(producer, cfg.Kafka.SnapshotTopic), nil
}

// ProvideRebuilder wires the full rebuild pipeline.
func ProvideRebuilder(
	quotes repository.QuoteSource,
	orch *usecase.Orchestrator,
	scorer *usecase.Scorer,
	store *usecase.SnapshotStore,
	archive repository.SnapshotArchive,
	publisher repository.SnapshotPublisher,
	m repository.Metrics,
	cfg *config.Config,
	log *logger.Logger,
) *usecase.Rebuilder {
	return usecase.NewRebuilder(
		quotes, orch, scorer, store, archive, publisher, m, log,
		cfg.Kalshi.TopMarkets, cfg.Analysis.RebuildTimeout,
	)
}

// ProvideKafkaConsumer creates the refresh-topic consumer. Returns nil when
// Kafka or the refresh topic is not configured.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled || cfg.Kafka.RefreshTopic == "" {
		return nil, nil
	}

	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideRefreshHandler registers the rebuild trigger for the refresh topic.
func ProvideRefreshHandler(rebuilder *usecase.Rebuilder, cfg *config.Config, log *logger.Logger) *usecase.RefreshHandler {
	return usecase.NewRefreshHandler(cfg.Kafka.RefreshTopic, rebuilder, log)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	rebuilder *usecase.Rebuilder,
	store *usecase.SnapshotStore,
	quotes repository.QuoteSource,
	archive repository.SnapshotArchive,
	publisher repository.SnapshotPublisher,
	consumer *pkgkafka.Consumer,
	refresh *usecase.RefreshHandler,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.LoggingHook{Log: log})
	}
	return server.New(cfg, log, rebuilder, store, quotes, archive, publisher, consumer, refresh)
}
