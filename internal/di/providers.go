package di

import (
	"context"
	"fmt"
	"time"

	domrepo "RatePull/internal/domain/repository"
	domservice "RatePull/internal/domain/service"
	"RatePull/internal/handler/api"
	internalrepo "RatePull/internal/repository"
	"RatePull/internal/service/finnhub"
	"RatePull/internal/service/fmp"
	svcmetrics "RatePull/internal/service/metrics"
	"RatePull/internal/service/openai"
	"RatePull/internal/service/pricebook"
	"RatePull/internal/service/ratelimit"
	"RatePull/internal/usecase"
	"RatePull/pkg/cache"
	pkgch "RatePull/pkg/clickhouse"
	"RatePull/pkg/config"
	pkghttp "RatePull/pkg/http"
	pkgkafka "RatePull/pkg/kafka"
	applogger "RatePull/pkg/logger"
	"RatePull/pkg/metrics"
	"RatePull/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	svcmetrics.Register()
	return metrics.New()
}

// ProvideCache creates the Redis-backed cache service.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	c, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPool(cfg.Redis.PoolSize, cfg.Redis.MinIdleConns, 5*time.Second),
		cache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return c, nil
}

// ProvideRatingStore creates the cache-backed rating store.
func ProvideRatingStore(c cache.Service) domrepo.RatingStore {
	return internalrepo.NewCacheRatingStore(c)
}

// ProvideFMPClient creates the Financial Modeling Prep client.
func ProvideFMPClient(cfg *config.Config, l *applogger.Logger) *fmp.Client {
	return fmp.NewClient(cfg.FMP.APIKey,
		fmp.WithBaseURL(cfg.FMP.BaseURL),
		fmp.WithHTTPClient(pkghttp.NewClient(pkghttp.WithTimeout(cfg.FMP.Timeout))),
		fmp.WithLogger(l),
	)
}

// ProvideSnapshotSources creates the upstream sources consulted per symbol.
func ProvideSnapshotSources(client *fmp.Client, cfg *config.Config) []domrepo.SnapshotSource {
	return []domrepo.SnapshotSource{
		fmp.NewQuoteSource(client),
		fmp.NewOutlookSource(client),
		fmp.NewESGSource(client),
		fmp.NewTechnicalSource(client, cfg.Pipeline.TechnicalDays, cfg.Pipeline.TechnicalPoints),
	}
}

// ProvideAggregator creates the parallel snapshot aggregator.
func ProvideAggregator(sources []domrepo.SnapshotSource, cfg *config.Config, l *applogger.Logger) *usecase.Aggregator {
	return usecase.NewAggregator(sources,
		usecase.WithSourceTimeout(cfg.Pipeline.SourceTimeout),
		usecase.WithAggregatorLogger(l),
	)
}

// ProvideCompleter creates the generative text completer.
func ProvideCompleter(cfg *config.Config, l *applogger.Logger) domservice.TextCompleter {
	return openai.NewClient(cfg.OpenAI.APIKey,
		openai.WithBaseURL(cfg.OpenAI.BaseURL),
		openai.WithModel(cfg.OpenAI.Model),
		openai.WithMaxAttempts(cfg.OpenAI.MaxAttempts),
		openai.WithBackoffBase(cfg.OpenAI.BackoffBase),
		openai.WithMaxTokens(cfg.OpenAI.MaxTokens),
		openai.WithTemperature(cfg.OpenAI.Temperature),
		openai.WithHTTPClient(pkghttp.NewClient(pkghttp.WithTimeout(cfg.OpenAI.Timeout))),
		openai.WithLogger(l),
	)
}

// ProvideClickHouseClient creates a ClickHouse client when the backend
// needs one; returns nil otherwise.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.Backend.Type != "clickhouse" && cfg.Backend.Type != "both" {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", cfg.ClickHouse.Database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.rating_runs (
			ts DateTime,
			symbol String,
			variant String,
			rating String,
			target_price Float64,
			confidence Float64,
			current_price Float64
		) ENGINE=MergeTree ORDER BY (symbol, ts)`, cfg.ClickHouse.Database),
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer when the backend needs one.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if cfg.Backend.Type != "kafka" && cfg.Backend.Type != "both" {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.ReadTimeout),
		pkgkafka.WithAsync(cfg.Kafka.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideEventPublisher creates the Kafka-backed event publisher, nil when
// Kafka is not in play.
func ProvideEventPublisher(producer *pkgkafka.Producer, cfg *config.Config) domrepo.EventPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaEventPublisher(producer, cfg.Kafka.Topic)
}

// ProvideHistoryStore creates the ClickHouse-backed history store, nil when
// ClickHouse is not in play.
func ProvideHistoryStore(chClient *pkgch.Client) domrepo.HistoryStore {
	if chClient == nil {
		return nil
	}
	return internalrepo.NewCHHistoryStore(chClient, "rating_runs")
}

// ProvideRecorder creates the backend recorder routing rating events.
func ProvideRecorder(
	pub domrepo.EventPublisher,
	store domrepo.HistoryStore,
	m domrepo.Metrics,
	cfg *config.Config,
	l *applogger.Logger,
) *usecase.BackendRecorder {
	return usecase.NewBackendRecorder(pub, store, m, cfg.Backend.Type, l)
}

// ProvidePriceBook creates the live price book.
func ProvidePriceBook(cfg *config.Config) *pricebook.Book {
	return pricebook.New(cfg.Finnhub.PriceTTL)
}

// ProvidePriceCollector creates the live price collector, nil when the
// market stream is disabled.
func ProvidePriceCollector(
	cfg *config.Config,
	book *pricebook.Book,
	m domrepo.Metrics,
	l *applogger.Logger,
) *usecase.PriceCollector {
	if !cfg.Finnhub.Enabled {
		return nil
	}
	stream := finnhub.New(cfg.Finnhub.APIKey, cfg.Finnhub.WebSocketURL,
		finnhub.WithReconnectDelay(cfg.Finnhub.ReconnectDelay),
		finnhub.WithPingInterval(cfg.Finnhub.PingInterval),
		finnhub.WithLogger(l),
	)
	return usecase.NewPriceCollector(stream, book, cfg.Finnhub.Symbols, m, l)
}

// ProvidePipeline creates the rating pipeline.
func ProvidePipeline(
	store domrepo.RatingStore,
	agg *usecase.Aggregator,
	completer domservice.TextCompleter,
	book *pricebook.Book,
	recorder *usecase.BackendRecorder,
	m domrepo.Metrics,
	cfg *config.Config,
	l *applogger.Logger,
) *usecase.RatingPipeline {
	return usecase.NewRatingPipeline(store, agg, completer,
		usecase.WithCacheTTL(cfg.Pipeline.CacheTTL),
		usecase.WithRequestTimeout(cfg.Pipeline.RequestTimeout),
		usecase.WithPriceSource(book),
		usecase.WithRecorder(recorder),
		usecase.WithPipelineMetrics(m),
		usecase.WithPipelineLogger(l),
	)
}

// ProvideHandler creates the API handler.
func ProvideHandler(l *applogger.Logger, pipeline *usecase.RatingPipeline) *api.RatingEchoHandler {
	return api.NewRatingEchoHandler(l, pipeline, ratelimit.New())
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	handler *api.RatingEchoHandler,
	collector *usecase.PriceCollector,
	cacheSvc cache.Service,
	producer *pkgkafka.Producer,
	chClient *pkgch.Client,
	l *applogger.Logger,
) *server.App {
	return server.New(cfg, handler, collector, cacheSvc, producer, chClient, l)
}
