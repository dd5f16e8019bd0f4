package di

import (
	"context"
	"fmt"
	"time"

	"WaveScan/internal/domain/models"
	"WaveScan/internal/domain/repository"
	domsvc "WaveScan/internal/domain/service"
	"WaveScan/internal/handler/api"
	mid "WaveScan/internal/middleware"
	internalrepo "WaveScan/internal/repository"
	"WaveScan/internal/service/marketdata"
	"WaveScan/internal/services/analyzer"
	"WaveScan/internal/usecase"
	"WaveScan/pkg/cache"
	pkgch "WaveScan/pkg/clickhouse"
	"WaveScan/pkg/config"
	xhttp "WaveScan/pkg/http"
	pkgkafka "WaveScan/pkg/kafka"
	applogger "WaveScan/pkg/logger"
	"WaveScan/pkg/metrics"
	pkgqueue "WaveScan/pkg/queue"
	"WaveScan/pkg/server"
)

// ProvideLogger builds the shared structured logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	format := "json"
	if cfg.Environment == "development" {
		level = "debug"
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: level, Format: format, Output: "stdout"})
}

// ProvideClickHouseClient creates a ClickHouse client and the bar tables.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stmts := []string{"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database}
	for _, table := range []string{"bars_m5", "bars_m15", "bars_h1", "bars_h4", "bars_d1"} {
		stmts = append(stmts, fmt.Sprintf(
			"CREATE TABLE IF NOT EXISTS %s.%s (symbol String, ts DateTime, open Float64, high Float64, low Float64, close Float64, volume Float64) ENGINE=MergeTree ORDER BY (symbol, ts)",
			cfg.ClickHouse.Database, table))
	}
	if err := client.InitSchema(ctx, stmts); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCHBarStore creates the ClickHouse bar repository.
func ProvideCHBarStore(chClient *pkgch.Client, l *applogger.Logger) *internalrepo.CHBarStore {
	store := internalrepo.NewCHBarStore(chClient)
	store.SetLogger(l)
	return store
}

// ProvideBarStore exposes the read side of the bar repository.
func ProvideBarStore(store *internalrepo.CHBarStore) repository.BarSource {
	return store
}

// ProvideBarSink exposes the ingest side of the bar repository.
func ProvideBarSink(store *internalrepo.CHBarStore) repository.BarSink {
	return store
}

// ProvideSignalStore creates the ClickHouse signal repository and its schema.
func ProvideSignalStore(chClient *pkgch.Client) (repository.SignalStore, error) {
	store := internalrepo.NewCHSignalStore(chClient.DB())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("signals schema: %w", err)
	}
	return store, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideSignalPublisher creates the Kafka signal publisher.
func ProvideSignalPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.SignalPublisher {
	return internalrepo.NewKafkaSignalPublisher(producer, cfg.Kafka.SignalsTopic)
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideKafkaSignalsHandler registers the handler for the signals topic.
func ProvideKafkaSignalsHandler(store repository.SignalStore, m repository.Metrics, cfg *config.Config) *usecase.KafkaSignalsHandler {
	return usecase.NewKafkaSignalsHandler(cfg.Kafka.SignalsTopic, store, m)
}

// ProvideAnalyzer creates the market-structure analyzer.
func ProvideAnalyzer(cfg *config.Config) (domsvc.Analyzer, error) {
	svc, err := analyzer.New(cfg.AnalysisConfig())
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// ProvideAnalyzeUseCase creates the single-symbol analysis use case.
func ProvideAnalyzeUseCase(bars repository.BarSource, a domsvc.Analyzer) *usecase.AnalyzeUseCase {
	return usecase.NewAnalyzeUseCase(bars, a)
}

// ProvideScanUseCase creates the watchlist scan use case.
func ProvideScanUseCase(analyze *usecase.AnalyzeUseCase, m repository.Metrics, cfg *config.Config) *usecase.ScanUseCase {
	return usecase.NewScanUseCase(analyze, m, cfg.Scan.Symbols, cfg.Scan.Workers, cfg.Scan.WindowSize)
}

// ProvideBarsUseCase creates the bar history use case.
func ProvideBarsUseCase(bars repository.BarSource) *usecase.BarsUseCase {
	return usecase.NewBarsUseCase(bars)
}

// ProvideSignalProcessor creates the store-and-publish processor.
func ProvideSignalProcessor(store repository.SignalStore, pub repository.SignalPublisher, m repository.Metrics) *usecase.SignalProcessor {
	return usecase.NewSignalProcessor(store, pub, m)
}

// ProvideTickStream creates the market data WebSocket stream. Symbols
// default to the scan watchlist when the feed has no override.
func ProvideTickStream(cfg *config.Config, l *applogger.Logger) repository.TickStream {
	symbols := cfg.MarketData.Symbols
	if len(symbols) == 0 {
		symbols = cfg.Scan.Symbols
	}
	return marketdata.New(
		cfg.MarketData.APIKey,
		cfg.MarketData.WebSocketURL,
		symbols,
		cfg.MarketData.ReconnectDelay,
		cfg.MarketData.PingInterval,
		l,
	)
}

// ProvideRedisHandle connects to Redis. Nil when Redis is disabled.
func ProvideRedisHandle(cfg *config.Config) (*cache.RedisCache, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisAddr(cfg.Redis.Addr),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return rc, nil
}

// ProvideCacheService wires the response cache. With Redis available it
// is the layered Redis+memory cache, otherwise in-process only.
func ProvideCacheService(rc *cache.RedisCache) cache.Service {
	if rc == nil {
		return cache.NewMemoryCache()
	}
	return cache.NewLayeredCache(rc, 1024)
}

// ProvideRescanJob creates the queue job that re-analyzes one symbol.
func ProvideRescanJob(analyze *usecase.AnalyzeUseCase, proc *usecase.SignalProcessor, m repository.Metrics, cfg *config.Config) *usecase.RescanJob {
	return usecase.NewRescanJob(analyze, proc, m, cfg.Scan.WindowSize, cfg.Scan.MinScore)
}

// ProvideRescanQueue creates the Redis-backed rescan queue. Nil when
// Redis is disabled; tick-driven rescans are then off.
func ProvideRescanQueue(cfg *config.Config, l *applogger.Logger, rc *cache.RedisCache, job *usecase.RescanJob) *pkgqueue.RedisQueue {
	if rc == nil {
		return nil
	}
	qcfg := &pkgqueue.QueueConfig{
		Workers:    2,
		QueueSize:  1024,
		RetryLimit: 3,
		RetryDelay: 5 * time.Second,
	}
	return pkgqueue.NewRedisConsumer(l, qcfg, rc.Client(), []pkgqueue.Job{job})
}

// dropSink discards ticks when no rescan queue is configured.
type dropSink struct{}

func (dropSink) Process(ctx context.Context, _ *models.Tick) error { return nil }

// ProvideTickCollector builds the live feed path: stream, throttle,
// then debounced rescan jobs.
func ProvideTickCollector(stream repository.TickStream, m repository.Metrics, q *pkgqueue.RedisQueue, cfg *config.Config) *usecase.TickCollector {
	tf := repository.NormalizeTimeframe(cfg.Scan.Timeframes[0])
	var sink mid.Proc = dropSink{}
	if q != nil {
		sink = usecase.NewScanTrigger(q, tf)
	}
	pipe := mid.NewTickPipeline(sink, m,
		mid.WithMaxRPS(10),
		mid.WithBufferSize(2000),
	)
	return usecase.NewTickCollector(stream, m, pipe)
}

// ProvideBackfill creates the cold-start history loader. Nil when no
// REST endpoint is configured; scans then rely on externally loaded bars.
func ProvideBackfill(cfg *config.Config, l *applogger.Logger, sink repository.BarSink, m repository.Metrics) *usecase.BackfillUseCase {
	if cfg.MarketData.RestURL == "" {
		return nil
	}
	rest := marketdata.NewRestClient(cfg.MarketData.RestURL, cfg.MarketData.APIKey, l)
	return usecase.NewBackfillUseCase(rest, sink, m, cfg.Scan.WindowSize)
}

// ProvideHTTPHandler creates the Echo API handler.
func ProvideHTTPHandler(l *applogger.Logger, analyze *usecase.AnalyzeUseCase, scan *usecase.ScanUseCase, bars *usecase.BarsUseCase, c cache.Service, cfg *config.Config) xhttp.Handler {
	return api.NewAnalysisHandler(l, analyze, scan, bars,
		api.WithCache(c, cfg.Cache.AnalysisTTL, cfg.Cache.BarsTTL),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	collector *usecase.TickCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaSignalsHandler,
	chClient *pkgch.Client,
	q *pkgqueue.RedisQueue,
	scan *usecase.ScanUseCase,
	proc *usecase.SignalProcessor,
	backfill *usecase.BackfillUseCase,
	handler xhttp.Handler,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	return server.New(cfg, l, collector, consumer, kh, chClient, q, scan, proc, backfill, handler)
}
