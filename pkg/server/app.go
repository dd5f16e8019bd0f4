package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"WaveScan/internal/domain/models"
	domrepo "WaveScan/internal/domain/repository"
	"WaveScan/internal/usecase"
	pkgch "WaveScan/pkg/clickhouse"
	"WaveScan/pkg/config"
	xhttp "WaveScan/pkg/http"
	pkgkafka "WaveScan/pkg/kafka"
	applogger "WaveScan/pkg/logger"
	pkgqueue "WaveScan/pkg/queue"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg       *config.Config
	log       *applogger.Logger
	collector *usecase.TickCollector
	consumer  *pkgkafka.Consumer
	kh        pkgkafka.MessageHandler
	chClient  *pkgch.Client
	queue     *pkgqueue.RedisQueue
	scan      *usecase.ScanUseCase
	processor *usecase.SignalProcessor
	backfill  *usecase.BackfillUseCase

	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	collector *usecase.TickCollector,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	chClient *pkgch.Client,
	queue *pkgqueue.RedisQueue,
	scan *usecase.ScanUseCase,
	processor *usecase.SignalProcessor,
	backfill *usecase.BackfillUseCase,
	handler xhttp.Handler,
) *App {
	return &App{
		cfg:         cfg,
		log:         log,
		collector:   collector,
		consumer:    consumer,
		kh:          kh,
		chClient:    chClient,
		queue:       queue,
		scan:        scan,
		processor:   processor,
		backfill:    backfill,
		httpHandler: handler,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Live feed: only when a websocket endpoint is configured.
	if a.cfg.MarketData.WebSocketURL != "" {
		go func() {
			if err := a.collector.Start(ctx); err != nil {
				a.log.Error("collector error", applogger.Error(err))
			}
		}()
		a.log.Info("collector started", applogger.Strings("symbols", a.cfg.MarketData.Symbols))
	}

	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				a.log.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		a.log.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	if a.queue != nil {
		if err := a.queue.Start(); err != nil {
			a.log.Error("rescan queue start error", applogger.Error(err))
		} else {
			a.log.Info("rescan queue started")
		}
	}

	go func() {
		a.runBackfill(ctx)
		a.scanLoop(ctx)
	}()

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// runBackfill seeds bar history once on startup so the first scan has
// full windows.
func (a *App) runBackfill(ctx context.Context) {
	if a.backfill == nil {
		return
	}
	tfs := make([]domrepo.Timeframe, 0, len(a.cfg.Scan.Timeframes))
	for _, raw := range a.cfg.Scan.Timeframes {
		tfs = append(tfs, domrepo.NormalizeTimeframe(raw))
	}
	if failures := a.backfill.Run(ctx, a.cfg.Scan.Symbols, tfs); failures != nil {
		for key, err := range failures {
			a.log.Warn("backfill error", applogger.String("pair", key), applogger.Error(err))
		}
	} else {
		a.log.Info("backfill complete",
			applogger.Int("symbols", len(a.cfg.Scan.Symbols)),
			applogger.Int("timeframes", len(tfs)))
	}
}

// scanLoop re-scores the whole watchlist on a fixed cadence and stores
// and publishes anything above the configured score floor.
func (a *App) scanLoop(ctx context.Context) {
	interval := a.cfg.Scan.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.runScans(ctx)
		}
	}
}

func (a *App) runScans(ctx context.Context) {
	for _, raw := range a.cfg.Scan.Timeframes {
		tf := domrepo.NormalizeTimeframe(raw)

		res, err := a.scan.Scan(ctx, tf, a.cfg.Scan.MinScore)
		if err != nil {
			a.log.Error("scan error", applogger.String("tf", string(tf)), applogger.Error(err))
			continue
		}
		for symbol, msg := range res.Errors {
			a.log.Warn("scan symbol error",
				applogger.String("symbol", symbol),
				applogger.String("tf", string(tf)),
				applogger.String("error", msg))
		}
		if len(res.Signals) == 0 {
			continue
		}

		signals := make([]*models.Signal, len(res.Signals))
		for i := range res.Signals {
			signals[i] = &res.Signals[i]
		}
		if err := a.processor.ProcessBatch(ctx, signals); err != nil {
			a.log.Error("signal batch error", applogger.Error(err))
			continue
		}
		a.log.Info("scan complete",
			applogger.String("tf", string(tf)),
			applogger.Int("signals", len(signals)))
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	if a.cfg.MarketData.WebSocketURL != "" {
		if err := a.collector.Shutdown(ctx); err != nil {
			a.log.Warn("collector stop error", applogger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.queue != nil {
		if err := a.queue.Stop(shutdownCtx); err != nil {
			a.log.Warn("rescan queue stop error", applogger.Error(err))
		}
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Flushes the producer and closes the signal store.
	if a.processor != nil {
		a.processor.Close()
	}

	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
