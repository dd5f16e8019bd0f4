package usecase

import (
	"context"
	"fmt"
	"time"

	"WaveScan/internal/domain/models"
	domrepo "WaveScan/internal/domain/repository"
)

// CandleFetcher pulls OHLCV history from the market data provider.
type CandleFetcher interface {
	Candles(ctx context.Context, symbol string, tf domrepo.Timeframe, from, to time.Time) ([]models.Bar, error)
}

// BackfillUseCase seeds the bar tables from the provider's REST API so
// scans have a full window on a cold start.
type BackfillUseCase struct {
	fetcher CandleFetcher
	sink    domrepo.BarSink
	metrics domrepo.Metrics
	window  int
}

func NewBackfillUseCase(fetcher CandleFetcher, sink domrepo.BarSink, metrics domrepo.Metrics, window int) *BackfillUseCase {
	if window <= 0 {
		window = 300
	}
	return &BackfillUseCase{fetcher: fetcher, sink: sink, metrics: metrics, window: window}
}

// Run backfills every (symbol, timeframe) pair. Individual failures are
// collected so one bad symbol does not strand the rest of the universe.
func (uc *BackfillUseCase) Run(ctx context.Context, symbols []string, timeframes []domrepo.Timeframe) map[string]error {
	start := time.Now()
	failures := map[string]error{}

	for _, tf := range timeframes {
		depth := time.Duration(uc.window) * tf.Duration()
		to := time.Now().UTC()
		from := to.Add(-depth)

		for _, symbol := range symbols {
			if err := ctx.Err(); err != nil {
				failures["_canceled"] = err
				return failures
			}
			bars, err := uc.fetcher.Candles(ctx, symbol, tf, from, to)
			if err != nil {
				uc.metrics.RecordError("backfill_fetch")
				failures[fmt.Sprintf("%s/%s", symbol, tf)] = err
				continue
			}
			if len(bars) == 0 {
				continue
			}
			if err := uc.sink.InsertBars(ctx, symbol, tf, bars); err != nil {
				uc.metrics.RecordError("backfill_insert")
				failures[fmt.Sprintf("%s/%s", symbol, tf)] = err
			}
		}
	}

	uc.metrics.RecordLatency("backfill", time.Since(start).Seconds())
	if len(failures) == 0 {
		return nil
	}
	return failures
}
