package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"WaveScan/internal/domain/models"
	domrepo "WaveScan/internal/domain/repository"
)

// ScanUseCase sweeps the configured symbol universe on one timeframe
// and keeps the signals that clear the score floor.
type ScanUseCase struct {
	analyze *AnalyzeUseCase
	metrics domrepo.Metrics
	symbols []string
	workers int
	window  int
	timeout time.Duration
}

func NewScanUseCase(analyze *AnalyzeUseCase, metrics domrepo.Metrics, symbols []string, workers, window int) *ScanUseCase {
	if workers <= 0 {
		workers = 4
	}
	if window <= 0 {
		window = 300
	}
	return &ScanUseCase{
		analyze: analyze,
		metrics: metrics,
		symbols: symbols,
		workers: workers,
		window:  window,
		timeout: 30 * time.Second,
	}
}

type scanItem struct {
	symbol string
	signal models.Signal
	err    error
}

// Scan fans the symbol universe out over a bounded worker pool. A
// failed symbol lands in the error map; it never cancels the sweep.
func (uc *ScanUseCase) Scan(ctx context.Context, tf domrepo.Timeframe, minScore int) (*models.ScanResult, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	start := time.Now()
	jobs := make(chan string)
	items := make(chan scanItem, len(uc.symbols))
	var wg sync.WaitGroup

	for w := 0; w < uc.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range jobs {
				sig, err := uc.analyze.Signal(ctx, symbol, tf, uc.window)
				if err != nil {
					items <- scanItem{symbol: symbol, err: err}
					continue
				}
				items <- scanItem{symbol: symbol, signal: *sig}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, symbol := range uc.symbols {
			select {
			case <-ctx.Done():
				return
			case jobs <- symbol:
			}
		}
	}()

	go func() { wg.Wait(); close(items) }()

	res := &models.ScanResult{
		Timeframe:   string(tf),
		MinScore:    minScore,
		GeneratedAt: time.Now().UTC(),
		Errors:      map[string]string{},
	}
	for it := range items {
		if it.err != nil {
			uc.metrics.RecordError("scan_symbol")
			res.Errors[it.symbol] = it.err.Error()
			continue
		}
		uc.metrics.RecordLastScore(it.symbol, float64(it.signal.Score))
		if it.signal.Direction == models.SignalNone || it.signal.Score < minScore {
			continue
		}
		res.Signals = append(res.Signals, it.signal)
	}

	sort.Slice(res.Signals, func(i, j int) bool {
		if res.Signals[i].Score != res.Signals[j].Score {
			return res.Signals[i].Score > res.Signals[j].Score
		}
		return res.Signals[i].Symbol < res.Signals[j].Symbol
	})
	if len(res.Errors) == 0 {
		res.Errors = nil
	}
	uc.metrics.RecordLatency("scan", time.Since(start).Seconds())
	return res, nil
}

// Symbols returns the configured universe.
func (uc *ScanUseCase) Symbols() []string { return uc.symbols }
