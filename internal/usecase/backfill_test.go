package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"WaveScan/internal/domain/models"
	domrepo "WaveScan/internal/domain/repository"
)

type fakeFetcher struct {
	bars map[string][]models.Bar
	err  map[string]error
}

func (f *fakeFetcher) Candles(ctx context.Context, symbol string, tf domrepo.Timeframe, from, to time.Time) ([]models.Bar, error) {
	if err := f.err[symbol]; err != nil {
		return nil, err
	}
	return f.bars[symbol], nil
}

type fakeBarSink struct {
	inserted map[string]int
}

func (f *fakeBarSink) InsertBars(ctx context.Context, symbol string, tf domrepo.Timeframe, bars []models.Bar) error {
	if f.inserted == nil {
		f.inserted = map[string]int{}
	}
	f.inserted[symbol+"/"+string(tf)] += len(bars)
	return nil
}

func TestBackfillSeedsAllPairs(t *testing.T) {
	fetcher := &fakeFetcher{bars: map[string][]models.Bar{
		"BTCUSDT": history(300),
		"ETHUSDT": history(120),
	}}
	sink := &fakeBarSink{}
	uc := NewBackfillUseCase(fetcher, sink, newFakeMetrics(), 300)

	failures := uc.Run(context.Background(),
		[]string{"BTCUSDT", "ETHUSDT"},
		[]domrepo.Timeframe{domrepo.TFH1, domrepo.TFH4})
	if failures != nil {
		t.Fatalf("failures: %v", failures)
	}
	if sink.inserted["BTCUSDT/H1"] != 300 || sink.inserted["BTCUSDT/H4"] != 300 {
		t.Fatalf("BTCUSDT inserts = %v", sink.inserted)
	}
	if sink.inserted["ETHUSDT/H1"] != 120 {
		t.Fatalf("ETHUSDT inserts = %v", sink.inserted)
	}
}

func TestBackfillCollectsPerSymbolFailures(t *testing.T) {
	fetcher := &fakeFetcher{
		bars: map[string][]models.Bar{"BTCUSDT": history(50)},
		err:  map[string]error{"ETHUSDT": errors.New("provider 429")},
	}
	sink := &fakeBarSink{}
	m := newFakeMetrics()
	uc := NewBackfillUseCase(fetcher, sink, m, 50)

	failures := uc.Run(context.Background(),
		[]string{"BTCUSDT", "ETHUSDT"},
		[]domrepo.Timeframe{domrepo.TFH1})
	if len(failures) != 1 {
		t.Fatalf("failures = %v, want 1", failures)
	}
	if _, ok := failures["ETHUSDT/H1"]; !ok {
		t.Fatalf("missing ETHUSDT/H1 failure: %v", failures)
	}
	if sink.inserted["BTCUSDT/H1"] != 50 {
		t.Fatalf("healthy symbol should still insert, got %v", sink.inserted)
	}
	if m.errors["backfill_fetch"] != 1 {
		t.Fatalf("backfill_fetch errors = %d", m.errors["backfill_fetch"])
	}
}
