package usecase

import (
	"context"
	"errors"
	"testing"

	"WaveScan/internal/domain/models"
	domrepo "WaveScan/internal/domain/repository"
)

func TestAnalyzeFetchesBothWindows(t *testing.T) {
	src := &fakeBarSource{bars: history(300)}
	var gotBars, gotHTF int
	an := &fakeAnalyzer{fn: func(symbol string, tf domrepo.Timeframe, bars, htfBars []models.Bar) (*models.Analysis, error) {
		gotBars = len(bars)
		gotHTF = len(htfBars)
		return &models.Analysis{Symbol: symbol, Timeframe: string(tf)}, nil
	}}
	uc := NewAnalyzeUseCase(src, an)

	a, err := uc.Analyze(context.Background(), AnalyzeParams{
		Symbol:    "BTCUSDT",
		Timeframe: domrepo.TFH1,
		N:         300,
		HTF:       domrepo.TFH4,
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if a.Symbol != "BTCUSDT" || a.Timeframe != "H1" {
		t.Fatalf("unexpected analysis identity: %+v", a)
	}
	if gotBars != 300 || gotHTF != 300 {
		t.Fatalf("expected both windows fetched, got %d and %d", gotBars, gotHTF)
	}
	if len(src.calls) != 2 {
		t.Fatalf("expected 2 fetches, got %d", len(src.calls))
	}
	if src.calls[1].tf != domrepo.TFH4 {
		t.Fatalf("second fetch should be H4, got %s", src.calls[1].tf)
	}
}

func TestAnalyzeSkipsHTFWhenSameTimeframe(t *testing.T) {
	src := &fakeBarSource{bars: history(100)}
	an := &fakeAnalyzer{fn: func(symbol string, tf domrepo.Timeframe, bars, htfBars []models.Bar) (*models.Analysis, error) {
		if htfBars != nil {
			t.Fatalf("htf window should be nil when tf == htf")
		}
		return &models.Analysis{}, nil
	}}
	uc := NewAnalyzeUseCase(src, an)

	if _, err := uc.Analyze(context.Background(), AnalyzeParams{
		Symbol: "ETHUSDT", Timeframe: domrepo.TFD1, HTF: domrepo.TFD1,
	}); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(src.calls) != 1 {
		t.Fatalf("expected 1 fetch, got %d", len(src.calls))
	}
}

func TestSignalDefaultsHigherTimeframe(t *testing.T) {
	src := &fakeBarSource{bars: history(50)}
	an := &fakeAnalyzer{fn: func(symbol string, tf domrepo.Timeframe, bars, htfBars []models.Bar) (*models.Analysis, error) {
		return &models.Analysis{Signal: models.Signal{Symbol: symbol, Direction: models.SignalLong, Score: 55}}, nil
	}}
	uc := NewAnalyzeUseCase(src, an)

	sig, err := uc.Signal(context.Background(), "BTCUSDT", domrepo.TFH1, 50)
	if err != nil {
		t.Fatalf("signal: %v", err)
	}
	if sig.Score != 55 {
		t.Fatalf("score = %d, want 55", sig.Score)
	}
	if len(src.calls) != 2 || src.calls[1].tf != domrepo.TFH4 {
		t.Fatalf("expected H4 ladder fetch, got %+v", src.calls)
	}
}

func TestAnalyzeBarFetchError(t *testing.T) {
	src := &fakeBarSource{err: errors.New("clickhouse down")}
	an := &fakeAnalyzer{fn: func(symbol string, tf domrepo.Timeframe, bars, htfBars []models.Bar) (*models.Analysis, error) {
		t.Fatal("analyzer should not run on fetch failure")
		return nil, nil
	}}
	uc := NewAnalyzeUseCase(src, an)

	if _, err := uc.Analyze(context.Background(), AnalyzeParams{Symbol: "BTCUSDT", Timeframe: domrepo.TFH1}); err == nil {
		t.Fatal("expected fetch error")
	}
}
