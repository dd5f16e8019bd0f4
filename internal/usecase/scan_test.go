package usecase

import (
	"context"
	"errors"
	"testing"

	"WaveScan/internal/domain/models"
	domrepo "WaveScan/internal/domain/repository"
)

func scanFixture(t *testing.T) (*ScanUseCase, *fakeMetrics) {
	t.Helper()
	src := &fakeBarSource{bars: history(300)}
	an := &fakeAnalyzer{fn: func(symbol string, tf domrepo.Timeframe, bars, htfBars []models.Bar) (*models.Analysis, error) {
		switch symbol {
		case "AAA":
			return &models.Analysis{Signal: models.Signal{Symbol: symbol, Direction: models.SignalLong, Score: 80}}, nil
		case "BBB":
			return &models.Analysis{Signal: models.Signal{Symbol: symbol, Direction: models.SignalShort, Score: 80}}, nil
		case "CCC":
			return &models.Analysis{Signal: models.Signal{Symbol: symbol, Direction: models.SignalLong, Score: 30}}, nil
		case "DDD":
			return &models.Analysis{Signal: models.Signal{Symbol: symbol, Direction: models.SignalNone, Score: 95}}, nil
		default:
			return nil, errors.New("no data")
		}
	}}
	m := newFakeMetrics()
	uc := NewScanUseCase(NewAnalyzeUseCase(src, an), m, []string{"AAA", "BBB", "CCC", "DDD", "EEE"}, 3, 300)
	return uc, m
}

func TestScanFiltersAndSorts(t *testing.T) {
	uc, _ := scanFixture(t)

	res, err := uc.Scan(context.Background(), domrepo.TFH1, 40)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	// CCC is under the floor, DDD has no direction, EEE failed.
	if len(res.Signals) != 2 {
		t.Fatalf("signals = %d, want 2", len(res.Signals))
	}
	// Equal scores break ties by symbol.
	if res.Signals[0].Symbol != "AAA" || res.Signals[1].Symbol != "BBB" {
		t.Fatalf("unexpected order: %s, %s", res.Signals[0].Symbol, res.Signals[1].Symbol)
	}
	if len(res.Errors) != 1 || res.Errors["EEE"] == "" {
		t.Fatalf("errors = %v, want EEE only", res.Errors)
	}
	if res.Timeframe != "H1" || res.MinScore != 40 {
		t.Fatalf("result identity wrong: %+v", res)
	}
}

func TestScanRecordsScoresForAllAnalyzedSymbols(t *testing.T) {
	uc, m := scanFixture(t)

	if _, err := uc.Scan(context.Background(), domrepo.TFH1, 40); err != nil {
		t.Fatalf("scan: %v", err)
	}
	// Every symbol that analyzed cleanly gets a gauge update, filtered or not.
	for _, symbol := range []string{"AAA", "BBB", "CCC", "DDD"} {
		if _, ok := m.scores[symbol]; !ok {
			t.Fatalf("no score recorded for %s", symbol)
		}
	}
	if m.errors["scan_symbol"] != 1 {
		t.Fatalf("scan_symbol errors = %d, want 1", m.errors["scan_symbol"])
	}
	if m.ops["scan"] != 1 {
		t.Fatalf("scan latency samples = %d, want 1", m.ops["scan"])
	}
}

func TestScanEmptyUniverse(t *testing.T) {
	src := &fakeBarSource{bars: history(10)}
	an := &fakeAnalyzer{fn: func(symbol string, tf domrepo.Timeframe, bars, htfBars []models.Bar) (*models.Analysis, error) {
		return &models.Analysis{}, nil
	}}
	uc := NewScanUseCase(NewAnalyzeUseCase(src, an), newFakeMetrics(), nil, 2, 100)

	res, err := uc.Scan(context.Background(), domrepo.TFH4, 0)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(res.Signals) != 0 || res.Errors != nil {
		t.Fatalf("expected empty result, got %+v", res)
	}
}
