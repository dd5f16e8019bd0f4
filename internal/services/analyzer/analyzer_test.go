package analyzer

import (
	"math"
	"reflect"
	"testing"
	"time"

	"WaveScan/internal/domain/models"
	"WaveScan/internal/domain/repository"
)

func waveBars(n int) []models.Bar {
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, n)
	for i := range bars {
		// A drifting sine path: enough texture for pivots and ATR.
		mid := 100 + 0.2*float64(i) + 4*math.Sin(float64(i)/4)
		bars[i] = models.Bar{
			Timestamp: t0.Add(time.Duration(i) * time.Hour),
			Open:      mid - 0.2, High: mid + 0.6, Low: mid - 0.6, Close: mid + 0.2,
			Volume: 1000,
		}
	}
	return bars
}

func TestAnalyzeRejectsMalformedBar(t *testing.T) {
	svc, err := New(models.DefaultAnalysisConfig())
	if err != nil {
		t.Fatal(err)
	}
	bars := waveBars(50)
	bars[20].High, bars[20].Low = bars[20].Low, bars[20].High
	if _, err := svc.Analyze("BTCUSDT", repository.TFH1, bars, nil); err == nil {
		t.Fatal("inverted high/low must abort the window")
	}
}

func TestAnalyzeShortWindowIsEmptyNotError(t *testing.T) {
	svc, _ := New(models.DefaultAnalysisConfig())
	a, err := svc.Analyze("BTCUSDT", repository.TFH1, waveBars(5), nil)
	if err != nil {
		t.Fatalf("short window errored: %v", err)
	}
	if a.Signal.Direction != models.SignalNone || len(a.Pivots) != 0 {
		t.Fatalf("short window must produce an empty pass, got %+v", a)
	}
}

func TestAnalyzeFullPass(t *testing.T) {
	svc, _ := New(models.DefaultAnalysisConfig())
	a, err := svc.Analyze("BTCUSDT", repository.TFH1, waveBars(200), waveBars(200))
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Pivots) == 0 {
		t.Fatal("oscillating fixture produced no pivots")
	}
	if a.ATR <= 0 {
		t.Fatalf("expected positive ATR, got %v", a.ATR)
	}
	if a.Timeframe != "H1" || a.Signal.Timeframe != "H1" {
		t.Fatalf("timeframe not threaded through: %+v", a)
	}
}

func TestAnalyzeDeterministicAcrossRuns(t *testing.T) {
	svc, _ := New(models.DefaultAnalysisConfig())
	bars := waveBars(60)
	first, err := svc.Analyze("BTCUSDT", repository.TFH1, bars, nil)
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Analyze("BTCUSDT", repository.TFH1, bars, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical windows diverged:\nfirst  %+v\nsecond %+v", first, second)
	}
	if want := bars[len(bars)-1].Timestamp; !first.Signal.GeneratedAt.Equal(want) {
		t.Fatalf("signal stamped %v, want last bar %v", first.Signal.GeneratedAt, want)
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	cfg := models.DefaultAnalysisConfig()
	cfg.RetracementBand.Low = 0.9 // above the upper bound
	if _, err := New(cfg); err == nil {
		t.Fatal("invalid band accepted")
	}
}
