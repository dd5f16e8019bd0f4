package usecase

import (
	"context"
	"testing"

	"WaveScan/internal/domain/models"
	domrepo "WaveScan/internal/domain/repository"
)

func rescanFixture(score int, dir models.SignalDirection) (*RescanJob, *fakeSignalStore) {
	src := &fakeBarSource{bars: history(300)}
	an := &fakeAnalyzer{fn: func(symbol string, tf domrepo.Timeframe, bars, htfBars []models.Bar) (*models.Analysis, error) {
		return &models.Analysis{Signal: models.Signal{Symbol: symbol, Direction: dir, Score: score}}, nil
	}}
	store := &fakeSignalStore{}
	proc := NewSignalProcessor(store, &fakeSignalPublisher{}, newFakeMetrics())
	job := NewRescanJob(NewAnalyzeUseCase(src, an), proc, newFakeMetrics(), 300, 40)
	return job, store
}

func TestRescanJobEmitsActionableSignal(t *testing.T) {
	job, store := rescanFixture(75, models.SignalLong)

	// Queue payloads arrive as generic maps after the JSON round trip.
	payload := map[string]interface{}{
		"symbol":    "BTCUSDT",
		"price":     50000.0,
		"timeframe": "H1",
	}
	if err := job.Handle(context.Background(), payload); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(store.batches) != 1 {
		t.Fatalf("stored batches = %d, want 1", len(store.batches))
	}
	if store.batches[0][0].Symbol != "BTCUSDT" {
		t.Fatalf("stored symbol = %s", store.batches[0][0].Symbol)
	}
}

func TestRescanJobSkipsBelowFloor(t *testing.T) {
	job, store := rescanFixture(25, models.SignalLong)

	payload := map[string]interface{}{"symbol": "BTCUSDT", "timeframe": "H1"}
	if err := job.Handle(context.Background(), payload); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(store.batches) != 0 {
		t.Fatal("sub-floor signal should not be stored")
	}
}

func TestRescanJobSkipsNoDirection(t *testing.T) {
	job, store := rescanFixture(90, models.SignalNone)

	payload := map[string]interface{}{"symbol": "ETHUSDT", "timeframe": "H4"}
	if err := job.Handle(context.Background(), payload); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(store.batches) != 0 {
		t.Fatal("directionless signal should not be stored")
	}
}

func TestRescanJobIdentity(t *testing.T) {
	job, _ := rescanFixture(50, models.SignalLong)
	if job.Name() != "rescan" || job.Type() != RescanJobType {
		t.Fatalf("job identity = %s/%s", job.Name(), job.Type())
	}
}
