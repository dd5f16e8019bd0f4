package usecase

import (
	"context"
	"testing"
	"time"

	"WaveScan/internal/domain/models"
	domrepo "WaveScan/internal/domain/repository"
)

type fakeQueue struct {
	published []RescanPayload
}

func (f *fakeQueue) PublishMessage(ctx context.Context, msgType string, payload interface{}) error {
	f.published = append(f.published, payload.(RescanPayload))
	return nil
}

func TestScanTriggerDebouncesPerSymbol(t *testing.T) {
	q := &fakeQueue{}
	trig := NewScanTrigger(q, domrepo.TFH1, WithDebounce(time.Minute))
	ctx := context.Background()

	ticks := []*models.Tick{
		{Symbol: "BTCUSDT", Price: 50000},
		{Symbol: "BTCUSDT", Price: 50001},
		{Symbol: "ETHUSDT", Price: 3000},
		{Symbol: "BTCUSDT", Price: 50002},
	}
	for _, tk := range ticks {
		if err := trig.Process(ctx, tk); err != nil {
			t.Fatalf("process: %v", err)
		}
	}

	if len(q.published) != 2 {
		t.Fatalf("published = %d, want 2", len(q.published))
	}
	if q.published[0].Symbol != "BTCUSDT" || q.published[1].Symbol != "ETHUSDT" {
		t.Fatalf("unexpected symbols: %+v", q.published)
	}
	if q.published[0].Timeframe != "H1" {
		t.Fatalf("timeframe = %s, want H1", q.published[0].Timeframe)
	}
}

func TestScanTriggerFiresAgainAfterWindow(t *testing.T) {
	q := &fakeQueue{}
	trig := NewScanTrigger(q, domrepo.TFM5, WithDebounce(10*time.Millisecond))
	ctx := context.Background()

	_ = trig.Process(ctx, &models.Tick{Symbol: "BTCUSDT", Price: 50000})
	time.Sleep(20 * time.Millisecond)
	_ = trig.Process(ctx, &models.Tick{Symbol: "BTCUSDT", Price: 50010})

	if len(q.published) != 2 {
		t.Fatalf("published = %d, want 2", len(q.published))
	}
}
