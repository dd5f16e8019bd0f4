package usecase

import (
	"context"
	"errors"
	"testing"

	"WaveScan/internal/domain/models"
)

func TestProcessBatchStoresAndPublishes(t *testing.T) {
	store := &fakeSignalStore{}
	pub := &fakeSignalPublisher{}
	m := newFakeMetrics()
	p := NewSignalProcessor(store, pub, m)

	signals := []*models.Signal{
		{Symbol: "BTCUSDT", Direction: models.SignalLong, Score: 70},
		{Symbol: "ETHUSDT", Direction: models.SignalShort, Score: 55},
	}
	if err := p.ProcessBatch(context.Background(), signals); err != nil {
		t.Fatalf("process batch: %v", err)
	}

	if len(store.batches) != 1 || len(store.batches[0]) != 2 {
		t.Fatalf("store batches = %v", store.batches)
	}
	if len(pub.published) != 2 {
		t.Fatalf("published = %d, want 2", len(pub.published))
	}
	if m.emitted["BTCUSDT"] != "LONG" || m.emitted["ETHUSDT"] != "SHORT" {
		t.Fatalf("emitted metrics = %v", m.emitted)
	}
	if m.scores["BTCUSDT"] != 70 {
		t.Fatalf("score gauge = %v", m.scores["BTCUSDT"])
	}
}

func TestProcessBatchStoreErrorSkipsPublish(t *testing.T) {
	store := &fakeSignalStore{err: errors.New("insert failed")}
	pub := &fakeSignalPublisher{}
	m := newFakeMetrics()
	p := NewSignalProcessor(store, pub, m)

	err := p.ProcessBatch(context.Background(), []*models.Signal{{Symbol: "BTCUSDT", Score: 50}})
	if err == nil {
		t.Fatal("expected store error")
	}
	if len(pub.published) != 0 {
		t.Fatalf("nothing should publish after a store failure, got %d", len(pub.published))
	}
	if m.errors["signal_store"] != 1 {
		t.Fatalf("signal_store errors = %d, want 1", m.errors["signal_store"])
	}
}

func TestProcessNilSignal(t *testing.T) {
	p := NewSignalProcessor(&fakeSignalStore{}, &fakeSignalPublisher{}, newFakeMetrics())
	if err := p.Process(context.Background(), nil); err == nil {
		t.Fatal("expected error on nil signal")
	}
}

func TestProcessBatchEmptyIsNoop(t *testing.T) {
	store := &fakeSignalStore{}
	p := NewSignalProcessor(store, &fakeSignalPublisher{}, newFakeMetrics())
	if err := p.ProcessBatch(context.Background(), nil); err != nil {
		t.Fatalf("empty batch: %v", err)
	}
	if len(store.batches) != 0 {
		t.Fatal("empty batch should not hit the store")
	}
}
