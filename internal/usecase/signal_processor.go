package usecase

import (
	"context"
	"fmt"
	"time"

	"WaveScan/internal/domain/models"
	drepo "WaveScan/internal/domain/repository"
)

// SignalProcessor routes emitted signals to persistence and the message
// bus. Storage failures and publish failures are independent; a signal
// that stored but did not publish still counts as emitted.
type SignalProcessor struct {
	store   drepo.SignalStore
	pub     drepo.SignalPublisher
	metrics drepo.Metrics
}

func NewSignalProcessor(store drepo.SignalStore, pub drepo.SignalPublisher, metrics drepo.Metrics) *SignalProcessor {
	return &SignalProcessor{store: store, pub: pub, metrics: metrics}
}

// Process persists and publishes a single signal.
func (p *SignalProcessor) Process(ctx context.Context, sig *models.Signal) error {
	if sig == nil {
		return fmt.Errorf("signal is nil")
	}
	return p.ProcessBatch(ctx, []*models.Signal{sig})
}

// ProcessBatch persists and publishes a sweep's worth of signals.
func (p *SignalProcessor) ProcessBatch(ctx context.Context, signals []*models.Signal) error {
	if len(signals) == 0 {
		return nil
	}
	start := time.Now()

	if p.store != nil {
		if err := p.store.StoreBatch(ctx, signals); err != nil {
			p.metrics.RecordError("signal_store")
			return fmt.Errorf("store signals: %w", err)
		}
	}
	if p.pub != nil {
		if err := p.pub.PublishBatch(ctx, signals); err != nil {
			p.metrics.RecordError("signal_publish")
			return fmt.Errorf("publish signals: %w", err)
		}
	}

	for _, sig := range signals {
		p.metrics.RecordSignalEmitted(sig.Symbol, string(sig.Direction))
		p.metrics.RecordLastScore(sig.Symbol, float64(sig.Score))
	}
	p.metrics.RecordLatency("emit_batch", time.Since(start).Seconds())
	return nil
}

// Close closes underlying resources if available.
func (p *SignalProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.store != nil {
		_ = p.store.Close()
	}
}
