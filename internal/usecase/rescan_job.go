package usecase

import (
	"context"
	"fmt"

	"WaveScan/internal/domain/models"
	domrepo "WaveScan/internal/domain/repository"
	"WaveScan/pkg/queue"
)

// RescanJob re-analyzes one symbol when the live feed reports activity
// and forwards any actionable signal to the processor.
type RescanJob struct {
	analyze   *AnalyzeUseCase
	processor *SignalProcessor
	metrics   domrepo.Metrics
	window    int
	minScore  int
}

func NewRescanJob(analyze *AnalyzeUseCase, processor *SignalProcessor, metrics domrepo.Metrics, window, minScore int) *RescanJob {
	if window <= 0 {
		window = 300
	}
	return &RescanJob{
		analyze:   analyze,
		processor: processor,
		metrics:   metrics,
		window:    window,
		minScore:  minScore,
	}
}

func (j *RescanJob) Name() string { return "rescan" }

func (j *RescanJob) Type() string { return RescanJobType }

func (j *RescanJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[RescanPayload](payload)
	if err != nil {
		return fmt.Errorf("parse rescan payload: %w", err)
	}
	tf := domrepo.NormalizeTimeframe(p.Timeframe)

	sig, err := j.analyze.Signal(ctx, p.Symbol, tf, j.window)
	if err != nil {
		j.metrics.RecordError("rescan")
		return err
	}
	j.metrics.RecordLastScore(p.Symbol, float64(sig.Score))

	if sig.Direction == models.SignalNone || sig.Score < j.minScore {
		return nil
	}
	return j.processor.Process(ctx, sig)
}
