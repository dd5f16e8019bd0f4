package usecase

import (
	"context"
	"sync"
	"time"

	"WaveScan/internal/domain/models"
	domrepo "WaveScan/internal/domain/repository"
	"WaveScan/pkg/queue"
)

// RescanJobType is the queue message type for tick-driven rescans.
const RescanJobType = "symbol.rescan"

// RescanPayload asks the consumer to re-run analysis for one symbol.
type RescanPayload struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Timeframe string  `json:"timeframe"`
}

// ScanTrigger turns accepted ticks into rescan jobs. Ticks for the same
// symbol inside the debounce window are dropped so a burst of trades
// triggers one analysis pass, not hundreds.
type ScanTrigger struct {
	q         queue.QueueService
	timeframe domrepo.Timeframe
	debounce  time.Duration

	mu   sync.Mutex
	last map[string]time.Time
}

type ScanTriggerOption func(*ScanTrigger)

func WithDebounce(d time.Duration) ScanTriggerOption {
	return func(t *ScanTrigger) {
		if d > 0 {
			t.debounce = d
		}
	}
}

func NewScanTrigger(q queue.QueueService, tf domrepo.Timeframe, opts ...ScanTriggerOption) *ScanTrigger {
	t := &ScanTrigger{
		q:         q,
		timeframe: tf,
		debounce:  30 * time.Second,
		last:      make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *ScanTrigger) Process(ctx context.Context, tick *models.Tick) error {
	if !t.shouldFire(tick.Symbol) {
		return nil
	}
	return t.q.PublishMessage(ctx, RescanJobType, RescanPayload{
		Symbol:    tick.Symbol,
		Price:     tick.Price,
		Timeframe: string(t.timeframe),
	})
}

func (t *ScanTrigger) shouldFire(symbol string) bool {
	now := time.Now()
	t.mu.Lock()
	defer t.mu.Unlock()
	if last, ok := t.last[symbol]; ok && now.Sub(last) < t.debounce {
		return false
	}
	t.last[symbol] = now
	return true
}
