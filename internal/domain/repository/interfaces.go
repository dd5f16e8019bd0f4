package repository

import (
	"context"
	"time"

	"WaveScan/internal/domain/models"
)

// BarSource provides read-only access to OHLC history. The analysis core
// only consumes ordered bar windows; fetching and aggregation live
// behind this port.
type BarSource interface {
	GetBars(ctx context.Context, symbol string, from, to time.Time, tf Timeframe) ([]models.Bar, error)
	GetLatestNBars(ctx context.Context, symbol string, n int, tf Timeframe) ([]models.Bar, error)
}

// BarSink ingests fetched history. Kept separate from BarSource so the
// analysis core stays read-only.
type BarSink interface {
	InsertBars(ctx context.Context, symbol string, tf Timeframe, bars []models.Bar) error
}

// TickStream delivers live price updates used to trigger rescans and to
// anchor signal entries to the current price.
type TickStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Tick, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// SignalStore persists emitted signals; the engines never touch it
// directly.
type SignalStore interface {
	Init(ctx context.Context) error
	Store(ctx context.Context, s *models.Signal) error
	StoreBatch(ctx context.Context, signals []*models.Signal) error
	Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]*models.Signal, error)
	Health(ctx context.Context) error
	Close() error
}

// SignalPublisher pushes emitted signals onto a message bus for
// downstream consumers.
type SignalPublisher interface {
	Publish(ctx context.Context, s *models.Signal) error
	PublishBatch(ctx context.Context, signals []*models.Signal) error
	Close() error
}

// Metrics records operational counters for the scan and emit paths.
type Metrics interface {
	RecordSignalEmitted(symbol, direction string)
	RecordError(kind string)
	RecordLastScore(symbol string, score float64)
	RecordLatency(op string, seconds float64)
}
