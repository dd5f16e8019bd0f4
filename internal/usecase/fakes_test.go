package usecase

import (
	"context"
	"sync"
	"time"

	"WaveScan/internal/domain/models"
	domrepo "WaveScan/internal/domain/repository"
)

type fetchCall struct {
	symbol string
	tf     domrepo.Timeframe
	n      int
}

type fakeBarSource struct {
	mu    sync.Mutex
	bars  []models.Bar
	err   error
	calls []fetchCall
}

func (f *fakeBarSource) GetBars(ctx context.Context, symbol string, from, to time.Time, tf domrepo.Timeframe) ([]models.Bar, error) {
	return f.bars, f.err
}

func (f *fakeBarSource) GetLatestNBars(ctx context.Context, symbol string, n int, tf domrepo.Timeframe) ([]models.Bar, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fetchCall{symbol: symbol, tf: tf, n: n})
	f.mu.Unlock()
	return f.bars, f.err
}

type fakeAnalyzer struct {
	fn func(symbol string, tf domrepo.Timeframe, bars, htfBars []models.Bar) (*models.Analysis, error)
}

func (f *fakeAnalyzer) Analyze(symbol string, tf domrepo.Timeframe, bars, htfBars []models.Bar) (*models.Analysis, error) {
	return f.fn(symbol, tf, bars, htfBars)
}

type fakeSignalStore struct {
	mu      sync.Mutex
	batches [][]*models.Signal
	err     error
}

func (f *fakeSignalStore) Init(ctx context.Context) error { return nil }

func (f *fakeSignalStore) Store(ctx context.Context, s *models.Signal) error {
	return f.StoreBatch(ctx, []*models.Signal{s})
}

func (f *fakeSignalStore) StoreBatch(ctx context.Context, signals []*models.Signal) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	f.batches = append(f.batches, signals)
	f.mu.Unlock()
	return nil
}

func (f *fakeSignalStore) Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]*models.Signal, error) {
	return nil, nil
}

func (f *fakeSignalStore) Health(ctx context.Context) error { return nil }

func (f *fakeSignalStore) Close() error { return nil }

type fakeSignalPublisher struct {
	mu        sync.Mutex
	published []*models.Signal
	err       error
}

func (f *fakeSignalPublisher) Publish(ctx context.Context, s *models.Signal) error {
	return f.PublishBatch(ctx, []*models.Signal{s})
}

func (f *fakeSignalPublisher) PublishBatch(ctx context.Context, signals []*models.Signal) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	f.published = append(f.published, signals...)
	f.mu.Unlock()
	return nil
}

func (f *fakeSignalPublisher) Close() error { return nil }

type fakeMetrics struct {
	mu      sync.Mutex
	emitted map[string]string
	errors  map[string]int
	scores  map[string]float64
	ops     map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		emitted: map[string]string{},
		errors:  map[string]int{},
		scores:  map[string]float64{},
		ops:     map[string]int{},
	}
}

func (f *fakeMetrics) RecordSignalEmitted(symbol, direction string) {
	f.mu.Lock()
	f.emitted[symbol] = direction
	f.mu.Unlock()
}

func (f *fakeMetrics) RecordError(kind string) {
	f.mu.Lock()
	f.errors[kind]++
	f.mu.Unlock()
}

func (f *fakeMetrics) RecordLastScore(symbol string, score float64) {
	f.mu.Lock()
	f.scores[symbol] = score
	f.mu.Unlock()
}

func (f *fakeMetrics) RecordLatency(op string, seconds float64) {
	f.mu.Lock()
	f.ops[op]++
	f.mu.Unlock()
}

// history builds a bar window long enough for any fetch depth used in
// these tests. Content is irrelevant; the fake analyzer ignores it.
func history(n int) []models.Bar {
	bars := make([]models.Bar, n)
	ts := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = models.Bar{
			Timestamp: ts.Add(time.Duration(i) * time.Hour),
			Open:      100, High: 101, Low: 99, Close: 100.5, Volume: 10,
		}
	}
	return bars
}
