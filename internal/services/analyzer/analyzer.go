// Package analyzer composes the swing, elliott, smc and signal engines
// into the single pass the rest of the application consumes.
package analyzer

import (
	"fmt"

	"WaveScan/internal/domain/models"
	"WaveScan/internal/domain/repository"
	"WaveScan/internal/services/elliott"
	"WaveScan/internal/services/signal"
	"WaveScan/internal/services/smc"
	"WaveScan/internal/services/swing"
)

// minBars is the smallest window that can seat a pivot neighborhood.
// Shorter windows produce an empty analysis, not an error.
const minBars = 11

// Service runs analysis passes under one validated configuration. It is
// stateless and safe for concurrent use.
type Service struct {
	cfg    models.AnalysisConfig
	scorer *signal.Engine
}

func New(cfg models.AnalysisConfig) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("analysis config: %w", err)
	}
	return &Service{cfg: cfg, scorer: signal.NewEngine(cfg)}, nil
}

// Analyze validates the window, runs every engine and fuses the result.
// A malformed bar aborts the whole window; too little data yields an
// empty analysis with a NONE signal.
func (s *Service) Analyze(symbol string, tf repository.Timeframe, bars, htfBars []models.Bar) (*models.Analysis, error) {
	if err := models.ValidateBars(bars); err != nil {
		return nil, fmt.Errorf("bars for %s %s: %w", symbol, tf, err)
	}

	out := &models.Analysis{
		Symbol:    symbol,
		Timeframe: string(tf),
		WaveCount: models.NoWaveCount(),
		SMC:       models.SMCSnapshot{Trend: models.Neutral},
		Signal: models.Signal{
			Symbol:    symbol,
			Timeframe: string(tf),
			Direction: models.SignalNone,
		},
	}
	if len(bars) < minBars {
		return out, nil
	}

	pivots := swing.Extract(bars, s.cfg.PivotWindow)
	out.Pivots = pivots
	out.ATR = smc.ATR(bars, s.cfg.ATRPeriod)
	out.WaveCount = elliott.Analyze(bars, pivots, s.cfg)
	out.SMC = smc.Analyze(bars, pivots, s.cfg)

	htf, err := s.higherCount(symbol, tf, htfBars)
	if err != nil {
		return nil, err
	}

	// The last bar stamps the signal so identical windows produce
	// identical analyses.
	out.Signal = s.scorer.Evaluate(symbol, string(tf), signal.Inputs{
		Bars:      bars,
		WaveCount: out.WaveCount,
		SMC:       out.SMC,
		HTF:       htf,
		ATR:       out.ATR,
		At:        bars[len(bars)-1].Timestamp,
	})
	return out, nil
}

// higherCount runs only the wave engine over the higher-timeframe
// window. Its SMC structures carry no weight in the local score.
func (s *Service) higherCount(symbol string, tf repository.Timeframe, htfBars []models.Bar) (*models.WaveCount, error) {
	if len(htfBars) == 0 {
		return nil, nil
	}
	if err := models.ValidateBars(htfBars); err != nil {
		return nil, fmt.Errorf("htf bars for %s %s: %w", symbol, tf.Higher(), err)
	}
	if len(htfBars) < minBars {
		return nil, nil
	}
	pivots := swing.Extract(htfBars, s.cfg.PivotWindow)
	count := elliott.Analyze(htfBars, pivots, s.cfg)
	return &count, nil
}
