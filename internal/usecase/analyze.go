package usecase

import (
	"context"
	"fmt"

	"WaveScan/internal/domain/models"
	domrepo "WaveScan/internal/domain/repository"
	domsvc "WaveScan/internal/domain/service"
)

// AnalyzeUseCase fetches bar windows and runs the market-structure pass
// for one (symbol, timeframe).
type AnalyzeUseCase struct {
	bars     domrepo.BarSource
	analyzer domsvc.Analyzer
}

func NewAnalyzeUseCase(bars domrepo.BarSource, analyzer domsvc.Analyzer) *AnalyzeUseCase {
	return &AnalyzeUseCase{bars: bars, analyzer: analyzer}
}

type AnalyzeParams struct {
	Symbol    string
	Timeframe domrepo.Timeframe
	N         int
	// HTF enables the higher-timeframe confluence pass. The explicit
	// timeframe wins over Timeframe.Higher() when both are set.
	HTF domrepo.Timeframe
}

// Analyze runs one full pass. The higher-timeframe window is fetched
// with the same depth; a missing or empty HTF window only disables the
// confluence factor.
func (uc *AnalyzeUseCase) Analyze(ctx context.Context, p AnalyzeParams) (*models.Analysis, error) {
	if p.Symbol == "" {
		return nil, fmt.Errorf("symbol required")
	}
	if p.N <= 0 {
		p.N = 300
	}

	bars, err := uc.bars.GetLatestNBars(ctx, p.Symbol, p.N, p.Timeframe)
	if err != nil {
		return nil, fmt.Errorf("fetch bars %s %s: %w", p.Symbol, p.Timeframe, err)
	}

	var htfBars []models.Bar
	if p.HTF != "" && p.HTF != p.Timeframe {
		htfBars, err = uc.bars.GetLatestNBars(ctx, p.Symbol, p.N, p.HTF)
		if err != nil {
			return nil, fmt.Errorf("fetch htf bars %s %s: %w", p.Symbol, p.HTF, err)
		}
	}

	return uc.analyzer.Analyze(p.Symbol, p.Timeframe, bars, htfBars)
}

// Signal runs the pass and returns only the fused signal, with the
// higher timeframe defaulted from the ladder.
func (uc *AnalyzeUseCase) Signal(ctx context.Context, symbol string, tf domrepo.Timeframe, n int) (*models.Signal, error) {
	a, err := uc.Analyze(ctx, AnalyzeParams{Symbol: symbol, Timeframe: tf, N: n, HTF: tf.Higher()})
	if err != nil {
		return nil, err
	}
	return &a.Signal, nil
}
