package smc

import (
	"WaveScan/internal/domain/models"
)

// Analyze runs the four detectors over one bar window and returns the
// complete snapshot. Every structure is recomputed from scratch, so
// concurrent passes over different windows share nothing. An
// insufficient window yields an empty snapshot, never an error.
func Analyze(bars []models.Bar, pivots []models.Pivot, cfg models.AnalysisConfig) models.SMCSnapshot {
	if len(bars) < 3 {
		return models.SMCSnapshot{Trend: models.Neutral}
	}
	atr := ATRSeries(bars, cfg.ATRPeriod)

	snap := models.SMCSnapshot{
		OrderBlocks: FindOrderBlocks(bars, atr, cfg.OrderBlockATRMultiple),
	}
	if cfg.FVGEnabled {
		snap.Gaps = FindFairValueGaps(bars)
	}
	snap.Events, snap.Trend = FindStructureEvents(bars, pivots, atr, cfg.PivotWindow)
	return snap
}

// NearestUnmitigatedBlock returns the unmitigated block of the given
// direction whose midpoint is closest to price, or nil.
func NearestUnmitigatedBlock(blocks []models.OrderBlock, dir models.Direction, price float64) *models.OrderBlock {
	var best *models.OrderBlock
	bestDist := 0.0
	for i := range blocks {
		b := &blocks[i]
		if b.Mitigated || b.Direction != dir {
			continue
		}
		d := b.Mid() - price
		if d < 0 {
			d = -d
		}
		if best == nil || d < bestDist {
			best, bestDist = b, d
		}
	}
	return best
}

// NearestUnfilledGap returns the unfilled gap of the given direction
// whose midpoint is closest to price, or nil.
func NearestUnfilledGap(gaps []models.FairValueGap, dir models.Direction, price float64) *models.FairValueGap {
	var best *models.FairValueGap
	bestDist := 0.0
	for i := range gaps {
		g := &gaps[i]
		if g.Filled || g.Direction != dir {
			continue
		}
		d := g.Mid() - price
		if d < 0 {
			d = -d
		}
		if best == nil || d < bestDist {
			best, bestDist = g, d
		}
	}
	return best
}
