package smc

import (
	"WaveScan/internal/domain/models"
)

// FindFairValueGaps detects three-candle imbalances. A bullish gap
// exists at bar i when bar[i-1].high < bar[i+1].low; the gap spans
// exactly [bar[i-1].high, bar[i+1].low] and excludes bar i's own range.
// Bearish is symmetric. A gap is filled once a later bar's range fully
// covers it; the flag is monotonic within one pass.
func FindFairValueGaps(bars []models.Bar) []models.FairValueGap {
	if len(bars) < 3 {
		return nil
	}
	gaps := make([]models.FairValueGap, 0, 8)
	for i := 1; i < len(bars)-1; i++ {
		if bars[i+1].Low > bars[i-1].High {
			gaps = append(gaps, newGap(bars, i, bars[i-1].High, bars[i+1].Low, models.Bullish))
		}
		if bars[i+1].High < bars[i-1].Low {
			gaps = append(gaps, newGap(bars, i, bars[i+1].High, bars[i-1].Low, models.Bearish))
		}
	}
	return gaps
}

func newGap(bars []models.Bar, i int, lo, hi float64, dir models.Direction) models.FairValueGap {
	return models.FairValueGap{
		StartIndex: i - 1,
		EndIndex:   i + 1,
		GapHigh:    hi,
		GapLow:     lo,
		Direction:  dir,
		Filled:     gapFilled(bars, i+2, lo, hi),
	}
}

func gapFilled(bars []models.Bar, from int, lo, hi float64) bool {
	for j := from; j < len(bars); j++ {
		if bars[j].Low <= lo && bars[j].High >= hi {
			return true
		}
	}
	return false
}
