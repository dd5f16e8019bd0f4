package smc

import (
	"math"

	"WaveScan/internal/domain/models"
)

// displacementRun is the number of bars a directional move is measured
// over when qualifying an order block.
const displacementRun = 3

// FindOrderBlocks scans for strong directional moves and marks the last
// opposing-color candle before each as an order block. A move qualifies
// when the net close-to-close displacement over displacementRun bars
// exceeds atrMultiple times the ATR at the candidate bar.
//
// Mitigation is recomputed from scratch per pass: a block is mitigated
// once any bar after the displacement run trades back into its range.
// The flag only ever goes false to true within the pass.
func FindOrderBlocks(bars []models.Bar, atr []float64, atrMultiple float64) []models.OrderBlock {
	if len(bars) <= displacementRun || len(atr) != len(bars) {
		return nil
	}
	blocks := make([]models.OrderBlock, 0, 8)
	seen := make(map[int]models.Direction, 8)

	for i := 0; i+displacementRun < len(bars); i++ {
		scale := atr[i]
		if scale <= 0 {
			continue
		}
		net := bars[i+displacementRun].Close - bars[i].Close
		if math.Abs(net) < atrMultiple*scale {
			continue
		}

		dir := models.Bullish
		if net < 0 {
			dir = models.Bearish
		}
		obIdx := lastOpposingCandle(bars, i, dir)
		if obIdx < 0 || seen[obIdx] == dir {
			continue
		}
		seen[obIdx] = dir

		blocks = append(blocks, models.OrderBlock{
			BarIndex:  obIdx,
			High:      bars[obIdx].High,
			Low:       bars[obIdx].Low,
			Direction: dir,
			Mitigated: mitigated(bars, i+displacementRun+1, bars[obIdx].Low, bars[obIdx].High),
		})
	}
	return blocks
}

// lastOpposingCandle walks backward from the run origin looking for the
// nearest candle colored against the move: a bearish candle before a
// bullish displacement and vice versa.
func lastOpposingCandle(bars []models.Bar, runStart int, dir models.Direction) int {
	for j := runStart; j >= 0 && j > runStart-displacementRun; j-- {
		if dir == models.Bullish && bars[j].Bearish() {
			return j
		}
		if dir == models.Bearish && bars[j].Bullish() {
			return j
		}
	}
	return -1
}

func mitigated(bars []models.Bar, from int, lo, hi float64) bool {
	for j := from; j < len(bars); j++ {
		if bars[j].Low <= hi && bars[j].High >= lo {
			return true
		}
	}
	return false
}
