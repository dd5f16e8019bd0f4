package elliott

import "WaveScan/internal/domain/models"

// Validation stops at the first violated rule, so callers always learn
// the cheapest reason a candidate count failed.

// checkRetracement enforces that wave 2 never retraces more than 100%
// of wave 1, and grades how close the retracement sits to the ideal
// band. Returns (quality in [0,1], ok).
func checkRetracement(w1, w2 models.Wave, band models.RetracementBand) (float64, bool) {
	l1 := w1.Length()
	if l1 <= 0 {
		return 0, false
	}
	ratio := w2.Length() / l1
	if ratio > 1.0 {
		return 0, false
	}
	switch {
	case ratio >= band.Low && ratio <= band.High:
		return 1.0, true
	case ratio < band.Low:
		return ratio / band.Low, true
	default:
		// Between the band's upper edge and a full retracement the
		// credit falls linearly to zero.
		return (1.0 - ratio) / (1.0 - band.High), true
	}
}

// checkThirdNotShortest enforces that wave 3 is strictly the longest of
// waves 1, 3 and 5. The quality term rewards the dominance margin, with
// a 1.618x extension over the longer of waves 1 and 5 scoring full marks.
func checkThirdNotShortest(w1, w3, w5 models.Wave) (float64, bool) {
	l1, l3, l5 := w1.Length(), w3.Length(), w5.Length()
	if l3 <= l1 || l3 <= l5 {
		return 0, false
	}
	longest := l1
	if l5 > longest {
		longest = l5
	}
	if longest <= 0 {
		return 0, false
	}
	q := (l3/longest - 1.0) / (Fib1618 - 1.0)
	return clamp01(q), true
}

// checkNoOverlap enforces that wave 4's price range never enters wave
// 1's range. Diagonal counts, which permit overlap, are not recognized.
func checkNoOverlap(w1, w4 models.Wave) bool {
	w1Low, w1High := w1.PriceRange()
	w4Low, w4High := w4.PriceRange()
	return w4Low > w1High || w4High < w1Low
}

// extensionQuality grades wave 5 against wave 1: equality is the
// textbook relationship, and credit decays linearly as the ratio
// drifts from it.
func extensionQuality(w1, w5 models.Wave) float64 {
	l1 := w1.Length()
	if l1 <= 0 {
		return 0
	}
	r := w5.Length() / l1
	return clamp01(1.0 - abs(r-1.0))
}

// shortWaveQuality penalizes counts whose smallest wave is within one
// ATR of noise. Waves at or above the ATR scale score full credit.
func shortWaveQuality(waves []models.Wave, atr float64) float64 {
	if atr <= 0 {
		return 1.0
	}
	min := waves[0].Length()
	for _, w := range waves[1:] {
		if l := w.Length(); l < min {
			min = l
		}
	}
	return clamp01(min / atr)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
