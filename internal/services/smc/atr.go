package smc

import (
	"math"

	"WaveScan/internal/domain/models"
)

// TrueRange returns the true range of bar i: the largest of high-low,
// |high-prevClose| and |low-prevClose|. Bar 0 falls back to high-low.
func TrueRange(bars []models.Bar, i int) float64 {
	hl := bars[i].High - bars[i].Low
	if i == 0 {
		return hl
	}
	prev := bars[i-1].Close
	return math.Max(hl, math.Max(math.Abs(bars[i].High-prev), math.Abs(bars[i].Low-prev)))
}

// ATRSeries computes the rolling simple average of true range over
// period bars, one value per bar. Bars before a full period average
// whatever true ranges exist so far, so the series is defined from
// bar 0; it is used purely as a normalization scale.
func ATRSeries(bars []models.Bar, period int) []float64 {
	if len(bars) == 0 || period < 1 {
		return nil
	}
	out := make([]float64, len(bars))
	sum := 0.0
	window := make([]float64, 0, period)
	for i := range bars {
		tr := TrueRange(bars, i)
		window = append(window, tr)
		sum += tr
		if len(window) > period {
			sum -= window[0]
			window = window[1:]
		}
		out[i] = sum / float64(len(window))
	}
	return out
}

// ATR returns the final value of the series, or 0 for an empty window.
func ATR(bars []models.Bar, period int) float64 {
	s := ATRSeries(bars, period)
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1]
}
