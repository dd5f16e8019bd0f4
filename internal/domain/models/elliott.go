package models

import "math"

// PatternType classifies the wave structure an Elliott pass settled on.
type PatternType string

const (
	PatternImpulse    PatternType = "IMPULSE"
	PatternCorrection PatternType = "CORRECTION"
	PatternNone       PatternType = "NONE"
)

// WaveLabel names a single wave inside a count.
type WaveLabel string

const (
	Wave1 WaveLabel = "1"
	Wave2 WaveLabel = "2"
	Wave3 WaveLabel = "3"
	Wave4 WaveLabel = "4"
	Wave5 WaveLabel = "5"
	WaveA WaveLabel = "A"
	WaveB WaveLabel = "B"
	WaveC WaveLabel = "C"
)

// Wave is one leg of a count, bounded by two pivots of opposite kind.
type Wave struct {
	Label WaveLabel
	Start Pivot
	End   Pivot
}

// Length returns the absolute price distance the wave covers.
func (w Wave) Length() float64 {
	return math.Abs(w.End.Price - w.Start.Price)
}

// PriceRange returns the low and high endpoint prices of the wave.
func (w Wave) PriceRange() (lo, hi float64) {
	lo, hi = w.Start.Price, w.End.Price
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

// WaveProjection holds the forward price levels derived from a count.
// TargetExtension is the 1:1 extension of wave 1 from wave 4's end; the
// fib targets are 0.618/1.0/1.618 multiples of wave 1 from the same
// anchor. For corrections the fields carry the wave C projection.
type WaveProjection struct {
	TargetExtension float64
	TargetFib618    float64
	TargetFib100    float64
	TargetFib1618   float64
	StopLoss        float64
}

// WaveCount is an ordered sequence of waves sharing one directional
// bias, plus the validation verdict and confidence of the fit.
type WaveCount struct {
	Pattern    PatternType
	Direction  Direction
	Waves      []Wave
	Valid      bool
	Confidence float64 // 0-100
	Projection *WaveProjection
}

// NoWaveCount is the explicit "no pattern" outcome. Absence of a pattern
// is a normal result, never an error.
func NoWaveCount() WaveCount {
	return WaveCount{Pattern: PatternNone, Direction: Neutral}
}
