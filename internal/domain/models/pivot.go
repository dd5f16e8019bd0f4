package models

import "time"

// PivotKind labels a pivot as a local high or low.
type PivotKind string

const (
	PivotHigh PivotKind = "HIGH"
	PivotLow  PivotKind = "LOW"
)

// Pivot is a confirmed local price extremum. Index points into the bar
// window the pivot was extracted from; Price is the bar's high for HIGH
// pivots and its low for LOW pivots.
type Pivot struct {
	Index     int
	Timestamp time.Time
	Price     float64
	Kind      PivotKind
}

// Direction is a directional bias shared by waves, SMC structures and
// signals.
type Direction string

const (
	Bullish Direction = "BULLISH"
	Bearish Direction = "BEARISH"
	Neutral Direction = "NEUTRAL"
)

// Opposite returns the inverse bias; Neutral maps to itself.
func (d Direction) Opposite() Direction {
	switch d {
	case Bullish:
		return Bearish
	case Bearish:
		return Bullish
	default:
		return Neutral
	}
}
