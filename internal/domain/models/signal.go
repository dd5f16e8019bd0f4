package models

import "time"

// SignalDirection is the trade side a signal recommends.
type SignalDirection string

const (
	SignalLong  SignalDirection = "LONG"
	SignalShort SignalDirection = "SHORT"
	SignalNone  SignalDirection = "NONE"
)

// Factor is one confluence that contributed points to a signal score.
type Factor struct {
	Name   string
	Points int
}

// Signal is the fused Elliott + SMC verdict for one (symbol, timeframe).
// Score is the capped sum of the fired factor points; Factors preserve
// firing order so a caller can render the confluence breakdown.
type Signal struct {
	Symbol      string
	Timeframe   string
	Direction   SignalDirection
	Score       int // 0-100
	Factors     []Factor
	Entry       float64
	StopLoss    float64
	TakeProfit  float64
	GeneratedAt time.Time
}

// RiskReward returns reward/risk for the signal's levels, or 0 when the
// stop distance is degenerate.
func (s Signal) RiskReward() float64 {
	risk := s.Entry - s.StopLoss
	if risk < 0 {
		risk = -risk
	}
	if risk == 0 {
		return 0
	}
	reward := s.TakeProfit - s.Entry
	if reward < 0 {
		reward = -reward
	}
	return reward / risk
}

// ScanResult is one multi-symbol sweep. Signals are ordered by
// descending score; Errors maps symbols whose pass failed to the
// failure reason, so one bad symbol never voids a sweep.
type ScanResult struct {
	Timeframe   string
	MinScore    int
	GeneratedAt time.Time
	Signals     []Signal
	Errors      map[string]string
}

// Analysis bundles the signal with every intermediate structure of one
// pass, all plain data, so callers can persist or render without
// depending on engine internals.
type Analysis struct {
	Symbol    string
	Timeframe string
	Signal    Signal
	Pivots    []Pivot
	WaveCount WaveCount
	SMC       SMCSnapshot
	ATR       float64
}
