// Package signal fuses an Elliott wave count with an SMC snapshot into
// a single scored trade signal. Scoring is additive over named
// confluence factors and capped at 100; a window with no confluence
// yields a NONE signal with score zero, never an error.
package signal

import (
	"time"

	"WaveScan/internal/domain/models"
	"WaveScan/internal/services/smc"
)

// maxScore caps the additive factor sum.
const maxScore = 100

// Vote weights for the direction decision. The two local engines carry
// equal weight; the higher timeframe breaks ties but cannot outvote a
// local consensus.
const (
	votesElliott = 2
	votesSMC     = 2
	votesHTF     = 1
)

// Inputs carries one completed analysis pass into the scorer. HTF is
// the wave count of the next-higher timeframe and may be nil.
type Inputs struct {
	Bars      []models.Bar
	WaveCount models.WaveCount
	SMC       models.SMCSnapshot
	HTF       *models.WaveCount
	ATR       float64
	At        time.Time
}

// Engine scores analysis passes under one fixed configuration. It holds
// no mutable state, so a single instance serves concurrent scans.
type Engine struct {
	cfg models.AnalysisConfig
}

func NewEngine(cfg models.AnalysisConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Evaluate votes a direction, fires the confluence factors that agree
// with it, and derives trade levels from the strongest structure. The
// same inputs always produce the same signal.
func (e *Engine) Evaluate(symbol, timeframe string, in Inputs) models.Signal {
	at := in.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	sig := models.Signal{
		Symbol:      symbol,
		Timeframe:   timeframe,
		Direction:   models.SignalNone,
		GeneratedAt: at,
	}

	dir := voteDirection(in)
	if dir == models.Neutral {
		return sig
	}

	price := 0.0
	if n := len(in.Bars); n > 0 {
		price = in.Bars[n-1].Close
	}

	var factors []models.Factor
	factors = append(factors, waveFactors(in.WaveCount, dir)...)
	factors = append(factors, structureFactors(in.SMC, dir)...)
	factors = append(factors, zoneFactors(in.SMC, dir, price, in.ATR, e.cfg.ProximityThreshold)...)
	factors = append(factors, htfFactor(in.HTF, dir)...)
	if len(factors) == 0 {
		return sig
	}

	score := 0
	for _, f := range factors {
		score += f.Points
	}
	if score > maxScore {
		score = maxScore
	}

	if dir == models.Bullish {
		sig.Direction = models.SignalLong
	} else {
		sig.Direction = models.SignalShort
	}
	sig.Score = score
	sig.Factors = factors
	sig.Entry, sig.StopLoss, sig.TakeProfit = e.levels(in, dir, price)
	return sig
}

// voteDirection tallies weighted directional votes from the Elliott
// count, the SMC trend and the higher-timeframe count. A tie, including
// the all-neutral case, resolves to no direction.
func voteDirection(in Inputs) models.Direction {
	tally := map[models.Direction]int{}
	if in.WaveCount.Valid {
		tally[in.WaveCount.Direction] += votesElliott
	}
	tally[in.SMC.Trend] += votesSMC
	if in.HTF != nil && in.HTF.Valid {
		tally[in.HTF.Direction] += votesHTF
	}
	bull, bear := tally[models.Bullish], tally[models.Bearish]
	switch {
	case bull > bear:
		return models.Bullish
	case bear > bull:
		return models.Bearish
	default:
		return models.Neutral
	}
}

// levels derives entry, stop and target. Entry is the latest close. The
// stop comes from the wave projection when the count agrees with the
// signal, then from the outer boundary of the nearest unmitigated zone
// in the signal's direction, and only then from an ATR buffer. The
// target prefers the 1.618 projection and falls back to twice the stop
// distance.
func (e *Engine) levels(in Inputs, dir models.Direction, price float64) (entry, stop, target float64) {
	entry = price

	sign := 1.0
	if dir == models.Bearish {
		sign = -1.0
	}

	proj := in.WaveCount.Projection
	if proj != nil && in.WaveCount.Valid && in.WaveCount.Direction == dir &&
		sign*(entry-proj.StopLoss) > 0 {
		stop = proj.StopLoss
	} else if zs, ok := zoneStop(in.SMC, dir, entry); ok {
		stop = zs
	} else {
		stop = entry - sign*1.5*in.ATR
	}

	if proj != nil && in.WaveCount.Direction == dir && sign*(proj.TargetFib1618-entry) > 0 {
		target = proj.TargetFib1618
	} else {
		target = entry + sign*2*dist(entry, stop)
	}
	return entry, stop, target
}

// zoneStop places the stop beyond the far edge of the nearest
// unmitigated order block or unfilled gap in the signal's direction. A
// long stops under the zone low, a short above the zone high; zones on
// the wrong side of entry are ignored.
func zoneStop(snap models.SMCSnapshot, dir models.Direction, entry float64) (float64, bool) {
	var stop float64
	found := false

	consider := func(edge float64) {
		if dir == models.Bullish && edge >= entry {
			return
		}
		if dir == models.Bearish && edge <= entry {
			return
		}
		if !found || dist(edge, entry) < dist(stop, entry) {
			stop, found = edge, true
		}
	}

	if ob := smc.NearestUnmitigatedBlock(snap.OrderBlocks, dir, entry); ob != nil {
		if dir == models.Bullish {
			consider(ob.Low)
		} else {
			consider(ob.High)
		}
	}
	if g := smc.NearestUnfilledGap(snap.Gaps, dir, entry); g != nil {
		if dir == models.Bullish {
			consider(g.GapLow)
		} else {
			consider(g.GapHigh)
		}
	}
	return stop, found
}
