package smc

import (
	"math"

	"WaveScan/internal/domain/models"
)

// structureState is the value threaded through the structure fold: the
// most recent confirmed swings and the prevailing direction. It is never
// shared; every pass starts from a zero state.
type structureState struct {
	swingHigh *models.Pivot
	swingLow  *models.Pivot
	trend     models.Direction
}

// FindStructureEvents folds over the bar sequence classifying closes
// beyond confirmed swings. A swing becomes confirmed only once its
// lookahead window has elapsed (pivot index + w bars). A break in the
// prevailing direction is a BOS; a break against it is a CHoCH and
// immediately redefines the prevailing direction. The first break of a
// neutral window only establishes the trend; no event is reported until
// a prevailing direction exists to break with or against.
// Strength is the break distance over ATR at the breaking bar.
// The final threaded direction is returned alongside the events.
func FindStructureEvents(bars []models.Bar, pivots []models.Pivot, atr []float64, w int) ([]models.StructureEvent, models.Direction) {
	if len(bars) == 0 || len(atr) != len(bars) {
		return nil, models.Neutral
	}
	events := make([]models.StructureEvent, 0, 8)
	st := structureState{trend: models.Neutral}
	next := 0 // next pivot awaiting confirmation

	for i := range bars {
		// Confirm pivots whose lookahead window has fully elapsed.
		for next < len(pivots) && pivots[next].Index+w <= i {
			if pivots[next].Kind == models.PivotHigh {
				st.swingHigh = &pivots[next]
			} else {
				st.swingLow = &pivots[next]
			}
			next++
		}

		if st.swingHigh != nil && bars[i].Close > st.swingHigh.Price {
			if ev, ok := breakEvent(*st.swingHigh, i, bars[i].Close, atr[i], models.Bullish, &st); ok {
				events = append(events, ev)
			}
			st.swingHigh = nil
		}
		if st.swingLow != nil && bars[i].Close < st.swingLow.Price {
			if ev, ok := breakEvent(*st.swingLow, i, bars[i].Close, atr[i], models.Bearish, &st); ok {
				events = append(events, ev)
			}
			st.swingLow = nil
		}
	}
	return events, st.trend
}

func breakEvent(broken models.Pivot, barIdx int, close, atr float64, dir models.Direction, st *structureState) (models.StructureEvent, bool) {
	if st.trend == models.Neutral {
		st.trend = dir
		return models.StructureEvent{}, false
	}
	kind := models.StructureBOS
	if st.trend == dir.Opposite() {
		kind = models.StructureCHoCH
	}
	st.trend = dir

	strength := 0.0
	if atr > 0 {
		strength = math.Abs(close-broken.Price) / atr
	}
	return models.StructureEvent{
		Kind:        kind,
		Direction:   dir,
		BrokenPivot: broken,
		BarIndex:    barIdx,
		Strength:    strength,
	}, true
}
