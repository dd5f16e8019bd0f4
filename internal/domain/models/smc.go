package models

// OrderBlock is the last opposing-color candle before a strong
// directional displacement. Mitigated flips true once price trades back
// into [Low, High] after formation; the flag is monotonic within one
// analysis pass.
type OrderBlock struct {
	BarIndex  int
	High      float64
	Low       float64
	Direction Direction
	Mitigated bool
}

// Mid returns the midpoint of the block's range.
func (ob OrderBlock) Mid() float64 { return (ob.High + ob.Low) / 2 }

// Contains reports whether price p trades inside the block.
func (ob OrderBlock) Contains(p float64) bool { return p >= ob.Low && p <= ob.High }

// FairValueGap is a three-candle imbalance. The gap spans
// [bar[i-1].high, bar[i+1].low] for bullish gaps and the symmetric range
// for bearish ones; bar i's own range is not part of the gap. Filled
// flips true once a later bar's range fully covers the gap, and is
// monotonic within one pass.
type FairValueGap struct {
	StartIndex int // i-1
	EndIndex   int // i+1
	GapHigh    float64
	GapLow     float64
	Direction  Direction
	Filled     bool
}

// Mid returns the midpoint of the gap.
func (g FairValueGap) Mid() float64 { return (g.GapHigh + g.GapLow) / 2 }

// Overlaps reports whether price p sits inside the gap.
func (g FairValueGap) Overlaps(p float64) bool { return p >= g.GapLow && p <= g.GapHigh }

// StructureKind distinguishes trend continuation from reversal breaks.
type StructureKind string

const (
	StructureBOS   StructureKind = "BOS"
	StructureCHoCH StructureKind = "CHoCH"
)

// StructureEvent records a close beyond a confirmed swing. Strength is
// the break distance normalized by ATR at break time.
type StructureEvent struct {
	Kind        StructureKind
	Direction   Direction
	BrokenPivot Pivot
	BarIndex    int
	Strength    float64
}

// SMCSnapshot is the SMC engine's complete output for one bar window.
// Trend is the prevailing direction after folding all structure events.
type SMCSnapshot struct {
	OrderBlocks []OrderBlock
	Gaps        []FairValueGap
	Events      []StructureEvent
	Trend       Direction
}

// LastEvent returns the most recent structure event of the given kind,
// or nil when none occurred in the window.
func (s SMCSnapshot) LastEvent(kind StructureKind) *StructureEvent {
	for i := len(s.Events) - 1; i >= 0; i-- {
		if s.Events[i].Kind == kind {
			return &s.Events[i]
		}
	}
	return nil
}
