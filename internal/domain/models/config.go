package models

import "fmt"

// RetracementBand is the wave-2 retracement range that earns full rule
// credit, expressed as fractions of wave 1.
type RetracementBand struct {
	Low  float64
	High float64
}

// AnalysisConfig carries every tunable the engines recognize. A config
// is validated once at the entry of a pass; detectors never re-check it.
type AnalysisConfig struct {
	PivotWindow           int
	ATRPeriod             int
	FVGEnabled            bool
	RetracementBand       RetracementBand
	OrderBlockATRMultiple float64
	ProximityThreshold    float64 // ATR multiples from current price
	MaxPivots             int     // pivot window handed to the wave engine
}

// DefaultAnalysisConfig returns the settings the engines were tuned
// with: 5-bar pivots, ATR(14), the classic 38.2-78.6% retracement band.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		PivotWindow:           5,
		ATRPeriod:             14,
		FVGEnabled:            true,
		RetracementBand:       RetracementBand{Low: 0.382, High: 0.786},
		OrderBlockATRMultiple: 1.5,
		ProximityThreshold:    2.0,
		MaxPivots:             30,
	}
}

// Validate rejects an unusable configuration before any analysis runs.
func (c AnalysisConfig) Validate() error {
	if c.PivotWindow < 1 {
		return fmt.Errorf("pivot_window must be >= 1, got %d", c.PivotWindow)
	}
	if c.ATRPeriod < 2 {
		return fmt.Errorf("atr_period must be >= 2, got %d", c.ATRPeriod)
	}
	if c.RetracementBand.Low <= 0 || c.RetracementBand.High <= 0 {
		return fmt.Errorf("retracement_band bounds must be positive")
	}
	if c.RetracementBand.Low >= c.RetracementBand.High {
		return fmt.Errorf("retracement_band low %.3f must be below high %.3f",
			c.RetracementBand.Low, c.RetracementBand.High)
	}
	if c.RetracementBand.High > 1.0 {
		return fmt.Errorf("retracement_band high %.3f exceeds 100%% retracement", c.RetracementBand.High)
	}
	if c.OrderBlockATRMultiple <= 0 {
		return fmt.Errorf("order_block_atr_multiple must be positive, got %.3f", c.OrderBlockATRMultiple)
	}
	if c.ProximityThreshold <= 0 {
		return fmt.Errorf("proximity_threshold must be positive, got %.3f", c.ProximityThreshold)
	}
	if c.MaxPivots < 6 {
		return fmt.Errorf("max_pivots must be >= 6 to seat a 5-wave count, got %d", c.MaxPivots)
	}
	return nil
}
