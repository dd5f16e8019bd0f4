package models

import (
	"fmt"
	"time"
)

// Bar represents one OHLCV candle. Bars are immutable once produced;
// every derived structure keeps indexes into the bar slice it was
// computed from.
type Bar struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// Range reports whether price p falls inside the bar's high/low range.
func (b Bar) Range(p float64) bool {
	return p >= b.Low && p <= b.High
}

// Bullish reports whether the bar closed above its open.
func (b Bar) Bullish() bool { return b.Close > b.Open }

// Bearish reports whether the bar closed below its open.
func (b Bar) Bearish() bool { return b.Close < b.Open }

// ValidateBars checks the input shape contract: timestamps strictly
// increasing and a sane high/low envelope on every bar. A malformed bar
// aborts analysis for the whole window, so this runs before any detector.
func ValidateBars(bars []Bar) error {
	for i, b := range bars {
		if b.High < b.Low {
			return fmt.Errorf("bar %d: high %.6f below low %.6f", i, b.High, b.Low)
		}
		if b.Open > b.High || b.Open < b.Low || b.Close > b.High || b.Close < b.Low {
			return fmt.Errorf("bar %d: open/close outside high-low range", i)
		}
		if i > 0 && !b.Timestamp.After(bars[i-1].Timestamp) {
			return fmt.Errorf("bar %d: timestamp %s not after previous %s",
				i, b.Timestamp.Format(time.RFC3339), bars[i-1].Timestamp.Format(time.RFC3339))
		}
	}
	return nil
}
