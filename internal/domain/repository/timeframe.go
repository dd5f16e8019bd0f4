package repository

import "time"

// Timeframe represents candle resolution buckets.
type Timeframe string

const (
	TFM5  Timeframe = "M5"
	TFM15 Timeframe = "M15"
	TFH1  Timeframe = "H1"
	TFH4  Timeframe = "H4"
	TFD1  Timeframe = "D1"
)

// IsValidTimeframe returns true if tf is a supported timeframe.
func IsValidTimeframe(tf Timeframe) bool {
	switch tf {
	case TFM5, TFM15, TFH1, TFH4, TFD1:
		return true
	default:
		return false
	}
}

// DefaultTimeframe returns the default timeframe.
func DefaultTimeframe() Timeframe { return TFH1 }

// NormalizeTimeframe converts raw string to a valid timeframe (or default).
func NormalizeTimeframe(s string) Timeframe {
	if s == "" {
		return DefaultTimeframe()
	}
	tf := Timeframe(s)
	if IsValidTimeframe(tf) {
		return tf
	}
	return DefaultTimeframe()
}

// Duration returns the bar period of the timeframe.
func (tf Timeframe) Duration() time.Duration {
	switch tf {
	case TFM5:
		return 5 * time.Minute
	case TFM15:
		return 15 * time.Minute
	case TFH1:
		return time.Hour
	case TFH4:
		return 4 * time.Hour
	case TFD1:
		return 24 * time.Hour
	default:
		return time.Hour
	}
}

// Higher returns the next-coarser timeframe used for multi-timeframe
// confluence. D1 has no parent and returns itself.
func (tf Timeframe) Higher() Timeframe {
	switch tf {
	case TFM5:
		return TFM15
	case TFM15:
		return TFH1
	case TFH1:
		return TFH4
	default:
		return TFD1
	}
}
