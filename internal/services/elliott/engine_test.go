package elliott

import (
	"reflect"
	"testing"
	"time"

	"WaveScan/internal/domain/models"
	"WaveScan/internal/services/swing"
)

func t0() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }

func piv(i int, price float64, kind models.PivotKind) models.Pivot {
	return models.Pivot{
		Index:     i,
		Timestamp: t0().Add(time.Duration(i) * time.Hour),
		Price:     price,
		Kind:      kind,
	}
}

// quietBars keeps the ATR near 1 so wave-scale credit stays full for
// fixtures whose waves span several points.
func quietBars(n int) []models.Bar {
	bars := make([]models.Bar, n)
	for i := range bars {
		bars[i] = models.Bar{
			Timestamp: t0().Add(time.Duration(i) * time.Hour),
			Open:      100, High: 100.5, Low: 99.5, Close: 100, Volume: 100,
		}
	}
	return bars
}

// Textbook bullish count: 50% wave-2 retrace, wave 3 at 1.618x wave 1,
// wave 5 equal to wave 1.
func textbookPivots() []models.Pivot {
	return []models.Pivot{
		piv(0, 100, models.PivotLow),
		piv(4, 110, models.PivotHigh),
		piv(8, 105, models.PivotLow),
		piv(12, 121.18, models.PivotHigh),
		piv(16, 115, models.PivotLow),
		piv(20, 125, models.PivotHigh),
	}
}

func TestAnalyzeTextbookImpulse(t *testing.T) {
	count := Analyze(quietBars(24), textbookPivots(), models.DefaultAnalysisConfig())

	if count.Pattern != models.PatternImpulse {
		t.Fatalf("expected impulse, got %s", count.Pattern)
	}
	if !count.Valid {
		t.Fatal("textbook count reported invalid")
	}
	if count.Direction != models.Bullish {
		t.Fatalf("expected bullish, got %s", count.Direction)
	}
	if count.Confidence < 80 {
		t.Fatalf("expected confidence >= 80, got %v", count.Confidence)
	}
	if len(count.Waves) != 5 {
		t.Fatalf("expected 5 waves, got %d", len(count.Waves))
	}
	if count.Waves[0].Label != models.Wave1 || count.Waves[4].Label != models.Wave5 {
		t.Fatalf("wave labels out of order: %+v", count.Waves)
	}
}

func TestAnalyzeTextbookProjection(t *testing.T) {
	count := Analyze(quietBars(24), textbookPivots(), models.DefaultAnalysisConfig())
	p := count.Projection
	if p == nil {
		t.Fatal("expected a projection on a valid impulse")
	}
	// Wave 1 spans 10 points and wave 4 ends at 115.
	if p.TargetExtension != 125 || p.TargetFib100 != 125 {
		t.Fatalf("expected 1:1 target 125, got ext=%v fib100=%v", p.TargetExtension, p.TargetFib100)
	}
	if p.TargetFib618 != 121.18 {
		t.Fatalf("expected 0.618 target 121.18, got %v", p.TargetFib618)
	}
	if p.TargetFib1618 != 131.18 {
		t.Fatalf("expected 1.618 target 131.18, got %v", p.TargetFib1618)
	}
	if p.StopLoss != 115 {
		t.Fatalf("expected stop at wave 4 end 115, got %v", p.StopLoss)
	}
}

func TestAnalyzeBearishImpulse(t *testing.T) {
	pivots := []models.Pivot{
		piv(0, 200, models.PivotHigh),
		piv(4, 190, models.PivotLow),
		piv(8, 195, models.PivotHigh),
		piv(12, 173.82, models.PivotLow),
		piv(16, 180, models.PivotHigh),
		piv(20, 170, models.PivotLow),
	}
	count := Analyze(quietBars(24), pivots, models.DefaultAnalysisConfig())
	if count.Pattern != models.PatternImpulse || count.Direction != models.Bearish {
		t.Fatalf("expected bearish impulse, got %s/%s", count.Pattern, count.Direction)
	}
	if count.Projection.TargetFib100 != 170 {
		t.Fatalf("expected 1:1 target 170, got %v", count.Projection.TargetFib100)
	}
}

func TestAnalyzeRejectsDeepRetracement(t *testing.T) {
	pivots := textbookPivots()
	pivots[2] = piv(8, 99, models.PivotLow) // below wave 1's origin
	count := Analyze(quietBars(24), pivots, models.DefaultAnalysisConfig())
	if count.Pattern != models.PatternNone {
		t.Fatalf("retracement past 100%% must void the count, got %s", count.Pattern)
	}
}

func TestAnalyzeRejectsShortThirdWave(t *testing.T) {
	pivots := []models.Pivot{
		piv(0, 100, models.PivotLow),
		piv(4, 110, models.PivotHigh),
		piv(8, 105, models.PivotLow),
		piv(12, 114, models.PivotHigh), // wave 3 shorter than wave 1
		piv(16, 112, models.PivotLow),
		piv(20, 120, models.PivotHigh),
	}
	count := Analyze(quietBars(24), pivots, models.DefaultAnalysisConfig())
	if count.Pattern == models.PatternImpulse {
		t.Fatal("wave 3 must be strictly the longest motive wave")
	}
	if count.Pattern != models.PatternNone {
		t.Fatalf("shallow B leg should not rescue the fixture, got %s", count.Pattern)
	}
}

func TestAnalyzeOverlapFallsBackToCorrection(t *testing.T) {
	pivots := textbookPivots()
	pivots[4] = piv(16, 109, models.PivotLow) // wave 4 enters wave 1's range
	count := Analyze(quietBars(24), pivots, models.DefaultAnalysisConfig())
	if count.Pattern == models.PatternImpulse {
		t.Fatal("overlapping wave 4 must void the impulse")
	}
	if count.Pattern != models.PatternCorrection {
		t.Fatalf("trailing legs fit an ABC here, got %s", count.Pattern)
	}
	if len(count.Waves) != 3 || count.Waves[2].Label != models.WaveC {
		t.Fatalf("expected A-B-C waves, got %+v", count.Waves)
	}
}

func TestAnalyzeMonotonicSeriesHasNoPattern(t *testing.T) {
	bars := make([]models.Bar, 40)
	for i := range bars {
		base := 100 + float64(i)
		bars[i] = models.Bar{
			Timestamp: t0().Add(time.Duration(i) * time.Hour),
			Open:      base, High: base + 0.5, Low: base - 0.5, Close: base + 0.4, Volume: 100,
		}
	}
	pivots := swing.Extract(bars, 5)
	count := Analyze(bars, pivots, models.DefaultAnalysisConfig())
	if count.Pattern != models.PatternNone || count.Valid {
		t.Fatalf("monotonic series produced %s (valid=%v)", count.Pattern, count.Valid)
	}
	if count.Direction != models.Neutral {
		t.Fatalf("no-pattern result must be neutral, got %s", count.Direction)
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	bars, pivots := quietBars(24), textbookPivots()
	cfg := models.DefaultAnalysisConfig()
	first := Analyze(bars, pivots, cfg)
	second := Analyze(bars, pivots, cfg)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("repeated analysis of the same window diverged")
	}
}
