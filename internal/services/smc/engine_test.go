package smc

import (
	"testing"
	"time"

	"WaveScan/internal/domain/models"
	"WaveScan/internal/services/swing"
)

func bar(t0 time.Time, i int, o, h, l, c float64) models.Bar {
	return models.Bar{
		Timestamp: t0.Add(time.Duration(i) * time.Hour),
		Open:      o, High: h, Low: l, Close: c, Volume: 100,
	}
}

func t0() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }

func TestATRSeriesStableRange(t *testing.T) {
	// Constant 2-point bars with no gaps: every true range is 2.
	bars := make([]models.Bar, 20)
	for i := range bars {
		bars[i] = bar(t0(), i, 101, 102, 100, 101)
	}
	s := ATRSeries(bars, 14)
	if len(s) != len(bars) {
		t.Fatalf("series length %d != %d", len(s), len(bars))
	}
	if s[len(s)-1] != 2.0 {
		t.Fatalf("expected ATR 2.0, got %v", s[len(s)-1])
	}
}

func TestFindFairValueGapsLiteralFixture(t *testing.T) {
	bars := []models.Bar{
		bar(t0(), 0, 99, 100, 98, 99.5),
		bar(t0(), 1, 103.5, 105, 103, 104.5),
		bar(t0(), 2, 111, 112, 110, 111.5),
	}
	gaps := FindFairValueGaps(bars)
	if len(gaps) != 1 {
		t.Fatalf("expected 1 gap, got %d", len(gaps))
	}
	g := gaps[0]
	if g.Direction != models.Bullish {
		t.Fatalf("expected bullish gap, got %s", g.Direction)
	}
	if g.GapLow != 100 || g.GapHigh != 110 {
		t.Fatalf("expected gap [100,110], got [%v,%v]", g.GapLow, g.GapHigh)
	}
	if g.Filled {
		t.Fatalf("gap reported filled with no later bars")
	}
}

func TestFairValueGapFilledByCoveringBar(t *testing.T) {
	bars := []models.Bar{
		bar(t0(), 0, 99, 100, 98, 99.5),
		bar(t0(), 1, 103.5, 105, 103, 104.5),
		bar(t0(), 2, 111, 112, 110, 111.5),
		bar(t0(), 3, 110, 111, 99, 100), // covers [100,110] entirely
	}
	gaps := FindFairValueGaps(bars)
	if len(gaps) != 1 || !gaps[0].Filled {
		t.Fatalf("expected gap filled by covering bar, got %+v", gaps)
	}
}

func TestFillFlagMonotonicOnExtendedWindow(t *testing.T) {
	bars := []models.Bar{
		bar(t0(), 0, 99, 100, 98, 99.5),
		bar(t0(), 1, 103.5, 105, 103, 104.5),
		bar(t0(), 2, 111, 112, 110, 111.5),
		bar(t0(), 3, 110, 111, 99, 100),
	}
	first := FindFairValueGaps(bars)
	extended := append(bars, bar(t0(), 4, 115, 116, 114, 115.5))
	second := FindFairValueGaps(extended)
	if first[0].Filled && !second[0].Filled {
		t.Fatalf("fill flag reverted on extended window")
	}
}

// trendingBars builds a quiet range followed by a sharp bullish
// displacement out of a bearish candle.
func displacementFixture() []models.Bar {
	bars := []models.Bar{}
	// quiet range, ATR settles near 2
	for i := 0; i < 15; i++ {
		bars = append(bars, bar(t0(), i, 101, 102, 100, 101))
	}
	// bearish candle: the block candidate
	bars = append(bars, bar(t0(), 15, 101.5, 102, 100, 100.2))
	// three-bar run: +12 points, far beyond 1.5x ATR
	bars = append(bars, bar(t0(), 16, 100.5, 105, 100.3, 104.8))
	bars = append(bars, bar(t0(), 17, 105, 109, 104.8, 108.7))
	bars = append(bars, bar(t0(), 18, 109, 113, 108.8, 112.5))
	return bars
}

func TestFindOrderBlocksMarksOpposingCandle(t *testing.T) {
	bars := displacementFixture()
	atr := ATRSeries(bars, 14)
	blocks := FindOrderBlocks(bars, atr, 1.5)
	if len(blocks) == 0 {
		t.Fatalf("expected at least one order block")
	}
	found := false
	for _, b := range blocks {
		if b.BarIndex == 15 && b.Direction == models.Bullish {
			found = true
			if b.High != 102 || b.Low != 100 {
				t.Fatalf("block range [%v,%v], want [100,102]", b.Low, b.High)
			}
			if b.Mitigated {
				t.Fatalf("block mitigated with no revisit")
			}
		}
	}
	if !found {
		t.Fatalf("bearish candle at 15 not marked as bullish block: %+v", blocks)
	}
}

func TestOrderBlockMitigatedOnRevisit(t *testing.T) {
	bars := displacementFixture()
	// price trades back into [100,102] after the run
	bars = append(bars, bar(t0(), len(bars), 112, 112.5, 101.5, 102))
	atr := ATRSeries(bars, 14)
	blocks := FindOrderBlocks(bars, atr, 1.5)
	for _, b := range blocks {
		if b.BarIndex == 15 && !b.Mitigated {
			t.Fatalf("expected block mitigated after revisit")
		}
	}
}

func TestStructureBOSThenCHoCH(t *testing.T) {
	// The first break only seeds the trend; the next higher-high break
	// is the BOS, and a later collapse through the confirmed swing low
	// flips the trend via CHoCH.
	w := 2
	bars := []models.Bar{
		bar(t0(), 0, 100, 101, 99, 100),
		bar(t0(), 1, 100, 102, 99.5, 101),
		bar(t0(), 2, 101, 105, 100.5, 104), // swing high 105
		bar(t0(), 3, 104, 104.5, 102, 103),
		bar(t0(), 4, 103, 103.5, 100, 102),   // swing low 100 later
		bar(t0(), 5, 102, 104, 101.5, 103),   // high pivot at 2 confirmed
		bar(t0(), 6, 103, 107, 102.5, 106),   // close 106 > 105: seeds bullish trend, no event
		bar(t0(), 7, 106, 106.5, 104, 105),   // low pivot at 4 confirmed by now
		bar(t0(), 8, 105, 106, 103.5, 104.5), // high pivot 107 at 6 confirmed
		bar(t0(), 9, 105, 109, 104.5, 108),   // close 108 > 107: BOS bullish
		bar(t0(), 10, 108, 108.5, 99, 99.5),  // close 99.5 < 100: CHoCH bearish
	}
	pivots := swing.Alternate(swing.Extract(bars, w))
	atr := ATRSeries(bars, 5)
	events, trend := FindStructureEvents(bars, pivots, atr, w)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d: %+v", len(events), events)
	}
	if events[0].Kind != models.StructureBOS || events[0].Direction != models.Bullish {
		t.Fatalf("first event should be bullish BOS, got %+v", events[0])
	}
	if events[1].Kind != models.StructureCHoCH || events[1].Direction != models.Bearish {
		t.Fatalf("second event should be bearish CHoCH, got %+v", events[1])
	}
	if trend != models.Bearish {
		t.Fatalf("trend after CHoCH should be bearish, got %s", trend)
	}
	if events[1].Strength <= 0 {
		t.Fatalf("expected positive ATR-normalized strength")
	}
}

func TestStructureNeutralBreakEmitsNoEvent(t *testing.T) {
	// A break while the threaded trend is still neutral sets the
	// direction silently; no BOS is reported for it.
	w := 2
	bars := []models.Bar{
		bar(t0(), 0, 100, 101, 99, 100),
		bar(t0(), 1, 100, 102, 99.5, 101),
		bar(t0(), 2, 101, 103, 100.5, 102.5), // swing high 103
		bar(t0(), 3, 102, 102.5, 101, 102),
		bar(t0(), 4, 102, 102.8, 101.5, 102.2),
		bar(t0(), 5, 102, 104, 101.8, 103.8), // close 103.8 > 103 while neutral
	}
	pivots := swing.Alternate(swing.Extract(bars, w))
	atr := ATRSeries(bars, 5)
	events, trend := FindStructureEvents(bars, pivots, atr, w)
	if len(events) != 0 {
		t.Fatalf("neutral break must not emit events, got %+v", events)
	}
	if trend != models.Bullish {
		t.Fatalf("neutral break should seed a bullish trend, got %s", trend)
	}
}

func TestAnalyzeInsufficientData(t *testing.T) {
	cfg := models.DefaultAnalysisConfig()
	snap := Analyze([]models.Bar{bar(t0(), 0, 1, 2, 0.5, 1.5)}, nil, cfg)
	if len(snap.OrderBlocks) != 0 || len(snap.Gaps) != 0 || len(snap.Events) != 0 {
		t.Fatalf("expected empty snapshot for tiny window")
	}
	if snap.Trend != models.Neutral {
		t.Fatalf("expected neutral trend, got %s", snap.Trend)
	}
}

func TestAnalyzeRespectsFVGToggle(t *testing.T) {
	cfg := models.DefaultAnalysisConfig()
	cfg.FVGEnabled = false
	bars := []models.Bar{
		bar(t0(), 0, 99, 100, 98, 99.5),
		bar(t0(), 1, 103.5, 105, 103, 104.5),
		bar(t0(), 2, 111, 112, 110, 111.5),
	}
	snap := Analyze(bars, nil, cfg)
	if len(snap.Gaps) != 0 {
		t.Fatalf("gaps reported with detector disabled")
	}
}
