package signal

import (
	"testing"
	"time"

	"WaveScan/internal/domain/models"
)

func t0() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }

func closeBar(c float64) models.Bar {
	return models.Bar{Timestamp: t0(), Open: c, High: c + 0.5, Low: c - 0.5, Close: c, Volume: 100}
}

func bullImpulse(confidence float64) models.WaveCount {
	return models.WaveCount{
		Pattern:    models.PatternImpulse,
		Direction:  models.Bullish,
		Valid:      true,
		Confidence: confidence,
		Projection: &models.WaveProjection{
			TargetFib618:  104,
			TargetFib100:  106,
			TargetFib1618: 110,
			StopLoss:      96,
		},
	}
}

func fullConfluenceSnapshot() models.SMCSnapshot {
	return models.SMCSnapshot{
		OrderBlocks: []models.OrderBlock{
			{BarIndex: 3, High: 99.5, Low: 98.5, Direction: models.Bullish},
		},
		Gaps: []models.FairValueGap{
			{StartIndex: 5, EndIndex: 7, GapHigh: 100.5, GapLow: 99.8, Direction: models.Bullish},
		},
		Events: []models.StructureEvent{
			{Kind: models.StructureCHoCH, Direction: models.Bullish, BarIndex: 10, Strength: 1.2},
			{Kind: models.StructureBOS, Direction: models.Bullish, BarIndex: 14, Strength: 0.9},
		},
		Trend: models.Bullish,
	}
}

func TestEvaluateFullConfluenceCapsAt100(t *testing.T) {
	htf := bullImpulse(75)
	in := Inputs{
		Bars:      []models.Bar{closeBar(100)},
		WaveCount: bullImpulse(90),
		SMC:       fullConfluenceSnapshot(),
		HTF:       &htf,
		ATR:       1.0,
		At:        t0(),
	}
	sig := NewEngine(models.DefaultAnalysisConfig()).Evaluate("BTCUSDT", "H1", in)

	if sig.Direction != models.SignalLong {
		t.Fatalf("expected LONG, got %s", sig.Direction)
	}
	if sig.Score != 100 {
		t.Fatalf("expected capped score 100, got %d", sig.Score)
	}
	if len(sig.Factors) != 7 {
		t.Fatalf("expected all 7 factors, got %d: %+v", len(sig.Factors), sig.Factors)
	}
	raw := 0
	for _, f := range sig.Factors {
		raw += f.Points
	}
	if raw <= 100 {
		t.Fatalf("fixture should oversaturate the cap, raw sum %d", raw)
	}
}

func TestEvaluateNothingFires(t *testing.T) {
	in := Inputs{
		Bars:      []models.Bar{closeBar(100)},
		WaveCount: models.NoWaveCount(),
		SMC:       models.SMCSnapshot{Trend: models.Neutral},
		ATR:       1.0,
		At:        t0(),
	}
	sig := NewEngine(models.DefaultAnalysisConfig()).Evaluate("BTCUSDT", "H1", in)
	if sig.Direction != models.SignalNone || sig.Score != 0 || len(sig.Factors) != 0 {
		t.Fatalf("empty confluence must yield NONE/0, got %+v", sig)
	}
}

func TestEvaluateSplitVoteIsNone(t *testing.T) {
	in := Inputs{
		Bars:      []models.Bar{closeBar(100)},
		WaveCount: bullImpulse(90),
		SMC:       models.SMCSnapshot{Trend: models.Bearish},
		ATR:       1.0,
		At:        t0(),
	}
	sig := NewEngine(models.DefaultAnalysisConfig()).Evaluate("BTCUSDT", "H1", in)
	if sig.Direction != models.SignalNone || sig.Score != 0 {
		t.Fatalf("2-2 vote must resolve to NONE, got %s/%d", sig.Direction, sig.Score)
	}
}

func TestEvaluateHTFBreaksTie(t *testing.T) {
	htf := bullImpulse(75)
	in := Inputs{
		Bars:      []models.Bar{closeBar(100)},
		WaveCount: bullImpulse(90),
		SMC:       models.SMCSnapshot{Trend: models.Bearish},
		HTF:       &htf,
		ATR:       1.0,
		At:        t0(),
	}
	sig := NewEngine(models.DefaultAnalysisConfig()).Evaluate("BTCUSDT", "H1", in)
	if sig.Direction != models.SignalLong {
		t.Fatalf("higher timeframe should break the tie, got %s", sig.Direction)
	}
}

func TestEvaluateStructureOnlyShort(t *testing.T) {
	in := Inputs{
		Bars:      []models.Bar{closeBar(100)},
		WaveCount: models.NoWaveCount(),
		SMC: models.SMCSnapshot{
			Events: []models.StructureEvent{
				{Kind: models.StructureBOS, Direction: models.Bearish, BarIndex: 8, Strength: 1.1},
			},
			Trend: models.Bearish,
		},
		ATR: 2.0,
		At:  t0(),
	}
	sig := NewEngine(models.DefaultAnalysisConfig()).Evaluate("ETHUSDT", "H4", in)
	if sig.Direction != models.SignalShort {
		t.Fatalf("expected SHORT, got %s", sig.Direction)
	}
	if sig.Score != 15 || len(sig.Factors) != 1 || sig.Factors[0].Name != FactorBOS {
		t.Fatalf("expected lone BOS factor worth 15, got %+v", sig.Factors)
	}
	// ATR fallback levels: stop 3 points above entry, target 6 below.
	if sig.Entry != 100 || sig.StopLoss != 103 || sig.TakeProfit != 94 {
		t.Fatalf("unexpected levels: entry=%v stop=%v target=%v", sig.Entry, sig.StopLoss, sig.TakeProfit)
	}
	if rr := sig.RiskReward(); rr != 2 {
		t.Fatalf("expected 2R fallback target, got %v", rr)
	}
}

func TestEvaluateZoneFactorsRespectProximity(t *testing.T) {
	snap := fullConfluenceSnapshot()
	// Push both zones far outside the 2-ATR radius.
	snap.OrderBlocks[0].High, snap.OrderBlocks[0].Low = 51, 50
	snap.Gaps[0].GapHigh, snap.Gaps[0].GapLow = 61, 60
	in := Inputs{
		Bars:      []models.Bar{closeBar(100)},
		WaveCount: bullImpulse(90),
		SMC:       snap,
		ATR:       1.0,
		At:        t0(),
	}
	sig := NewEngine(models.DefaultAnalysisConfig()).Evaluate("BTCUSDT", "H1", in)
	for _, f := range sig.Factors {
		if f.Name == FactorOrderBlock || f.Name == FactorFairValueGap {
			t.Fatalf("distant zone fired factor %s", f.Name)
		}
	}
}

func TestEvaluateZoneFactorsFireInsideWideZones(t *testing.T) {
	// Both zones span current price but their midpoints sit far
	// outside the 2-ATR radius; trading inside the zone still counts.
	in := Inputs{
		Bars:      []models.Bar{closeBar(100)},
		WaveCount: models.NoWaveCount(),
		SMC: models.SMCSnapshot{
			OrderBlocks: []models.OrderBlock{
				{BarIndex: 2, High: 120, Low: 95, Direction: models.Bullish},
			},
			Gaps: []models.FairValueGap{
				{StartIndex: 4, EndIndex: 6, GapHigh: 130, GapLow: 90, Direction: models.Bullish},
			},
			Trend: models.Bullish,
		},
		ATR: 1.0,
		At:  t0(),
	}
	sig := NewEngine(models.DefaultAnalysisConfig()).Evaluate("BTCUSDT", "H1", in)
	fired := map[string]bool{}
	for _, f := range sig.Factors {
		fired[f.Name] = true
	}
	if !fired[FactorOrderBlock] || !fired[FactorFairValueGap] {
		t.Fatalf("zones containing price did not fire, factors %+v", sig.Factors)
	}
}

func TestEvaluateZoneStopWithoutProjection(t *testing.T) {
	in := Inputs{
		Bars:      []models.Bar{closeBar(100)},
		WaveCount: models.NoWaveCount(),
		SMC: models.SMCSnapshot{
			OrderBlocks: []models.OrderBlock{
				{BarIndex: 2, High: 98, Low: 97, Direction: models.Bullish},
			},
			Gaps: []models.FairValueGap{
				{StartIndex: 4, EndIndex: 6, GapHigh: 99.2, GapLow: 98.5, Direction: models.Bullish},
			},
			Trend: models.Bullish,
		},
		ATR: 1.0,
		At:  t0(),
	}
	sig := NewEngine(models.DefaultAnalysisConfig()).Evaluate("BTCUSDT", "H1", in)
	if sig.Direction != models.SignalLong {
		t.Fatalf("expected LONG, got %s", sig.Direction)
	}
	// The gap low sits closer to entry than the block low and wins.
	if sig.StopLoss != 98.5 {
		t.Fatalf("expected stop at gap low 98.5, got %v", sig.StopLoss)
	}
	if sig.TakeProfit != 103 {
		t.Fatalf("expected 2R target 103, got %v", sig.TakeProfit)
	}
}

func TestEvaluateProjectionLevels(t *testing.T) {
	in := Inputs{
		Bars:      []models.Bar{closeBar(100)},
		WaveCount: bullImpulse(90),
		SMC:       fullConfluenceSnapshot(),
		ATR:       1.0,
		At:        t0(),
	}
	sig := NewEngine(models.DefaultAnalysisConfig()).Evaluate("BTCUSDT", "H1", in)
	if sig.StopLoss != 96 {
		t.Fatalf("expected projection stop 96, got %v", sig.StopLoss)
	}
	if sig.TakeProfit != 110 {
		t.Fatalf("expected 1.618 target 110, got %v", sig.TakeProfit)
	}
}
