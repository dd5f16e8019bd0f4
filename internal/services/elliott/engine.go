// Package elliott fits Elliott Wave counts to confirmed swing pivots.
// The engine first attempts a five-wave impulse over the trailing
// pivots, falls back to an ABC correction, and otherwise reports no
// pattern. Absence of a pattern is a normal outcome, never an error.
package elliott

import (
	"WaveScan/internal/domain/models"
	"WaveScan/internal/services/smc"
	"WaveScan/internal/services/swing"
)

// Confidence weights. They sum to 100 so a flawless textbook count
// scores the full scale.
const (
	weightRetracement = 35.0
	weightDominance   = 30.0
	weightExtension   = 20.0
	weightWaveScale   = 15.0
)

// Correction confidence is deliberately capped below impulse quality;
// a three-wave fit carries less predictive weight than a validated
// five-wave count.
const (
	correctionBase    = 50.0
	correctionBandPts = 15.0
	correctionSymPts  = 5.0
)

var impulseLabels = [5]models.WaveLabel{
	models.Wave1, models.Wave2, models.Wave3, models.Wave4, models.Wave5,
}

var correctionLabels = [3]models.WaveLabel{
	models.WaveA, models.WaveB, models.WaveC,
}

// Analyze fits a wave count to the trailing pivots of a bar window.
// Pivots are de-duplicated to a strictly alternating high/low sequence
// and capped at cfg.MaxPivots before fitting. The same window always
// yields the same count.
func Analyze(bars []models.Bar, pivots []models.Pivot, cfg models.AnalysisConfig) models.WaveCount {
	seq := swing.Alternate(pivots)
	if len(seq) > cfg.MaxPivots {
		seq = seq[len(seq)-cfg.MaxPivots:]
	}

	atr := smc.ATR(bars, cfg.ATRPeriod)

	if count, ok := fitImpulse(seq, atr, cfg.RetracementBand); ok {
		return count
	}
	if count, ok := fitCorrection(seq, cfg.RetracementBand); ok {
		return count
	}
	return models.NoWaveCount()
}

// fitImpulse tries the six trailing pivots as boundaries 0..5 of a
// five-wave count. Validation short-circuits on the first broken rule.
func fitImpulse(seq []models.Pivot, atr float64, band models.RetracementBand) (models.WaveCount, bool) {
	if len(seq) < 6 {
		return models.WaveCount{}, false
	}
	bounds := seq[len(seq)-6:]

	dir := models.Bullish
	if bounds[0].Kind == models.PivotHigh {
		dir = models.Bearish
	}

	waves := legs(bounds, impulseLabels[:])
	if waves == nil {
		return models.WaveCount{}, false
	}

	retraceQ, ok := checkRetracement(waves[0], waves[1], band)
	if !ok {
		return models.WaveCount{}, false
	}
	dominanceQ, ok := checkThirdNotShortest(waves[0], waves[2], waves[4])
	if !ok {
		return models.WaveCount{}, false
	}
	if !checkNoOverlap(waves[0], waves[3]) {
		return models.WaveCount{}, false
	}

	confidence := weightRetracement*retraceQ +
		weightDominance*dominanceQ +
		weightExtension*extensionQuality(waves[0], waves[4]) +
		weightWaveScale*shortWaveQuality(waves, atr)

	return models.WaveCount{
		Pattern:    models.PatternImpulse,
		Direction:  dir,
		Waves:      waves,
		Valid:      true,
		Confidence: confidence,
		Projection: projectImpulse(waves, dir),
	}, true
}

// fitCorrection tries the four trailing pivots as boundaries of an ABC
// move. Wave B must retrace part of A without exceeding it; the band's
// lower bound doubles as the minimum acceptable B retracement.
func fitCorrection(seq []models.Pivot, band models.RetracementBand) (models.WaveCount, bool) {
	if len(seq) < 4 {
		return models.WaveCount{}, false
	}
	bounds := seq[len(seq)-4:]

	dir := models.Bullish
	if bounds[0].Kind == models.PivotHigh {
		dir = models.Bearish
	}

	waves := legs(bounds, correctionLabels[:])
	if waves == nil {
		return models.WaveCount{}, false
	}

	a, b := waves[0].Length(), waves[1].Length()
	if a <= 0 {
		return models.WaveCount{}, false
	}
	ratio := b / a
	if ratio >= 1.0 || ratio < band.Low {
		return models.WaveCount{}, false
	}

	confidence := correctionBase
	if ratio <= band.High {
		confidence += correctionBandPts
	}
	if c := waves[2].Length(); abs(c/a-1.0) <= 0.2 {
		confidence += correctionSymPts
	}

	return models.WaveCount{
		Pattern:    models.PatternCorrection,
		Direction:  dir,
		Waves:      waves,
		Valid:      true,
		Confidence: confidence,
		Projection: projectCorrection(waves, dir),
	}, true
}

// legs turns n+1 boundary pivots into n labelled waves, rejecting any
// sequence whose pivots do not strictly alternate in kind.
func legs(bounds []models.Pivot, labels []models.WaveLabel) []models.Wave {
	waves := make([]models.Wave, 0, len(labels))
	for i, label := range labels {
		if bounds[i].Kind == bounds[i+1].Kind {
			return nil
		}
		waves = append(waves, models.Wave{
			Label: label,
			Start: bounds[i],
			End:   bounds[i+1],
		})
	}
	return waves
}
