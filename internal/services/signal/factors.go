package signal

import (
	"WaveScan/internal/domain/models"
	"WaveScan/internal/services/smc"
)

// Factor names as they appear in signal breakdowns and metrics labels.
const (
	FactorValidImpulse   = "valid_impulse"
	FactorWaveConfidence = "wave_confidence"
	FactorCHoCH          = "choch_alignment"
	FactorBOS            = "bos_alignment"
	FactorOrderBlock     = "order_block"
	FactorFairValueGap   = "fair_value_gap"
	FactorHTFAgreement   = "htf_agreement"
)

// Point values per factor. The raw sum exceeds 100, so a full-confluence
// read saturates the score.
const (
	pointsValidImpulse   = 25
	pointsWaveConfidence = 10
	pointsCHoCH          = 20
	pointsBOS            = 15
	pointsOrderBlock     = 15
	pointsFairValueGap   = 10
	pointsHTFAgreement   = 10
)

// confidenceFloor is the Elliott confidence above which the extra
// wave-quality points fire.
const confidenceFloor = 70.0

// waveFactors scores the Elliott side of the confluence. Both factors
// require the count to agree with the already-voted signal direction.
func waveFactors(count models.WaveCount, dir models.Direction) []models.Factor {
	if !count.Valid || count.Pattern != models.PatternImpulse || count.Direction != dir {
		return nil
	}
	fs := []models.Factor{{Name: FactorValidImpulse, Points: pointsValidImpulse}}
	if count.Confidence > confidenceFloor {
		fs = append(fs, models.Factor{Name: FactorWaveConfidence, Points: pointsWaveConfidence})
	}
	return fs
}

// structureFactors scores the most recent CHoCH and BOS when they broke
// in the signal's direction.
func structureFactors(snap models.SMCSnapshot, dir models.Direction) []models.Factor {
	var fs []models.Factor
	if ev := snap.LastEvent(models.StructureCHoCH); ev != nil && ev.Direction == dir {
		fs = append(fs, models.Factor{Name: FactorCHoCH, Points: pointsCHoCH})
	}
	if ev := snap.LastEvent(models.StructureBOS); ev != nil && ev.Direction == dir {
		fs = append(fs, models.Factor{Name: FactorBOS, Points: pointsBOS})
	}
	return fs
}

// zoneFactors scores untouched supply and demand zones that price is
// trading inside of or sitting within the proximity radius of. The
// radius is expressed in ATR multiples so it scales with the instrument.
func zoneFactors(snap models.SMCSnapshot, dir models.Direction, price, atr, proximity float64) []models.Factor {
	radius := proximity * atr
	var fs []models.Factor
	if ob := smc.NearestUnmitigatedBlock(snap.OrderBlocks, dir, price); ob != nil {
		if ob.Contains(price) || dist(ob.Mid(), price) <= radius {
			fs = append(fs, models.Factor{Name: FactorOrderBlock, Points: pointsOrderBlock})
		}
	}
	if g := smc.NearestUnfilledGap(snap.Gaps, dir, price); g != nil {
		if g.Overlaps(price) || dist(g.Mid(), price) <= radius {
			fs = append(fs, models.Factor{Name: FactorFairValueGap, Points: pointsFairValueGap})
		}
	}
	return fs
}

// htfFactor scores agreement from the next-higher timeframe's wave count.
func htfFactor(htf *models.WaveCount, dir models.Direction) []models.Factor {
	if htf == nil || !htf.Valid || htf.Direction != dir {
		return nil
	}
	return []models.Factor{{Name: FactorHTFAgreement, Points: pointsHTFAgreement}}
}

func dist(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
