package elliott

import "WaveScan/internal/domain/models"

// Fibonacci multiples used for wave-5 projections.
const (
	Fib618  = 0.618
	Fib100  = 1.0
	Fib1618 = 1.618
)

// projectImpulse derives wave-5 targets from a validated count: the 1:1
// extension of wave 1 anchored at wave 4's end, plus the 0.618/1.0/1.618
// multiples of wave 1 from the same anchor. The stop sits at wave 4's
// end, the level a running wave 5 must not revisit.
func projectImpulse(waves []models.Wave, dir models.Direction) *models.WaveProjection {
	w1 := waves[0].Length()
	anchor := waves[3].End.Price

	sign := 1.0
	if dir == models.Bearish {
		sign = -1.0
	}
	return &models.WaveProjection{
		TargetExtension: anchor + sign*w1,
		TargetFib618:    anchor + sign*w1*Fib618,
		TargetFib100:    anchor + sign*w1*Fib100,
		TargetFib1618:   anchor + sign*w1*Fib1618,
		StopLoss:        anchor,
	}
}

// projectCorrection targets wave C at a 1:1 projection of wave A from
// wave B's end; the stop sits at the correction's origin.
func projectCorrection(waves []models.Wave, dir models.Direction) *models.WaveProjection {
	a := waves[0].Length()
	anchor := waves[1].End.Price

	sign := 1.0
	if dir == models.Bearish {
		sign = -1.0
	}
	return &models.WaveProjection{
		TargetExtension: anchor + sign*a,
		TargetFib618:    anchor + sign*a*Fib618,
		TargetFib100:    anchor + sign*a*Fib100,
		TargetFib1618:   anchor + sign*a*Fib1618,
		StopLoss:        waves[0].Start.Price,
	}
}
