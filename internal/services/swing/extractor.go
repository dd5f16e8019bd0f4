package swing

import (
	"WaveScan/internal/domain/models"
)

// Extract finds confirmed pivots in a bar window. Bar i is a HIGH pivot
// iff its high is strictly greater than the highs of the w bars on each
// side, and symmetrically for LOW. Boundary bars with fewer than w
// neighbors on either side are never classified, and ties are excluded
// so a flat top cannot be labeled twice. Output is ordered by bar index.
// Pure function of (bars, w).
func Extract(bars []models.Bar, w int) []models.Pivot {
	if w < 1 || len(bars) < 2*w+1 {
		return nil
	}
	pivots := make([]models.Pivot, 0, len(bars)/4)
	for i := w; i < len(bars)-w; i++ {
		if isHigh(bars, i, w) {
			pivots = append(pivots, models.Pivot{
				Index:     i,
				Timestamp: bars[i].Timestamp,
				Price:     bars[i].High,
				Kind:      models.PivotHigh,
			})
		}
		// A bar can qualify on both sides when its range strictly
		// dominates the neighborhood; both pivots are reported.
		if isLow(bars, i, w) {
			pivots = append(pivots, models.Pivot{
				Index:     i,
				Timestamp: bars[i].Timestamp,
				Price:     bars[i].Low,
				Kind:      models.PivotLow,
			})
		}
	}
	return pivots
}

func isHigh(bars []models.Bar, i, w int) bool {
	for j := i - w; j <= i+w; j++ {
		if j == i {
			continue
		}
		if bars[j].High >= bars[i].High {
			return false
		}
	}
	return true
}

func isLow(bars []models.Bar, i, w int) bool {
	for j := i - w; j <= i+w; j++ {
		if j == i {
			continue
		}
		if bars[j].Low <= bars[i].Low {
			return false
		}
	}
	return true
}

// Alternate collapses a pivot sequence so kinds strictly alternate,
// keeping the more extreme pivot of any same-kind run. Wave counts are
// seeded only from alternating pivots.
func Alternate(pivots []models.Pivot) []models.Pivot {
	if len(pivots) == 0 {
		return nil
	}
	out := make([]models.Pivot, 0, len(pivots))
	out = append(out, pivots[0])
	for _, p := range pivots[1:] {
		last := &out[len(out)-1]
		if p.Kind != last.Kind {
			out = append(out, p)
			continue
		}
		if p.Kind == models.PivotHigh && p.Price > last.Price {
			*last = p
		}
		if p.Kind == models.PivotLow && p.Price < last.Price {
			*last = p
		}
	}
	return out
}
