package swing

import (
	"testing"
	"time"

	"WaveScan/internal/domain/models"
)

// barsFromMid builds bars whose high/low straddle the given midpoints by
// a fixed half-range, timestamps one hour apart.
func barsFromMid(mids ...float64) []models.Bar {
	t0 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Bar, len(mids))
	for i, m := range mids {
		out[i] = models.Bar{
			Timestamp: t0.Add(time.Duration(i) * time.Hour),
			Open:      m,
			High:      m + 0.5,
			Low:       m - 0.5,
			Close:     m,
			Volume:    100,
		}
	}
	return out
}

func TestExtractFindsCenterHigh(t *testing.T) {
	bars := barsFromMid(1, 2, 3, 5, 3, 2, 1)
	pivots := Extract(bars, 2)
	if len(pivots) != 1 {
		t.Fatalf("expected 1 pivot, got %d", len(pivots))
	}
	p := pivots[0]
	if p.Kind != models.PivotHigh || p.Index != 3 {
		t.Fatalf("unexpected pivot %+v", p)
	}
	if p.Price != 5.5 {
		t.Fatalf("expected pivot at bar high 5.5, got %v", p.Price)
	}
}

func TestExtractNeverLabelsBoundaryBars(t *testing.T) {
	// The global max sits at index 1, inside the left boundary.
	bars := barsFromMid(1, 9, 2, 3, 2, 3, 2)
	w := 3
	for _, p := range Extract(bars, w) {
		if p.Index < w || p.Index >= len(bars)-w {
			t.Fatalf("boundary bar %d classified as pivot", p.Index)
		}
	}
}

func TestExtractRejectsTies(t *testing.T) {
	// Flat top: two equal highs, neither is strictly greater.
	bars := barsFromMid(1, 2, 5, 5, 2, 1, 0)
	for _, p := range Extract(bars, 2) {
		if p.Kind == models.PivotHigh {
			t.Fatalf("tied high labeled as pivot at %d", p.Index)
		}
	}
}

func TestExtractShortWindow(t *testing.T) {
	if got := Extract(barsFromMid(1, 2, 3), 2); got != nil {
		t.Fatalf("expected nil for insufficient bars, got %v", got)
	}
	if got := Extract(barsFromMid(1, 2, 3, 4, 5), 0); got != nil {
		t.Fatalf("expected nil for zero window, got %v", got)
	}
}

func TestExtractDeterministic(t *testing.T) {
	bars := barsFromMid(1, 3, 2, 6, 2, 4, 1, 5, 3, 2, 4, 1)
	a := Extract(bars, 2)
	b := Extract(bars, 2)
	if len(a) != len(b) {
		t.Fatalf("non-deterministic pivot count: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("pivot %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestAlternateCollapsesSameKindRuns(t *testing.T) {
	pivots := []models.Pivot{
		{Index: 0, Price: 10, Kind: models.PivotLow},
		{Index: 2, Price: 20, Kind: models.PivotHigh},
		{Index: 4, Price: 25, Kind: models.PivotHigh}, // higher high, keep this one
		{Index: 6, Price: 15, Kind: models.PivotLow},
	}
	out := Alternate(pivots)
	if len(out) != 3 {
		t.Fatalf("expected 3 pivots after collapse, got %d", len(out))
	}
	if out[1].Index != 4 || out[1].Price != 25 {
		t.Fatalf("expected the more extreme high to survive, got %+v", out[1])
	}
	for i := 1; i < len(out); i++ {
		if out[i].Kind == out[i-1].Kind {
			t.Fatalf("kinds not alternating at %d", i)
		}
	}
}
