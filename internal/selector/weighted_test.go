package selector

import (
	"math"
	"math/rand"
	"testing"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		name   string
		pairs  []Pair
		draw   float64
		want   string
		wantOK bool
	}{
		{
			name:   "single pair",
			pairs:  []Pair{{Label: "a", Weight: 1}},
			draw:   0.5,
			want:   "a",
			wantOK: true,
		},
		{
			name:   "low draw picks first",
			pairs:  []Pair{{Label: "a", Weight: 1}, {Label: "b", Weight: 3}},
			draw:   0.1,
			want:   "a",
			wantOK: true,
		},
		{
			name:   "high draw picks heavier tail",
			pairs:  []Pair{{Label: "a", Weight: 1}, {Label: "b", Weight: 3}},
			draw:   0.9,
			want:   "b",
			wantOK: true,
		},
		{
			name:   "boundary draw lands on first",
			pairs:  []Pair{{Label: "a", Weight: 1}, {Label: "b", Weight: 3}},
			draw:   0.25,
			want:   "a",
			wantOK: true,
		},
		{
			name:   "zero weights skipped",
			pairs:  []Pair{{Label: "a", Weight: 0}, {Label: "b", Weight: 2}},
			draw:   0.0,
			want:   "b",
			wantOK: true,
		},
		{
			name:   "negative and NaN weights skipped",
			pairs:  []Pair{{Label: "a", Weight: -1}, {Label: "b", Weight: math.NaN()}, {Label: "c", Weight: 1}},
			draw:   0.99,
			want:   "c",
			wantOK: true,
		},
		{
			name:   "infinite weight skipped",
			pairs:  []Pair{{Label: "a", Weight: math.Inf(1)}, {Label: "b", Weight: 1}},
			draw:   0.5,
			want:   "b",
			wantOK: true,
		},
		{
			name:   "all invalid",
			pairs:  []Pair{{Label: "a", Weight: 0}, {Label: "b", Weight: math.NaN()}},
			draw:   0.5,
			wantOK: false,
		},
		{
			name:   "empty input",
			pairs:  nil,
			draw:   0.5,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Select(tt.pairs, tt.draw)
			if ok != tt.wantOK {
				t.Fatalf("Select() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Select() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestSelectNeverNilWithValidPair checks the rounding fallback: whatever the
// draw, a list with at least one positive weight yields a label.
func TestSelectNeverNilWithValidPair(t *testing.T) {
	pairs := []Pair{
		{Label: "a", Weight: 0.1},
		{Label: "b", Weight: 0.2},
		{Label: "c", Weight: 0.7},
	}
	for _, draw := range []float64{0, 0.5, 0.999999999, math.Nextafter(1, 0)} {
		if _, ok := Select(pairs, draw); !ok {
			t.Errorf("Select(draw=%v) returned no label", draw)
		}
	}
}

// TestSelectFrequencies checks that selection frequency converges to weight
// share over many seeded draws.
func TestSelectFrequencies(t *testing.T) {
	pairs := []Pair{
		{Label: "a", Weight: 1},
		{Label: "b", Weight: 3},
	}

	rng := rand.New(rand.NewSource(42))
	const n = 100_000
	counts := map[string]int{}
	for i := 0; i < n; i++ {
		label, ok := Select(pairs, rng.Float64())
		if !ok {
			t.Fatal("Select() unexpectedly returned no label")
		}
		counts[label]++
	}

	gotShare := float64(counts["b"]) / n
	wantShare := 0.75
	if math.Abs(gotShare-wantShare) > 0.01 {
		t.Errorf("share of b = %.4f, want %.2f ± 0.01", gotShare, wantShare)
	}
}

func TestDrawRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		u, err := Draw()
		if err != nil {
			t.Fatalf("Draw() error: %v", err)
		}
		if u < 0 || u >= 1 {
			t.Fatalf("Draw() = %v, want [0, 1)", u)
		}
	}
}
