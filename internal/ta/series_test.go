package ta

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestMA(t *testing.T) {
	t.Run("nan prefix before window fills", func(t *testing.T) {
		out := MA([]float64{1, 2, 3, 4, 5}, 3)
		if !math.IsNaN(out[0]) || !math.IsNaN(out[1]) {
			t.Fatalf("expected NaN prefix, got %v", out[:2])
		}
		if !almostEqual(out[2], 2) || !almostEqual(out[4], 4) {
			t.Fatalf("unexpected means: %v", out)
		}
	})

	t.Run("nan in window poisons the position", func(t *testing.T) {
		out := MA([]float64{1, math.NaN(), 3, 4, 5}, 3)
		if !math.IsNaN(out[2]) || !math.IsNaN(out[3]) {
			t.Fatalf("expected NaN where window overlaps NaN, got %v", out)
		}
		if !almostEqual(out[4], 4) {
			t.Fatalf("expected 4 at tail, got %v", out[4])
		}
	})
}

func TestEMA(t *testing.T) {
	t.Run("seeded from first value", func(t *testing.T) {
		out := EMASpan([]float64{10, 10, 10}, 12)
		for i, v := range out {
			if !almostEqual(v, 10) {
				t.Fatalf("constant input must stay constant, got %v at %d", v, i)
			}
		}
	})

	t.Run("skips leading nans", func(t *testing.T) {
		out := EMACom([]float64{math.NaN(), math.NaN(), 5, 8}, 2)
		if !math.IsNaN(out[0]) || !math.IsNaN(out[1]) {
			t.Fatalf("leading NaNs must stay NaN, got %v", out[:2])
		}
		if !almostEqual(out[2], 5) {
			t.Fatalf("seed must be first non-NaN value, got %v", out[2])
		}
		if !almostEqual(out[3], (1.0/3)*8+(2.0/3)*5) {
			t.Fatalf("unexpected smoothed value %v", out[3])
		}
	})
}

func TestStddev(t *testing.T) {
	// sample stddev of {1,2,3} = 1
	out := Stddev([]float64{1, 2, 3}, 3)
	if !math.IsNaN(out[0]) || !math.IsNaN(out[1]) {
		t.Fatalf("expected NaN prefix, got %v", out[:2])
	}
	if !almostEqual(out[2], 1) {
		t.Fatalf("expected sample stddev 1, got %v", out[2])
	}
}

func TestRollMinMax(t *testing.T) {
	data := []float64{3, 1, 4, 1, 5}
	min := RollMin(data, 3)
	max := RollMax(data, 3)
	if !almostEqual(min[2], 1) || !almostEqual(min[4], 1) {
		t.Fatalf("unexpected mins %v", min)
	}
	if !almostEqual(max[2], 4) || !almostEqual(max[4], 5) {
		t.Fatalf("unexpected maxes %v", max)
	}
}

func TestShiftDelta(t *testing.T) {
	s := Shift([]float64{1, 2, 3}, 1)
	if !math.IsNaN(s[0]) || !almostEqual(s[1], 1) || !almostEqual(s[2], 2) {
		t.Fatalf("unexpected shift %v", s)
	}
	d := Delta([]float64{1, 4, 2})
	if !math.IsNaN(d[0]) || !almostEqual(d[1], 3) || !almostEqual(d[2], -2) {
		t.Fatalf("unexpected delta %v", d)
	}
}
