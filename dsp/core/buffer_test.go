package core

import "testing"

func TestZero(t *testing.T) {
	buf := []float64{1, 2, 3}
	Zero(buf)

	for i, v := range buf {
		if v != 0 {
			t.Fatalf("buf[%d] = %v, want 0", i, v)
		}
	}
}

func TestZeroRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
		want       []float64
	}{
		{name: "inner", start: 1, end: 2, want: []float64{1, 0, 0, 4, 5}},
		{name: "single", start: 3, end: 3, want: []float64{1, 2, 3, 0, 5}},
		{name: "clamped_end", start: 3, end: 99, want: []float64{1, 2, 3, 0, 0}},
		{name: "clamped_start", start: -4, end: 0, want: []float64{0, 2, 3, 4, 5}},
		{name: "inverted", start: 3, end: 2, want: []float64{1, 2, 3, 4, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := []float64{1, 2, 3, 4, 5}
			ZeroRange(buf, tt.start, tt.end)
			for i := range buf {
				if buf[i] != tt.want[i] {
					t.Fatalf("buf = %v, want %v", buf, tt.want)
				}
			}
		})
	}

	ZeroRange(nil, 0, 3)
}

func TestArgMaxEarliestTie(t *testing.T) {
	idx, v := ArgMax([]float64{0.2, 1, 0.5, 1, 1})
	if idx != 1 || v != 1 {
		t.Fatalf("ArgMax = (%d, %v), want (1, 1)", idx, v)
	}

	idx, _ = ArgMax([]float64{-3, -1, -2})
	if idx != 1 {
		t.Fatalf("ArgMax(negative) = %d, want 1", idx)
	}

	idx, _ = ArgMax(nil)
	if idx != -1 {
		t.Fatalf("ArgMax(nil) = %d, want -1", idx)
	}
}

func TestCountNonZero(t *testing.T) {
	if n := CountNonZero([]float64{0, 1, 0, -2, 3e-30}); n != 3 {
		t.Fatalf("CountNonZero = %d, want 3", n)
	}
}
