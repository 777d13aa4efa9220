package floatutils

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r1"
)

func TestClip(t *testing.T) {
	tests := []struct {
		value, min, max, expected float64
	}{
		{0.5, 0, 1, 0.5},
		{-0.5, 0, 1, 0},
		{1.5, 0, 1, 1},
		{0, 0, 0, 0},
	}

	for _, test := range tests {
		if got := Clip(test.value, test.min, test.max); got != test.expected {
			t.Errorf("Clip(%v, %v, %v): expected %v, got %v", test.value,
				test.min, test.max, test.expected, got)
		}
	}
}

func TestClipInterval(t *testing.T) {
	interval := r1.Interval{Min: -0.07, Max: 0.07}
	if got := ClipInterval(0.1, interval); got != 0.07 {
		t.Errorf("expected 0.07, got %v", got)
	}
}

func TestArgMax(t *testing.T) {
	tests := []struct {
		values   []float64
		expected int
	}{
		{[]float64{1, 2, 3}, 2},
		{[]float64{3, 2, 1}, 0},
		{[]float64{1, 3, 2}, 1},
		{[]float64{2, 2, 2}, 0}, // Ties break to the lowest index
		{[]float64{1, 3, 3}, 1},
	}

	for _, test := range tests {
		if got := ArgMax(test.values); got != test.expected {
			t.Errorf("ArgMax(%v): expected %v, got %v", test.values,
				test.expected, got)
		}
	}
}

func TestMaxMin(t *testing.T) {
	values := []float64{-2, 7, 0, 3.5}

	if got := Max(values...); got != 7 {
		t.Errorf("expected max 7, got %v", got)
	}
	if got := Min(values...); got != -2 {
		t.Errorf("expected min -2, got %v", got)
	}
}
