package environment

import (
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	ts "github.com/samuelfneumann/gofqi/timestep"
)

func TestStepLimitTruncates(t *testing.T) {
	ender := NewStepLimit(3)

	step := ts.New(ts.Mid, -1, 1.0, mat.NewVecDense(1, nil), 2)
	if ender.End(&step) {
		t.Error("expected no episode end below the step limit")
	}
	if step.EndType != ts.Nil {
		t.Errorf("expected end type Nil, got %v", step.EndType)
	}

	step = ts.New(ts.Mid, -1, 1.0, mat.NewVecDense(1, nil), 3)
	if !ender.End(&step) {
		t.Fatal("expected an episode end at the step limit")
	}
	if !step.Last() {
		t.Error("expected the step type to change to Last")
	}
	if !step.Truncated() || step.Terminal() {
		t.Errorf("expected a truncated, non-terminal end, got %v",
			step.EndType)
	}
}

func TestIntervalLimitEndType(t *testing.T) {
	interval := []r1.Interval{{Min: -1.0, Max: 1.0}}
	ender := NewIntervalLimit(interval, []int{0}, ts.TerminalStateReached)

	inside := ts.New(ts.Mid, 0, 1.0, mat.NewVecDense(2,
		[]float64{0.5, 100}), 1)
	if ender.End(&inside) {
		t.Error("expected no episode end inside the interval")
	}

	outside := ts.New(ts.Mid, 0, 1.0, mat.NewVecDense(2,
		[]float64{1.5, 100}), 1)
	if !ender.End(&outside) {
		t.Fatal("expected an episode end outside the interval")
	}
	if !outside.Terminal() {
		t.Errorf("expected a terminal end, got %v", outside.EndType)
	}
}

func TestIntervalLimitChecksOnlyItsIndices(t *testing.T) {
	interval := []r1.Interval{{Min: -1.0, Max: 1.0}}
	ender := NewIntervalLimit(interval, []int{1}, ts.TerminalStateReached)

	// Feature 0 is out of range but only feature 1 is checked
	step := ts.New(ts.Mid, 0, 1.0, mat.NewVecDense(2, []float64{50, 0}), 1)
	if ender.End(&step) {
		t.Error("expected no episode end for an unchecked feature")
	}
}

func TestNumActions(t *testing.T) {
	spec := NewSpec(mat.NewVecDense(1, nil), Action,
		mat.NewVecDense(1, []float64{0}), mat.NewVecDense(1, []float64{2}),
		Discrete)

	if n := NumActions(spec); n != 3 {
		t.Errorf("expected 3 actions, got %v", n)
	}
}

func TestNumActionsPanicsOnContinuous(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for a continuous action spec")
		}
	}()

	spec := NewSpec(mat.NewVecDense(1, nil), Action,
		mat.NewVecDense(1, []float64{-1}), mat.NewVecDense(1, []float64{1}),
		Continuous)
	NumActions(spec)
}

func TestNewSpecPanicsOnBoundMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for mismatched bound lengths")
		}
	}()

	NewSpec(mat.NewVecDense(2, nil), Observation,
		mat.NewVecDense(1, []float64{0}), mat.NewVecDense(2, nil), Continuous)
}

func TestUniformStarterBounds(t *testing.T) {
	bounds := []r1.Interval{
		{Min: -0.6, Max: -0.4},
		{Min: 0.0, Max: 0.0},
	}
	starter := NewUniformStarter(bounds, 42)

	for i := 0; i < 100; i++ {
		state := starter.Start()
		if state.Len() != 2 {
			t.Fatalf("expected 2 features, got %v", state.Len())
		}
		for j, bound := range bounds {
			v := state.AtVec(j)
			if v < bound.Min || v > bound.Max {
				t.Errorf("feature %v: %v ∉ [%v, %v]", j, v, bound.Min,
					bound.Max)
			}
		}
	}
}
