package timestep

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestEndTypes(t *testing.T) {
	step := New(Mid, -1.0, 1.0, mat.NewVecDense(1, nil), 4)

	if step.Terminal() || step.Truncated() {
		t.Error("a new step must be neither terminal nor truncated")
	}

	step.StepType = Last
	step.SetEnd(TerminalStateReached)
	if !step.Terminal() {
		t.Error("expected a terminal step")
	}
	if step.Truncated() {
		t.Error("a terminal step is not truncated")
	}

	step.SetEnd(TimeLimitTruncated)
	if step.Terminal() {
		t.Error("a truncated step is not terminal")
	}
	if !step.Truncated() {
		t.Error("expected a truncated step")
	}
}

func TestStepTypePredicates(t *testing.T) {
	first := New(First, 0, 1.0, mat.NewVecDense(1, nil), 0)
	if !first.First() || first.Mid() || first.Last() {
		t.Error("expected a first step")
	}

	last := New(Last, -1, 1.0, mat.NewVecDense(1, nil), 10)
	if last.First() || last.Mid() || !last.Last() {
		t.Error("expected a last step")
	}
}
