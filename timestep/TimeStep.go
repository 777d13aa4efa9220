// Package timestep implements timesteps of the agent-environment interaction
package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// StepType denotes the type of step that a TimeStep can be, either a first
// environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// EndType describes how an episode ended. An episode may end because a
// terminal state was reached, in which case the value of any "next"
// state is defined to be 0, or because some external limit cut the
// episode short, in which case the state reached still has value and
// learning algorithms may bootstrap through it.
type EndType int

const (
	// Nil denotes a step that did not end the episode
	Nil EndType = iota

	// TerminalStateReached denotes a genuine terminal state
	TerminalStateReached

	// TimeLimitTruncated denotes an episode cut short by a step limit.
	// The state reached is not terminal.
	TimeLimitTruncated
)

func (e EndType) String() string {
	switch e {
	case TerminalStateReached:
		return "TerminalStateReached"
	case TimeLimitTruncated:
		return "TimeLimitTruncated"
	default:
		return "Nil"
	}
}

// TimeStep packages together a single timestep in an environment
type TimeStep struct {
	StepType    StepType
	Reward      float64
	Discount    float64
	Observation mat.Vector
	Number      int
	EndType     EndType
}

// New constructs a new TimeStep
func New(t StepType, r, d float64, o mat.Vector, n int) TimeStep {
	return TimeStep{t, r, d, o, n, Nil}
}

// First returns whether a TimeStep is the first in an environment
func (t *TimeStep) First() bool {
	return t.StepType == First
}

// Mid returns whether a TimeStep is a middle step in an environment
func (t *TimeStep) Mid() bool {
	return t.StepType == Mid
}

// Last returns whether a TimeStep is the last step in an environment
func (t *TimeStep) Last() bool {
	return t.StepType == Last
}

// SetEnd records how the episode ended on a last TimeStep
func (t *TimeStep) SetEnd(e EndType) {
	t.EndType = e
}

// Terminal returns whether the TimeStep reached a genuine terminal
// state. Steps that merely hit a time limit are not terminal.
func (t *TimeStep) Terminal() bool {
	return t.EndType == TerminalStateReached
}

// Truncated returns whether the TimeStep ended the episode due to a
// time limit rather than a terminal state
func (t *TimeStep) Truncated() bool {
	return t.EndType == TimeLimitTruncated
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  Reward:  %.2f  |  Discount: %.2f  |  " +
		"Step Number:  %v  |  End: %v"

	return fmt.Sprintf(str, t.StepType, t.Reward, t.Discount, t.Number,
		t.EndType)
}
