// Package environment outlines the interfaces and structs needed to
// implement concrete environments
package environment

import (
	"gonum.org/v1/gonum/mat"
	ts "github.com/samuelfneumann/gofqi/timestep"
)

// Starter implements a distribution of starting states and samples
// starting states for environments
type Starter interface {
	Start() mat.Vector
}

// Ender determines whether a timestep is the last in an episode. If so,
// an Ender adjusts the TimeStep's StepType to timestep.Last and records
// how the episode ended through the TimeStep's EndType.
type Ender interface {
	End(*ts.TimeStep) bool
}

// Task implements the reward scheme for taking actions in some
// environment and determines when episodes end
type Task interface {
	Starter
	Ender
	GetReward(state, action, nextState mat.Vector) float64
	AtGoal(state mat.Matrix) bool
	Min() float64 // Minimum attainable reward
	Max() float64 // Maximum attainable reward
	RewardSpec() Spec
}

// Environment implements a simulated environment, which includes a Task
// to complete.
//
// Environments are not safe for concurrent stepping. A caller must hold
// exclusive interaction with an environment instance at a time.
type Environment interface {
	Task

	// Reset resets the environment between episodes and returns the
	// starting timestep
	Reset() (ts.TimeStep, error)

	// Step takes one environmental step given an action, returning the
	// next timestep and whether that timestep is the last in the
	// episode. Any fault is fatal and is never retried.
	Step(action *mat.VecDense) (ts.TimeStep, bool, error)

	DiscountSpec() Spec
	ObservationSpec() Spec
	ActionSpec() Spec
}

// Error describes a fatal fault raised by an environment during a
// reset or step. Faults are never retried; they surface directly to
// the caller of the operation that triggered them.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}
