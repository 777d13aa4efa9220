// Package wrappers provides environments that wrap other environments
// to transform their observations
package wrappers

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	env "github.com/samuelfneumann/gofqi/environment"
	ts "github.com/samuelfneumann/gofqi/timestep"
)

// Discretize wraps an environment with continuous observations and
// discrete actions, replacing every observation with a discrete state
// computed by uniformly binning each observation dimension between its
// bounds. With b bins over d dimensions there are b^d states, numbered
// 0 through NumStates()-1 with the first dimension varying fastest.
//
// Observations of the wrapped environment are either a single-element
// vector holding the state index or, with one-hot encoding, a vector
// of NumStates() elements with a 1 at the state index. The one-hot
// form lets a linear function approximator act as a tabular one.
//
// Discretizing requires finite observation bounds on every dimension.
//
// Discretize itself implements the environment.Environment interface
// and is therefore itself an environment. The wrapped environment is
// reset when wrapped by calling its Reset() method.
type Discretize struct {
	env.Environment
	bins   int
	oneHot bool

	low    []float64
	width  []float64 // bin width per dimension
	states int
}

// NewDiscretize creates and returns a new Discretize environment
// wrapping an existing environment, with bins uniform bins per
// observation dimension, returning the wrapper and its first timestep.
func NewDiscretize(environment env.Environment, bins int,
	oneHot bool) (*Discretize, ts.TimeStep, error) {
	if bins <= 0 {
		return nil, ts.TimeStep{}, &env.Error{
			Op:  "discretize: new",
			Err: fmt.Errorf("bins must be positive, got %v", bins),
		}
	}

	obsSpec := environment.ObservationSpec()
	dims := obsSpec.Shape.Len()

	low := make([]float64, dims)
	width := make([]float64, dims)
	states := 1
	for i := 0; i < dims; i++ {
		min := obsSpec.LowerBound.AtVec(i)
		max := obsSpec.UpperBound.AtVec(i)
		if math.IsInf(min, 0) || math.IsInf(max, 0) || max <= min {
			return nil, ts.TimeStep{}, &env.Error{
				Op: "discretize: new",
				Err: fmt.Errorf("dimension %v has no finite bin range "+
					"[%v, %v]", i, min, max),
			}
		}

		low[i] = min
		width[i] = (max - min) / float64(bins)
		states *= bins
	}

	d := &Discretize{environment, bins, oneHot, low, width, states}

	step, err := environment.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, err
	}
	step.Observation = d.encode(step.Observation)

	return d, step, nil
}

// NumStates returns the number of discrete states the wrapper maps
// observations onto
func (d *Discretize) NumStates() int {
	return d.states
}

// DiscreteState returns the state index of a continuous observation of
// the wrapped environment. Observations outside the bounds fall into
// the nearest boundary bin.
func (d *Discretize) DiscreteState(obs mat.Vector) int {
	index := 0
	scale := 1
	for i := range d.low {
		bin := int(math.Floor((obs.AtVec(i) - d.low[i]) / d.width[i]))
		if bin < 0 {
			bin = 0
		}
		if bin >= d.bins {
			bin = d.bins - 1
		}

		index += scale * bin
		scale *= d.bins
	}
	return index
}

// Reset resets the wrapped environment and discretizes its starting
// observation
func (d *Discretize) Reset() (ts.TimeStep, error) {
	step, err := d.Environment.Reset()
	if err != nil {
		return ts.TimeStep{}, err
	}

	step.Observation = d.encode(step.Observation)
	return step, nil
}

// Step takes one environmental step given action a and returns the next
// timestep, with its observation discretized, and a bool indicating
// whether or not the episode has ended
func (d *Discretize) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	step, last, err := d.Environment.Step(a)
	if err != nil {
		return ts.TimeStep{}, false, err
	}

	step.Observation = d.encode(step.Observation)
	return step, last, nil
}

// ObservationSpec returns the observation specification of the
// environment
func (d *Discretize) ObservationSpec() env.Spec {
	if d.oneHot {
		shape := mat.NewVecDense(d.states, nil)
		lowerBound := mat.NewVecDense(d.states, nil)

		ones := make([]float64, d.states)
		for i := range ones {
			ones[i] = 1.0
		}
		upperBound := mat.NewVecDense(d.states, ones)

		return env.NewSpec(shape, env.Observation, lowerBound, upperBound,
			env.Discrete)
	}

	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, nil)
	upperBound := mat.NewVecDense(1, []float64{float64(d.states - 1)})

	return env.NewSpec(shape, env.Observation, lowerBound, upperBound,
		env.Discrete)
}

// String returns a string representation of the Discretize environment
func (d *Discretize) String() string {
	return fmt.Sprintf("Discretize: %v", d.Environment)
}

// encode converts a continuous observation to the wrapper's discrete
// observation vector
func (d *Discretize) encode(obs mat.Vector) mat.Vector {
	state := d.DiscreteState(obs)

	if !d.oneHot {
		return mat.NewVecDense(1, []float64{float64(state)})
	}

	oneHot := make([]float64, d.states)
	oneHot[state] = 1.0
	return mat.NewVecDense(d.states, oneHot)
}
