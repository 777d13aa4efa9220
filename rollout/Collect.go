// Package rollout drives environments with concrete policies: a
// uniform-random policy for offline data collection and the greedy
// policy induced by an action-value function for evaluation.
package rollout

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"github.com/samuelfneumann/gofqi/dataset"
	env "github.com/samuelfneumann/gofqi/environment"
	"github.com/samuelfneumann/gofqi/fqi"
)

// Collect runs a uniform-random policy on environment for exactly
// nSteps steps, returning the recorded transition dataset.
//
// A transition's terminal flag is set only when the environment
// signalled a genuine terminal state. Episodes that end by time-limit
// truncation are recorded with a false terminal flag, but still reset
// the environment before collection continues. Any environment fault
// aborts collection.
func Collect(environment env.Environment, nSteps int,
	seed uint64) (*dataset.Batch, error) {
	if nSteps <= 0 {
		return nil, &fqi.ConfigError{
			Field: "nSteps",
			Err:   fmt.Errorf("must be positive, got %v", nSteps),
		}
	}

	numActions := env.NumActions(environment.ActionSpec())
	obsDims := environment.ObservationSpec().Shape.Len()

	batch, err := dataset.NewBatch(obsDims, nSteps)
	if err != nil {
		return nil, fmt.Errorf("collect: %v", err)
	}

	rng := rand.New(rand.NewSource(seed))

	step, err := environment.Reset()
	if err != nil {
		return nil, fmt.Errorf("collect: %v", err)
	}
	obs := step.Observation

	action := mat.NewVecDense(1, nil)
	for i := 0; i < nSteps; i++ {
		a := rng.Intn(numActions)
		action.SetVec(0, float64(a))

		next, last, err := environment.Step(action)
		if err != nil {
			return nil, fmt.Errorf("collect: step %v: %v", i, err)
		}

		// Truncated episodes are recorded as non-terminal so that
		// training targets may still bootstrap through the reached
		// state
		err = batch.Append(obs, a, next.Reward, next.Observation,
			next.Terminal())
		if err != nil {
			return nil, fmt.Errorf("collect: step %v: %v", i, err)
		}

		if last {
			step, err = environment.Reset()
			if err != nil {
				return nil, fmt.Errorf("collect: step %v: %v", i, err)
			}
			obs = step.Observation
		} else {
			obs = next.Observation
		}
	}
	return batch, nil
}
