package fqi

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"
	"github.com/samuelfneumann/gofqi/dataset"
	"github.com/samuelfneumann/gofqi/regression"
	"github.com/samuelfneumann/gofqi/utils/floatutils"
	"github.com/samuelfneumann/gofqi/utils/progressbar"
)

// Config holds the hyperparameters of a Trainer
type Config struct {
	// Gamma is the discount factor applied to bootstrapped next-state
	// values. It must lie in [0, 1). A value of 0 degenerates to
	// repeating the reward-only model of iteration 0.
	Gamma float64

	// Iterations is the number of fitting iterations to run. The loop
	// runs exactly this many times; there is no convergence detection.
	Iterations int

	// ShowProgress displays a progress bar over iterations
	ShowProgress bool
}

// Validate checks the Config for invalid hyperparameters
func (c Config) Validate() error {
	if c.Gamma < 0 || c.Gamma >= 1 {
		return &ConfigError{
			Field: "gamma",
			Err:   fmt.Errorf("must be in [0, 1), got %v", c.Gamma),
		}
	}
	if c.Iterations <= 0 {
		return &ConfigError{
			Field: "iterations",
			Err:   fmt.Errorf("must be positive, got %v", c.Iterations),
		}
	}
	return nil
}

// Trainer runs Fitted Q-Iteration over a fixed transition dataset.
//
// The Trainer owns a single current QFunction reference which is
// replaced, never mutated, each iteration. The regression inputs are
// fixed across iterations; only the target vector changes.
type Trainer struct {
	config     Config
	factory    regression.Factory
	batch      *dataset.Batch
	numActions int

	// inputs is the fixed (observation, action) regression input
	// matrix, read-only after construction
	inputs *mat.Dense

	current *QFunction
}

// NewTrainer returns a Trainer that fits action-value functions to
// batch using fresh models from factory. The numActions argument must
// match the action-space cardinality of the environment the batch was
// collected from; it is fixed for the whole run.
func NewTrainer(batch *dataset.Batch, factory regression.Factory,
	numActions int, config Config) (*Trainer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if numActions <= 0 {
		return nil, &ConfigError{
			Field: "numActions",
			Err:   fmt.Errorf("must be positive, got %v", numActions),
		}
	}
	if batch.N() == 0 {
		return nil, fmt.Errorf("newTrainer: cannot train on an empty dataset")
	}
	for i, action := range batch.Actions() {
		if action < 0 || action >= numActions {
			return nil, fmt.Errorf("newTrainer: dataset action %v at row "+
				"%v ∉ [0, %v)", action, i, numActions)
		}
	}

	return &Trainer{
		config:     config,
		factory:    factory,
		batch:      batch,
		numActions: numActions,
		inputs:     stateActionInputs(batch),
	}, nil
}

// Q returns the Trainer's current QFunction snapshot, or nil if Run
// has not produced one yet
func (t *Trainer) Q() *QFunction {
	return t.current
}

// Run executes the full iteration budget and returns the final
// QFunction.
//
// Iteration 0 fits a fresh model directly on the immediate rewards.
// Every following iteration n fits a fresh model on the bootstrapped
// targets
//
//	y_i = r_i                                  if transition i is terminal
//	y_i = r_i + γ max_a Q_{n-1}(s'_i, a)       otherwise
//
// Bootstrapping never happens through a terminal state; it does happen
// through states that merely ended an episode by truncation. A dataset
// with no terminal transitions is not an error: every target simply
// bootstraps.
//
// If onIteration is non-nil it is called with each iteration's
// QFunction snapshot after that iteration's fit completes.
func (t *Trainer) Run(onIteration func(int, *QFunction)) (*QFunction, error) {
	var bar *progressbar.ProgressBar
	if t.config.ShowProgress {
		bar = progressbar.New(25, t.config.Iterations, time.Second)
		bar.Display()
		defer bar.Close()
	}

	for n := 0; n < t.config.Iterations; n++ {
		targets, err := t.targets(n)
		if err != nil {
			return nil, fmt.Errorf("run: iteration %v: %v", n, err)
		}

		model := t.factory()
		if err := model.Fit(t.inputs, targets); err != nil {
			return nil, fmt.Errorf("run: iteration %v: %v", n, err)
		}

		q, err := NewQFunction(model, t.numActions)
		if err != nil {
			return nil, fmt.Errorf("run: iteration %v: %v", n, err)
		}

		// Replace the current snapshot; earlier snapshots remain valid
		t.current = q

		if onIteration != nil {
			onIteration(n, q)
		}
		if bar != nil {
			bar.Increment()
		}
	}
	return t.current, nil
}

// targets computes the regression target vector for iteration n
func (t *Trainer) targets(n int) ([]float64, error) {
	rewards := t.batch.Rewards()
	targets := make([]float64, t.batch.N())
	copy(targets, rewards)

	if n == 0 {
		return targets, nil
	}

	nextQ, err := t.current.PredictAll(t.batch.NextObservations())
	if err != nil {
		return nil, err
	}

	terminals := t.batch.Terminals()
	for i := range targets {
		// A terminal state has no successor to bootstrap from; its
		// target is the immediate reward alone
		if terminals[i] {
			continue
		}
		targets[i] += t.config.Gamma * floatutils.Max(nextQ.RawRowView(i)...)
	}
	return targets, nil
}

// stateActionInputs builds the fixed regression input matrix: each
// observation row with its recorded action index appended as the final
// feature
func stateActionInputs(batch *dataset.Batch) *mat.Dense {
	observations := batch.Observations()
	actions := batch.Actions()

	n, f := observations.Dims()
	inputs := mat.NewDense(n, f+1, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < f; j++ {
			inputs.Set(i, j, observations.At(i, j))
		}
		inputs.Set(i, f, float64(actions[i]))
	}
	return inputs
}
