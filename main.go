package main

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r1"
	"github.com/samuelfneumann/gofqi/environment"
	"github.com/samuelfneumann/gofqi/environment/classiccontrol/mountaincar"
	"github.com/samuelfneumann/gofqi/fqi"
	"github.com/samuelfneumann/gofqi/regression"
	"github.com/samuelfneumann/gofqi/rollout"
)

func main() {
	var seed uint64 = 192382

	// Create the environment
	position := r1.Interval{Min: -0.6, Max: -0.4}
	velocity := r1.Interval{Min: 0.0, Max: 0.0}

	s := environment.NewUniformStarter([]r1.Interval{position, velocity}, seed)
	task := mountaincar.NewGoal(s, 1_000, mountaincar.GoalPosition)
	m, _, err := mountaincar.NewDiscrete(task, 1.0)
	if err != nil {
		panic(err)
	}

	// Collect the offline dataset with a uniform-random policy
	batch, err := rollout.Collect(m, 10_000, seed)
	if err != nil {
		panic(err)
	}
	fmt.Printf("collected %v transitions (%v terminal)\n", batch.N(),
		batch.NumTerminal())

	// Run Fitted Q-Iteration
	numActions := environment.NumActions(m.ActionSpec())
	trainer, err := fqi.NewTrainer(batch, regression.NewKNNFactory(5),
		numActions, fqi.Config{
			Gamma:        0.99,
			Iterations:   30,
			ShowProgress: true,
		})
	if err != nil {
		panic(err)
	}

	q, err := trainer.Run(nil)
	if err != nil {
		panic(err)
	}

	// Evaluate the learned greedy policy on a fresh environment
	evalStarter := environment.NewUniformStarter(
		[]r1.Interval{position, velocity}, seed+1)
	evalTask := mountaincar.NewGoal(evalStarter, 1_000,
		mountaincar.GoalPosition)
	evalEnv, _, err := mountaincar.NewDiscrete(evalTask, 1.0)
	if err != nil {
		panic(err)
	}

	mean, std, err := rollout.Evaluate(q, evalEnv, 10, nil)
	if err != nil {
		panic(err)
	}
	fmt.Printf("greedy policy return: %v ± %v over 10 episodes\n", mean, std)
}
