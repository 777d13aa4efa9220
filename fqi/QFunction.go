// Package fqi implements Fitted Q-Iteration, an offline batch value
// iteration algorithm built on a pluggable regression model.
//
// The action-value function Q(s, a) is approximated by a regression
// model over inputs formed by concatenating a state vector with a
// discrete action index. Starting from a model fit directly on
// immediate rewards, each iteration regresses a fresh model onto
// bootstrapped targets computed from the previous iteration's model.
package fqi

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"github.com/samuelfneumann/gofqi/regression"
	"github.com/samuelfneumann/gofqi/utils/floatutils"
	"github.com/samuelfneumann/gofqi/utils/matutils"
)

// QFunction is an immutable snapshot of an action-value estimate: a
// fitted regression model together with the discrete action count it
// was trained for. Iterating algorithms replace their QFunction rather
// than mutating it, so an older snapshot stays valid while a newer one
// is being fit.
type QFunction struct {
	model      regression.Regressor
	numActions int
}

// NewQFunction returns a QFunction wrapping a fitted model over
// numActions discrete actions
func NewQFunction(model regression.Regressor,
	numActions int) (*QFunction, error) {
	if numActions <= 0 {
		return nil, &ConfigError{
			Field: "numActions",
			Err:   fmt.Errorf("must be positive, got %v", numActions),
		}
	}
	return &QFunction{model: model, numActions: numActions}, nil
}

// NumActions returns the number of discrete actions the QFunction
// estimates values for
func (q *QFunction) NumActions() int {
	return q.numActions
}

// Model returns the underlying regression model
func (q *QFunction) Model() regression.Regressor {
	return q.model
}

// PredictAll returns the [K, numActions] matrix of action-value
// estimates for the K state rows of states. Column a holds the
// model's predictions for taking action a in every state.
//
// Predictions are batched by action: for each action, the full state
// batch is extended with that action's index and predicted in a single
// call, rather than predicting each (state, action) pair separately.
// Each action's predictions are independent of the others and write a
// disjoint output column.
func (q *QFunction) PredictAll(states mat.Matrix) (*mat.Dense, error) {
	k, f := states.Dims()
	out := mat.NewDense(k, q.numActions, nil)

	input := matutils.AppendColumn(states, 0)
	for a := 0; a < q.numActions; a++ {
		for i := 0; i < k; i++ {
			input.Set(i, f, float64(a))
		}

		predictions, err := q.model.Predict(input)
		if err != nil {
			return nil, fmt.Errorf("predictAll: action %v: %w", a, err)
		}
		out.SetCol(a, predictions)
	}
	return out, nil
}

// GreedyAction returns the action with the maximal estimated value at
// obs. Ties are broken by the lowest action index.
func (q *QFunction) GreedyAction(obs mat.Vector) (int, error) {
	state := mat.NewDense(1, obs.Len(), nil)
	for j := 0; j < obs.Len(); j++ {
		state.Set(0, j, obs.AtVec(j))
	}

	values, err := q.PredictAll(state)
	if err != nil {
		return 0, fmt.Errorf("greedyAction: %w", err)
	}
	return floatutils.ArgMax(values.RawRowView(0)), nil
}
