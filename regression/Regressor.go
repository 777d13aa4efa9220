// Package regression implements regression models behind a uniform
// fit/predict/score contract. Any concrete regression algorithm
// satisfying the Regressor interface can be used interchangeably as the
// function approximator of fitted value iteration.
package regression

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Regressor implements a regression model fit to a numeric target.
// Implementations must return an unfitted error (see IsUnfitted) from
// Predict and Score when called before Fit.
type Regressor interface {
	// Fit fits the model to the inputs x and targets y, where row i of
	// x corresponds to y[i]
	Fit(x mat.Matrix, y []float64) error

	// Predict returns the model's prediction for every row of x
	Predict(x mat.Matrix) ([]float64, error)

	// Score returns the coefficient of determination R² of the
	// model's predictions on x against y
	Score(x mat.Matrix, y []float64) (float64, error)
}

// Factory returns a fresh, unfitted Regressor. Factories let
// algorithms fit a new model per iteration instead of mutating an
// existing one.
type Factory func() Regressor

// rSquared computes the coefficient of determination of predictions
// against targets
func rSquared(predictions, y []float64) float64 {
	mean := stat.Mean(y, nil)

	var residual, total float64
	for i := range y {
		diff := y[i] - predictions[i]
		residual += diff * diff

		dev := y[i] - mean
		total += dev * dev
	}

	if total == 0 {
		if residual == 0 {
			return 1.0
		}
		return 0.0
	}
	return 1.0 - residual/total
}
