package regression

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// LeastSquares implements linear regression with an optional ridge
// penalty, fit by solving the regularized normal equations. A bias
// term is always included.
type LeastSquares struct {
	lambda  float64
	weights *mat.VecDense // len features+1, bias last
}

// NewLeastSquares returns a new linear regression model with ridge
// penalty lambda. A lambda of 0 gives ordinary least squares.
func NewLeastSquares(lambda float64) *LeastSquares {
	if lambda < 0 {
		panic(fmt.Sprintf("newLeastSquares: negative ridge penalty %v",
			lambda))
	}
	return &LeastSquares{lambda: lambda}
}

// NewLeastSquaresFactory returns a Factory producing fresh
// LeastSquares models with ridge penalty lambda
func NewLeastSquaresFactory(lambda float64) Factory {
	return func() Regressor {
		return NewLeastSquares(lambda)
	}
}

// Fit fits the model to (x, y) by solving
// (XᵀX + λI) w = Xᵀy for w, where X is x with an appended bias column.
func (l *LeastSquares) Fit(x mat.Matrix, y []float64) error {
	n, _ := x.Dims()
	if len(y) != n {
		return &Error{
			Op: "fit",
			Err: fmt.Errorf("input has %v rows but target has %v values", n,
				len(y)),
		}
	}

	xb := withBias(x)
	_, d := xb.Dims()

	var xtx mat.Dense
	xtx.Mul(xb.T(), xb)
	for i := 0; i < d; i++ {
		xtx.Set(i, i, xtx.At(i, i)+l.lambda)
	}

	var xty mat.VecDense
	xty.MulVec(xb.T(), mat.NewVecDense(n, y))

	var w mat.VecDense
	if err := w.SolveVec(&xtx, &xty); err != nil {
		return &Error{
			Op:  "fit",
			Err: fmt.Errorf("could not solve normal equations: %v", err),
		}
	}

	l.weights = &w
	return nil
}

// Predict returns the model's prediction for every row of x
func (l *LeastSquares) Predict(x mat.Matrix) ([]float64, error) {
	if l.weights == nil {
		return nil, &Error{Op: "predict", Err: errUnfitted}
	}

	n, f := x.Dims()
	if f != l.weights.Len()-1 {
		return nil, &Error{
			Op: "predict",
			Err: fmt.Errorf("input has %v features but model was fit on %v",
				f, l.weights.Len()-1),
		}
	}

	var out mat.VecDense
	out.MulVec(withBias(x), l.weights)

	predictions := make([]float64, n)
	for i := range predictions {
		predictions[i] = out.AtVec(i)
	}
	return predictions, nil
}

// Score returns the coefficient of determination R² of the model's
// predictions on x against y
func (l *LeastSquares) Score(x mat.Matrix, y []float64) (float64, error) {
	predictions, err := l.Predict(x)
	if err != nil {
		return 0, &Error{Op: "score", Err: err}
	}
	return rSquared(predictions, y), nil
}

// withBias returns x with an appended column of ones
func withBias(x mat.Matrix) *mat.Dense {
	n, f := x.Dims()
	out := mat.NewDense(n, f+1, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < f; j++ {
			out.Set(i, j, x.At(i, j))
		}
		out.Set(i, f, 1.0)
	}
	return out
}
