package regression

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// KNN implements k-nearest-neighbour regression with Euclidean
// distance. Predictions are the mean target of the k training rows
// closest to the query row.
type KNN struct {
	k int

	x *mat.Dense
	y []float64
}

// NewKNN returns a new k-nearest-neighbour regression model
func NewKNN(k int) *KNN {
	if k <= 0 {
		panic(fmt.Sprintf("newKNN: neighbour count must be positive, got %v",
			k))
	}
	return &KNN{k: k}
}

// NewKNNFactory returns a Factory producing fresh KNN models with k
// neighbours
func NewKNNFactory(k int) Factory {
	return func() Regressor {
		return NewKNN(k)
	}
}

// Fit memorizes the training data (x, y)
func (k *KNN) Fit(x mat.Matrix, y []float64) error {
	n, _ := x.Dims()
	if len(y) != n {
		return &Error{
			Op: "fit",
			Err: fmt.Errorf("input has %v rows but target has %v values", n,
				len(y)),
		}
	}
	if n < k.k {
		return &Error{
			Op: "fit",
			Err: fmt.Errorf("cannot fit %v-nearest-neighbour model on %v "+
				"rows", k.k, n),
		}
	}

	k.x = mat.DenseCopyOf(x)
	k.y = make([]float64, n)
	copy(k.y, y)
	return nil
}

// Predict returns, for every row of x, the mean target of the k
// nearest training rows
func (k *KNN) Predict(x mat.Matrix) ([]float64, error) {
	if k.x == nil {
		return nil, &Error{Op: "predict", Err: errUnfitted}
	}

	n, f := x.Dims()
	if _, trainF := k.x.Dims(); f != trainF {
		return nil, &Error{
			Op: "predict",
			Err: fmt.Errorf("input has %v features but model was fit on %v",
				f, trainF),
		}
	}

	trainN, _ := k.x.Dims()
	query := make([]float64, f)
	distances := make([]float64, trainN)
	order := make([]int, trainN)

	predictions := make([]float64, n)
	neighbours := make([]float64, k.k)
	for i := 0; i < n; i++ {
		mat.Row(query, i, x)
		for j := 0; j < trainN; j++ {
			distances[j] = floats.Distance(query, k.x.RawRowView(j), 2)
			order[j] = j
		}

		// Equidistant neighbours keep their training order
		sort.SliceStable(order, func(a, b int) bool {
			return distances[order[a]] < distances[order[b]]
		})

		for j := 0; j < k.k; j++ {
			neighbours[j] = k.y[order[j]]
		}
		predictions[i] = stat.Mean(neighbours, nil)
	}
	return predictions, nil
}

// Score returns the coefficient of determination R² of the model's
// predictions on x against y
func (k *KNN) Score(x mat.Matrix, y []float64) (float64, error) {
	predictions, err := k.Predict(x)
	if err != nil {
		return 0, &Error{Op: "score", Err: err}
	}
	return rSquared(predictions, y), nil
}
