package regression

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

const tolerance float64 = 1e-9

func TestLeastSquaresRecoversLinearData(t *testing.T) {
	// y = 2x₀ - 3x₁ + 1
	x := mat.NewDense(5, 2, []float64{
		0, 0,
		1, 0,
		0, 1,
		2, 1,
		-1, 3,
	})
	y := []float64{1, 3, -2, 2, -10}

	model := NewLeastSquares(0.0)
	if err := model.Fit(x, y); err != nil {
		t.Fatal(err)
	}

	query := mat.NewDense(2, 2, []float64{
		3, -2,
		0.5, 0.5,
	})
	predictions, err := model.Predict(query)
	if err != nil {
		t.Fatal(err)
	}

	expected := []float64{13, 0.5}
	for i := range expected {
		if math.Abs(predictions[i]-expected[i]) > tolerance {
			t.Errorf("prediction %v: expected %v, got %v", i, expected[i],
				predictions[i])
		}
	}

	score, err := model.Score(x, y)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(score-1.0) > tolerance {
		t.Errorf("expected R² of 1 on noiseless linear data, got %v", score)
	}
}

func TestLeastSquaresRidgeShrinks(t *testing.T) {
	x := mat.NewDense(4, 1, []float64{-2, -1, 1, 2})
	y := []float64{-4, -2, 2, 4}

	ols := NewLeastSquares(0.0)
	if err := ols.Fit(x, y); err != nil {
		t.Fatal(err)
	}
	ridge := NewLeastSquares(10.0)
	if err := ridge.Fit(x, y); err != nil {
		t.Fatal(err)
	}

	query := mat.NewDense(1, 1, []float64{3})
	olsPred, err := ols.Predict(query)
	if err != nil {
		t.Fatal(err)
	}
	ridgePred, err := ridge.Predict(query)
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(ridgePred[0]) >= math.Abs(olsPred[0]) {
		t.Errorf("expected the ridge penalty to shrink predictions "+
			"\n\tols(%v)\n\tridge(%v)", olsPred[0], ridgePred[0])
	}
}

func TestLeastSquaresUnfitted(t *testing.T) {
	model := NewLeastSquares(0.0)

	_, err := model.Predict(mat.NewDense(1, 2, nil))
	if err == nil {
		t.Fatal("expected an error predicting before fitting")
	}
	if !IsUnfitted(err) {
		t.Errorf("expected an unfitted model error, got %v", err)
	}
}

func TestKNNNeighbourMeans(t *testing.T) {
	x := mat.NewDense(4, 1, []float64{0, 1, 10, 11})
	y := []float64{2, 4, 20, 40}

	model := NewKNN(2)
	if err := model.Fit(x, y); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		query    float64
		expected float64
	}{
		{0.4, 3},   // neighbours 0 and 1
		{10.4, 30}, // neighbours 10 and 11
	}

	for _, test := range tests {
		predictions, err := model.Predict(mat.NewDense(1, 1,
			[]float64{test.query}))
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(predictions[0]-test.expected) > tolerance {
			t.Errorf("query %v: expected %v, got %v", test.query,
				test.expected, predictions[0])
		}
	}
}

func TestKNNOneNeighbourInterpolatesTraining(t *testing.T) {
	x := mat.NewDense(3, 2, []float64{
		0, 0,
		5, 5,
		-3, 4,
	})
	y := []float64{1, 2, 3}

	model := NewKNN(1)
	if err := model.Fit(x, y); err != nil {
		t.Fatal(err)
	}

	// With one neighbour the model reproduces its training targets
	predictions, err := model.Predict(x)
	if err != nil {
		t.Fatal(err)
	}
	for i := range y {
		if predictions[i] != y[i] {
			t.Errorf("row %v: expected %v, got %v", i, y[i], predictions[i])
		}
	}

	score, err := model.Score(x, y)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(score-1.0) > tolerance {
		t.Errorf("expected R² of 1 on memorized data, got %v", score)
	}
}

func TestKNNTooFewRows(t *testing.T) {
	model := NewKNN(5)

	err := model.Fit(mat.NewDense(3, 1, []float64{1, 2, 3}),
		[]float64{1, 2, 3})
	if err == nil {
		t.Error("expected an error fitting 5 neighbours on 3 rows")
	}
}

func TestKNNUnfitted(t *testing.T) {
	model := NewKNN(3)

	_, err := model.Predict(mat.NewDense(1, 1, nil))
	if err == nil {
		t.Fatal("expected an error predicting before fitting")
	}
	if !IsUnfitted(err) {
		t.Errorf("expected an unfitted model error, got %v", err)
	}
}

func TestFitRejectsMismatchedTargets(t *testing.T) {
	models := []Regressor{NewLeastSquares(0.0), NewKNN(1)}

	for _, model := range models {
		err := model.Fit(mat.NewDense(3, 1, []float64{1, 2, 3}),
			[]float64{1, 2})
		if err == nil {
			t.Errorf("%T: expected an error fitting 3 rows to 2 targets",
				model)
		}
	}
}
