package regression

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestMLPFitPredict(t *testing.T) {
	x := mat.NewDense(8, 2, []float64{
		0, 0,
		0, 1,
		1, 0,
		1, 1,
		2, 0,
		0, 2,
		2, 2,
		1, 2,
	})
	y := []float64{0, 1, 1, 2, 2, 2, 4, 3}

	model := NewMLP([]int{16}, 0.01, 25)
	if err := model.Fit(x, y); err != nil {
		t.Fatal(err)
	}

	// Query with a batch size different from the training batch
	query := mat.NewDense(3, 2, []float64{
		0.5, 0.5,
		1.5, 0.5,
		0, 1.5,
	})
	predictions, err := model.Predict(query)
	if err != nil {
		t.Fatal(err)
	}
	if len(predictions) != 3 {
		t.Fatalf("expected 3 predictions, got %v", len(predictions))
	}

	single, err := model.Predict(mat.NewDense(1, 2, []float64{1, 1}))
	if err != nil {
		t.Fatal(err)
	}
	if len(single) != 1 {
		t.Fatalf("expected 1 prediction, got %v", len(single))
	}
}

func TestMLPUnfitted(t *testing.T) {
	model := NewMLP([]int{8}, 0.01, 10)

	_, err := model.Predict(mat.NewDense(1, 2, nil))
	if err == nil {
		t.Fatal("expected an error predicting before fitting")
	}
	if !IsUnfitted(err) {
		t.Errorf("expected an unfitted model error, got %v", err)
	}
}

func TestMLPFeatureMismatch(t *testing.T) {
	x := mat.NewDense(4, 2, []float64{0, 0, 1, 1, 2, 2, 3, 3})
	y := []float64{0, 2, 4, 6}

	model := NewMLP([]int{8}, 0.01, 5)
	if err := model.Fit(x, y); err != nil {
		t.Fatal(err)
	}

	_, err := model.Predict(mat.NewDense(1, 3, nil))
	if err == nil {
		t.Error("expected an error predicting with the wrong feature count")
	}
}
