package dataset

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// testBatch returns a small Batch of n transitions over obsDims
// features with deterministic contents
func testBatch(t *testing.T, n, obsDims int) *Batch {
	t.Helper()

	batch, err := NewBatch(obsDims, n)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < n; i++ {
		obs := mat.NewVecDense(obsDims, nil)
		nextObs := mat.NewVecDense(obsDims, nil)
		for j := 0; j < obsDims; j++ {
			obs.SetVec(j, float64(i*obsDims+j))
			nextObs.SetVec(j, float64(i*obsDims+j)+0.5)
		}

		err := batch.Append(obs, i%3, float64(-i), nextObs, i%4 == 3)
		if err != nil {
			t.Fatal(err)
		}
	}
	return batch
}

func TestBatchAppend(t *testing.T) {
	batch := testBatch(t, 7, 2)

	if batch.N() != 7 {
		t.Errorf("expected 7 transitions, got %v", batch.N())
	}
	if batch.ObsDims() != 2 {
		t.Errorf("expected 2 features, got %v", batch.ObsDims())
	}

	rows, cols := batch.Observations().Dims()
	if rows != 7 || cols != 2 {
		t.Errorf("expected 7 x 2 observation matrix, got %v x %v", rows, cols)
	}

	// Row i of the matrix view must be the i'th appended observation
	if batch.Observations().At(3, 1) != 7.0 {
		t.Errorf("expected observation element 7.0, got %v",
			batch.Observations().At(3, 1))
	}
	if batch.NextObservations().At(3, 1) != 7.5 {
		t.Errorf("expected next observation element 7.5, got %v",
			batch.NextObservations().At(3, 1))
	}

	if batch.NumTerminal() != 1 {
		t.Errorf("expected 1 terminal transition, got %v", batch.NumTerminal())
	}
}

func TestBatchAppendPastCapacity(t *testing.T) {
	batch := testBatch(t, 5, 2) // filled to its capacity of 5

	obs := mat.NewVecDense(2, nil)
	nextObs := mat.NewVecDense(2, nil)
	if err := batch.Append(obs, 0, -1.0, nextObs, false); err == nil {
		t.Error("expected an error appending to a full batch")
	}
	if batch.N() != 5 {
		t.Errorf("expected the batch to stay at 5 transitions, got %v",
			batch.N())
	}
}

func TestBatchAppendWrongDims(t *testing.T) {
	batch, err := NewBatch(2, 10)
	if err != nil {
		t.Fatal(err)
	}

	obs := mat.NewVecDense(3, nil)
	nextObs := mat.NewVecDense(2, nil)
	if err := batch.Append(obs, 0, 0.0, nextObs, false); err == nil {
		t.Error("expected an error appending a 3-feature observation to a " +
			"2-feature batch")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	batch := testBatch(t, 12, 3)

	if err := Save(batch, path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if !batch.Equal(loaded) {
		t.Errorf("loaded batch differs from saved batch \n\tsaved(%v)"+
			"\n\tloaded(%v)", batch, loaded)
	}
}

func TestLoadMissingArray(t *testing.T) {
	tests := []struct {
		name string
		arch archive
	}{
		{"missing actions", archive{
			Observations:     []float64{1, 2},
			NextObservations: []float64{3, 4},
			Rewards:          []float64{-1},
			Terminals:        []bool{false},
			ObsDims:          2,
		}},
		{"missing rewards", archive{
			Observations:     []float64{1, 2},
			NextObservations: []float64{3, 4},
			Actions:          []int{0},
			Terminals:        []bool{false},
			ObsDims:          2,
		}},
		{"missing observations", archive{
			NextObservations: []float64{3, 4},
			Actions:          []int{0},
			Rewards:          []float64{-1},
			Terminals:        []bool{false},
			ObsDims:          2,
		}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "data.bin")
			writeArchive(t, path, test.arch)

			_, err := Load(path)
			if err == nil {
				t.Fatal("expected an error loading an incomplete archive")
			}
			if !IsFormatError(err) {
				t.Errorf("expected a FormatError, got %T", err)
			}
		})
	}
}

func TestLoadMismatchedLengths(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")

	// Two actions but only one reward
	writeArchive(t, path, archive{
		Observations:     []float64{1, 2, 3, 4},
		NextObservations: []float64{5, 6, 7, 8},
		Actions:          []int{0, 1},
		Rewards:          []float64{-1},
		Terminals:        []bool{false, true},
		ObsDims:          2,
	})

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected an error loading mismatched array lengths")
	}
	if !IsFormatError(err) {
		t.Errorf("expected a FormatError, got %T", err)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	if err := os.WriteFile(path, []byte("not a gob stream"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected an error loading a corrupt file")
	}
	if !IsFormatError(err) {
		t.Errorf("expected a FormatError, got %T", err)
	}
}

func writeArchive(t *testing.T, path string, arch archive) {
	t.Helper()

	file, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(arch); err != nil {
		t.Fatal(err)
	}
}
