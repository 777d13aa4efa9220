package regression

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// MLP implements regression with a multi-layered perceptron trained by
// full-batch gradient descent on the mean squared error. Hidden layers
// use ReLU activations; the output layer is a single linear unit.
//
// Because the computational graph of a network is fixed to the shape of
// its input, Fit trains on a graph sized to the training batch and then
// snapshots the learned weights. Predict replays those weights on a
// fresh graph sized to the query batch.
type MLP struct {
	hiddenSizes []int
	learnRate   float64
	epochs      int

	features int
	weights  []*tensor.Dense // Learned layer weights, in order
	biases   []*tensor.Dense // Learned layer biases, in order
}

// NewMLP returns a new MLP regression model. The network has one hidden
// layer per element of hiddenSizes, trained for epochs full-batch
// gradient steps with the Adam solver.
func NewMLP(hiddenSizes []int, learnRate float64, epochs int) *MLP {
	if len(hiddenSizes) == 0 {
		panic("newMLP: at least one hidden layer is required")
	}
	for _, size := range hiddenSizes {
		if size <= 0 {
			panic(fmt.Sprintf("newMLP: invalid hidden layer size %v", size))
		}
	}
	if epochs <= 0 {
		panic(fmt.Sprintf("newMLP: epochs must be positive, got %v", epochs))
	}

	return &MLP{
		hiddenSizes: hiddenSizes,
		learnRate:   learnRate,
		epochs:      epochs,
	}
}

// NewMLPFactory returns a Factory producing fresh MLP models
func NewMLPFactory(hiddenSizes []int, learnRate float64,
	epochs int) Factory {
	return func() Regressor {
		return NewMLP(hiddenSizes, learnRate, epochs)
	}
}

// layerSizes returns the sizes of all layers, input through output
func (m *MLP) layerSizes(features int) []int {
	sizes := make([]int, 0, len(m.hiddenSizes)+2)
	sizes = append(sizes, features)
	sizes = append(sizes, m.hiddenSizes...)
	return append(sizes, 1)
}

// fwd adds the forward pass on input to the graph, using the argument
// weight and bias nodes. Hidden layers are rectified; the final layer
// is linear.
func fwd(input *G.Node, weights, biases []*G.Node) *G.Node {
	pred := input
	for i := range weights {
		pred = G.Must(G.Mul(pred, weights[i]))

		// Broadcast the bias weights to all samples along the batch
		// dimension
		pred = G.Must(G.BroadcastAdd(pred, biases[i], nil, []byte{0}))

		if i < len(weights)-1 {
			pred = G.Must(G.Rectify(pred))
		}
	}
	return pred
}

// Fit trains the network on (x, y)
func (m *MLP) Fit(x mat.Matrix, y []float64) error {
	n, features := x.Dims()
	if len(y) != n {
		return &Error{
			Op: "fit",
			Err: fmt.Errorf("input has %v rows but target has %v values", n,
				len(y)),
		}
	}

	sizes := m.layerSizes(features)

	g := G.NewGraph()
	input := G.NewMatrix(g, tensor.Float64, G.WithShape(n, features),
		G.WithName("input"))
	target := G.NewVector(g, tensor.Float64, G.WithShape(n),
		G.WithName("target"))

	weights := make([]*G.Node, len(sizes)-1)
	biases := make([]*G.Node, len(sizes)-1)
	learnables := make(G.Nodes, 0, 2*len(weights))
	for i := range weights {
		weights[i] = G.NewMatrix(g, tensor.Float64,
			G.WithShape(sizes[i], sizes[i+1]),
			G.WithName(fmt.Sprintf("w%d", i)),
			G.WithInit(G.GlorotU(1.0)))
		biases[i] = G.NewVector(g, tensor.Float64,
			G.WithShape(sizes[i+1]),
			G.WithName(fmt.Sprintf("b%d", i)),
			G.WithInit(G.Zeroes()))
		learnables = append(learnables, weights[i], biases[i])
	}

	// Mean squared error between predictions and targets
	pred := fwd(input, weights, biases)
	pred = G.Must(G.Reshape(pred, tensor.Shape{n}))
	losses := G.Must(G.Sub(pred, target))
	losses = G.Must(G.Square(losses))
	cost := G.Must(G.Mean(losses))

	if _, err := G.Grad(cost, learnables...); err != nil {
		return &Error{
			Op:  "fit",
			Err: fmt.Errorf("could not compute gradient: %v", err),
		}
	}

	vm := G.NewTapeMachine(g, G.BindDualValues(learnables...))
	defer vm.Close()
	solver := G.NewAdamSolver(G.WithLearnRate(m.learnRate))

	xTensor := tensor.New(tensor.WithShape(n, features),
		tensor.WithBacking(flatten(x)))
	yBacking := make([]float64, n)
	copy(yBacking, y)
	yTensor := tensor.New(tensor.WithShape(n), tensor.WithBacking(yBacking))

	for epoch := 0; epoch < m.epochs; epoch++ {
		if err := G.Let(input, xTensor); err != nil {
			return &Error{Op: "fit", Err: err}
		}
		if err := G.Let(target, yTensor); err != nil {
			return &Error{Op: "fit", Err: err}
		}

		if err := vm.RunAll(); err != nil {
			return &Error{
				Op:  "fit",
				Err: fmt.Errorf("epoch %v failed: %v", epoch, err),
			}
		}
		if err := solver.Step(G.NodesToValueGrads(learnables)); err != nil {
			return &Error{
				Op:  "fit",
				Err: fmt.Errorf("solver step %v failed: %v", epoch, err),
			}
		}
		vm.Reset()
	}

	// Snapshot the learned parameters so Predict can replay them on
	// graphs of any batch size
	m.features = features
	m.weights = make([]*tensor.Dense, len(weights))
	m.biases = make([]*tensor.Dense, len(biases))
	for i := range weights {
		m.weights[i] = weights[i].Value().(*tensor.Dense).Clone().(*tensor.Dense)
		m.biases[i] = biases[i].Value().(*tensor.Dense).Clone().(*tensor.Dense)
	}
	return nil
}

// Predict returns the network's prediction for every row of x
func (m *MLP) Predict(x mat.Matrix) ([]float64, error) {
	if m.weights == nil {
		return nil, &Error{Op: "predict", Err: errUnfitted}
	}

	n, features := x.Dims()
	if features != m.features {
		return nil, &Error{
			Op: "predict",
			Err: fmt.Errorf("input has %v features but model was fit on %v",
				features, m.features),
		}
	}

	g := G.NewGraph()
	input := G.NewMatrix(g, tensor.Float64, G.WithShape(n, features),
		G.WithName("input"))

	weights := make([]*G.Node, len(m.weights))
	biases := make([]*G.Node, len(m.biases))
	for i := range m.weights {
		weights[i] = G.NewMatrix(g, tensor.Float64,
			G.WithName(fmt.Sprintf("w%d", i)),
			G.WithShape(m.weights[i].Shape()...),
			G.WithValue(m.weights[i]))
		biases[i] = G.NewVector(g, tensor.Float64,
			G.WithName(fmt.Sprintf("b%d", i)),
			G.WithShape(m.biases[i].Shape()...),
			G.WithValue(m.biases[i]))
	}

	pred := fwd(input, weights, biases)
	var predVal G.Value
	G.Read(pred, &predVal)

	vm := G.NewTapeMachine(g)
	defer vm.Close()

	xTensor := tensor.New(tensor.WithShape(n, features),
		tensor.WithBacking(flatten(x)))
	if err := G.Let(input, xTensor); err != nil {
		return nil, &Error{Op: "predict", Err: err}
	}

	if err := vm.RunAll(); err != nil {
		return nil, &Error{
			Op:  "predict",
			Err: fmt.Errorf("forward pass failed: %v", err),
		}
	}

	data := predVal.Data().([]float64)
	predictions := make([]float64, n)
	copy(predictions, data)
	return predictions, nil
}

// Score returns the coefficient of determination R² of the network's
// predictions on x against y
func (m *MLP) Score(x mat.Matrix, y []float64) (float64, error) {
	predictions, err := m.Predict(x)
	if err != nil {
		return 0, &Error{Op: "score", Err: err}
	}
	return rSquared(predictions, y), nil
}

// flatten copies a matrix into a newly allocated row-major slice
func flatten(x mat.Matrix) []float64 {
	n, f := x.Dims()
	out := make([]float64, n*f)
	for i := 0; i < n; i++ {
		for j := 0; j < f; j++ {
			out[i*f+j] = x.At(i, j)
		}
	}
	return out
}
