// Package dataset implements the offline transition dataset consumed
// by fitted value iteration. A dataset is a batch of
// (state, action, reward, next state, terminal) records collected from
// an environment, aligned by index.
package dataset

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Batch holds a fixed-capacity collection of transitions. The five
// underlying sequences are aligned: Actions()[i] was taken in row i of
// Observations(), yielding Rewards()[i], row i of NextObservations(),
// and Terminals()[i].
//
// Terminals()[i] is true only for genuine terminal states. An episode
// cut short by a time limit is recorded with a false terminal flag so
// that value estimates may still bootstrap through the reached state.
//
// A Batch is mutated only through Append during collection and is
// treated as read-only afterwards.
type Batch struct {
	observations     []float64 // Flattened, row major
	nextObservations []float64 // Flattened, row major
	actions          []int
	rewards          []float64
	terminals        []bool

	obsDims  int
	n        int
	capacity int
}

// NewBatch returns an empty Batch for observation vectors of obsDims
// features, preallocated to hold capacity transitions.
func NewBatch(obsDims, capacity int) (*Batch, error) {
	if obsDims <= 0 {
		return nil, fmt.Errorf("newBatch: observation dimension must be "+
			"positive, got %v", obsDims)
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("newBatch: capacity must be positive, got %v",
			capacity)
	}

	return &Batch{
		observations:     make([]float64, 0, capacity*obsDims),
		nextObservations: make([]float64, 0, capacity*obsDims),
		actions:          make([]int, 0, capacity),
		rewards:          make([]float64, 0, capacity),
		terminals:        make([]bool, 0, capacity),
		obsDims:          obsDims,
		capacity:         capacity,
	}, nil
}

// Append adds a single transition record to the Batch, failing once
// the Batch holds its full capacity. The terminal argument must be
// true only when the environment signalled a genuine terminal state,
// never on time-limit truncation.
func (b *Batch) Append(obs mat.Vector, action int, reward float64,
	nextObs mat.Vector, terminal bool) error {
	if b.n == b.capacity {
		return fmt.Errorf("append: batch is full at capacity %v", b.capacity)
	}
	if obs.Len() != b.obsDims || nextObs.Len() != b.obsDims {
		return fmt.Errorf("append: invalid observation size "+
			"\n\twant(%v)\n\thave(%v, %v)", b.obsDims, obs.Len(),
			nextObs.Len())
	}

	for i := 0; i < b.obsDims; i++ {
		b.observations = append(b.observations, obs.AtVec(i))
		b.nextObservations = append(b.nextObservations, nextObs.AtVec(i))
	}
	b.actions = append(b.actions, action)
	b.rewards = append(b.rewards, reward)
	b.terminals = append(b.terminals, terminal)
	b.n++

	return nil
}

// N returns the number of transitions in the Batch
func (b *Batch) N() int {
	return b.n
}

// ObsDims returns the number of features in each observation vector
func (b *Batch) ObsDims() int {
	return b.obsDims
}

// Observations returns the N x ObsDims matrix of state observations.
// The matrix shares backing data with the Batch and must not be
// modified.
func (b *Batch) Observations() *mat.Dense {
	return mat.NewDense(b.n, b.obsDims, b.observations)
}

// NextObservations returns the N x ObsDims matrix of next-state
// observations. The matrix shares backing data with the Batch and must
// not be modified.
func (b *Batch) NextObservations() *mat.Dense {
	return mat.NewDense(b.n, b.obsDims, b.nextObservations)
}

// Actions returns the slice of discrete action indices
func (b *Batch) Actions() []int {
	return b.actions
}

// Rewards returns the slice of rewards
func (b *Batch) Rewards() []float64 {
	return b.rewards
}

// Terminals returns the slice of terminal flags
func (b *Batch) Terminals() []bool {
	return b.terminals
}

// NumTerminal returns the number of transitions flagged as terminal
func (b *Batch) NumTerminal() int {
	count := 0
	for _, terminal := range b.terminals {
		if terminal {
			count++
		}
	}
	return count
}

// Equal reports whether two Batches hold element-wise identical data
func (b *Batch) Equal(other *Batch) bool {
	if b.n != other.n || b.obsDims != other.obsDims {
		return false
	}
	for i := range b.observations {
		if b.observations[i] != other.observations[i] ||
			b.nextObservations[i] != other.nextObservations[i] {
			return false
		}
	}
	for i := 0; i < b.n; i++ {
		if b.actions[i] != other.actions[i] ||
			b.rewards[i] != other.rewards[i] ||
			b.terminals[i] != other.terminals[i] {
			return false
		}
	}
	return true
}

func (b *Batch) String() string {
	return fmt.Sprintf("Batch | N: %v  |  Features: %v  |  Terminal: %v",
		b.n, b.obsDims, b.NumTerminal())
}
