package dataset

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
)

// FormatError describes a malformed or incomplete persisted dataset
type FormatError struct {
	Op  string
	Err error
}

// Error satisfies the error interface
func (e *FormatError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// IsFormatError returns whether an error reports a malformed or
// incomplete persisted dataset
func IsFormatError(err error) bool {
	var formatErr *FormatError
	return errors.As(err, &formatErr)
}

// archive is the on-disk layout of a Batch. It is a private
// intermediate format, not a wire protocol, so no schema versioning is
// kept.
type archive struct {
	Observations     []float64
	NextObservations []float64
	Actions          []int
	Rewards          []float64
	Terminals        []bool
	ObsDims          int
}

// Save writes the Batch to a single archive file at path. The saved
// data round-trips through Load with exact numeric fidelity.
func Save(b *Batch, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save: could not create archive: %v", err)
	}
	defer file.Close()

	arch := archive{
		Observations:     b.observations,
		NextObservations: b.nextObservations,
		Actions:          b.actions,
		Rewards:          b.rewards,
		Terminals:        b.terminals,
		ObsDims:          b.obsDims,
	}

	enc := gob.NewEncoder(file)
	if err := enc.Encode(arch); err != nil {
		return fmt.Errorf("save: could not encode transition data: %v", err)
	}
	return nil
}

// Load reads a Batch previously written by Save. Load fails with a
// FormatError if the archive is missing any of the five arrays or if
// their lengths are inconsistent.
func Load(path string) (*Batch, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load: could not open archive: %v", err)
	}
	defer file.Close()

	var arch archive
	dec := gob.NewDecoder(file)
	if err := dec.Decode(&arch); err != nil {
		return nil, &FormatError{Op: "load", Err: err}
	}

	if err := arch.validate(); err != nil {
		return nil, &FormatError{Op: "load", Err: err}
	}

	n := len(arch.Actions)
	return &Batch{
		observations:     arch.Observations,
		nextObservations: arch.NextObservations,
		actions:          arch.Actions,
		rewards:          arch.Rewards,
		terminals:        arch.Terminals,
		obsDims:          arch.ObsDims,
		n:                n,
		capacity:         n,
	}, nil
}

// validate checks that all five arrays are present and aligned
func (a *archive) validate() error {
	if a.ObsDims <= 0 {
		return fmt.Errorf("archive has invalid observation dimension %v",
			a.ObsDims)
	}

	named := map[string]int{
		"actions":   len(a.Actions),
		"rewards":   len(a.Rewards),
		"terminals": len(a.Terminals),
	}
	for name, length := range named {
		if length == 0 {
			return fmt.Errorf("archive missing array %q", name)
		}
	}
	if len(a.Observations) == 0 {
		return fmt.Errorf("archive missing array %q", "observations")
	}
	if len(a.NextObservations) == 0 {
		return fmt.Errorf("archive missing array %q", "next_observations")
	}

	n := len(a.Actions)
	if len(a.Rewards) != n || len(a.Terminals) != n {
		return fmt.Errorf("archive arrays have inconsistent lengths "+
			"\n\tactions(%v)\n\trewards(%v)\n\tterminals(%v)", n,
			len(a.Rewards), len(a.Terminals))
	}
	if len(a.Observations) != n*a.ObsDims ||
		len(a.NextObservations) != n*a.ObsDims {
		return fmt.Errorf("archive observation arrays have inconsistent "+
			"lengths \n\twant(%v)\n\thave(%v, %v)", n*a.ObsDims,
			len(a.Observations), len(a.NextObservations))
	}
	return nil
}
