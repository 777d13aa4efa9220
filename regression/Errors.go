package regression

import "errors"

// Error implements errors unique to regression models
type Error struct {
	Op  string
	Err error
}

// Error satisfies the error interface
func (e *Error) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

var errUnfitted = errors.New("model has not been fit")

// IsUnfitted returns whether an error reports that prediction was
// requested from a model before any fit
func IsUnfitted(err error) bool {
	return errors.Is(err, errUnfitted)
}
