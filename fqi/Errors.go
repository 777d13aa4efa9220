package fqi

import "errors"

// ConfigError describes an invalid hyperparameter configuration
type ConfigError struct {
	Field string
	Err   error
}

// Error satisfies the error interface
func (e *ConfigError) Error() string {
	return "config " + e.Field + ": " + e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError returns whether an error reports an invalid
// hyperparameter configuration
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}
