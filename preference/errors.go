package preference

import (
	"errors"
	"fmt"
)

// IsConfigurationError returns true if err is caused by [ConfigurationError].
func IsConfigurationError(err error) bool {
	return errors.As(err, &ConfigurationError{})
}

// ConfigurationError is returned when a host type's preferences can not be
// configured, for example because the host type has already been configured.
type ConfigurationError struct {
	// HostType is the name of the host type being configured.
	HostType string

	// Reason is a human-readable description of the problem.
	Reason string
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("cannot configure preferences for %q: %s", e.HostType, e.Reason)
}

// IsInvalidArgument returns true if err is caused by [InvalidArgumentError].
func IsInvalidArgument(err error) bool {
	return errors.As(err, &InvalidArgumentError{})
}

// InvalidArgumentError is returned when a value supplied to an operation has
// the wrong type, such as a non-numeric packed value or a non-boolean default.
type InvalidArgumentError struct {
	// Argument is the name of the offending argument.
	Argument string

	// Value is the value that was supplied.
	Value any

	// Reason is a human-readable description of the problem.
	Reason string
}

func (e InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s (%T): %s", e.Argument, e.Value, e.Reason)
}
