package linkback

import (
	"errors"
	"fmt"
)

// Standard sentinel errors for common failure cases.
var (
	// ErrConfiguration is returned when a relationship declaration or
	// registration is invalid.
	ErrConfiguration = errors.New("linkback: invalid configuration")

	// ErrUnsupportedRelation is returned when a resolved instance does not
	// declare the back-reference expected by the relationship being resolved.
	ErrUnsupportedRelation = errors.New("linkback: unsupported relation")

	// ErrNotRegistered is returned when an instance's type has not been
	// registered in the registry.
	ErrNotRegistered = errors.New("linkback: type not registered")
)

// ConfigurationError represents an invalid relationship declaration or
// registration. It surfaces when the model type is defined, not at first
// access of an accessor.
type ConfigurationError struct {
	Type     string // model type name, if known
	Relation string // relationship name, if known
	Message  string
	Cause    error
}

// Error returns the error string.
func (e *ConfigurationError) Error() string {
	msg := "linkback: configuration"
	if e.Type != "" {
		msg += " of type " + e.Type
	}
	if e.Relation != "" {
		msg += fmt.Sprintf(" relation %q", e.Relation)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Is reports whether the target matches the configuration sentinel.
// This allows errors.Is(confErr, ErrConfiguration) to return true.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// Unwrap returns the underlying error.
func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// NewConfigurationError returns a new ConfigurationError.
func NewConfigurationError(typeName, relation, message string, cause error) *ConfigurationError {
	return &ConfigurationError{Type: typeName, Relation: relation, Message: message, Cause: cause}
}

// IsConfiguration returns true if the error is a ConfigurationError.
func IsConfiguration(err error) bool {
	if err == nil {
		return false
	}
	var e *ConfigurationError
	return errors.As(err, &e) || errors.Is(err, ErrConfiguration)
}

// UnsupportedRelationError represents a resolution-time failure: a resolved
// instance belongs to a type that does not declare the back-reference the
// relationship strategy needs to set.
type UnsupportedRelationError struct {
	Type     string // type of the offending instance
	Relation string // back-reference name that is missing
}

// Error returns the error string.
func (e *UnsupportedRelationError) Error() string {
	return fmt.Sprintf("linkback: type %q does not support back-reference %q", e.Type, e.Relation)
}

// Is reports whether the target matches the unsupported-relation sentinel.
func (e *UnsupportedRelationError) Is(target error) bool {
	return target == ErrUnsupportedRelation
}

// NewUnsupportedRelationError returns a new UnsupportedRelationError.
func NewUnsupportedRelationError(typeName, relation string) *UnsupportedRelationError {
	return &UnsupportedRelationError{Type: typeName, Relation: relation}
}

// IsUnsupportedRelation returns true if the error is an UnsupportedRelationError.
func IsUnsupportedRelation(err error) bool {
	if err == nil {
		return false
	}
	var e *UnsupportedRelationError
	return errors.As(err, &e) || errors.Is(err, ErrUnsupportedRelation)
}

// NotRegisteredError represents a lookup of a model type that was never
// registered.
type NotRegisteredError struct {
	Name string // type name or association key that was looked up
}

// Error returns the error string.
func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("linkback: type %q not registered", e.Name)
}

// Is reports whether the target matches the not-registered sentinel.
func (e *NotRegisteredError) Is(target error) bool {
	return target == ErrNotRegistered
}

// NewNotRegisteredError returns a new NotRegisteredError for the given name.
func NewNotRegisteredError(name string) *NotRegisteredError {
	return &NotRegisteredError{Name: name}
}

// IsNotRegistered returns true if the error is a NotRegisteredError.
func IsNotRegistered(err error) bool {
	if err == nil {
		return false
	}
	var e *NotRegisteredError
	return errors.As(err, &e) || errors.Is(err, ErrNotRegistered)
}
