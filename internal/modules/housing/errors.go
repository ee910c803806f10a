package housing

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAssumptions marks a missing, unknown or out-of-range assumption.
	ErrInvalidAssumptions = errors.New("invalid assumptions")
	// ErrNumericDomain marks a non-convergent or degenerate numerical result.
	ErrNumericDomain = errors.New("numeric domain error")
	// ErrAttributeNotFound marks a sensitivity sweep over an unknown attribute.
	ErrAttributeNotFound = errors.New("attribute not found")
)

// ValidationError describes why a single assumption was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid assumptions: %s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidAssumptions
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ConvergenceError reports a payment solve that could not be trusted.
type ConvergenceError struct {
	Status     string
	Iterations int
	Payment    float64
	Residual   float64
	Reason     string
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("payment solver: %s (status=%s, iterations=%d, payment=%g, residual=%g)",
		e.Reason, e.Status, e.Iterations, e.Payment, e.Residual)
}

func (e *ConvergenceError) Unwrap() error {
	return ErrNumericDomain
}
