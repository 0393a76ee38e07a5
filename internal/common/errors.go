// Package common defines the sentinel errors shared by the calculation
// engine, the journal store and the bookkeeping service. Callers match them
// with errors.Is; context is added by wrapping with %w.
package common

import (
	"errors"
	"fmt"
	"math"
)

var (
	// Validation errors. The failed operation had no side effect.
	ErrInvalidArgument = errors.New("invalid argument")
	ErrDivisionByZero  = fmt.Errorf("division by zero: %w", ErrInvalidArgument)

	// Repository-level errors.
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrDataIntegrity = errors.New("data integrity violation")

	// Auth errors.
	ErrUnauthorized = errors.New("unauthorized")
)

// Invalid wraps ErrInvalidArgument with a formatted reason.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidArgument)
}

// Finite rejects NaN and the infinities, which pass ordered comparisons
// and cannot be stored or encoded as JSON.
func Finite(name string, x float64) error {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return Invalid("%s must be a finite number, got %v", name, x)
	}
	return nil
}

// Positive requires x to be finite and greater than zero.
func Positive(name string, x float64) error {
	if err := Finite(name, x); err != nil {
		return err
	}
	if x <= 0 {
		return Invalid("%s must be positive, got %.2f", name, x)
	}
	return nil
}
