package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Configuration errors
	ErrUnknownDirection = errors.New("unknown tail direction")
	ErrUnknownPolicy    = errors.New("unknown combiner policy")

	// Input validation errors
	ErrInvalidInput = errors.New("invalid estimation input")

	// Internal misuse errors
	ErrInvalidTailDirection = errors.New("tail direction not usable at single-direction primitive")

	// Combiner input errors
	ErrNotSequence   = errors.New("p-values input is not a sequence")
	ErrNonNumeric    = errors.New("p-values contain a non-numeric element")
	ErrEmptySequence = errors.New("p-values sequence is empty")

	// Persistence errors
	ErrNotFound       = errors.New("resource not found")
	ErrVertexNotFound = fmt.Errorf("%w: vertex", ErrNotFound)
	ErrWindowNotFound = fmt.Errorf("%w: time window", ErrNotFound)
)

// Error constructors with context

func NewContractError(contract string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidInput, contract, reason)
}

func NewDirectionError(direction string) error {
	return fmt.Errorf("%w: %q (possible directions are 'right-tailed', 'left-tailed' and 'two-tailed')",
		ErrUnknownDirection, direction)
}

// Error checking helpers

func IsConfigError(err error) bool {
	return errors.Is(err, ErrUnknownDirection) || errors.Is(err, ErrUnknownPolicy)
}

func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrNotSequence) ||
		errors.Is(err, ErrNonNumeric) ||
		errors.Is(err, ErrEmptySequence)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
