package services

import (
	"errors"
	"strings"
)

// ErrValidation is matched by every *ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError lists every problem found in a save request.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "Validation failed: " + strings.Join(e.Problems, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
