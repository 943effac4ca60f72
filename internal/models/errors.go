package models

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateCase is matched by every DuplicateCaseError
	ErrDuplicateCase = errors.New("duplicate test case")
	// ErrMalformedSpec indicates a spec that cannot be attached to a test case
	ErrMalformedSpec = errors.New("malformed spec")
)

type DuplicateCaseError struct {
	ID string
}

func (e *DuplicateCaseError) Error() string {
	return fmt.Sprintf("test case %q is already registered", e.ID)
}

func (e *DuplicateCaseError) Is(target error) bool {
	return target == ErrDuplicateCase
}
