package errors

import (
	"errors"
	"fmt"
)

// ErrOptimisticLock signals that a row was modified by a concurrent operation
// between read and write; the caller should re-read and retry.
var ErrOptimisticLock = errors.New("record was modified by another operation, refresh and retry")

// InvalidTransitionError rejects a status change that the entity's lifecycle
// does not permit.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s status cannot change from %q to %q", e.Entity, e.From, e.To)
}

// NewInvalidTransition builds an InvalidTransitionError.
func NewInvalidTransition(entity, from, to string) *InvalidTransitionError {
	return &InvalidTransitionError{Entity: entity, From: from, To: to}
}

// IsInvalidTransition reports whether err is an InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var target *InvalidTransitionError
	return errors.As(err, &target)
}
