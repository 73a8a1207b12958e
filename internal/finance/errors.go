package finance

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is matched by every ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrRuleNotFound is returned when materializing a recurring rule that does not exist.
	ErrRuleNotFound = errors.New("recurring rule not found")

	// ErrNotDue is returned when materializing a rule before its trigger date
	// or a second time in the same cycle.
	ErrNotDue = errors.New("recurring rule is not due")
)

// ValidationError describes a rejected field on a new or updated record.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Is lets errors.Is(err, ErrValidation) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
