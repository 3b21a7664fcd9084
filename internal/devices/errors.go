package devices

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a device does not exist or is soft-deleted.
var ErrNotFound = errors.New("device not found")

// ErrOptimisticLock is returned by a Store when a versioned write loses the
// race against a concurrent writer. Callers may re-fetch and retry.
var ErrOptimisticLock = errors.New("optimistic lock conflict")

// ValidationError reports malformed or out-of-range caller input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func NewValidationError(field string, reason string) ValidationError {
	return ValidationError{Field: field, Reason: reason}
}

// ConflictError reports a write that was rejected because of the device's
// current state. Retryable is true only for optimistic-lock races, where
// re-fetching and resubmitting can succeed; in-use guard violations are
// not races and retrying them verbatim will fail again.
type ConflictError struct {
	Reason    string
	Retryable bool
}

func (e ConflictError) Error() string {
	return e.Reason
}

// UnprocessableError is reserved for semantically invalid state that is not
// covered by a business-rule guard. No current operation raises it.
type UnprocessableError struct {
	Reason string
}

func (e UnprocessableError) Error() string {
	return e.Reason
}
