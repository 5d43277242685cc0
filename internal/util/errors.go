package util

import (
	"errors"
	"fmt"
)

var (
	ErrEmailRegistered = errors.New("email already registered")
	ErrInvalidLogin    = errors.New("invalid credentials")

	// ErrForbidden covers every ownership / role failure: the caller is not
	// the owner of the resource or has the wrong role.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is returned when a referenced question/qcm/result is absent.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidState marks operations that are not applicable to the current
	// state, e.g. unassigning a question that is already a bank item.
	ErrInvalidState = errors.New("operation not applicable in current state")

	// ErrAttemptLimit is returned when a QCM's max_attempts is exhausted.
	ErrAttemptLimit = errors.New("attempt limit reached")
)

// ValidationError reports malformed or out-of-range input (option count,
// correct answer not among options, bad date ordering, wrong payload shape).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func Validationf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
