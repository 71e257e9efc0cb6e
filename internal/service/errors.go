package service

import (
	"errors"
	"fmt"

	"vastusite/internal/repository"
)

var (
	ErrLeadNotFound       = repository.ErrLeadNotFound
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSignatureMismatch  = errors.New("payment signature mismatch")
)

// ValidationError reports a request that is missing or carries malformed
// fields. Its message is safe to return to clients.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
