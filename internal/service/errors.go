package service

import (
	"errors"
	"fmt"
)

// Errors shared by every service. Handlers map them onto status codes.
var (
	ErrBackendNotConfigured = errors.New("no backend configured")
	ErrValidation           = errors.New("validation failed")
	ErrConfirmationRequired = errors.New("confirmation required")
)

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
