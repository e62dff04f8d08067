package usecase

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("not allowed to access this resource")
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrEmailTaken         = errors.New("An account with this email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrOrderNotFound      = errors.New("order not found")
)

// ValidationError reports unusable input. Its message is safe to show to
// the user.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation checks if an error is a ValidationError.
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

func emailNotAllowed(domains []string) error {
	return &ValidationError{
		Field:   "email",
		Message: fmt.Sprintf("Only @%s accounts are allowed.", strings.Join(domains, ", @")),
	}
}
