package service

import "errors"

var (
	// ErrDuplicateName is returned when a role category name is already taken.
	ErrDuplicateName = errors.New("duplicate_name")
	// ErrInvalidPassword is returned when the admin password does not match.
	ErrInvalidPassword = errors.New("invalid_password")
	// ErrAuthNotConfigured is returned when no admin password is configured.
	ErrAuthNotConfigured = errors.New("auth_not_configured")
)

// ValidationError is a caller-correctable input problem. Code is the snake_case
// value written to the "error" field of the response.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

func invalid(code, message string) error {
	return &ValidationError{Code: code, Message: message}
}

// AsValidationError unwraps err into a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
