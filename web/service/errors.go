package service

import "errors"

var (
	// ErrEmailTaken reports a registration against an already used email.
	ErrEmailTaken = errors.New("email is already registered")
	// ErrOpenRequestExists reports a second verification request while one
	// is still open.
	ErrOpenRequestExists = errors.New("an open verification request already exists")
	// ErrInvalidCredentials reports a failed login.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError reports input rejected before persistence.
type ValidationError struct {
	msg string
}

func newValidationError(msg string) *ValidationError {
	return &ValidationError{msg: msg}
}

func (e *ValidationError) Error() string {
	return e.msg
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
