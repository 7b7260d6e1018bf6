package error

import "errors"

// ErrInvalidInitialBalance is returned when only one of initial balance and start date is provided.
var ErrInvalidInitialBalance = errors.New("initial balance and start date must be set together")

// UserErrorCode defines error codes for profile errors.
// Format: USR-XXYYYY where XX is category and YYYY is specific error.
type UserErrorCode string

const (
	ErrCodeProfileNotFound       UserErrorCode = "USR-010001"
	ErrCodeInvalidBalanceSetting UserErrorCode = "USR-010002"
	ErrCodeUserInternalError     UserErrorCode = "USR-990001"
)

// UserError represents a profile error with code and message.
type UserError struct {
	Code    UserErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *UserError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new UserError with the given code and message.
func NewUserError(code UserErrorCode, message string, err error) *UserError {
	return &UserError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
