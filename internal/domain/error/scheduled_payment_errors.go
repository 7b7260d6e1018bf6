package error

import "errors"

// Scheduled payment domain errors.
var (
	// ErrScheduledPaymentNotFound is returned when a scheduled payment does not exist or is not visible to the user.
	ErrScheduledPaymentNotFound = errors.New("scheduled payment not found")

	// ErrScheduledPaymentCompleted is returned when mutating a payment that was already completed.
	ErrScheduledPaymentCompleted = errors.New("scheduled payment already completed")

	// ErrScheduledPaymentCategoryNotExpense is returned when the chosen category is not an expense category.
	ErrScheduledPaymentCategoryNotExpense = errors.New("scheduled payment category must be an expense category")
)

// ScheduledPaymentErrorCode defines error codes for scheduled payment errors.
// Format: SCH-XXYYYY where XX is category and YYYY is specific error.
type ScheduledPaymentErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeScheduledPaymentNotFound    ScheduledPaymentErrorCode = "SCH-010001"
	ErrCodeInvalidScheduledAmount      ScheduledPaymentErrorCode = "SCH-010002"
	ErrCodeInvalidDueDate              ScheduledPaymentErrorCode = "SCH-010003"
	ErrCodeScheduledCategoryInvalid    ScheduledPaymentErrorCode = "SCH-010004"
	ErrCodeScheduledPaymentCompleted   ScheduledPaymentErrorCode = "SCH-010005"
	ErrCodeMissingScheduledFields      ScheduledPaymentErrorCode = "SCH-010006"
	ErrCodeScheduledCategoryNotExpense ScheduledPaymentErrorCode = "SCH-010007"

	// Internal errors (99XXXX)
	ErrCodeScheduledInternalError ScheduledPaymentErrorCode = "SCH-990001"
)

// ScheduledPaymentError represents a scheduled payment error with code and message.
type ScheduledPaymentError struct {
	Code    ScheduledPaymentErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ScheduledPaymentError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ScheduledPaymentError) Unwrap() error {
	return e.Err
}

// NewScheduledPaymentError creates a new ScheduledPaymentError with the given code and message.
func NewScheduledPaymentError(code ScheduledPaymentErrorCode, message string, err error) *ScheduledPaymentError {
	return &ScheduledPaymentError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
