package faults

import "errors"

type ErrorCategory string

const (
	ValidationError     ErrorCategory = "ValidationError"
	NotFoundError       ErrorCategory = "NotFoundError"
	ConflictError       ErrorCategory = "ConflictError"
	AuthError           ErrorCategory = "AuthError"
	TransportError      ErrorCategory = "TransportError"
	RemoteError         ErrorCategory = "RemoteError"
	NotImplementedError ErrorCategory = "NotImplementedError"
	InternalError       ErrorCategory = "InternalError"
)

type TypedError struct {
	Category ErrorCategory
	Message  string
	Code     int
	Cause    error
}

func (e *TypedError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Message != "" && e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return string(e.Category)
}

func (e *TypedError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func NewTypedError(category ErrorCategory, message string, cause error) *TypedError {
	return &TypedError{
		Category: category,
		Message:  message,
		Cause:    cause,
	}
}

func NewRemoteError(code int, message string) *TypedError {
	return &TypedError{
		Category: RemoteError,
		Message:  message,
		Code:     code,
	}
}

func IsCategory(err error, category ErrorCategory) bool {
	if err == nil {
		return false
	}

	var typedErr *TypedError
	if !errors.As(err, &typedErr) {
		return false
	}
	return typedErr.Category == category
}

func RemoteCode(err error) (int, bool) {
	if err == nil {
		return 0, false
	}

	var typedErr *TypedError
	if !errors.As(err, &typedErr) {
		return 0, false
	}
	if typedErr.Code == 0 {
		return 0, false
	}
	return typedErr.Code, true
}
