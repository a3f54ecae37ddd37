package booking

import (
	"context"
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeSlotTaken           ErrorCode = "SLOT_TAKEN"
	CodeValidation          ErrorCode = "VALIDATION_ERROR"
	CodeNoCommonSlot        ErrorCode = "NO_COMMON_SLOT"
	CodeResourceNotFound    ErrorCode = "RESOURCE_NOT_FOUND"
	CodeAppointmentNotFound ErrorCode = "APPOINTMENT_NOT_FOUND"
	CodeInvalidTransition   ErrorCode = "INVALID_TRANSITION"
	CodeCancelled           ErrorCode = "CANCELLED"
	CodeInternal            ErrorCode = "INTERNAL_ERROR"
)

// BookingError is the typed failure returned by every booking operation.
type BookingError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *BookingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BookingError) Unwrap() error {
	return e.Err
}

func newError(code ErrorCode, format string, args ...any) *BookingError {
	return &BookingError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func validationError(format string, args ...any) *BookingError {
	return newError(CodeValidation, format, args...)
}

// CodeOf extracts the error code. Context errors map to CANCELLED; anything untyped is INTERNAL_ERROR.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var be *BookingError
	if errors.As(err, &be) {
		return be.Code
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return CodeCancelled
	}
	return CodeInternal
}

// MessageOf returns the human readable part of a BookingError, or err.Error() otherwise.
func MessageOf(err error) string {
	var be *BookingError
	if errors.As(err, &be) {
		return be.Message
	}
	return err.Error()
}
