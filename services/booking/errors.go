package booking

import (
	"errors"
	"fmt"
)

// FlowError is a typed booking-flow error carrying a stable code so the HTTP
// layer can map it to a status without string matching.
type FlowError struct {
	Code    string
	Message string
}

func (e *FlowError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

const (
	CodeSessionNotFound = "sessionNotFound"
	CodeGuard           = "guardViolation"
	CodeSlot            = "slotUnavailable"
	CodeInvalidInput    = "invalidInput"
	CodeSubmit          = "submitFailed"
)

func NewSessionNotFoundError(msg string) error {
	return &FlowError{Code: CodeSessionNotFound, Message: msg}
}

func NewGuardError(msg string) error {
	return &FlowError{Code: CodeGuard, Message: msg}
}

func NewSlotError(msg string) error {
	return &FlowError{Code: CodeSlot, Message: msg}
}

func NewInvalidInputError(msg string) error {
	return &FlowError{Code: CodeInvalidInput, Message: msg}
}

func NewSubmitError(msg string) error {
	return &FlowError{Code: CodeSubmit, Message: msg}
}

// ErrorCode returns the flow error code, or "" for untyped errors.
func ErrorCode(err error) string {
	var fe *FlowError
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ""
}
