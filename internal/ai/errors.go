package ai

import (
	"errors"
	"fmt"
)

// Error codes for generation failures
const (
	CodePrecondition = "PRECONDITION"
	CodeTransport    = "TRANSPORT"
)

// CodedError is a generation failure the caller can classify
type CodedError struct {
	Code    string
	Message string
	Err     error
}

func (e *CodedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CodedError) Unwrap() error { return e.Err }

// CodeOf returns the code of a CodedError in err's chain, or ""
func CodeOf(err error) string {
	var ce *CodedError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}

const transportMessage = "Failed to connect to the model API. Check your network connection and API key."

func preconditionError(msg string) error {
	return &CodedError{Code: CodePrecondition, Message: msg}
}

func transportError(err error) error {
	return &CodedError{Code: CodeTransport, Message: transportMessage, Err: err}
}
