package cmd

import (
	"errors"
	"fmt"
)

// Exit codes
const (
	ExitSuccess     = 0
	ExitError       = 1 // General error (I/O, invalid input, parse failure)
	ExitUnbound     = 2 // A step matched no definition or several
	ExitNotFound    = 3 // Example or file doesn't exist
	ExitConfigError = 4 // Configuration error
)

// ExitCodeError is an error that carries an exit code.
type ExitCodeError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitCodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitCodeError) Unwrap() error {
	return e.Err
}

func NewExitCodeError(code int, message string) *ExitCodeError {
	return &ExitCodeError{Code: code, Message: message}
}

func WrapExitCodeError(code int, message string, err error) *ExitCodeError {
	return &ExitCodeError{Code: code, Message: message, Err: err}
}

// NotFoundError creates a not found error (exit code 3).
func NotFoundError(format string, args ...any) *ExitCodeError {
	return NewExitCodeError(ExitNotFound, fmt.Sprintf(format, args...))
}

// GetExitCode returns the exit code carried by err, or 1 for any other
// error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitError
}
