// Package common holds the error, logging and retry helpers shared by
// maglo's commands and services.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Error classes. Wrap these so callers can branch with errors.Is.
var (
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrInvalidInput  = errors.New("invalid input")
)

// Exit codes returned by the maglo binary.
const (
	ExitFailure     = 1
	ExitUsage       = 2
	ExitInterrupted = 130
)

// UserError carries a message written for the person at the terminal.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err == nil {
		return e.UserMessage
	}
	return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
}

func (e *UserError) Unwrap() error { return e.Err }

// NewUserError wraps err behind message.
func NewUserError(message string, err error) error {
	return &UserError{UserMessage: message, Err: err}
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrMissingConfig):
		return ExitUsage
	}
	return ExitFailure
}

// IsRetryable reports whether err is worth another attempt.
func IsRetryable(err error) bool {
	var marked *RetryableError
	if errors.As(err, &marked) {
		return marked.Retryable
	}
	return errors.Is(err, ErrRateLimit) || errors.Is(err, context.DeadlineExceeded)
}
