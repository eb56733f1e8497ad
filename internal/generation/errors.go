package generation

import (
	"errors"
	"fmt"
)

// UserMessage is the only failure text shown to end users
const UserMessage = "Unable to generate description at this time. Please try again in a few moments."

// TransientError is a failed backend call that may succeed if retried
type TransientError struct {
	Attempt int
	Cause   error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("generation attempt %d failed: %v", e.Attempt, e.Cause)
}

func (e *TransientError) Unwrap() error {
	return e.Cause
}

// TerminalError means no description could be produced: retries were exhausted or
// the failure was not retryable. Error returns the user-facing message; the cause is
// kept for logs.
type TerminalError struct {
	Attempts int
	Cause    error
}

func (e *TerminalError) Error() string {
	return UserMessage
}

func (e *TerminalError) Unwrap() error {
	return e.Cause
}

// Detail returns the underlying failure for logging
func (e *TerminalError) Detail() string {
	if e.Cause == nil {
		return fmt.Sprintf("generation failed after %d attempts", e.Attempts)
	}
	return fmt.Sprintf("generation failed after %d attempts: %v", e.Attempts, e.Cause)
}

// IsTerminal reports whether err is, or wraps, a TerminalError
func IsTerminal(err error) bool {
	var terminal *TerminalError
	return errors.As(err, &terminal)
}
