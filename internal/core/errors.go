package core

import "fmt"

// ErrorCategory classifies errors for handling decisions.
type ErrorCategory string

const (
	ErrCatNetwork    ErrorCategory = "network"    // Service unreachable or bad response
	ErrCatAuth       ErrorCategory = "auth"       // Session/credential failure
	ErrCatAgent      ErrorCategory = "agent"      // Agent invocation failure
	ErrCatValidation ErrorCategory = "validation" // Invalid configuration
)

// DomainError is a categorized error from the domain layer. Every
// failure of an external collaborator is wrapped into one of these
// before it reaches the controller, which converts it into a
// non-blocking user notification and keeps its last good state.
type DomainError struct {
	Category ErrorCategory
	Message  string
	Cause    error
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Category, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Category, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches on category and message so sentinel comparisons work
// through errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Category == t.Category && e.Message == t.Message
}

// NewDomainError builds a DomainError wrapping cause (which may be nil).
func NewDomainError(cat ErrorCategory, msg string, cause error) *DomainError {
	return &DomainError{Category: cat, Message: msg, Cause: cause}
}
