package services

import "fmt"

// ValidationError indicates malformed or incomplete input. The order record
// is left untouched and the caller re-renders with the message.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with the given code and message
func NewValidationError(code, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// StateConflictError indicates a transition that violates the current
// stage's preconditions, reported with the current vs expected state.
type StateConflictError struct {
	Code     string
	Current  string
	Expected string
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("state conflict: current %q, expected %q", e.Current, e.Expected)
}

// NewStateConflictError creates a StateConflictError
func NewStateConflictError(code, current, expected string) *StateConflictError {
	return &StateConflictError{Code: code, Current: current, Expected: expected}
}

// NotFoundError indicates a referenced record does not exist
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// NewNotFoundError creates a NotFoundError
func NewNotFoundError(resource string, id interface{}) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: fmt.Sprintf("%v", id)}
}
