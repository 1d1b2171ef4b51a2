package errors

// ValidationError reports a mutation request that violates a task model
// invariant before it ever reaches persistence.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidation(message string) *ValidationError {
	return &ValidationError{Message: message}
}
