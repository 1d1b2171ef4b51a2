package errors

import "fmt"

type AIErrorKind int

const (
	// AIErrorConfiguration means the enhancement service is unusable as
	// configured (missing or invalid key). Never retried.
	AIErrorConfiguration AIErrorKind = iota
	// AIErrorTransient means the service was busy or unavailable and the
	// call may be retried.
	AIErrorTransient
)

// AIServiceError is surfaced from the AI enhancement collaborator.
type AIServiceError struct {
	Kind AIErrorKind
	Err  error
}

func (e *AIServiceError) Error() string {
	if e.Kind == AIErrorConfiguration {
		return fmt.Sprintf("ai service configuration: %v", e.Err)
	}
	return fmt.Sprintf("ai service unavailable: %v", e.Err)
}

func (e *AIServiceError) Unwrap() error {
	return e.Err
}

func NewAIConfiguration(err error) *AIServiceError {
	return &AIServiceError{Kind: AIErrorConfiguration, Err: err}
}

func NewAITransient(err error) *AIServiceError {
	return &AIServiceError{Kind: AIErrorTransient, Err: err}
}
