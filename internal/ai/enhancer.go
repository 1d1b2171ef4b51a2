package ai

import (
	"context"
	"errors"
	"time"

	"github.com/taskhive/taskhive/internal/constants"
	apperrors "github.com/taskhive/taskhive/internal/errors"
)

// Draft is what the enhancement service derives from a bare title. It
// pre-fills a task draft before creation; it never touches the sync
// core directly.
type Draft struct {
	Description string                 `json:"description"`
	Priority    constants.TaskPriority `json:"priority"`
	Subtasks    []string               `json:"subtasks"`
	Tags        []string               `json:"tags"`
}

// Enhancer turns a task title into a suggested draft. Implementations
// fail with *errors.AIServiceError so callers can tell configuration
// problems (not retryable) from transient ones.
type Enhancer interface {
	Enhance(ctx context.Context, title string) (Draft, error)
}

// EnhancerFunc adapts a function to the Enhancer interface.
type EnhancerFunc func(ctx context.Context, title string) (Draft, error)

func (f EnhancerFunc) Enhance(ctx context.Context, title string) (Draft, error) {
	return f(ctx, title)
}

// Retry wraps an Enhancer with a small fixed retry budget and doubling
// backoff. Transient failures are retried; configuration failures
// surface immediately.
type Retry struct {
	inner    Enhancer
	attempts int
	backoff  time.Duration
}

func NewRetry(inner Enhancer, attempts int, backoff time.Duration) *Retry {
	if attempts < 1 {
		attempts = 1
	}
	return &Retry{inner: inner, attempts: attempts, backoff: backoff}
}

func (r *Retry) Enhance(ctx context.Context, title string) (Draft, error) {
	var lastErr error
	delay := r.backoff

	for attempt := 0; attempt < r.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return Draft{}, ctx.Err()
			}
			delay *= 2
		}

		draft, err := r.inner.Enhance(ctx, title)
		if err == nil {
			return draft, nil
		}

		var aiErr *apperrors.AIServiceError
		if errors.As(err, &aiErr) && aiErr.Kind == apperrors.AIErrorConfiguration {
			return Draft{}, err
		}
		lastErr = err
	}

	return Draft{}, lastErr
}
