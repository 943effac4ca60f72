package llm

import (
	"context"
	"errors"
)

var (
	// ErrRateLimited marks provider throttling (HTTP 429 and equivalents)
	ErrRateLimited = errors.New("rate limited")
	// ErrUnavailable marks transient provider failures (5xx, resets)
	ErrUnavailable = errors.New("provider unavailable")
)

// LLMClient is an interface for invoking LLM models
// This allows mocking in tests without making real API calls
type LLMClient interface {
	InvokeModel(ctx context.Context, request LLMRequest) (*LLMResponse, error)
	InvokeModelWithRetry(ctx context.Context, request LLMRequest) (*LLMResponse, error)
}

// IsRetryable reports whether err is worth another attempt.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrUnavailable)
}
