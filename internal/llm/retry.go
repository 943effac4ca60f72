package llm

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"
)

type RetryPolicy struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:   3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     12 * time.Second,
	}
}

// WithRetry calls invoke until it succeeds, returns a non-retryable error,
// the attempts run out or ctx is done.
func WithRetry(ctx context.Context, policy RetryPolicy, invoke func(ctx context.Context) (*LLMResponse, error)) (*LLMResponse, error) {
	attempts := max(policy.MaxRetries, 1)
	var lastErr error

	for attempt := range attempts {
		response, err := invoke(ctx)
		if err == nil {
			return response, nil
		}
		lastErr = err

		if !IsRetryable(err) {
			return nil, fmt.Errorf("non-retryable error: %w", err)
		}
		if attempt == attempts-1 {
			break
		}

		delay := Backoff(attempt, policy.InitialDelay, policy.MaxDelay)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil, fmt.Errorf("max retries %d exceeded: %w", attempts, lastErr)
}

// Backoff returns initialDelay * 2^attempt capped at maxDelay, with +/-20% jitter.
func Backoff(attempt int, initialDelay, maxDelay time.Duration) time.Duration {
	backoff := float64(initialDelay) * math.Pow(2, float64(attempt))

	if backoff > float64(maxDelay) {
		backoff = float64(maxDelay)
	}

	jitter := backoff * 0.2 * (2*rand.Float64() - 1)
	backoff += jitter

	return time.Duration(backoff)
}
