package helpers

import (
	"context"
	"fmt"
	"time"

	"sjsage522/carcrawler/logger"
	apperrors "sjsage522/carcrawler/pkg/errors"
)

// RetryConfig holds the parameters for the retry strategy
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// Retry runs fn until it succeeds, returns a non-retryable error, or
// MaxAttempts is reached. The delay doubles after each failed attempt.
func Retry(ctx context.Context, cfg RetryConfig, operation string, fn func() error) error {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	delay := cfg.BaseDelay

	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !apperrors.IsRetryable(lastErr) {
			return lastErr
		}

		if attempt < attempts {
			logger.Debug("%s failed (attempt %d/%d): %v, retrying in %v",
				operation, attempt, attempts, lastErr, delay)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operation, attempts, lastErr)
}
