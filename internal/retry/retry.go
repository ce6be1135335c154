package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/loykin/graphcall/internal/common"
)

// Config holds configuration for Graph request retries
type Config struct {
	MaxRetries      int           // Maximum number of retry attempts
	InitialDelay    time.Duration // Initial delay before first retry
	MaxDelay        time.Duration // Maximum delay between retries
	BackoffFactor   float64       // Multiplier for exponential backoff
	RetryableErrors []string      // Error strings that trigger retries

	// RetryServerErrors also retries responses with a 5xx status.
	RetryServerErrors bool
	// Verbs lists the lowercase verbs that may be retried. Empty means get and delete.
	Verbs             []string
}

// DefaultRetryConfig returns a sensible default retry configuration
func DefaultRetryConfig() *Config {
	return &Config{
		MaxRetries:    3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
		RetryableErrors: []string{
			"connection refused",
			"connection reset",
			"timeout",
			"temporary failure",
			"no such host",
			"unexpected eof",
			"broken pipe",
		},
		RetryServerErrors: true,
	}
}

var defaultVerbs = []string{"get", "delete"}

// retriesVerb reports whether calls with verb may be repeated.
func (rc *Config) retriesVerb(verb string) bool {
	verbs := rc.Verbs
	if len(verbs) == 0 {
		verbs = defaultVerbs
	}
	verb = strings.ToLower(strings.TrimSpace(verb))
	for _, v := range verbs {
		if strings.ToLower(v) == verb {
			return true
		}
	}
	return false
}

// isRetryableError checks if an error should trigger a retry
func (rc *Config) isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	// Check for context cancellation - don't retry these
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var se *statusError
	if errors.As(err, &se) {
		return rc.RetryServerErrors
	}

	errStr := strings.ToLower(err.Error())
	for _, retryableErr := range rc.RetryableErrors {
		if strings.Contains(errStr, retryableErr) {
			return true
		}
	}

	return false
}

// calculateDelay calculates the delay for a given retry attempt using exponential backoff
func (rc *Config) calculateDelay(attempt int) time.Duration {
	if attempt <= 0 {
		return rc.InitialDelay
	}

	delay := time.Duration(float64(rc.InitialDelay) * math.Pow(rc.BackoffFactor, float64(attempt-1)))
	if delay > rc.MaxDelay {
		delay = rc.MaxDelay
	}
	return delay
}

// clamped returns c, or a copy with a negative MaxRetries raised to zero so the
// operation always runs at least once.
func (c *Config) clamped() *Config {
	if c.MaxRetries >= 0 {
		return c
	}
	cp := *c
	cp.MaxRetries = 0
	return &cp
}

// RetryableOperation represents an operation that can be retried
type RetryableOperation func() error

// WithRetry executes operation with retry logic
func WithRetry(ctx context.Context, config *Config, operation RetryableOperation) error {
	if config == nil {
		config = DefaultRetryConfig()
	}
	config = config.clamped()

	logger := common.GetLogger().WithComponent("retry")

	var lastErr error
	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		err := operation()
		if err == nil {
			if attempt > 0 {
				logger.Info("graph request succeeded after retry",
					"attempt", attempt+1,
					"total_attempts", config.MaxRetries+1)
			}
			return nil
		}

		lastErr = err

		// Don't retry on the last attempt
		if attempt == config.MaxRetries {
			break
		}

		if !config.isRetryableError(err) {
			logger.Debug("graph request failed with non-retryable error",
				"error", err,
				"attempt", attempt+1)
			return err
		}

		delay := config.calculateDelay(attempt)
		logger.Warn("graph request failed, retrying",
			"error", err,
			"attempt", attempt+1,
			"max_attempts", config.MaxRetries+1,
			"retry_delay", delay)

		// Wait before retry, but respect context cancellation
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("operation cancelled during retry: %w", ctx.Err())
		case <-timer.C:
		}
	}

	logger.Error("graph request failed after all retry attempts",
		"error", lastErr,
		"attempts", config.MaxRetries+1)

	return fmt.Errorf("operation failed after %d attempts: %w", config.MaxRetries+1, lastErr)
}
