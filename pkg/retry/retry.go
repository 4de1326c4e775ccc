package retry

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"
)

// Policy runs fn until it succeeds, the attempts run out or ctx is done.
type Policy interface {
	Execute(ctx context.Context, fn func(context.Context) error) error
}

type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
}

func DefaultConfig() *Config {
	return &Config{
		MaxAttempts: 5,
		BaseDelay:   200 * time.Millisecond,
		MaxDelay:    5 * time.Second,
		Multiplier:  2.0,
	}
}

// ExponentialBackoff doubles (by Multiplier) the wait after each failure.
type ExponentialBackoff struct {
	config    *Config
	retryable func(error) bool
}

func NewExponentialBackoff(config *Config) *ExponentialBackoff {
	if config == nil {
		config = DefaultConfig()
	}
	return &ExponentialBackoff{config: config, retryable: IsTransient}
}

// WithRetryable replaces the transient error classifier.
func (eb *ExponentialBackoff) WithRetryable(fn func(error) bool) *ExponentialBackoff {
	eb.retryable = fn
	return eb
}

func (eb *ExponentialBackoff) Execute(ctx context.Context, fn func(context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= eb.config.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == eb.config.MaxAttempts || !eb.retryable(err) {
			break
		}

		timer := time.NewTimer(eb.delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	if !eb.retryable(lastErr) {
		return lastErr
	}

	return &MaxRetriesExceededError{LastError: lastErr, MaxAttempts: eb.config.MaxAttempts}
}

func (eb *ExponentialBackoff) delay(attempt int) time.Duration {
	d := float64(eb.config.BaseDelay) * math.Pow(eb.config.Multiplier, float64(attempt-1))
	if d > float64(eb.config.MaxDelay) {
		d = float64(eb.config.MaxDelay)
	}
	return time.Duration(d)
}

var transientPatterns = []string{
	"connection refused",
	"connection reset",
	"timeout",
	"temporary failure",
	"no such host",
	"the database system is starting up",
}

// IsTransient reports whether err looks like a dependency that is still
// coming up rather than a misconfiguration.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range transientPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

type MaxRetriesExceededError struct {
	LastError   error
	MaxAttempts int
}

func (e *MaxRetriesExceededError) Error() string {
	return "max retries exceeded: " + e.LastError.Error()
}

func (e *MaxRetriesExceededError) Unwrap() error {
	return e.LastError
}

func IsMaxRetriesExceeded(err error) bool {
	var maxRetriesErr *MaxRetriesExceededError
	return errors.As(err, &maxRetriesErr)
}
